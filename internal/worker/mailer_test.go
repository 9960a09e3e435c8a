package worker

import (
	"context"
	"testing"
	"time"

	"storefront-service/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestSendCheckoutEmail(t *testing.T) {
	mailer := NewMailer()

	event := &models.CheckoutCompletedEvent{
		BaseEvent: models.BaseEvent{
			EventID:   uuid.New().String(),
			EventType: models.EventTypeCheckoutCompleted,
			Timestamp: time.Now(),
		},
		OrderID:        uuid.New(),
		UserName:       "Budi",
		UserEmail:      "budi@example.com",
		Address:        "Jl. Sudirman 1",
		ShippingMethod: "Regular",
		ShippingPrice:  15000,
		ItemTotal:      100000,
		GrandTotal:     115000,
		Lines: []models.CheckoutLine{
			{Title: "Air Jordan 1", Size: "42", Quantity: 1, UnitPrice: 100000},
		},
	}

	assert.NoError(t, mailer.SendCheckoutEmail(context.Background(), event))
}
