package worker

import (
	"bytes"
	"context"
	"text/template"

	"storefront-service/internal/models"
	"storefront-service/internal/util"

	"go.uber.org/zap"
)

const checkoutEmailTemplate = `Hi {{.UserName}},

Thank you for your order {{.OrderID}}!

{{range .Lines}}  {{.Quantity}}x {{.Title}} (size {{.Size}}) - {{.UnitPrice}}
{{end}}
Item total:     {{.ItemTotal}}
Shipping ({{.ShippingMethod}}): {{.ShippingPrice}}
Grand total:    {{.GrandTotal}}

Your order will be delivered to:
{{.Address}}
`

// Mailer renders and "delivers" checkout confirmation emails. Delivery is
// an in-process mock that logs the rendered message; a real SMTP provider
// sits behind the same surface in production.
type Mailer struct {
	tmpl   *template.Template
	logger *zap.Logger
}

// NewMailer creates a new mailer
func NewMailer() *Mailer {
	return &Mailer{
		tmpl:   template.Must(template.New("checkout_email").Parse(checkoutEmailTemplate)),
		logger: util.GetLogger(),
	}
}

// SendCheckoutEmail renders and delivers the confirmation email
func (m *Mailer) SendCheckoutEmail(ctx context.Context, event *models.CheckoutCompletedEvent) error {
	var body bytes.Buffer
	if err := m.tmpl.Execute(&body, event); err != nil {
		return err
	}

	m.logger.Info("Checkout email sent",
		zap.String("to", event.UserEmail),
		zap.String("order_id", event.OrderID.String()),
		zap.Int("body_bytes", body.Len()))
	return nil
}
