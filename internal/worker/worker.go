package worker

import (
	"context"
	"log"

	"storefront-service/internal/broker"
	"storefront-service/internal/models"
	"storefront-service/internal/util"

	"go.uber.org/zap"
)

// NotificationWorker consumes checkout events and sends confirmation
// emails. Delivery is best effort: a failed send is logged and the message
// is committed regardless, so it never affects the committed order.
type NotificationWorker struct {
	consumer     *broker.Consumer
	eventHandler *broker.EventHandler
	mailer       *Mailer
	logger       *zap.Logger
}

// NewNotificationWorker creates a new notification worker
func NewNotificationWorker(consumer *broker.Consumer, mailer *Mailer) *NotificationWorker {
	w := &NotificationWorker{
		consumer: consumer,
		mailer:   mailer,
		logger:   util.GetLogger(),
	}

	eventHandler := broker.NewEventHandler()
	eventHandler.OnCheckoutCompleted(w.handleCheckoutCompleted)
	eventHandler.OnOrderStatusChanged(w.handleOrderStatusChanged)
	w.eventHandler = eventHandler

	return w
}

// Start starts the worker
func (w *NotificationWorker) Start(ctx context.Context) error {
	log.Println("Starting notification worker...")
	return w.consumer.StartConsuming(ctx, w.eventHandler.HandleMessage)
}

// Stop stops the worker
func (w *NotificationWorker) Stop() error {
	log.Println("Stopping notification worker...")
	return w.consumer.Close()
}

func (w *NotificationWorker) handleCheckoutCompleted(ctx context.Context, event *models.CheckoutCompletedEvent) error {
	if err := w.mailer.SendCheckoutEmail(ctx, event); err != nil {
		util.NotificationsFailedTotal.Inc()
		w.logger.Error("Failed to send checkout email",
			zap.String("order_id", event.OrderID.String()),
			zap.String("email", event.UserEmail),
			zap.Error(err))
		// swallow: best effort
		return nil
	}

	util.NotificationsSentTotal.Inc()
	return nil
}

func (w *NotificationWorker) handleOrderStatusChanged(ctx context.Context, event *models.OrderStatusChangedEvent) error {
	w.logger.Info("Order status changed",
		zap.String("order_id", event.OrderID.String()),
		zap.String("status", event.Status))
	return nil
}
