package services

import (
	"context"

	"github.com/yeremiapane/restaurant-ops/kds"
	"github.com/yeremiapane/restaurant-ops/utils"
)

// routingKeys maps kitchen display events to broker routing keys.
var routingKeys = map[string]string{
	kds.EventOrderPlaced:         "order.placed",
	kds.EventOrderReady:          "order.ready",
	kds.EventOrderPaid:           "order.paid",
	kds.EventTableUpdate:         "table.updated",
	kds.EventReservationBooked:   "reservation.booked",
	kds.EventReservationCanceled: "reservation.cancelled",
}

// Notifier fans a committed change out to the kitchen display and the event
// broker. A nil Notifier does nothing, and delivery failures are only logged.
type Notifier struct {
	hub       *kds.Hub
	publisher Publisher
}

func NewNotifier(hub *kds.Hub, publisher Publisher) *Notifier {
	if publisher == nil {
		publisher = NoopPublisher{}
	}
	return &Notifier{hub: hub, publisher: publisher}
}

func (n *Notifier) Notify(ctx context.Context, event string, data interface{}) {
	if n == nil {
		return
	}
	if n.hub != nil {
		n.hub.Broadcast(kds.Message{Event: event, Data: data})
	}

	key, ok := routingKeys[event]
	if !ok {
		key = event
	}
	// Detached from request cancellation: the change is already committed.
	if err := n.publisher.Publish(context.WithoutCancel(ctx), key, kds.Message{Event: event, Data: data}); err != nil {
		utils.ErrorLogger.WithField("event", event).Errorf("failed to publish event: %v", err)
	}
}
