package events

import (
	"context"

	"rentals/pkg/kafka"
	"rentals/pkg/logger"
)

// NewBookingCreatedHandler returns the notifier's message handler. Unknown
// event types are skipped, malformed payloads fail permanently.
func NewBookingCreatedHandler(log *logger.Logger) kafka.MessageHandler {
	return func(ctx context.Context, msg kafka.Message) error {
		if eventType := msg.GetEventType(); eventType != EventBookingCreated {
			log.Debug("Skipping event", "event_type", eventType, "event_id", msg.GetEventID())
			return nil
		}

		var event BookingCreated
		if err := msg.DecodeValue(&event); err != nil {
			return err
		}
		if event.BookingID == "" {
			return kafka.NewPermanentError("booking.created without booking_id", nil)
		}

		log.Info("Booking confirmed",
			"booking_id", event.BookingID,
			"requester_id", event.RequesterID,
			"vehicle_id", event.VehicleID,
			"start_date", event.StartDate,
			"end_date", event.EndDate,
			"event_id", msg.GetEventID(),
			"correlation_id", msg.GetCorrelationID(),
		)
		return nil
	}
}
