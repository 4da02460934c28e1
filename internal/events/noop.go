package events

import "context"

// NoopPublisher drops events. Used when no broker is configured.
type NoopPublisher struct{}

func (NoopPublisher) PublishOrderPlaced(ctx context.Context, ev OrderPlaced) error {
	return nil
}

func (NoopPublisher) PublishBookingConfirmed(ctx context.Context, ev BookingConfirmed) error {
	return nil
}
