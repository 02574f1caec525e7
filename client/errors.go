package client

import (
	"context"
	"errors"
)

var (
	// ErrTimeout means no confirmation arrived in time. The collector may
	// still have stored the record.
	ErrTimeout = errors.New("no confirmation from collector, delivery status unknown")
	// ErrRejected means the collector answered with an error result
	ErrRejected = errors.New("collector rejected the submission")
	// ErrFrameLoad means the nested context could not be opened
	ErrFrameLoad = errors.New("failed to load collector frame")
	// ErrDelivery means the record could not be handed to the frame
	ErrDelivery = errors.New("failed to deliver record to collector frame")
	// ErrSubmitInFlight means another submission is still running on the transport
	ErrSubmitInFlight = errors.New("a submission is already in progress")
	// ErrFrameClosed is returned by Post after Close
	ErrFrameClosed = errors.New("frame closed")
	// ErrQuery covers an unreachable collector and malformed statistics
	ErrQuery = errors.New("statistics query failed")
	// ErrNoTrustedOrigins is returned when the allow-list is empty
	ErrNoTrustedOrigins = errors.New("no trusted origins configured")
)

// IsDeliveryUnknown reports whether err leaves open if the collector stored
// the record, as opposed to a confirmed failure.
func IsDeliveryUnknown(err error) bool {
	return errors.Is(err, ErrTimeout) || errors.Is(err, context.Canceled)
}
