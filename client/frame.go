package client

import (
	"context"
	"encoding/json"
	"net/url"
	"sync"
)

// Message is one message a nested context posts to its parent, with the
// origin the sender claims.
type Message struct {
	Origin string
	Data   json.RawMessage
}

// FrameRequest describes how a nested context is opened: a plain GET of the
// bridge page, or a form POST straight into the frame.
type FrameRequest struct {
	URL    string
	Method string
	Form   url.Values
}

// Frame is an isolated nested context pointed at the collector
type Frame interface {
	// Messages delivers what the frame posts to its parent
	Messages() <-chan Message
	// Post hands data to the frame's own script
	Post(ctx context.Context, data []byte, targetOrigin string) error
	// Close removes the frame; calling it more than once is safe
	Close() error
}

// FrameOpener creates frames
type FrameOpener interface {
	Open(ctx context.Context, req FrameRequest) (Frame, error)
}

// releaseOnce wraps Close so every exit path can call it
func releaseOnce(f Frame) func() {
	var once sync.Once
	return func() {
		once.Do(func() { f.Close() })
	}
}
