package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"sync"
	"sync/atomic"
	"time"

	"go-away-stress/config"
	"go-away-stress/model"
	"go-away-stress/utils"

	"github.com/rs/zerolog/log"
)

// Strategy selects how a record reaches the collector frame
type Strategy string

const (
	// StrategyHandshake waits for the frame's ready signal before posting
	StrategyHandshake Strategy = "handshake"
	// StrategyForm posts a hidden form into the frame and only waits for the
	// result. Nothing guarantees the frame listens yet, so it is a fallback.
	StrategyForm Strategy = "form"
)

const (
	DefaultTimeout = 10 * time.Second
	formField      = "payload"
)

// TransportConfig parameterizes a Transport
type TransportConfig struct {
	URL            string
	Strategy       Strategy
	Timeout        time.Duration
	TrustedOrigins []string
	TargetOrigin   string // Target origin for posting the record, "*" for any
}

// TransportConfigFrom maps the transport config section
func TransportConfigFrom(cfg config.TransportConfig) TransportConfig {
	return TransportConfig{
		URL:            cfg.URL,
		Strategy:       Strategy(cfg.Strategy),
		Timeout:        time.Duration(cfg.TimeoutSeconds) * time.Second,
		TrustedOrigins: cfg.TrustedOrigins,
		TargetOrigin:   cfg.TargetOrigin,
	}
}

// Transport submits records to the collector through a nested frame. It
// runs at most one submission at a time.
type Transport struct {
	cfg      TransportConfig
	opener   FrameOpener
	origins  *OriginMatcher
	busy     atomic.Bool
	detached sync.WaitGroup
}

// NewTransport validates cfg and returns a transport using opener
func NewTransport(cfg TransportConfig, opener FrameOpener) (*Transport, error) {
	if err := utils.ValidateURL(cfg.URL); err != nil {
		return nil, fmt.Errorf("transport url: %w", err)
	}
	switch cfg.Strategy {
	case "":
		cfg.Strategy = StrategyHandshake
	case StrategyHandshake, StrategyForm:
	default:
		return nil, fmt.Errorf("unknown transport strategy %q", cfg.Strategy)
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.TargetOrigin == "" {
		cfg.TargetOrigin = "*"
	}

	origins, err := NewOriginMatcher(cfg.TrustedOrigins)
	if err != nil {
		return nil, err
	}

	return &Transport{cfg: cfg, opener: opener, origins: origins}, nil
}

// Submit sends rec and waits for the collector's verdict. A rejected
// submission returns the error result together with ErrRejected; ErrTimeout
// leaves the delivery status unknown.
func (t *Transport) Submit(ctx context.Context, rec model.Record) (model.SubmitResult, error) {
	if !t.busy.CompareAndSwap(false, true) {
		return model.SubmitResult{}, ErrSubmitInFlight
	}
	defer t.busy.Store(false)

	payload, err := json.Marshal(rec)
	if err != nil {
		return model.SubmitResult{}, fmt.Errorf("%w: %v", ErrDelivery, err)
	}

	start := time.Now()
	ctx, cancel := context.WithTimeout(ctx, t.cfg.Timeout)
	defer cancel()

	frame, err := t.opener.Open(ctx, t.frameRequest(payload))
	if err != nil {
		if ctx.Err() != nil {
			return model.SubmitResult{}, expired(ctx, start)
		}
		return model.SubmitResult{}, fmt.Errorf("%w: %v", ErrFrameLoad, err)
	}
	release := releaseOnce(frame)
	defer release()

	return t.await(ctx, frame, payload, start)
}

func (t *Transport) frameRequest(payload []byte) FrameRequest {
	if t.cfg.Strategy == StrategyForm {
		return FrameRequest{
			URL:    t.cfg.URL,
			Method: http.MethodPost,
			Form:   url.Values{formField: {string(payload)}, "delivery": {"message"}},
		}
	}
	return FrameRequest{URL: t.cfg.URL, Method: http.MethodGet}
}

// await consumes frame messages until a trusted result arrives or ctx ends
func (t *Transport) await(ctx context.Context, frame Frame, payload []byte, start time.Time) (model.SubmitResult, error) {
	posted := t.cfg.Strategy == StrategyForm
	messages := frame.Messages()

	for {
		select {
		case <-ctx.Done():
			return model.SubmitResult{}, expired(ctx, start)

		case msg, ok := <-messages:
			if !ok {
				// The frame went quiet; only the deadline can end the wait now
				messages = nil
				continue
			}
			if !t.origins.Allow(msg.Origin) {
				log.Debug().Str("origin", msg.Origin).Msg("Ignoring message from untrusted origin")
				continue
			}

			var bm model.BridgeMessage
			if err := json.Unmarshal(msg.Data, &bm); err != nil {
				log.Debug().Err(err).Str("origin", msg.Origin).Msg("Ignoring undecodable message")
				continue
			}

			switch {
			case bm.IsResult() && !posted:
				log.Debug().Str("origin", msg.Origin).Msg("Ignoring result received before the record was posted")

			case bm.IsResult():
				result := model.SubmitResult{Outcome: bm.Outcome, Message: bm.Message}
				if result.Outcome == model.OutcomeSuccess {
					return result, nil
				}
				return result, fmt.Errorf("%w: %s", ErrRejected, result.Message)

			case bm.IsReady() && !posted:
				if err := frame.Post(ctx, payload, t.cfg.TargetOrigin); err != nil {
					if ctx.Err() != nil {
						return model.SubmitResult{}, expired(ctx, start)
					}
					return model.SubmitResult{}, fmt.Errorf("%w: %v", ErrDelivery, err)
				}
				posted = true
				log.Debug().Str("origin", msg.Origin).Msg("Frame ready, record posted")
			}
		}
	}
}

// expired reports the time actually waited, since a caller deadline may
// fire before the transport's own
func expired(ctx context.Context, start time.Time) error {
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return fmt.Errorf("%w (waited %s)", ErrTimeout, time.Since(start).Round(time.Millisecond))
	}
	return fmt.Errorf("submission abandoned: %w", ctx.Err())
}

// SubmitDetached submits rec in the background. The outcome is logged and
// never returned; Wait blocks until detached submissions finish.
func (t *Transport) SubmitDetached(rec model.Record) {
	t.detached.Add(1)
	go func() {
		defer t.detached.Done()

		result, err := t.Submit(context.Background(), rec)
		switch {
		case err == nil:
			log.Info().Msg("Detached submission confirmed")
		case IsDeliveryUnknown(err):
			log.Warn().Err(err).Msg("Detached submission unconfirmed")
		default:
			log.Error().Err(err).Str("message", result.Message).Msg("Detached submission failed")
		}
	}()
}

// Wait blocks until every detached submission has finished
func (t *Transport) Wait() {
	t.detached.Wait()
}
