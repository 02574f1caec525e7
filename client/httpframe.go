package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"

	"go-away-stress/model"
	"go-away-stress/utils"

	"github.com/rs/zerolog/log"
)

const maxFrameBody = 1 << 20

// HTTPFrameOpener opens frames over plain HTTP for callers without a
// browser. A bridge frame announces readiness once its page loads and
// forwards posted records to AppendURL; a form frame relays the reply of
// its POST.
type HTTPFrameOpener struct {
	Client    *http.Client
	AppendURL string
}

// NewHTTPFrameOpener returns an opener using client (http.DefaultClient when nil)
func NewHTTPFrameOpener(client *http.Client, appendURL string) *HTTPFrameOpener {
	if client == nil {
		client = http.DefaultClient
	}
	return &HTTPFrameOpener{Client: client, AppendURL: appendURL}
}

func (o *HTTPFrameOpener) Open(ctx context.Context, req FrameRequest) (Frame, error) {
	var body io.Reader
	method := req.Method
	if method == "" {
		method = http.MethodGet
	}
	if method == http.MethodPost {
		body = strings.NewReader(req.Form.Encode())
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, req.URL, body)
	if err != nil {
		return nil, err
	}
	if body != nil {
		httpReq.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}

	resp, err := o.Client.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	page, err := io.ReadAll(io.LimitReader(resp.Body, maxFrameBody))
	if err != nil {
		return nil, err
	}

	// Redirects move the frame, so its origin is where the page came from
	u := resp.Request.URL
	f := &httpFrame{
		client:    o.Client,
		appendURL: o.AppendURL,
		origin:    utils.OriginOf(u),
		messages:  make(chan Message, 4),
		done:      make(chan struct{}),
	}

	if method == http.MethodPost {
		// The page's only job is to post this result to the parent
		result, ok := decodeResult(page)
		if !ok {
			return nil, fmt.Errorf("frame returned status %d without a result", resp.StatusCode)
		}
		f.emit(result)
		return f, nil
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("frame returned status %d", resp.StatusCode)
	}
	ready, _ := json.Marshal(model.BridgeMessage{Type: model.MessageTypeReady})
	f.emit(ready)
	return f, nil
}

// decodeResult accepts a JSON result body or a result page wrapping one
func decodeResult(page []byte) (json.RawMessage, bool) {
	var bm model.BridgeMessage
	if err := json.Unmarshal(page, &bm); err == nil && bm.IsResult() {
		return json.RawMessage(page), true
	}

	// Result pages carry the object as the first argument of postMessage
	const call = "postMessage("
	i := bytes.Index(page, []byte(call))
	if i < 0 {
		return nil, false
	}
	dec := json.NewDecoder(bytes.NewReader(page[i+len(call):]))
	var raw json.RawMessage
	if err := dec.Decode(&raw); err != nil {
		return nil, false
	}
	if err := json.Unmarshal(raw, &bm); err != nil || !bm.IsResult() {
		return nil, false
	}
	return raw, true
}

type httpFrame struct {
	client    *http.Client
	appendURL string
	origin    string
	messages  chan Message
	done      chan struct{}
	closeOnce sync.Once
}

func (f *httpFrame) Messages() <-chan Message {
	return f.messages
}

// Post forwards data to the append endpoint the way the bridge script does
// and relays the reply. A target origin other than the frame's drops the
// data silently, like a browser.
func (f *httpFrame) Post(ctx context.Context, data []byte, targetOrigin string) error {
	select {
	case <-f.done:
		return ErrFrameClosed
	default:
	}

	if targetOrigin != "*" && !strings.EqualFold(targetOrigin, f.origin) {
		log.Debug().Str("target", targetOrigin).Str("frame", f.origin).Msg("Target origin mismatch, message dropped")
		return nil
	}

	body := append([]byte(nil), data...)
	go func() {
		f.emit(f.forward(ctx, body))
	}()
	return nil
}

func (f *httpFrame) forward(ctx context.Context, data []byte) json.RawMessage {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, f.appendURL, bytes.NewReader(data))
	if err != nil {
		return errorResult(err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := f.client.Do(req)
	if err != nil {
		return errorResult(err)
	}
	defer resp.Body.Close()

	reply, err := io.ReadAll(io.LimitReader(resp.Body, maxFrameBody))
	if err != nil {
		return errorResult(err)
	}
	if !json.Valid(reply) {
		return errorResult(fmt.Errorf("collector returned status %d with a non-JSON body", resp.StatusCode))
	}
	return json.RawMessage(reply)
}

func errorResult(err error) json.RawMessage {
	data, _ := json.Marshal(model.SubmitResult{Outcome: model.OutcomeError, Message: err.Error()})
	return data
}

func (f *httpFrame) emit(data json.RawMessage) {
	select {
	case f.messages <- Message{Origin: f.origin, Data: data}:
	case <-f.done:
	}
}

// Close stops the frame. The messages channel is left open so late
// forwards never send on a closed channel.
func (f *httpFrame) Close() error {
	f.closeOnce.Do(func() { close(f.done) })
	return nil
}
