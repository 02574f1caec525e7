package handler

import (
	"context"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"io"
	"mime"
	"net/http"
	"time"

	"go-away-stress/cache"
	"go-away-stress/collector"
	"go-away-stress/config"
	"go-away-stress/model"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog/log"
	httpSwagger "github.com/swaggo/http-swagger"
)

const (
	actionGetStats  = "getStats"
	payloadField    = "payload"
	deliveryField   = "delivery"
	deliveryMessage = "message"
	maxBodyBytes    = 64 << 10
	execPath        = "/exec"
)

//go:embed templates/*.html
var templateFS embed.FS

var ErrInvalidPayload = errors.New("invalid payload")

// CollectorHandler serves the collector endpoints
type CollectorHandler struct {
	collector *collector.Collector
	limiters  *cache.Cache
	config    config.Config
	templates *template.Template
}

// NewCollectorHandler creates a new collector handler. limiters may be nil
// when caching is disabled.
func NewCollectorHandler(c *collector.Collector, limiters *cache.Cache, cfg config.Config) *CollectorHandler {
	return &CollectorHandler{
		collector: c,
		limiters:  limiters,
		config:    cfg,
		templates: template.Must(template.ParseFS(templateFS, "templates/*.html")),
	}
}

// Register adds the collector routes to r
func (h *CollectorHandler) Register(r *mux.Router) {
	// mux runs middleware only for matched routes, so preflights need a route
	// of their own to reach CORS
	r.Methods(http.MethodOptions).HandlerFunc(h.Preflight)
	r.HandleFunc("/health", h.HealthCheck).Methods("GET")
	r.HandleFunc("/cache/metrics", h.CacheMetrics).Methods("GET")
	r.HandleFunc(execPath, h.Exec).Methods("GET")
	r.HandleFunc(execPath, h.Append).Methods("POST")
	r.HandleFunc("/bridge", h.Bridge).Methods("GET")
	r.HandleFunc("/qr", h.GenerateQR).Methods("GET")

	// Swagger UI, served from the registered docs package
	r.PathPrefix("/swagger/").Handler(httpSwagger.WrapHandler)
}

// Preflight answers OPTIONS requests that the CORS middleware did not
func (h *CollectorHandler) Preflight(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusNoContent)
}

func (h *CollectorHandler) operationTimeout() time.Duration {
	if h.config.Redis.OperationTimeout > 0 {
		return time.Duration(h.config.Redis.OperationTimeout) * time.Second
	}
	return 5 * time.Second
}

// Exec handles GET /exec?action=...
// @Summary Query the collector
// @Description With action=getStats, returns statistics recomputed from every stored row. A missing or unknown action returns a model.UsageResponse hint with status 200.
// @Tags Collector
// @Produce json
// @Param action query string false "Action to run" Enums(getStats)
// @Success 200 {object} model.AggregateStats "Statistics, or a usage hint when no known action is given"
// @Failure 500 {object} model.ErrorResponse "Row store unavailable"
// @Router /exec [get]
func (h *CollectorHandler) Exec(w http.ResponseWriter, r *http.Request) {
	switch r.URL.Query().Get("action") {
	case actionGetStats:
		h.GetStats(w, r)
	default:
		SendJSON(w, http.StatusOK, model.UsageResponse{
			Usage:   "GET ?action=getStats for statistics; POST a record as a JSON body or as form field 'payload'",
			Actions: []string{actionGetStats},
		})
	}
}

// GetStats handles GET /exec?action=getStats. It is documented with Exec,
// which routes to it.
func (h *CollectorHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.operationTimeout())
	defer cancel()

	stats, err := h.collector.Aggregate(ctx)
	if err != nil {
		SendJSONError(w, http.StatusInternalServerError, err, "Failed to compute statistics")
		return
	}

	SendJSON(w, http.StatusOK, stats)
}

// Append handles POST /exec. The record is either the JSON body or a JSON
// string in the "payload" form field.
// @Summary Append a survey response
// @Description Stores one response as a new row. The record is sent as a JSON body, or form-encoded as a JSON string in the "payload" field. With delivery=message, the reply is an HTML page that posts the result object to its parent window.
// @Tags Collector
// @Accept json,x-www-form-urlencoded
// @Produce json,html
// @Param request body model.Record true "Survey response"
// @Param delivery query string false "Reply as a message page" Enums(message)
// @Success 200 {object} model.SubmitResult "Stored, result is success"
// @Failure 400 {object} model.SubmitResult "Payload could not be decoded"
// @Failure 429 {string} string "Rate limit exceeded"
// @Failure 500 {object} model.SubmitResult "Row store unavailable"
// @Router /exec [post]
func (h *CollectorHandler) Append(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.operationTimeout())
	defer cancel()

	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	rec, asMessage, err := decodeRecord(r)
	if err != nil {
		log.Warn().Err(err).Str("content_type", r.Header.Get("Content-Type")).Msg("Rejected undecodable record")
		h.sendResult(w, http.StatusBadRequest, model.SubmitResult{
			Outcome: model.OutcomeError,
			Message: err.Error(),
		}, asMessage)
		return
	}

	if _, err := h.collector.Append(ctx, rec.Normalize()); err != nil {
		h.sendResult(w, http.StatusInternalServerError, model.SubmitResult{
			Outcome: model.OutcomeError,
			Message: "failed to store the response",
		}, asMessage)
		return
	}

	h.sendResult(w, http.StatusOK, model.SubmitResult{Outcome: model.OutcomeSuccess}, asMessage)
}

// decodeRecord reads the record and whether the reply should be delivered
// as a message to the parent context.
func decodeRecord(r *http.Request) (model.Record, bool, error) {
	var rec model.Record
	asMessage := r.URL.Query().Get(deliveryField) == deliveryMessage

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "application/json" {
		body, err := io.ReadAll(r.Body)
		if err != nil {
			return rec, asMessage, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
		}
		if err := json.Unmarshal(body, &rec); err != nil {
			return rec, asMessage, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
		}
		return rec, asMessage, nil
	}

	if err := r.ParseForm(); err != nil {
		return rec, asMessage, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}
	if r.PostForm.Get(deliveryField) == deliveryMessage {
		asMessage = true
	}

	payload := r.PostForm.Get(payloadField)
	if payload == "" {
		return rec, asMessage, fmt.Errorf("%w: missing %s field", ErrInvalidPayload, payloadField)
	}
	if err := json.Unmarshal([]byte(payload), &rec); err != nil {
		return rec, asMessage, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}
	return rec, asMessage, nil
}

// HealthCheck handles GET /health
// @Summary Health check
// @Description Pings the row store and reports how many rows it holds
// @Tags System
// @Produce json
// @Success 200 {object} model.HealthResponse "Service is healthy"
// @Failure 503 {object} model.HealthResponse "Row store unavailable"
// @Router /health [get]
func (h *CollectorHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	rows, err := h.collector.Health(ctx)
	if err != nil {
		log.Error().Err(err).Msg("Health check failed")
		SendJSON(w, http.StatusServiceUnavailable, model.HealthResponse{
			Status:  "unavailable",
			Storage: h.collector.StoreName(),
		})
		return
	}

	SendJSON(w, http.StatusOK, model.HealthResponse{
		Status:  "ok",
		Storage: h.collector.StoreName(),
		Rows:    rows,
	})
}

// CacheMetrics handles GET /cache/metrics for the limiter cache
// @Summary Limiter cache metrics
// @Description Returns hit, miss and eviction counters of the cache holding per-client rate limiters
// @Tags System
// @Produce json
// @Success 200 {object} model.CacheMetricsResponse "Cache metrics, enabled=false when caching is off"
// @Router /cache/metrics [get]
func (h *CollectorHandler) CacheMetrics(w http.ResponseWriter, r *http.Request) {
	if h.limiters == nil {
		SendJSON(w, http.StatusOK, model.CacheMetricsResponse{Enabled: false})
		return
	}

	m := h.limiters.GetMetricsSnapshot()
	SendJSON(w, http.StatusOK, model.CacheMetricsResponse{
		Enabled:   true,
		Hits:      m.Hits,
		Misses:    m.Misses,
		HitRatio:  m.HitRatio,
		Evictions: m.KeysEvicted,
		KeysAdded: m.KeysAdded,
	})
}
