package handler

import (
	"bytes"
	"net/http"

	"github.com/rs/zerolog/log"
)

// Bridge handles GET /bridge, the page a submitting client loads in a
// nested context. Its script announces readiness, forwards one record to
// /exec and relays the collector's reply to the parent.
// @Summary Handshake bridge page
// @Description HTML page for a nested browsing context. It posts {"type":"ready"} to its parent, accepts one record from an allowed parent origin, forwards it to /exec and relays the result.
// @Tags Collector
// @Produce html
// @Success 200 {string} string "Bridge page"
// @Failure 500 {object} model.ErrorResponse "Template error"
// @Router /bridge [get]
func (h *CollectorHandler) Bridge(w http.ResponseWriter, r *http.Request) {
	data := struct {
		ParentOrigins []string
		AppendURL     string
	}{
		ParentOrigins: h.parentOrigins(),
		AppendURL:     execPath,
	}

	var page bytes.Buffer
	if err := h.templates.ExecuteTemplate(&page, "bridge.html", data); err != nil {
		log.Error().Err(err).Msg("Failed to execute bridge template")
		SendJSONError(w, http.StatusInternalServerError, err, "Failed to render bridge page")
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.Write(page.Bytes())
}

func (h *CollectorHandler) parentOrigins() []string {
	origins := make([]string, 0, len(h.config.Collector.BridgeParentOrigins))
	return append(origins, h.config.Collector.BridgeParentOrigins...)
}

// parentTargetOrigin is the target origin of result messages: the single
// configured parent when there is one, otherwise any.
func (h *CollectorHandler) parentTargetOrigin() string {
	if len(h.config.Collector.BridgeParentOrigins) == 1 {
		return h.config.Collector.BridgeParentOrigins[0]
	}
	return "*"
}
