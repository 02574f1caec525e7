package handler

import (
	"errors"
	"net/http"
	"net/url"
	"strconv"

	"go-away-stress/utils"

	"github.com/rs/zerolog/log"
	"github.com/skip2/go-qrcode"
)

// GenerateQR handles GET /qr - a QR code pointing at the public survey page
// @Summary Survey QR code
// @Description Returns a PNG QR code that encodes survey.public_url
// @Tags Survey
// @Produce png
// @Param size query int false "Image size in pixels (128-1024)" default(256)
// @Param level query string false "Error recovery level" Enums(low, medium, high, highest) default(medium)
// @Success 200 {file} file "QR code image"
// @Failure 400 {object} model.ErrorResponse "Invalid size or level"
// @Failure 404 {object} model.ErrorResponse "Survey URL not configured"
// @Failure 500 {object} model.ErrorResponse "QR generation failed"
// @Router /qr [get]
func (h *CollectorHandler) GenerateQR(w http.ResponseWriter, r *http.Request) {
	surveyURL := h.config.Survey.PublicURL
	if err := utils.ValidateURL(surveyURL); err != nil {
		log.Warn().Err(err).Str("public_url", surveyURL).Msg("Survey URL not configured for QR")
		SendJSONError(w, http.StatusNotFound, errors.New("survey URL not configured"), "Set survey.public_url to enable QR codes")
		return
	}

	size, level, err := qrOptions(r.URL.Query())
	if err != nil {
		SendJSONError(w, http.StatusBadRequest, err, "size must be 128-1024; level one of low, medium, high, highest")
		return
	}

	qrCode, err := qrcode.Encode(surveyURL, level, size)
	if err != nil {
		log.Error().Err(err).Str("url", surveyURL).Msg("Failed to generate QR code")
		SendJSONError(w, http.StatusInternalServerError, err, "Failed to generate QR code")
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "public, max-age=3600")
	w.Header().Set("Content-Length", strconv.Itoa(len(qrCode)))

	if _, err := w.Write(qrCode); err != nil {
		log.Error().Err(err).Msg("Failed to write QR code response")
		return
	}

	log.Info().
		Str("survey_url", surveyURL).
		Int("size", size).
		Str("level", levelStr(level)).
		Msg("QR code generated successfully")
}

var qrLevels = map[string]qrcode.RecoveryLevel{
	"low":     qrcode.Low,
	"medium":  qrcode.Medium,
	"high":    qrcode.High,
	"highest": qrcode.Highest,
}

// qrOptions reads size (default 256) and level (default medium)
func qrOptions(query url.Values) (int, qrcode.RecoveryLevel, error) {
	size := 256
	if sizeStr := query.Get("size"); sizeStr != "" {
		n, err := strconv.Atoi(sizeStr)
		if err != nil {
			return 0, 0, errors.New("invalid size parameter")
		}
		if n < 128 || n > 1024 {
			return 0, 0, errors.New("size out of range")
		}
		size = n
	}

	level := qrcode.Medium
	if levelStr := query.Get("level"); levelStr != "" {
		l, ok := qrLevels[levelStr]
		if !ok {
			return 0, 0, errors.New("invalid level parameter")
		}
		level = l
	}
	return size, level, nil
}

func levelStr(level qrcode.RecoveryLevel) string {
	for name, l := range qrLevels {
		if l == level {
			return name
		}
	}
	return "unknown"
}
