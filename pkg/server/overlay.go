package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/Sumatoshi-tech/histogauss/pkg/histogram"
	"github.com/Sumatoshi-tech/histogauss/pkg/observability"
	"github.com/Sumatoshi-tech/histogauss/pkg/report"
	"github.com/Sumatoshi-tech/histogauss/pkg/samples"
	"github.com/Sumatoshi-tech/histogauss/pkg/terminal"
)

// errorResponse is the body of every non-2xx API answer.
type errorResponse struct {
	Error string `json:"error"`
}

// handleOverlay bins the posted samples and answers with a report.
// Query parameters: format (json, yaml, html, text; default json) and
// members (include bin members).
func (s *Server) handleOverlay(rw http.ResponseWriter, hr *http.Request) {
	ctx := hr.Context()

	if hr.Method != http.MethodPost {
		rw.Header().Set("Allow", http.MethodPost)
		s.writeError(ctx, rw, http.StatusMethodNotAllowed, "method not allowed")

		return
	}

	format := report.FormatJSON

	if raw := hr.URL.Query().Get("format"); raw != "" {
		parsed, err := report.ParseFormat(raw)
		if err != nil {
			s.writeError(ctx, rw, http.StatusBadRequest, err.Error())

			return
		}

		format = parsed
	}

	includeMembers, _ := strconv.ParseBool(hr.URL.Query().Get("members"))

	body, err := io.ReadAll(http.MaxBytesReader(rw, hr.Body, s.opts.MaxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			s.writeError(ctx, rw, http.StatusRequestEntityTooLarge, "request body exceeds "+strconv.FormatInt(tooLarge.Limit, 10)+" bytes")

			return
		}

		s.writeError(ctx, rw, http.StatusBadRequest, "read request body: "+err.Error())

		return
	}

	doc, err := samples.DecodeJSON(body)
	if err != nil {
		s.writeError(ctx, rw, http.StatusBadRequest, err.Error())

		return
	}

	width := s.opts.DefaultBinWidth
	if doc.BinWidth != nil {
		width = *doc.BinWidth
	}

	err = histogram.CheckSpan(doc.Samples, width)
	if err != nil {
		s.writeError(ctx, rw, http.StatusBadRequest, err.Error())

		return
	}

	overlay := histogram.Compute(doc.Samples, width)

	s.engine.RecordOverlay(ctx, observability.EngineStats{
		Valid:        overlay.Valid(),
		Dropped:      overlay.Dropped,
		Bins:         len(overlay.Bins),
		ZeroVariance: overlay.ZeroVariance,
	})

	rep := report.New(overlay, report.Meta{Version: s.opts.Version, IncludeMembers: includeMembers})

	// Encode fully before writing so an encoder failure can still be a 500.
	var buf bytes.Buffer

	err = report.Write(&buf, rep, format, report.Options{Terminal: terminal.Config{NoColor: true}})
	if err != nil {
		s.logger.ErrorContext(ctx, "encode report failed", "format", string(format), "error", err)
		s.writeError(ctx, rw, http.StatusInternalServerError, "encode report")

		return
	}

	s.logger.DebugContext(ctx, "overlay computed",
		"samples", len(doc.Samples), "bins", len(overlay.Bins), "bin_width", width)

	rw.Header().Set("Content-Type", format.ContentType())

	_, err = buf.WriteTo(rw)
	if err != nil {
		s.logger.WarnContext(ctx, "write response failed", "error", err)
	}
}

func (s *Server) writeError(ctx context.Context, rw http.ResponseWriter, code int, msg string) {
	rw.Header().Set("Content-Type", "application/json")
	rw.WriteHeader(code)

	encodeErr := json.NewEncoder(rw).Encode(errorResponse{Error: msg})
	if encodeErr != nil {
		s.logger.ErrorContext(ctx, "failed to encode JSON response", "error", encodeErr)
	}
}
