package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/Sumatoshi-tech/histogauss/pkg/alg/stats"
	"github.com/Sumatoshi-tech/histogauss/pkg/histogram"
	"github.com/Sumatoshi-tech/histogauss/pkg/observability"
	"github.com/Sumatoshi-tech/histogauss/pkg/report"
)

// Tool name constants.
const (
	ToolNameOverlay = "histogram_overlay"
	ToolNameSummary = "sample_summary"
)

// MaxSamples caps the number of samples accepted per call.
const MaxSamples = 1_000_000

// Sentinel errors for tool input validation.
var (
	// ErrEmptySamples indicates the samples parameter is empty.
	ErrEmptySamples = errors.New("samples parameter is required and must not be empty")
	// ErrInvalidBinWidth indicates a NaN or infinite bin width.
	ErrInvalidBinWidth = errors.New("bin_width must be a finite number")
	// ErrTooManySamples indicates the sample list exceeds MaxSamples.
	ErrTooManySamples = errors.New("too many samples")
)

// OverlayInput is the input schema for the histogram_overlay tool.
type OverlayInput struct {
	Samples        []float64 `json:"samples"                   jsonschema:"numeric samples to bin"`
	BinWidth       float64   `json:"bin_width"                 jsonschema:"width of each histogram interval; the sign is ignored and zero yields no bins"`
	IncludeMembers bool      `json:"include_members,omitempty" jsonschema:"include the samples that fell into each bin"`
}

// SummaryInput is the input schema for the sample_summary tool.
type SummaryInput struct {
	Samples []float64 `json:"samples" jsonschema:"numeric samples to summarize"`
}

// SummaryResult is the structured result of sample_summary.
type SummaryResult struct {
	Summary stats.Summary `json:"summary"`
	Total   int           `json:"total"`
	Dropped int           `json:"dropped"`
}

// ToolOutput is a generic wrapper for tool results.
type ToolOutput struct {
	Data any `json:"data"`
}

func (s *Server) handleOverlay(
	ctx context.Context, _ *mcpsdk.CallToolRequest, input OverlayInput,
) (*mcpsdk.CallToolResult, ToolOutput, error) {
	err := validateSamples(input.Samples)
	if err != nil {
		return errorResult(err)
	}

	if !stats.IsFinite(input.BinWidth) {
		return errorResult(fmt.Errorf("%w: %v", ErrInvalidBinWidth, input.BinWidth))
	}

	err = histogram.CheckSpan(input.Samples, input.BinWidth)
	if err != nil {
		return errorResult(err)
	}

	overlay := histogram.Compute(input.Samples, input.BinWidth)

	s.engine.RecordOverlay(ctx, observability.EngineStats{
		Valid:        overlay.Valid(),
		Dropped:      overlay.Dropped,
		Bins:         len(overlay.Bins),
		ZeroVariance: overlay.ZeroVariance,
	})

	s.logger.DebugContext(ctx, "mcp overlay computed",
		"samples", len(input.Samples), "bins", len(overlay.Bins), "bin_width", input.BinWidth)

	return jsonResult(report.New(overlay, report.Meta{
		Source:         "mcp",
		Version:        s.version,
		IncludeMembers: input.IncludeMembers,
	}))
}

func (s *Server) handleSummary(
	_ context.Context, _ *mcpsdk.CallToolRequest, input SummaryInput,
) (*mcpsdk.CallToolResult, ToolOutput, error) {
	err := validateSamples(input.Samples)
	if err != nil {
		return errorResult(err)
	}

	finite := stats.Finite(input.Samples)

	return jsonResult(SummaryResult{
		Summary: stats.Summarize(finite),
		Total:   len(input.Samples),
		Dropped: len(input.Samples) - len(finite),
	})
}

func validateSamples(samples []float64) error {
	if len(samples) == 0 {
		return ErrEmptySamples
	}

	if len(samples) > MaxSamples {
		return fmt.Errorf("%w: %d (max %d)", ErrTooManySamples, len(samples), MaxSamples)
	}

	return nil
}

// errorResult builds a CallToolResult with isError set.
func errorResult(err error) (*mcpsdk.CallToolResult, ToolOutput, error) {
	return &mcpsdk.CallToolResult{
		Content: []mcpsdk.Content{
			&mcpsdk.TextContent{Text: err.Error()},
		},
		IsError: true,
	}, ToolOutput{}, nil
}

// jsonResult builds a CallToolResult with JSON-encoded content.
func jsonResult(value any) (*mcpsdk.CallToolResult, ToolOutput, error) {
	data, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return errorResult(fmt.Errorf("encode result: %w", err))
	}

	return &mcpsdk.CallToolResult{
		Content: []mcpsdk.Content{
			&mcpsdk.TextContent{Text: string(data)},
		},
	}, ToolOutput{Data: value}, nil
}
