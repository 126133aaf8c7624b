package samples

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"math"
	"strings"
	"sync"

	"github.com/xeipuuv/gojsonschema"
	"gopkg.in/yaml.v3"

	"github.com/Sumatoshi-tech/histogauss/pkg/alg/stats"
)

//go:embed schema/samples.schema.json
var documentSchema []byte

var compiledSchema = sync.OnceValues(func() (*gojsonschema.Schema, error) {
	return gojsonschema.NewSchema(gojsonschema.NewBytesLoader(documentSchema))
})

// rawDocument is the object form. Null samples decode to nil.
type rawDocument struct {
	BinWidth *float64   `json:"bin_width"`
	Samples  []*float64 `json:"samples"`
}

// ValidateJSON checks data against the sample document schema.
func ValidateJSON(data []byte) error {
	schema, err := compiledSchema()
	if err != nil {
		return fmt.Errorf("compile sample schema: %w", err)
	}

	result, err := schema.Validate(gojsonschema.NewBytesLoader(data))
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidDocument, err)
	}

	if result.Valid() {
		return nil
	}

	violations := make([]string, 0, len(result.Errors()))
	for _, violation := range result.Errors() {
		violations = append(violations, violation.String())
	}

	return fmt.Errorf("%w: %s", ErrInvalidDocument, strings.Join(violations, "; "))
}

// DecodeJSON validates and decodes a JSON sample document: either a bare
// array of numbers and nulls or {"samples": [...], "bin_width": n}.
func DecodeJSON(data []byte) (Document, error) {
	return decodeJSON(data)
}

func decodeJSON(data []byte) (Document, error) {
	err := ValidateJSON(data)
	if err != nil {
		return Document{}, err
	}

	var raw rawDocument

	trimmed := bytes.TrimLeft(data, " \t\r\n")
	if len(trimmed) > 0 && trimmed[0] == '[' {
		err = json.Unmarshal(trimmed, &raw.Samples)
	} else {
		err = json.Unmarshal(trimmed, &raw)
	}

	if err != nil {
		return Document{}, fmt.Errorf("%w: %w", ErrInvalidDocument, err)
	}

	values := make([]float64, len(raw.Samples))

	for i, sample := range raw.Samples {
		if sample == nil {
			values[i] = math.NaN()

			continue
		}

		values[i] = *sample
	}

	return Document{Samples: values, BinWidth: raw.BinWidth}, nil
}

// decodeYAML maps YAML onto the JSON document shape so both share one schema.
// Non-finite floats and missing-value tokens become null.
func decodeYAML(data []byte) (Document, error) {
	var raw any

	err := yaml.Unmarshal(data, &raw)
	if err != nil {
		return Document{}, fmt.Errorf("%w: %w", ErrInvalidDocument, err)
	}

	encoded, err := json.Marshal(normalizeYAML(raw))
	if err != nil {
		return Document{}, fmt.Errorf("%w: %w", ErrInvalidDocument, err)
	}

	return decodeJSON(encoded)
}

func normalizeYAML(value any) any {
	switch typed := value.(type) {
	case map[string]any:
		out := make(map[string]any, len(typed))
		for key, item := range typed {
			out[key] = normalizeYAML(item)
		}

		return out
	case []any:
		out := make([]any, len(typed))
		for i, item := range typed {
			out[i] = normalizeYAML(item)
		}

		return out
	case float64:
		if !stats.IsFinite(typed) {
			return nil
		}
	case string:
		if isMissing(typed) {
			return nil
		}
	}

	return value
}
