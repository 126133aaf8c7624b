// Package samples reads numeric sample sets from text, CSV, JSON and YAML
// sources. Any source may be an lz4 frame stream.
package samples

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/pierrec/lz4/v4"
)

// Format names an input encoding.
type Format string

// Supported input formats.
const (
	FormatAuto Format = "auto"
	FormatText Format = "text"
	FormatCSV  Format = "csv"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// Sentinel errors.
var (
	ErrInputTooLarge   = errors.New("input exceeds size limit")
	ErrInvalidDocument = errors.New("invalid sample document")
	ErrUnknownFormat   = errors.New("unknown input format")
	ErrInvalidNumber   = errors.New("invalid number")
	ErrMissingColumn   = errors.New("csv column out of range")
	ErrBinaryInput     = errors.New("input looks binary")
)

var formats = []Format{FormatAuto, FormatText, FormatCSV, FormatJSON, FormatYAML}

// lz4 frame magic number, little endian.
var lz4Magic = []byte{0x04, 0x22, 0x4d, 0x18}

// Options controls how a source is decoded.
type Options struct {
	// Format selects the decoder. Empty means FormatAuto.
	Format Format

	// Name is the source file name, used for auto detection and the
	// .lz4 suffix check. It may be empty for stdin.
	Name string

	// MaxSize caps the decompressed input in bytes. Zero disables the cap.
	MaxSize int64

	// CSVColumn is the zero-based column read from CSV input.
	CSVColumn int
}

// Document is a decoded sample set. Missing values are NaN.
type Document struct {
	// BinWidth is set when the source document carries its own width.
	BinWidth *float64
	Samples  []float64
}

// ParseFormat validates a format name.
func ParseFormat(name string) (Format, error) {
	format := Format(strings.ToLower(strings.TrimSpace(name)))
	if format == "" {
		return FormatAuto, nil
	}

	if !slices.Contains(formats, format) {
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, name)
	}

	return format, nil
}

// ReadFile opens path and decodes it with Read.
func ReadFile(path string, opts Options) (Document, error) {
	file, err := os.Open(path)
	if err != nil {
		return Document{}, fmt.Errorf("open samples: %w", err)
	}
	defer file.Close()

	if opts.Name == "" {
		opts.Name = path
	}

	return Read(file, opts)
}

// Read decodes a sample set from r.
func Read(r io.Reader, opts Options) (Document, error) {
	format := opts.Format
	if format == "" {
		format = FormatAuto
	}

	if !slices.Contains(formats, format) {
		return Document{}, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}

	src, err := decompress(r, opts.Name)
	if err != nil {
		return Document{}, err
	}

	data, err := readLimited(src, opts.MaxSize)
	if err != nil {
		return Document{}, err
	}

	if isBinary(data) {
		return Document{}, fmt.Errorf("%w: NUL byte in the first %d bytes", ErrBinaryInput, binarySniffLength)
	}

	if format == FormatAuto {
		format = detectFormat(opts.Name, data)
	}

	switch format {
	case FormatCSV:
		return parseCSV(data, opts.CSVColumn)
	case FormatJSON:
		return decodeJSON(data)
	case FormatYAML:
		return decodeYAML(data)
	default:
		return parseText(data)
	}
}

func decompress(r io.Reader, name string) (io.Reader, error) {
	buffered := bufio.NewReader(r)

	head, err := buffered.Peek(len(lz4Magic))
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("peek input: %w", err)
	}

	if bytes.Equal(head, lz4Magic) || strings.HasSuffix(strings.ToLower(name), ".lz4") {
		return lz4.NewReader(buffered), nil
	}

	return buffered, nil
}

func readLimited(r io.Reader, maxSize int64) ([]byte, error) {
	if maxSize <= 0 {
		data, err := io.ReadAll(r)
		if err != nil {
			return nil, fmt.Errorf("read input: %w", err)
		}

		return data, nil
	}

	data, err := io.ReadAll(io.LimitReader(r, maxSize+1))
	if err != nil {
		return nil, fmt.Errorf("read input: %w", err)
	}

	if int64(len(data)) > maxSize {
		return nil, fmt.Errorf("%w: more than %s", ErrInputTooLarge, humanize.Bytes(uint64(maxSize)))
	}

	return data, nil
}

// binarySniffLength bounds the NUL byte scan, as git does.
const binarySniffLength = 8000

func isBinary(data []byte) bool {
	sniff := data[:min(len(data), binarySniffLength)]

	return bytes.IndexByte(sniff, 0) >= 0
}

func detectFormat(name string, data []byte) Format {
	base := strings.TrimSuffix(strings.ToLower(name), ".lz4")

	switch {
	case strings.HasSuffix(base, ".csv"):
		return FormatCSV
	case strings.HasSuffix(base, ".json"):
		return FormatJSON
	case strings.HasSuffix(base, ".yaml"), strings.HasSuffix(base, ".yml"):
		return FormatYAML
	case strings.HasSuffix(base, ".txt"):
		return FormatText
	}

	trimmed := bytes.TrimLeft(data, " \t\r\n")
	if len(trimmed) > 0 && (trimmed[0] == '[' || trimmed[0] == '{') {
		return FormatJSON
	}

	return FormatText
}
