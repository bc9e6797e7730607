package core

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"unicode/utf8"

	"github.com/JonMunkholm/builtin-items/internal/items"
	"github.com/JonMunkholm/builtin-items/internal/logging"
	"github.com/JonMunkholm/builtin-items/internal/sniff"
)

// Delimiter is the only field separator accepted in input files.
const Delimiter = ';'

// DefaultSampleSize is how many decoded bytes are handed to the sniffer.
const DefaultSampleSize = 4096

// ContextCheckInterval is how often (in rows) to check for context cancellation.
var ContextCheckInterval = 100

// Options configures a single conversion run.
type Options struct {
	InputPath  string
	OutputPath string

	// SampleSize defaults to DefaultSampleSize when zero.
	SampleSize int

	// Normalizer defaults to items.NewNormalizer() when nil.
	Normalizer *items.Normalizer
}

// Result summarizes a finished run.
type Result struct {
	Count      int
	OutputPath string
	BytesRead  int64
}

// Convert reads the CSV at opts.InputPath and writes the items it holds as a
// JSON array to opts.OutputPath. Nothing is written unless every row was read
// successfully.
func Convert(ctx context.Context, opts Options) (Result, error) {
	logger := logging.WithFields(ctx, "input", opts.InputPath, "output", opts.OutputPath)

	info, err := os.Stat(opts.InputPath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Result{}, fmt.Errorf("%w: %s", ErrInputNotFound, opts.InputPath)
		}
		return Result{}, fmt.Errorf("stat input: %w", err)
	}

	f, err := os.Open(opts.InputPath)
	if err != nil {
		return Result{}, fmt.Errorf("open input: %w", err)
	}
	defer f.Close()

	r, counter := WrapForStreaming(f, info.Size())

	list, err := ReadItems(ctx, r, opts)
	if err != nil {
		return Result{}, err
	}
	logger.Debug("input parsed", "items", len(list), "bytes", counter.BytesRead, "progress", counter.Progress())

	if err := WriteJSON(opts.OutputPath, list); err != nil {
		return Result{}, err
	}

	logger.Info("conversion complete", "items", len(list))
	return Result{Count: len(list), OutputPath: opts.OutputPath, BytesRead: counter.BytesRead}, nil
}

// ReadItems parses decoded CSV text from r into items, in input order,
// skipping blank rows. The leading sample is checked for a foreign
// delimiter before any row is parsed.
func ReadItems(ctx context.Context, r io.Reader, opts Options) ([]items.Item, error) {
	sampleSize := opts.SampleSize
	if sampleSize <= 0 {
		sampleSize = DefaultSampleSize
	}
	normalizer := opts.Normalizer
	if normalizer == nil {
		normalizer = items.NewNormalizer()
	}

	br := bufio.NewReaderSize(r, sampleSize)
	sample, err := br.Peek(sampleSize)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, bufio.ErrBufferFull) {
		return nil, fmt.Errorf("read sample: %w", err)
	}
	if err := sniff.Validate(string(trimPartialRune(sample)), Delimiter); err != nil {
		return nil, err
	}

	cr := NewRecordReader(br, Delimiter)

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return []items.Item{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	list := []items.Item{}
	for i := 0; ; i++ {
		if i%ContextCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return nil, fmt.Errorf("conversion cancelled: %w", err)
			}
		}

		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row: %w", err)
		}

		row := items.NewRow(header, record)
		if items.IsBlank(row) {
			continue
		}
		list = append(list, normalizer.Normalize(row))
	}
	return list, nil
}

// WriteJSON writes list to path as an indented JSON array, creating missing
// parent directories. HTML characters and non-ASCII text, U+2028 and U+2029
// included, are kept literal.
func WriteJSON(path string, list []items.Item) error {
	if list == nil {
		list = []items.Item{}
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(list); err != nil {
		return fmt.Errorf("encode items: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}
	data := items.UnescapeLineSeparators(bytes.TrimSuffix(buf.Bytes(), []byte("\n")))
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	return nil
}

// trimPartialRune drops an incomplete UTF-8 sequence cut off at the end of b.
func trimPartialRune(b []byte) []byte {
	for i := 1; i < utf8.UTFMax && i <= len(b); i++ {
		if utf8.RuneStart(b[len(b)-i]) {
			if !utf8.FullRune(b[len(b)-i:]) {
				return b[:len(b)-i]
			}
			break
		}
	}
	return b
}
