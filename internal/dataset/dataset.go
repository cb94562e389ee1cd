// Package dataset implements the post-processing operations applied to
// generated dialogue files: converting persona records into the
// role/content training format and merging dataset files.
package dataset

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/phrazzld/dialogen/internal/domain"
)

// ErrTypeMismatch is returned when two payloads of different JSON shapes
// are merged.
var ErrTypeMismatch = errors.New("cannot merge: payload types do not match")

// Convert reshapes raw persona records into the training format. Each
// record's image_text field is dropped, and its dialogue entries become
// role/content turns with roles assigned by position parity. Records that
// end up with zero turns are dropped, never emitted.
func Convert(records []map[string]any) [][]domain.Turn {
	conversations := make([][]domain.Turn, 0, len(records))

	for _, rec := range records {
		delete(rec, "image_text")

		lines, ok := rec["dialogue"].([]any)
		if !ok {
			continue
		}

		texts := make([]string, 0, len(lines))
		for _, line := range lines {
			entry, ok := line.(map[string]any)
			if !ok {
				continue
			}
			if text, ok := entry["text"].(string); ok {
				texts = append(texts, text)
			}
		}

		if len(texts) == 0 {
			continue
		}
		conversations = append(conversations, domain.TurnsFromTexts(texts))
	}

	return conversations
}

// Merge concatenates two JSON payloads one after the other. Two lists are
// appended, two objects are shallow-merged with the second's keys winning,
// and anything else is a type mismatch.
func Merge(a, b any) (any, error) {
	if listA, ok := a.([]any); ok {
		listB, ok := b.([]any)
		if !ok {
			return nil, fmt.Errorf("%w: %T vs %T", ErrTypeMismatch, a, b)
		}
		merged := make([]any, 0, len(listA)+len(listB))
		merged = append(merged, listA...)
		return append(merged, listB...), nil
	}

	if objA, ok := a.(map[string]any); ok {
		objB, ok := b.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("%w: %T vs %T", ErrTypeMismatch, a, b)
		}
		merged := make(map[string]any, len(objA)+len(objB))
		for k, v := range objA {
			merged[k] = v
		}
		for k, v := range objB {
			merged[k] = v
		}
		return merged, nil
	}

	return nil, fmt.Errorf("%w: %T vs %T", ErrTypeMismatch, a, b)
}

// ReadJSON decodes a JSON document from the given path; "-" reads stdin.
func ReadJSON(path string) (any, error) {
	var r io.Reader = os.Stdin
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("failed to open %s: %w", path, err)
		}
		defer func() { _ = f.Close() }()
		r = f
	}

	var payload any
	if err := json.NewDecoder(r).Decode(&payload); err != nil {
		return nil, fmt.Errorf("failed to decode JSON from %s: %w", path, err)
	}
	return payload, nil
}

// WriteJSON encodes a value as an indented JSON document at the given
// path; "-" writes to stdout. Non-ASCII text is written as-is.
func WriteJSON(path string, v any) error {
	var w io.Writer = os.Stdout
	if path != "-" {
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("failed to create %s: %w", path, err)
		}
		defer func() { _ = f.Close() }()
		w = f
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to write JSON to %s: %w", path, err)
	}
	return nil
}
