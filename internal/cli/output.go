// Package cli machine-readable output helpers.
package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"reflect"
)

var (
	jsonOutput  bool
	jsonlOutput bool
)

// IsJSONOutput reports whether --json was requested.
func IsJSONOutput() bool {
	return jsonOutput
}

// IsJSONLOutput reports whether --jsonl was requested.
func IsJSONLOutput() bool {
	return jsonlOutput
}

// WriteOutput writes value as JSON. With --jsonl, slices are written one
// element per line; everything else is one line per value. With --json the
// value is indented for humans piping through other tools.
func WriteOutput(out io.Writer, value any) error {
	if jsonlOutput {
		return writeJSONL(out, value)
	}

	data, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode output: %w", err)
	}
	_, err = fmt.Fprintln(out, string(data))
	return err
}

func writeJSONL(out io.Writer, value any) error {
	encoder := json.NewEncoder(out)

	rv := reflect.ValueOf(value)
	if rv.Kind() == reflect.Slice {
		for i := 0; i < rv.Len(); i++ {
			if err := encoder.Encode(rv.Index(i).Interface()); err != nil {
				return fmt.Errorf("failed to encode output: %w", err)
			}
		}
		return nil
	}

	if err := encoder.Encode(value); err != nil {
		return fmt.Errorf("failed to encode output: %w", err)
	}
	return nil
}
