package io

import (
	"bufio"
	"encoding/json"
	"fmt"
	goio "io"

	"github.com/williampepple1/classinfo/pkg/models"
)

// ResultWriter emits lookup results as single JSON lines
type ResultWriter struct {
	Out goio.Writer
}

// NewResultWriter creates a new result writer
func NewResultWriter(out goio.Writer) *ResultWriter {
	return &ResultWriter{
		Out: out,
	}
}

// Write marshals the result and writes it followed by one newline
func (w *ResultWriter) Write(result models.Result) error {
	data, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("marshal result: %w", err)
	}

	buf := bufio.NewWriter(w.Out)
	if _, err := buf.Write(data); err != nil {
		return err
	}
	if err := buf.WriteByte('\n'); err != nil {
		return err
	}
	return buf.Flush()
}
