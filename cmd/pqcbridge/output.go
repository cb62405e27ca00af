package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/pkg/errors"
)

const (
	formatText = "text"
	formatJSON = "json"
)

// printer writes command results either as plain text lines or as one JSON
// document per result.
type printer struct {
	w    io.Writer
	json bool
}

func newPrinter(w io.Writer, format string) (*printer, error) {
	switch format {
	case formatText, "":
		return &printer{w: w}, nil
	case formatJSON:
		return &printer{w: w, json: true}, nil
	}
	return nil, errors.Errorf("unknown output format %q, want %s or %s", format, formatText, formatJSON)
}

func (p *printer) emit(text string, value interface{}) error {
	if p.json {
		enc := json.NewEncoder(p.w)
		enc.SetIndent("", "  ")
		return enc.Encode(value)
	}
	_, err := fmt.Fprintln(p.w, text)
	return err
}
