// cmd/tourismctl/helpers.go
package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/unclebandit/tourism-predictor/internal/model"
)

// readRecord loads a YAML or JSON record from path ("-" for stdin). Fields
// left out keep the form defaults. The record is validated.
func readRecord(path string) (model.CustomerRecord, error) {
	rec := model.DefaultCustomerRecord()

	var data []byte
	var err error
	if path == "-" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return rec, fmt.Errorf("read record: %w", err)
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&rec); err != nil && err != io.EOF {
		return rec, fmt.Errorf("parse record %s: %w", path, err)
	}
	if err := rec.Validate(); err != nil {
		return rec, err
	}
	return rec, nil
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
