// Package summary turns raw generator output into the persisted study
// summary document.
package summary

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

const (
	// TimestampLayout formats generated_timestamp as YYYYMMDD_HHMMSS.
	TimestampLayout = "20060102_150405"

	// ErrCouldNotParse is the error text stored when no JSON was recovered.
	ErrCouldNotParse = "Could not parse JSON"

	// GenerationFailedPrefix starts the error text stored when the backend call failed.
	GenerationFailedPrefix = "Generation failed: "
)

// Kind tells consumers which of the three summary_data shapes a document holds.
type Kind int

const (
	// KindSuccess means summary_data is the backend's own JSON value.
	KindSuccess Kind = iota
	// KindMalformed means summary_data is {error, raw_output}.
	KindMalformed
	// KindGenerationFailed means summary_data is {error} from a failed backend call.
	KindGenerationFailed
)

func (k Kind) String() string {
	switch k {
	case KindSuccess:
		return "success"
	case KindMalformed:
		return "malformed"
	case KindGenerationFailed:
		return "generation_failed"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Document is the persisted summary envelope. SummaryData holds the
// backend's JSON text as received, so key order and number literals survive
// a save and reload.
type Document struct {
	GeneratedTimestamp string          `json:"generated_timestamp"`
	SummaryData        json.RawMessage `json:"summary_data"`

	kind Kind
	set  bool
}

// Kind reports the shape of SummaryData. Documents built by an Extractor
// carry their kind; loaded documents are classified by shape, which cannot
// tell a backend that itself answered {"error": ...} from a placeholder.
func (d Document) Kind() Kind {
	if d.set {
		return d.kind
	}

	m, ok := d.Object()
	if !ok {
		return KindSuccess
	}
	msg, ok := m["error"].(string)
	if !ok {
		return KindSuccess
	}
	if _, ok := m["raw_output"]; ok && msg == ErrCouldNotParse && len(m) == 2 {
		return KindMalformed
	}
	if strings.HasPrefix(msg, GenerationFailedPrefix) && len(m) == 1 {
		return KindGenerationFailed
	}
	return KindSuccess
}

// Value decodes SummaryData. Numbers come back as json.Number.
func (d Document) Value() (any, error) {
	if len(d.SummaryData) == 0 {
		return nil, nil
	}
	dec := json.NewDecoder(bytes.NewReader(d.SummaryData))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, fmt.Errorf("decode summary_data: %w", err)
	}
	return v, nil
}

// Object returns SummaryData as a JSON object, if it is one.
func (d Document) Object() (map[string]any, bool) {
	v, err := d.Value()
	if err != nil {
		return nil, false
	}
	m, ok := v.(map[string]any)
	return m, ok
}

// rawJSON encodes v without HTML escaping.
func rawJSON(v any) json.RawMessage {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return json.RawMessage("null")
	}
	return json.RawMessage(bytes.TrimRight(buf.Bytes(), "\n"))
}

// Marshal encodes d as indented JSON without HTML escaping, so inline
// <sub>/<sup>/<i> markup stays readable.
func Marshal(d Document) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(d); err != nil {
		return nil, fmt.Errorf("marshal summary: %w", err)
	}
	return buf.Bytes(), nil
}

// Save writes d to path.
func Save(path string, d Document) error {
	data, err := Marshal(d)
	if err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	if _, err := f.Write(data); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return f.Sync()
}

// Load reads a summary document from path.
func Load(path string) (Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Document{}, fmt.Errorf("read %s: %w", path, err)
	}

	var d Document
	if err := json.Unmarshal(data, &d); err != nil {
		return Document{}, fmt.Errorf("unmarshal summary: %w", err)
	}
	return d, nil
}
