package segment

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
)

// Marshal encodes doc as indented JSON, the persisted transcript form.
func Marshal(doc Document) ([]byte, error) {
	return encode(doc, "  ")
}

// MarshalCompact encodes doc without insignificant whitespace.
func MarshalCompact(doc Document) ([]byte, error) {
	return encode(doc, "")
}

// encode leaves <, > and & in transcripts as written.
func encode(doc Document, indent string) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if indent != "" {
		enc.SetIndent("", indent)
	}
	if err := enc.Encode(normalize(doc)); err != nil {
		return nil, fmt.Errorf("marshal segments: %w", err)
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

// Unmarshal decodes a persisted transcript document.
func Unmarshal(data []byte) (Document, error) {
	var doc Document
	dec := json.NewDecoder(bytes.NewReader(data))
	if err := dec.Decode(&doc); err != nil {
		return Document{}, fmt.Errorf("unmarshal segments: %w", err)
	}
	return normalize(doc), nil
}

// Save writes doc to path as indented JSON.
func Save(path string, doc Document) error {
	data, err := Marshal(doc)
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

// Load reads a transcript document from path.
func Load(path string) (Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Document{}, fmt.Errorf("read %s: %w", path, err)
	}
	return Unmarshal(data)
}

// normalize keeps empty documents encoding as [] rather than null.
func normalize(doc Document) Document {
	if doc.AudioSegments == nil {
		doc.AudioSegments = []TimedSegment{}
	}
	return doc
}
