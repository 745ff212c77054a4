package summary

import (
	"encoding/json"
	"strings"
)

func (e *implExtractor) Extract(raw string) Document {
	if v, ok := decode(raw); ok {
		return e.wrap(v, KindSuccess)
	}

	if span, ok := braceSpan(raw); ok {
		if v, ok := decode(span); ok {
			return e.wrap(v, KindSuccess)
		}
	}

	return e.wrap(rawJSON(map[string]string{
		"error":      ErrCouldNotParse,
		"raw_output": raw,
	}), KindMalformed)
}

func (e *implExtractor) GenerationFailed(err error) Document {
	msg := "unknown error"
	if err != nil {
		msg = err.Error()
	}
	return e.wrap(rawJSON(map[string]string{
		"error": GenerationFailedPrefix + msg,
	}), KindGenerationFailed)
}

func (e *implExtractor) wrap(data json.RawMessage, kind Kind) Document {
	return Document{
		GeneratedTimestamp: e.now().Format(TimestampLayout),
		SummaryData:        data,
		kind:               kind,
		set:                true,
	}
}

// decode accepts exactly one JSON value, with surrounding whitespace, and
// returns its text untouched.
func decode(s string) (json.RawMessage, bool) {
	s = strings.Trim(s, " \t\r\n")
	if s == "" || !json.Valid([]byte(s)) {
		return nil, false
	}
	return json.RawMessage(s), true
}

// braceSpan returns the text from the first '{' through the last '}'.
func braceSpan(s string) (string, bool) {
	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start < 0 || end <= start {
		return "", false
	}
	return s[start : end+1], true
}
