package summary

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

var fixedNow = func() time.Time {
	return time.Date(2026, time.March, 4, 9, 5, 7, 0, time.Local)
}

var timestampRe = regexp.MustCompile(`^\d{8}_\d{6}$`)

// plain decodes summary_data the way a generic JSON consumer would.
func plain(t *testing.T, d Document) any {
	t.Helper()
	var v any
	if err := json.Unmarshal(d.SummaryData, &v); err != nil {
		t.Fatalf("summary_data is not valid JSON: %v\n%s", err, d.SummaryData)
	}
	return v
}

func TestExtract(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		want     any
		wantKind Kind
	}{
		{
			name:     "valid json object",
			raw:      `{"overall_summary":{"summary_title":"Vectors","summary_text":"..."},"tags":["a","b"]}`,
			want:     map[string]any{"overall_summary": map[string]any{"summary_title": "Vectors", "summary_text": "..."}, "tags": []any{"a", "b"}},
			wantKind: KindSuccess,
		},
		{
			name:     "surrounding whitespace",
			raw:      "\n  {\"tags\": []}\n\n",
			want:     map[string]any{"tags": []any{}},
			wantKind: KindSuccess,
		},
		{
			name:     "non-object json value",
			raw:      `[1, 2]`,
			want:     []any{float64(1), float64(2)},
			wantKind: KindSuccess,
		},
		{
			name:     "brace span recovery",
			raw:      `Here is the result: {"tags":["x"]} trailing`,
			want:     map[string]any{"tags": []any{"x"}},
			wantKind: KindSuccess,
		},
		{
			name:     "markdown fence",
			raw:      "```json\n{\"end_summary\": \"done\"}\n```",
			want:     map[string]any{"end_summary": "done"},
			wantKind: KindSuccess,
		},
		{
			name:     "greedy span covers nested objects",
			raw:      `prefix {"a": {"b": 1}, "c": [{"d": 2}]} suffix`,
			want:     map[string]any{"a": map[string]any{"b": float64(1)}, "c": []any{map[string]any{"d": float64(2)}}},
			wantKind: KindSuccess,
		},
		{
			name:     "not json at all",
			raw:      "not json at all",
			want:     map[string]any{"error": "Could not parse JSON", "raw_output": "not json at all"},
			wantKind: KindMalformed,
		},
		{
			name:     "two separate objects are not recoverable",
			raw:      `{"a":1} and {"b":2}`,
			want:     map[string]any{"error": "Could not parse JSON", "raw_output": `{"a":1} and {"b":2}`},
			wantKind: KindMalformed,
		},
		{
			name:     "closing brace before opening",
			raw:      `} nothing {`,
			want:     map[string]any{"error": "Could not parse JSON", "raw_output": `} nothing {`},
			wantKind: KindMalformed,
		},
		{
			name:     "empty response",
			raw:      "",
			want:     map[string]any{"error": "Could not parse JSON", "raw_output": ""},
			wantKind: KindMalformed,
		},
	}

	e := NewWithClock(fixedNow)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := e.Extract(tt.raw)
			if diff := cmp.Diff(tt.want, plain(t, got)); diff != "" {
				t.Errorf("SummaryData mismatch (-want +got):\n%s", diff)
			}
			if got.Kind() != tt.wantKind {
				t.Errorf("Kind() = %v, want %v", got.Kind(), tt.wantKind)
			}
			if got.GeneratedTimestamp != "20260304_090507" {
				t.Errorf("GeneratedTimestamp = %q", got.GeneratedTimestamp)
			}
		})
	}
}

func TestExtractUsesWallClock(t *testing.T) {
	got := New().Extract(`{}`)
	if !timestampRe.MatchString(got.GeneratedTimestamp) {
		t.Errorf("GeneratedTimestamp = %q, want YYYYMMDD_HHMMSS", got.GeneratedTimestamp)
	}
}

func TestGenerationFailed(t *testing.T) {
	e := NewWithClock(fixedNow)
	got := e.GenerationFailed(errors.New("quota exceeded"))

	want := map[string]any{"error": "Generation failed: quota exceeded"}
	if diff := cmp.Diff(want, plain(t, got)); diff != "" {
		t.Errorf("SummaryData mismatch (-want +got):\n%s", diff)
	}
	if got.Kind() != KindGenerationFailed {
		t.Errorf("Kind() = %v, want %v", got.Kind(), KindGenerationFailed)
	}
	if got.GeneratedTimestamp == "" {
		t.Error("GenerationFailed() should stamp the envelope")
	}
}

func TestKindFromLoadedShape(t *testing.T) {
	e := NewWithClock(fixedNow)
	dir := t.TempDir()

	docs := map[string]Document{
		"ok.json":        e.Extract(`{"tags":["x"]}`),
		"malformed.json": e.Extract("garbage"),
		"failed.json":    e.GenerationFailed(errors.New("boom")),
	}
	want := map[string]Kind{
		"ok.json":        KindSuccess,
		"malformed.json": KindMalformed,
		"failed.json":    KindGenerationFailed,
	}

	for name, d := range docs {
		path := filepath.Join(dir, name)
		if err := Save(path, d); err != nil {
			t.Fatalf("Save(%s) error = %v", name, err)
		}
		loaded, err := Load(path)
		if err != nil {
			t.Fatalf("Load(%s) error = %v", name, err)
		}
		if loaded.Kind() != want[name] {
			t.Errorf("%s: Kind() = %v, want %v", name, loaded.Kind(), want[name])
		}
		if diff := cmp.Diff(plain(t, d), plain(t, loaded)); diff != "" {
			t.Errorf("%s: SummaryData mismatch (-want +got):\n%s", name, diff)
		}
	}
}

func TestMarshalKeepsMarkup(t *testing.T) {
	d := NewWithClock(fixedNow).Extract(`{"answer":"H<sub>2</sub>O & $$x^2$$"}`)
	data, err := Marshal(d)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	s := string(data)
	if !strings.Contains(s, "H<sub>2</sub>O & $$x^2$$") {
		t.Errorf("Marshal() escaped markup:\n%s", s)
	}
	if !strings.Contains(s, `"generated_timestamp": "20260304_090507"`) {
		t.Errorf("Marshal() missing timestamp:\n%s", s)
	}
}

func TestSaveKeepsBackendJSONVerbatim(t *testing.T) {
	raw := `{"Q&A": [{"question": "q", "answer": "a"}], "id": 9007199254740993, "ratio": 1.0, "avogadro_exact": 602214076000000000000000, "tags": ["x"]}`
	d := NewWithClock(fixedNow).Extract(raw)
	if d.Kind() != KindSuccess {
		t.Fatalf("Kind() = %v, want success", d.Kind())
	}

	path := filepath.Join(t.TempDir(), "summary.json")
	if err := Save(path, d); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	s := string(data)
	for _, want := range []string{`"id": 9007199254740993`, `"ratio": 1.0`, `"avogadro_exact": 602214076000000000000000`} {
		if !strings.Contains(s, want) {
			t.Errorf("saved file missing %s:\n%s", want, s)
		}
	}
	if qa, tags := strings.Index(s, `"Q&A"`), strings.Index(s, `"tags"`); qa < 0 || tags < 0 || qa > tags {
		t.Errorf("key order changed:\n%s", s)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	obj, ok := loaded.Object()
	if !ok {
		t.Fatal("Object() should return the summary object")
	}
	if got := obj["id"]; got != json.Number("9007199254740993") {
		t.Errorf("id = %#v, want json.Number 9007199254740993", got)
	}
	if got := obj["ratio"]; got != json.Number("1.0") {
		t.Errorf("ratio = %#v, want json.Number 1.0", got)
	}
}

func TestPlaceholderKeepsMarkupUnescaped(t *testing.T) {
	d := NewWithClock(fixedNow).Extract("H<sub>2</sub>O & no json")
	if strings.Contains(string(d.SummaryData), `\u003c`) {
		t.Errorf("raw_output was HTML-escaped: %s", d.SummaryData)
	}
	if d.Kind() != KindMalformed {
		t.Errorf("Kind() = %v, want malformed", d.Kind())
	}
}
