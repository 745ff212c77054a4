package caption

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/nguyentantai21042004/study-digest/internal/segment"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []segment.TimedSegment
	}{
		{
			name:  "malformed middle block leaves id gap",
			input: "1\n00:00:01.000 --> 00:00:02.500\nHello world\n\n2\nbadline\nignored\n\n3\n00:00:03.000 --> 00:00:04.000\nSecond segment",
			want: []segment.TimedSegment{
				{ID: 0, Transcript: "Hello world", StartTime: "00:00:01.000", EndTime: "00:00:02.500"},
				{ID: 2, Transcript: "Second segment", StartTime: "00:00:03.000", EndTime: "00:00:04.000"},
			},
		},
		{
			name:  "header block is skipped",
			input: "WEBVTT\n\n1\n00:00:00.000 --> 00:00:01.000\nIntro",
			want: []segment.TimedSegment{
				{ID: 1, Transcript: "Intro", StartTime: "00:00:00.000", EndTime: "00:00:01.000"},
			},
		},
		{
			name:  "multi-line text joined with spaces",
			input: "1\n00:00:05.000 --> 00:00:09.000\n  first line\nsecond line  \nthird",
			want: []segment.TimedSegment{
				{ID: 0, Transcript: "first line second line   third", StartTime: "00:00:05.000", EndTime: "00:00:09.000"},
			},
		},
		{
			name:  "lenient separators",
			input: "\n\n1\n00:00:01.000 --> 00:00:02.000\nA\n \t \n\n\n2\n00:00:02.000 --> 00:00:03.000\nB\r\n\r\n3\r\n00:00:03.000 --> 00:00:04.000\r\nC\r\n",
			want: []segment.TimedSegment{
				{ID: 0, Transcript: "A", StartTime: "00:00:01.000", EndTime: "00:00:02.000"},
				{ID: 1, Transcript: "B", StartTime: "00:00:02.000", EndTime: "00:00:03.000"},
				{ID: 2, Transcript: "C", StartTime: "00:00:03.000", EndTime: "00:00:04.000"},
			},
		},
		{
			name:  "blank line holding a no-break space",
			input: "1\n00:00:01.000 --> 00:00:02.000\nA\n\u00a0\n2\n00:00:03.000 --> 00:00:04.000\nB",
			want: []segment.TimedSegment{
				{ID: 0, Transcript: "A", StartTime: "00:00:01.000", EndTime: "00:00:02.000"},
				{ID: 1, Transcript: "B", StartTime: "00:00:03.000", EndTime: "00:00:04.000"},
			},
		},
		{
			name:  "blank line holding a vertical tab",
			input: "1\n00:00:01.000 --> 00:00:02.000\nA\n\v\n2\n00:00:03.000 --> 00:00:04.000\nB",
			want: []segment.TimedSegment{
				{ID: 0, Transcript: "A", StartTime: "00:00:01.000", EndTime: "00:00:02.000"},
				{ID: 1, Transcript: "B", StartTime: "00:00:03.000", EndTime: "00:00:04.000"},
			},
		},
		{
			name:  "blank line holding ideographic space and NEL",
			input: "1\n00:00:01.000 --> 00:00:02.000\nA\n\u3000\u0085\u2028\n2\n00:00:03.000 --> 00:00:04.000\nB",
			want: []segment.TimedSegment{
				{ID: 0, Transcript: "A", StartTime: "00:00:01.000", EndTime: "00:00:02.000"},
				{ID: 1, Transcript: "B", StartTime: "00:00:03.000", EndTime: "00:00:04.000"},
			},
		},
		{
			name:  "two-line block dropped",
			input: "1\n00:00:01.000 --> 00:00:02.000\n\n2\n00:00:02.000 --> 00:00:03.000\nkept",
			want: []segment.TimedSegment{
				{ID: 1, Transcript: "kept", StartTime: "00:00:02.000", EndTime: "00:00:03.000"},
			},
		},
		{
			name:  "arrow without spaces rejected",
			input: "1\n00:00:01.000-->00:00:02.000\ntext",
			want:  []segment.TimedSegment{},
		},
		{
			name:  "comma millis rejected",
			input: "1\n00:00:01,000 --> 00:00:02,000\ntext",
			want:  []segment.TimedSegment{},
		},
		{
			name:  "cue settings after range accepted",
			input: "1\n00:00:01.000 --> 00:00:02.000 align:start position:0%\ntext",
			want: []segment.TimedSegment{
				{ID: 0, Transcript: "text", StartTime: "00:00:01.000", EndTime: "00:00:02.000"},
			},
		},
		{
			name:  "reversed range passes through",
			input: "1\n00:00:05.000 --> 00:00:02.000\nbackwards",
			want: []segment.TimedSegment{
				{ID: 0, Transcript: "backwards", StartTime: "00:00:05.000", EndTime: "00:00:02.000"},
			},
		},
		{
			name:  "empty input",
			input: "   \n\n  ",
			want:  []segment.TimedSegment{},
		},
		{
			name:  "garbage input",
			input: "this is not a caption file at all",
			want:  []segment.TimedSegment{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Parse(tt.input)
			if diff := cmp.Diff(tt.want, got.AudioSegments); diff != "" {
				t.Errorf("Parse() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestParseWellFormedIDsAreDense(t *testing.T) {
	var b strings.Builder
	const n = 25
	for i := 0; i < n; i++ {
		fmt.Fprintf(&b, "%d\n00:00:%02d.000 --> 00:00:%02d.500\nline %d\n\n", i+1, i, i, i)
	}

	doc := Parse(b.String())
	if doc.Len() != n {
		t.Fatalf("Parse() returned %d segments, want %d", doc.Len(), n)
	}
	for i, seg := range doc.AudioSegments {
		if seg.ID != i {
			t.Errorf("segment %d has id %d", i, seg.ID)
		}
		if seg.Transcript != fmt.Sprintf("line %d", i) {
			t.Errorf("segment %d transcript = %q", i, seg.Transcript)
		}
	}
}

func TestParseMalformedBlockAtK(t *testing.T) {
	const n, k = 6, 3
	var blocks []string
	for i := 0; i < n; i++ {
		if i == k {
			blocks = append(blocks, fmt.Sprintf("%d\nno time here\ntext %d", i+1, i))
			continue
		}
		blocks = append(blocks, fmt.Sprintf("%d\n00:00:%02d.000 --> 00:00:%02d.900\ntext %d", i+1, i, i, i))
	}

	doc := Parse(strings.Join(blocks, "\n\n"))
	if doc.Len() != n-1 {
		t.Fatalf("Parse() returned %d segments, want %d", doc.Len(), n-1)
	}
	for _, seg := range doc.AudioSegments {
		if seg.ID == k {
			t.Errorf("id %d should be absent", k)
		}
		if seg.Transcript != fmt.Sprintf("text %d", seg.ID) {
			t.Errorf("segment id %d carries %q", seg.ID, seg.Transcript)
		}
	}
}

func TestParseRoundTrip(t *testing.T) {
	input := "WEBVTT\n\n1\n00:00:01.000 --> 00:00:02.500\nHello world\n\n2\nbadline\nignored\n\n3\n00:00:03.000 --> 00:00:04.000\nSecond segment"
	want := Parse(input)

	data, err := segment.Marshal(want)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	got, err := segment.Unmarshal(data)
	if err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestParseFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lecture.vtt")
	if err := os.WriteFile(path, []byte("WEBVTT\n\n1\n00:00:00.000 --> 00:00:01.000\nhi\n\n"), 0644); err != nil {
		t.Fatal(err)
	}

	doc, err := ParseFile(path)
	if err != nil {
		t.Fatalf("ParseFile() error = %v", err)
	}
	if doc.Len() != 1 {
		t.Errorf("ParseFile() returned %d segments, want 1", doc.Len())
	}

	if _, err := ParseFile(filepath.Join(t.TempDir(), "missing.vtt")); err == nil {
		t.Error("ParseFile() should fail for a missing file")
	}
}
