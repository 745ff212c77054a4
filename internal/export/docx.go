// Package export renders study summaries as Word documents.
package export

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/gomutex/godocx"
	"github.com/gomutex/godocx/docx"
	"github.com/nguyentantai21042004/study-digest/internal/summary"
)

const (
	fontName = "Times New Roman"
	fontSize = 13
)

// ErrNotExportable is returned for placeholder documents.
var ErrNotExportable = errors.New("summary holds no generated content")

var (
	reTag    = regexp.MustCompile(`</?(?:i|sub|sup)>`)
	reDollar = regexp.MustCompile(`\$\$(.+?)\$\$`)
)

// WriteDocx renders a successful summary document to outputPath.
// fallbackTitle is used when the summary carries no title.
func WriteDocx(fallbackTitle string, d summary.Document, outputPath string) error {
	if d.Kind() != summary.KindSuccess {
		return ErrNotExportable
	}
	data, ok := d.Object()
	if !ok {
		return ErrNotExportable
	}

	doc, err := godocx.NewDocument()
	if err != nil {
		return fmt.Errorf("create document: %w", err)
	}

	overall, _ := data["overall_summary"].(map[string]any)
	title := str(overall["summary_title"])
	if title == "" {
		title = fallbackTitle
	}
	addStyledRun(doc.AddParagraph(""), title, true, 16)
	addStyledRun(doc.AddParagraph(""), "Generated "+d.GeneratedTimestamp, false, 10)

	addSection(doc, "Overview", str(overall["summary_text"]))
	addSection(doc, "How the session begins", str(data["starting_build_up"]))

	if chapters, ok := data["chapters"].([]any); ok && len(chapters) > 0 {
		addStyledRun(doc.AddParagraph(""), "Chapters", true, headingSize(2))
		for _, c := range chapters {
			ch, ok := c.(map[string]any)
			if !ok {
				continue
			}
			heading := str(ch["chapter_title"])
			if start, end := str(ch["start_time"]), str(ch["end_time"]); start != "" {
				heading = fmt.Sprintf("%s (%s - %s)", heading, start, end)
			}
			addStyledRun(doc.AddParagraph(""), heading, true, headingSize(3))
			addParagraphs(doc, str(ch["summary_text"]))
			addParagraphs(doc, str(ch["description"]))
		}
	}

	addSection(doc, "Wrap-up", str(data["end_summary"]))

	if tags := strings.Join(strs(data["tags"]), ", "); tags != "" {
		addStyledRun(doc.AddParagraph(""), "Tags", true, headingSize(2))
		addStyledRun(doc.AddParagraph(""), tags, false, fontSize)
	}

	if qa, ok := data["Q&A"].([]any); ok && len(qa) > 0 {
		addStyledRun(doc.AddParagraph(""), "Questions and answers", true, headingSize(2))
		for i, item := range qa {
			pair, ok := item.(map[string]any)
			if !ok {
				continue
			}
			addStyledRun(doc.AddParagraph(""), fmt.Sprintf("Q%d. %s", i+1, str(pair["question"])), true, fontSize)
			addParagraphs(doc, str(pair["answer"]))
		}
	}

	return doc.SaveTo(outputPath)
}

func addSection(doc *docx.RootDoc, heading, body string) {
	if strings.TrimSpace(body) == "" {
		return
	}
	addStyledRun(doc.AddParagraph(""), heading, true, headingSize(2))
	addParagraphs(doc, body)
}

func addParagraphs(doc *docx.RootDoc, text string) {
	for _, para := range strings.Split(text, "\n") {
		if para = strings.TrimSpace(para); para != "" {
			addStyledRun(doc.AddParagraph(""), para, false, fontSize)
		}
	}
}

func headingSize(level int) uint64 {
	switch level {
	case 1:
		return 16
	case 2:
		return 15
	case 3:
		return 14
	default:
		return fontSize
	}
}

func addStyledRun(p *docx.Paragraph, text string, bold bool, size uint64) {
	run := p.AddText(cleanInline(text)).Font(fontName).Size(size).Color("000000")
	if bold {
		run.Bold(true)
	}
}

// cleanInline drops the LMS inline markup, which Word would show literally.
func cleanInline(s string) string {
	s = reDollar.ReplaceAllString(s, "$1")
	return reTag.ReplaceAllString(s, "")
}

func str(v any) string {
	s, _ := v.(string)
	return s
}

func strs(v any) []string {
	items, _ := v.([]any)
	out := make([]string, 0, len(items))
	for _, it := range items {
		if s, ok := it.(string); ok && s != "" {
			out = append(out, s)
		}
	}
	return out
}
