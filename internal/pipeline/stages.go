package pipeline

import (
	"context"
	"fmt"
	"os"

	"github.com/nguyentantai21042004/study-digest/internal/caption"
	"github.com/nguyentantai21042004/study-digest/internal/export"
	"github.com/nguyentantai21042004/study-digest/internal/segment"
	"github.com/nguyentantai21042004/study-digest/internal/summary"
)

// transcribe runs the speech-to-text engine and writes the caption track.
func (p *implProcessor) transcribe(ctx context.Context, t *tracker, mediaPath string) (string, error) {
	if err := requireFile(mediaPath, Transcribing); err != nil {
		return "", err
	}
	t.enter(ctx, Transcribing)

	p.log.Info(ctx, "Transcribing %s with %s (model '%s')", mediaPath, p.deps.Transcriber.Name(), p.cfg.Whisper.ModelSize)

	res, err := p.deps.Transcriber.Transcribe(ctx, mediaPath)
	if err != nil {
		return "", fmt.Errorf("transcribe: %w", err)
	}
	t.language = res.Language
	if res.Language != "" {
		p.log.Info(ctx, "Detected language: %s, probability: %.2f", res.Language, res.LanguageProbability)
	}

	cues := make([]caption.Cue, 0, len(res.Segments))
	for _, s := range res.Segments {
		cues = append(cues, caption.Cue{Start: s.Start, End: s.End, Text: s.Text})
	}

	vttPath, err := p.outputPath(captionName(baseName(mediaPath)))
	if err != nil {
		return "", err
	}
	if err := caption.WriteFile(vttPath, cues); err != nil {
		return "", err
	}

	t.run.CaptionPath = vttPath
	p.log.Info(ctx, "Transcription complete: %s (%d segments)", vttPath, len(cues))
	return vttPath, nil
}

// convert parses a caption track and writes the transcript JSON.
func (p *implProcessor) convert(ctx context.Context, t *tracker, captionPath string) (segment.Document, string, error) {
	if err := requireFile(captionPath, ParsingCaptions); err != nil {
		return segment.Document{}, "", err
	}
	t.enter(ctx, ParsingCaptions)

	doc, err := caption.ParseFile(captionPath)
	if err != nil {
		return segment.Document{}, "", err
	}
	if info, err := os.Stat(captionPath); err == nil && doc.Len() == 0 && info.Size() > int64(len(caption.Header)) {
		p.log.Warn(ctx, "No segments parsed from non-empty caption file %s; check its format", captionPath)
	}

	jsonPath, err := p.outputPath(segmentName(baseName(captionPath)))
	if err != nil {
		return segment.Document{}, "", err
	}
	if err := segment.Save(jsonPath, doc); err != nil {
		return segment.Document{}, "", err
	}

	t.run.SegmentPath = jsonPath
	p.log.Info(ctx, "Conversion complete: %s (%d segments)", jsonPath, doc.Len())
	return doc, jsonPath, nil
}

// summarize builds the prompt, calls the backend and persists the summary.
// A failed backend call still persists the placeholder document before the
// error is returned.
func (p *implProcessor) summarize(ctx context.Context, t *tracker, base string, doc segment.Document) (string, summary.Document, error) {
	t.enter(ctx, BuildingPrompt)
	req, err := p.deps.Prompt.Build(doc)
	if err != nil {
		return "", summary.Document{}, fmt.Errorf("build prompt: %w", err)
	}
	p.log.Debug(ctx, "Prompt built: %d bytes, %d segments", len(req), doc.Len())

	if p.deps.Generator == nil {
		return "", summary.Document{}, &StageError{State: AwaitingGeneration, Err: ErrNoGenerator}
	}

	t.enter(ctx, AwaitingGeneration)
	p.log.Info(ctx, "Generating summary... This may take a few minutes.")

	raw, genErr := p.deps.Generator.Generate(ctx, req)
	if genErr != nil {
		placeholder := p.deps.Extractor.GenerationFailed(genErr)
		path, err := p.persist(ctx, t, base, placeholder)
		if err != nil {
			p.log.Warn(ctx, "Failed to persist generation-failure placeholder: %v", err)
		}
		return path, placeholder, &StageError{State: AwaitingGeneration, Err: genErr}
	}

	t.enter(ctx, ExtractingSummary)
	result := p.deps.Extractor.Extract(raw)
	if result.Kind() == summary.KindMalformed {
		p.log.Warn(ctx, "Backend output was not valid JSON; raw output kept in the summary file")
	}

	path, err := p.persist(ctx, t, base, result)
	if err != nil {
		return "", result, err
	}
	return path, result, nil
}

// persist writes summary_{B}.json and, when enabled, summary_{B}.docx.
func (p *implProcessor) persist(ctx context.Context, t *tracker, base string, d summary.Document) (string, error) {
	t.enter(ctx, Persisting)

	path, err := p.outputPath(summaryName(base))
	if err != nil {
		return "", err
	}
	if err := summary.Save(path, d); err != nil {
		return "", err
	}
	t.run.SummaryPath = path
	t.run.SummaryKind = d.Kind().String()
	p.log.Info(ctx, "Summary saved: %s (%s)", path, d.Kind())

	if p.cfg.Export.Docx && d.Kind() == summary.KindSuccess {
		docxPath, err := p.outputPath(docxName(base))
		if err == nil {
			err = export.WriteDocx(base, d, docxPath)
		}
		if err != nil {
			p.log.Warn(ctx, "Failed to export docx: %v", err)
		} else {
			t.docxPath = docxPath
			p.log.Info(ctx, "Summary document: %s", docxPath)
		}
	}

	return path, nil
}
