package pipeline

import (
	"context"
	"time"

	"github.com/nguyentantai21042004/study-digest/internal/segment"
	"github.com/nguyentantai21042004/study-digest/internal/storage"
)

// Transcribe runs the transcription stage alone.
func (p *implProcessor) Transcribe(ctx context.Context, mediaPath string) (string, error) {
	ctx, t := p.begin(ctx, "transcribe", mediaPath)

	vttPath, err := p.transcribe(ctx, t, mediaPath)
	if err != nil {
		return "", t.fail(ctx, err)
	}

	t.done(ctx)
	return vttPath, nil
}

// ConvertCaptions runs the caption-to-JSON stage alone.
func (p *implProcessor) ConvertCaptions(ctx context.Context, captionPath string) (string, error) {
	ctx, t := p.begin(ctx, "convert", captionPath)

	_, jsonPath, err := p.convert(ctx, t, captionPath)
	if err != nil {
		return "", t.fail(ctx, err)
	}

	t.done(ctx)
	return jsonPath, nil
}

// Summarize generates a summary from an existing transcript JSON file.
func (p *implProcessor) Summarize(ctx context.Context, segmentPath string) (string, error) {
	ctx, t := p.begin(ctx, "summarize", segmentPath)

	if err := requireFile(segmentPath, BuildingPrompt); err != nil {
		return "", t.fail(ctx, err)
	}
	t.enter(ctx, BuildingPrompt)

	doc, err := segment.Load(segmentPath)
	if err != nil {
		return "", t.fail(ctx, err)
	}

	path, _, err := p.summarize(ctx, t, baseName(segmentPath), doc)
	if err != nil {
		return path, t.fail(ctx, err)
	}

	t.done(ctx)
	return path, nil
}

// Run orchestrates the entire pipeline for one media file. Stages run
// strictly in order; the first failure stops the run.
func (p *implProcessor) Run(ctx context.Context, mediaPath string) (*Result, error) {
	startTime := time.Now()
	ctx, t := p.begin(ctx, "full", mediaPath)

	res := &Result{RunID: t.run.ID, BaseName: t.run.BaseName}

	p.log.Info(ctx, "========================================")
	p.log.Info(ctx, "Starting pipeline: %s", mediaPath)
	p.log.Info(ctx, "========================================")

	if p.deps.Generator == nil {
		return res, t.fail(ctx, &StageError{State: AwaitingGeneration, Err: ErrNoGenerator})
	}

	// Step 1: media -> caption track
	p.log.Info(ctx, "Step 1/4: Transcribing media to captions...")
	vttPath, err := p.transcribe(ctx, t, mediaPath)
	if err != nil {
		return res, t.fail(ctx, err)
	}
	res.CaptionPath = vttPath
	res.Language = t.language

	// Step 2: caption track -> transcript JSON
	p.log.Info(ctx, "Step 2/4: Converting captions to JSON...")
	doc, jsonPath, err := p.convert(ctx, t, vttPath)
	if err != nil {
		return res, t.fail(ctx, err)
	}
	res.SegmentPath = jsonPath
	res.Segments = doc.Len()

	// Steps 3 and 4: generate and persist the summary
	p.log.Info(ctx, "Step 3/4: Generating summary...")
	summaryPath, sdoc, err := p.summarize(ctx, t, res.BaseName, doc)
	if summaryPath != "" {
		res.SummaryPath = summaryPath
		res.SummaryKind = sdoc.Kind()
	}
	if err != nil {
		return res, t.fail(ctx, err)
	}
	p.log.Info(ctx, "Step 4/4: Results saved")

	res.DocxPath = t.docxPath

	if p.deps.Uploader != nil {
		keys, err := storage.PublishFiles(ctx, p.deps.Uploader, res.BaseName,
			res.CaptionPath, res.SegmentPath, res.SummaryPath, res.DocxPath)
		res.Published = keys
		if err != nil {
			p.log.Warn(ctx, "Failed to publish artifacts: %v", err)
		} else {
			p.log.Info(ctx, "Published %d artifacts", len(keys))
		}
	}

	t.done(ctx)

	p.log.Info(ctx, "========================================")
	p.log.Info(ctx, "All 4 steps completed successfully!")
	p.log.Info(ctx, "Captions: %s", res.CaptionPath)
	p.log.Info(ctx, "Transcript JSON: %s", res.SegmentPath)
	p.log.Info(ctx, "Summary JSON: %s", res.SummaryPath)
	p.log.Info(ctx, "Processing time: %s", time.Since(startTime))
	p.log.Info(ctx, "========================================")

	return res, nil
}
