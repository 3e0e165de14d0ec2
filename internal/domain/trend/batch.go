package trend

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
)

// ReportSink receives the finished report of a batch run.
type ReportSink interface {
	Write(ctx context.Context, result AggregateResult) error
}

// BatchRunner drives one names-to-comments pipeline run to completion and
// aggregates the result.
type BatchRunner struct {
	source ContentSource
	cfg    PipelineConfig
}

// NewBatchRunner creates a BatchRunner over source.
func NewBatchRunner(source ContentSource, cfg PipelineConfig) *BatchRunner {
	return &BatchRunner{source: source, cfg: cfg}
}

// Run resolves the topic list, drives the pipeline through the aggregator and
// returns the final report. A non-empty topics list is used verbatim; an
// empty one is resolved via the collaborator's trending topics (an empty
// trending result is not an error and yields an empty report). Run blocks the
// caller until completion.
func (r *BatchRunner) Run(ctx context.Context, topics []Topic) (AggregateResult, error) {
	if len(topics) == 0 {
		resolved, err := r.source.TrendingTopics(ctx)
		if err != nil {
			return nil, fmt.Errorf("resolve trending topics: %w", err)
		}
		topics = resolved
	}

	comments, errs := NewPipeline(r.source, r.cfg).Run(ctx, topics)
	return Aggregate(comments, errs)
}

// RunTo runs the batch and hands the report to sink. On pipeline failure the
// sink is never invoked.
func (r *BatchRunner) RunTo(ctx context.Context, topics []Topic, sink ReportSink) error {
	result, err := r.Run(ctx, topics)
	if err != nil {
		return err
	}
	return sink.Write(ctx, result)
}

// JSONReportWriter is a ReportSink writing the report as indented JSON, used
// by the batch CLI.
type JSONReportWriter struct {
	out io.Writer
}

// NewJSONReportWriter creates a JSONReportWriter over out.
func NewJSONReportWriter(out io.Writer) *JSONReportWriter {
	return &JSONReportWriter{out: out}
}

// Write serializes result to the underlying writer.
func (w *JSONReportWriter) Write(_ context.Context, result AggregateResult) error {
	enc := json.NewEncoder(w.out)
	enc.SetIndent("", "  ")
	if err := enc.Encode(result); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}
