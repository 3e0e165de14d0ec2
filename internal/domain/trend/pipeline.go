package trend

import (
	"context"

	"github.com/matiasleandrokruk/trendwords/internal/stream"
)

// ContentSource is the external content collaborator. Any call may fail;
// failures are not retried anywhere in the pipeline.
type ContentSource interface {
	// TrendingTopics returns the collaborator's own ranked list of
	// currently trending topics.
	TrendingTopics(ctx context.Context) ([]Topic, error)
	// PopularLinks returns one listing of popular links for a topic.
	PopularLinks(ctx context.Context, topic Topic) ([]Link, error)
	// PopularComments returns one listing of comments for a link.
	PopularComments(ctx context.Context, link Link) ([]Comment, error)
}

// PipelineConfig carries the independent bounds of the two fetch stages.
// Total external-call concurrency can reach Links.Concurrency +
// Comments.Concurrency.
type PipelineConfig struct {
	Links    stream.StageConfig
	Comments stream.StageConfig
}

// Pipeline is the deterministic composition
//
//	topics -> FetchStage(topic->links) -> FetchStage(link->comments) -> comments
//
// with a private throttle and concurrency gate per stage and no buffering
// beyond what the stages require.
type Pipeline struct {
	source ContentSource
	cfg    PipelineConfig
}

// NewPipeline creates a Pipeline over source.
func NewPipeline(source ContentSource, cfg PipelineConfig) *Pipeline {
	return &Pipeline{source: source, cfg: cfg}
}

// Run streams the comments of every topic's popular links. The error channel
// is buffered, delivers at most the first stage failure, and closes once the
// run has fully stopped; receiving from it yields nil after a clean run.
// A failure anywhere cancels both stages. Cancelling ctx abandons the run and
// releases all pipeline goroutines.
func (p *Pipeline) Run(ctx context.Context, topics []Topic) (<-chan Comment, <-chan error) {
	runCtx, cancel := context.WithCancel(ctx)

	names := make(chan Topic)
	go func() {
		defer close(names)
		for _, topic := range topics {
			select {
			case names <- topic:
			case <-runCtx.Done():
				return
			}
		}
	}()

	linkStage := stream.NewFetchStage("links", p.cfg.Links, p.source.PopularLinks)
	commentStage := stream.NewFetchStage("comments", p.cfg.Comments, p.source.PopularComments)

	links, linkErrs := linkStage.Stream(runCtx, names)
	comments, commentErrs := commentStage.Stream(runCtx, links)

	errc := make(chan error, 1)
	go func() {
		defer close(errc)
		defer cancel()

		for linkErrs != nil || commentErrs != nil {
			select {
			case err, ok := <-linkErrs:
				if !ok {
					linkErrs = nil
					continue
				}
				p.fail(errc, cancel, err)
			case err, ok := <-commentErrs:
				if !ok {
					commentErrs = nil
					continue
				}
				p.fail(errc, cancel, err)
			}
		}
	}()

	return comments, errc
}

// fail records the first error and aborts the whole run.
func (p *Pipeline) fail(errc chan<- error, cancel context.CancelFunc, err error) {
	if err == nil {
		return
	}
	select {
	case errc <- err:
	default:
	}
	cancel()
}
