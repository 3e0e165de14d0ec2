package trend

import (
	"context"
	"sync"
	"time"

	"github.com/matiasleandrokruk/trendwords/internal/stream"
)

// fakeSource is an in-memory ContentSource for pipeline, batch and live
// tests. Links are keyed by topic, comments by link ID.
type fakeSource struct {
	mu sync.Mutex

	trending    []Topic
	trendingErr error

	links    map[Topic][]Link
	linksErr map[Topic]error

	comments    map[string][]Comment
	commentsErr map[string]error

	linkDelay map[Topic]time.Duration

	trendingCalls int
	linkCalls     []Topic
}

func (f *fakeSource) TrendingTopics(ctx context.Context) ([]Topic, error) {
	f.mu.Lock()
	f.trendingCalls++
	f.mu.Unlock()
	if f.trendingErr != nil {
		return nil, f.trendingErr
	}
	return f.trending, nil
}

func (f *fakeSource) PopularLinks(ctx context.Context, topic Topic) ([]Link, error) {
	f.mu.Lock()
	f.linkCalls = append(f.linkCalls, topic)
	delay := f.linkDelay[topic]
	f.mu.Unlock()

	if delay > 0 {
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if err := f.linksErr[topic]; err != nil {
		return nil, err
	}
	return f.links[topic], nil
}

func (f *fakeSource) PopularComments(ctx context.Context, link Link) ([]Comment, error) {
	if err := f.commentsErr[link.ID]; err != nil {
		return nil, err
	}
	return f.comments[link.ID], nil
}

// sub1Source returns the shared end-to-end fixture: subreddit sub1 with two
// links, link A carrying comments "a a b" and "b c c", link B carrying "a".
func sub1Source() *fakeSource {
	return &fakeSource{
		links: map[Topic][]Link{
			"sub1": {{Topic: "sub1", ID: "A"}, {Topic: "sub1", ID: "B"}},
		},
		comments: map[string][]Comment{
			"A": {
				{Topic: "sub1", Body: "a a b"},
				{Topic: "sub1", Body: "b c c"},
			},
			"B": {
				{Topic: "sub1", Body: "a"},
			},
		},
	}
}

// testPipelineConfig keeps stage timers short so tests stay fast.
func testPipelineConfig() PipelineConfig {
	cfg := stream.StageConfig{Interval: time.Millisecond, Concurrency: 4}
	return PipelineConfig{Links: cfg, Comments: cfg}
}
