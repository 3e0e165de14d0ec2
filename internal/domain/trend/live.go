package trend

import (
	"context"
	"fmt"
)

// Conn is the bidirectional text-message channel the live feed speaks over.
// Implementations are not required to support concurrent writers; LiveFeed
// serializes all writes itself.
type Conn interface {
	// ReadMessage blocks for the next inbound text frame. It returns an
	// error once the underlying channel is closed.
	ReadMessage() ([]byte, error)
	// WriteMessage sends one outbound text frame.
	WriteMessage(frame []byte) error
}

// requestBacklog bounds how many decoded client requests may queue behind the
// one currently streaming. A full backlog blocks the reader, which in turn
// backpressures the client.
const requestBacklog = 16

// inboundFrame is one decoded client frame, or its decode failure.
type inboundFrame struct {
	req Request
	err error
}

// LiveFeed streams per-comment word counts over a Conn.
//
// Protocol states: Init (synthesize the first request from the connect-time
// seed, or from trending topics when the seed is empty), Streaming (the
// synthesized request first, further client requests in arrival order; one
// ResultMessage per comment, counting that single comment only), Closed (the
// channel closed, or every fed request ran its pipeline dry with none
// pending).
type LiveFeed struct {
	source ContentSource
	cfg    PipelineConfig
}

// NewLiveFeed creates a LiveFeed over source.
func NewLiveFeed(source ContentSource, cfg PipelineConfig) *LiveFeed {
	return &LiveFeed{source: source, cfg: cfg}
}

// Serve runs the protocol until the connection closes or a pipeline lookup
// fails. A lookup failure is reported to the client as a ResultMessage with
// error set, then Serve returns the failure; a clean close returns nil.
// Cancelling ctx abandons all derived pipeline runs.
func (f *LiveFeed) Serve(ctx context.Context, conn Conn, seed []Topic) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	frames := f.readFrames(ctx, conn)

	first, err := f.initialRequest(ctx, seed)
	if err != nil {
		f.writeError(conn, err)
		return err
	}

	if err := f.streamRequest(ctx, conn, first); err != nil {
		return err
	}

	for frame := range frames {
		if frame.err != nil {
			// Malformed frame: protocol-error response, frame dropped,
			// connection stays open.
			f.writeError(conn, frame.err)
			continue
		}
		if err := f.streamRequest(ctx, conn, frame.req); err != nil {
			return err
		}
	}
	return nil
}

// readFrames decodes inbound frames in arrival order. The returned channel
// closes when the connection does.
func (f *LiveFeed) readFrames(ctx context.Context, conn Conn) <-chan inboundFrame {
	frames := make(chan inboundFrame, requestBacklog)
	go func() {
		defer close(frames)
		for {
			data, err := conn.ReadMessage()
			if err != nil {
				return
			}
			req, decodeErr := DecodeRequest(data)
			select {
			case frames <- inboundFrame{req: req, err: decodeErr}:
			case <-ctx.Done():
				return
			}
		}
	}()
	return frames
}

// initialRequest synthesizes the first request: from the connect-time seed if
// non-empty, otherwise from the asynchronously resolved trending topics.
func (f *LiveFeed) initialRequest(ctx context.Context, seed []Topic) (Request, error) {
	if len(seed) > 0 {
		return topicsRequest(seed), nil
	}

	type outcome struct {
		topics []Topic
		err    error
	}
	resolved := make(chan outcome, 1)
	go func() {
		topics, err := f.source.TrendingTopics(ctx)
		resolved <- outcome{topics: topics, err: err}
	}()

	select {
	case <-ctx.Done():
		return Request{}, ctx.Err()
	case out := <-resolved:
		if out.err != nil {
			return Request{}, fmt.Errorf("resolve trending topics: %w", out.err)
		}
		return topicsRequest(out.topics), nil
	}
}

// streamRequest runs one fresh pipeline over the request's topics and emits
// one ResultMessage per comment as it completes.
func (f *LiveFeed) streamRequest(ctx context.Context, conn Conn, req Request) error {
	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	comments, errs := NewPipeline(f.source, f.cfg).Run(runCtx, ToTopics(req.Subreddits))
	for comment := range comments {
		frame, err := EncodeResult(CommentMessage(comment.Topic, CountWords(comment.Body)))
		if err != nil {
			return err
		}
		if err := conn.WriteMessage(frame); err != nil {
			return fmt.Errorf("write result frame: %w", err)
		}
	}
	if err := <-errs; err != nil {
		f.writeError(conn, err)
		return err
	}
	return nil
}

// writeError best-effort reports err to the client as a ResultMessage with
// only the error field set.
func (f *LiveFeed) writeError(conn Conn, err error) {
	frame, encodeErr := EncodeResult(ErrorMessage(err.Error()))
	if encodeErr != nil {
		return
	}
	_ = conn.WriteMessage(frame) //nolint:errcheck // connection may already be gone
}

// topicsRequest converts resolved topics into the synthesized Request.
func topicsRequest(topics []Topic) Request {
	names := make([]string, len(topics))
	for i, topic := range topics {
		names[i] = string(topic)
	}
	return Request{Subreddits: names}
}
