package trend

import (
	"encoding/json"
	"fmt"
)

// Request is one inbound live-feed frame: an ordered set of subreddit names
// to stream.
type Request struct {
	Subreddits []string `json:"subreddits"`
}

// Result is the payload of a successful ResultMessage: the word counts of a
// single comment in one subreddit.
type Result struct {
	Subreddit string    `json:"subreddit"`
	WordCount WordCount `json:"wordcount"`
}

// ResultMessage is one outbound live-feed frame. Exactly one of Error and
// Result is set.
type ResultMessage struct {
	Error  *string `json:"error"`
	Result *Result `json:"result"`
}

// CommentMessage builds the ResultMessage for one comment's word counts.
func CommentMessage(topic Topic, counts WordCount) ResultMessage {
	return ResultMessage{Result: &Result{Subreddit: string(topic), WordCount: counts}}
}

// ErrorMessage builds a ResultMessage carrying only an error string.
func ErrorMessage(msg string) ResultMessage {
	return ResultMessage{Error: &msg}
}

// DecodeRequest parses one inbound text frame into a Request.
func DecodeRequest(frame []byte) (Request, error) {
	var req Request
	if err := json.Unmarshal(frame, &req); err != nil {
		return Request{}, fmt.Errorf("decode request frame: %w", err)
	}
	return req, nil
}

// EncodeResult serializes one outbound ResultMessage into a text frame.
func EncodeResult(msg ResultMessage) ([]byte, error) {
	frame, err := json.Marshal(msg)
	if err != nil {
		return nil, fmt.Errorf("encode result frame: %w", err)
	}
	return frame, nil
}
