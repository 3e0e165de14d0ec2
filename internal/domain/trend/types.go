// Package trend computes per-subreddit word-frequency statistics from
// popular Reddit content, either as a one-shot batch report or as a live
// per-comment feed over a text-message connection.
package trend

import "errors"

// ErrReportNotFound is returned by report lookups for unknown report IDs.
var ErrReportNotFound = errors.New("report not found")

// Topic identifies a subreddit.
type Topic string

// Link is a popular submission inside a Topic. ID is the article identifier
// used to fetch the submission's comment listing.
type Link struct {
	Topic Topic
	ID    string
}

// Comment is a single comment belonging to a Topic. Links and Comments are
// transient: produced by one pipeline stage and consumed by the next, never
// persisted.
type Comment struct {
	Topic Topic
	Body  string
}

// AggregateResult maps each Topic that produced at least one comment to the
// merged word counts of all its comments.
type AggregateResult map[Topic]WordCount

// ToTopics converts raw subreddit names to Topics, dropping empty names.
func ToTopics(names []string) []Topic {
	topics := make([]Topic, 0, len(names))
	for _, name := range names {
		if name == "" {
			continue
		}
		topics = append(topics, Topic(name))
	}
	return topics
}
