package trend

// Aggregate folds a comment stream into per-topic word counts. The fold is
// strictly sequential and privately owns its accumulator, so no external
// synchronization is needed.
//
// comments and errs must come from the same Pipeline run. A failure anywhere
// upstream fails the whole fold: no partial result is returned. An empty
// stream completes with an empty AggregateResult.
func Aggregate(comments <-chan Comment, errs <-chan error) (AggregateResult, error) {
	result := make(AggregateResult)
	for comment := range comments {
		result[comment.Topic] = result[comment.Topic].Merge(CountWords(comment.Body))
	}
	if err := <-errs; err != nil {
		return nil, err
	}
	return result, nil
}
