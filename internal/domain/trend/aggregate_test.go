package trend

import (
	"context"
	"errors"
	"reflect"
	"testing"
)

func TestAggregate_FoldsCommentsPerTopic(t *testing.T) {
	t.Parallel()

	comments := make(chan Comment, 4)
	comments <- Comment{Topic: "sub1", Body: "a a b"}
	comments <- Comment{Topic: "sub1", Body: "b c c"}
	comments <- Comment{Topic: "sub2", Body: "a"}
	close(comments)
	errs := make(chan error)
	close(errs)

	got, err := Aggregate(comments, errs)
	if err != nil {
		t.Fatalf("Aggregate: %v", err)
	}

	want := AggregateResult{
		"sub1": {"a": 2, "b": 2, "c": 2},
		"sub2": {"a": 1},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Aggregate = %v; want %v", got, want)
	}
}

func TestAggregate_FailureYieldsNoPartialResult(t *testing.T) {
	t.Parallel()

	boom := errors.New("boom")
	comments := make(chan Comment, 1)
	comments <- Comment{Topic: "sub1", Body: "a a b"}
	close(comments)
	errs := make(chan error, 1)
	errs <- boom
	close(errs)

	got, err := Aggregate(comments, errs)
	if !errors.Is(err, boom) {
		t.Fatalf("Aggregate error = %v; want %v", err, boom)
	}
	if got != nil {
		t.Fatalf("Aggregate returned partial result %v alongside the error", got)
	}
}

func TestAggregate_EmptyStream(t *testing.T) {
	t.Parallel()

	comments := make(chan Comment)
	close(comments)
	errs := make(chan error)
	close(errs)

	got, err := Aggregate(comments, errs)
	if err != nil {
		t.Fatalf("Aggregate: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("Aggregate of empty stream = %v; want empty result", got)
	}
}

func TestAggregate_EndToEndFixture(t *testing.T) {
	t.Parallel()

	source := sub1Source()
	comments, errs := NewPipeline(source, testPipelineConfig()).Run(context.Background(), []Topic{"sub1"})

	got, err := Aggregate(comments, errs)
	if err != nil {
		t.Fatalf("Aggregate: %v", err)
	}

	want := AggregateResult{"sub1": {"a": 3, "b": 2, "c": 2}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Aggregate = %v; want %v", got, want)
	}
}
