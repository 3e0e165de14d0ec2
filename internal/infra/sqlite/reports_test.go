package sqlite_test

import (
	"context"
	"database/sql"
	"errors"
	"reflect"
	"testing"

	"github.com/matiasleandrokruk/trendwords/internal/domain/trend"
	"github.com/matiasleandrokruk/trendwords/internal/infra/sqlite"
)

// mustReportStore opens a migrated temp DB and returns a store over it.
func mustReportStore(t *testing.T) (*sqlite.ReportStore, *sql.DB) {
	t.Helper()
	db := mustOpenDB(t)
	if err := sqlite.MigrateUp(db); err != nil {
		t.Fatalf("MigrateUp() error = %v", err)
	}
	return sqlite.NewReportStore(db), db
}

func TestReportStore_SaveAndGet(t *testing.T) {
	t.Parallel()

	store, _ := mustReportStore(t)
	ctx := context.Background()

	subs := []string{"golang", "programming"}
	result := trend.AggregateResult{"golang": {"go": 3, "gopher": 1}}

	saved, err := store.Save(ctx, subs, result)
	if err != nil {
		t.Fatalf("Save() error = %v; want nil", err)
	}
	if saved.ID == "" {
		t.Fatal("Save() returned a report without an ID")
	}
	if saved.CreatedAt.IsZero() {
		t.Fatal("Save() returned a report without a timestamp")
	}

	got, err := store.Get(ctx, saved.ID)
	if err != nil {
		t.Fatalf("Get(%q) error = %v; want nil", saved.ID, err)
	}

	if got.ID != saved.ID {
		t.Errorf("Get().ID = %q; want %q", got.ID, saved.ID)
	}
	if !reflect.DeepEqual(got.Subreddits, subs) {
		t.Errorf("Get().Subreddits = %v; want %v", got.Subreddits, subs)
	}
	if !reflect.DeepEqual(got.Result, result) {
		t.Errorf("Get().Result = %v; want %v", got.Result, result)
	}
	// Stored timestamps are truncated to the millisecond layout.
	if got.CreatedAt.Unix() != saved.CreatedAt.Unix() {
		t.Errorf("Get().CreatedAt = %v; want %v", got.CreatedAt, saved.CreatedAt)
	}
}

func TestReportStore_GetUnknownID(t *testing.T) {
	t.Parallel()

	store, _ := mustReportStore(t)

	_, err := store.Get(context.Background(), "no-such-report")
	if !errors.Is(err, trend.ErrReportNotFound) {
		t.Fatalf("Get() error = %v; want trend.ErrReportNotFound", err)
	}
}

func TestReportStore_ListNewestFirst(t *testing.T) {
	t.Parallel()

	store, _ := mustReportStore(t)
	ctx := context.Background()

	first, err := store.Save(ctx, []string{"a"}, trend.AggregateResult{"a": {"x": 1}})
	if err != nil {
		t.Fatalf("Save() first: %v", err)
	}
	second, err := store.Save(ctx, []string{"b"}, trend.AggregateResult{"b": {"y": 1}})
	if err != nil {
		t.Fatalf("Save() second: %v", err)
	}

	reports, total, err := store.List(ctx, 10, 0)
	if err != nil {
		t.Fatalf("List() error = %v; want nil", err)
	}
	if total != 2 {
		t.Errorf("List() total = %d; want 2", total)
	}
	if len(reports) != 2 {
		t.Fatalf("List() returned %d reports; want 2", len(reports))
	}
	if reports[0].ID != second.ID || reports[1].ID != first.ID {
		t.Errorf("List() order = [%s %s]; want newest first [%s %s]",
			reports[0].ID, reports[1].ID, second.ID, first.ID)
	}
}

func TestReportStore_ListPagination(t *testing.T) {
	t.Parallel()

	store, _ := mustReportStore(t)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		if _, err := store.Save(ctx, []string{"a"}, trend.AggregateResult{}); err != nil {
			t.Fatalf("Save() %d: %v", i, err)
		}
	}

	page, total, err := store.List(ctx, 2, 2)
	if err != nil {
		t.Fatalf("List() error = %v; want nil", err)
	}
	if total != 5 {
		t.Errorf("List() total = %d; want 5 regardless of page", total)
	}
	if len(page) != 2 {
		t.Errorf("List() page size = %d; want 2", len(page))
	}
}

func TestReportStore_ListEmpty(t *testing.T) {
	t.Parallel()

	store, _ := mustReportStore(t)

	reports, total, err := store.List(context.Background(), 10, 0)
	if err != nil {
		t.Fatalf("List() error = %v; want nil", err)
	}
	if total != 0 || len(reports) != 0 {
		t.Errorf("List() = %d reports, total %d; want empty", len(reports), total)
	}
}
