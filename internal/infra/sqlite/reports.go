package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/matiasleandrokruk/trendwords/internal/domain/trend"
	"github.com/matiasleandrokruk/trendwords/pkg/uuid"
)

const timeLayout = "2006-01-02T15:04:05.000Z"

// Report is one persisted batch run: the subreddits it covered and the
// aggregated word counts it produced.
type Report struct {
	ID         string                `json:"id"`
	CreatedAt  time.Time             `json:"createdAt"`
	Subreddits []string              `json:"subreddits"`
	Result     trend.AggregateResult `json:"result"`
}

// ReportStore persists batch reports. IDs are UUID v7, so lexicographic order
// matches creation order.
type ReportStore struct {
	db *sql.DB
}

// NewReportStore creates a ReportStore over db.
func NewReportStore(db *sql.DB) *ReportStore {
	return &ReportStore{db: db}
}

// Save persists one finished batch run and returns the stored report.
func (s *ReportStore) Save(ctx context.Context, subreddits []string, result trend.AggregateResult) (*Report, error) {
	report := &Report{
		ID:         uuid.NewV7().String(),
		CreatedAt:  time.Now().UTC(),
		Subreddits: subreddits,
		Result:     result,
	}

	subs, err := json.Marshal(report.Subreddits)
	if err != nil {
		return nil, fmt.Errorf("reports: encode subreddits: %w", err)
	}
	payload, err := json.Marshal(report.Result)
	if err != nil {
		return nil, fmt.Errorf("reports: encode result: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		"INSERT INTO reports (id, created_at, subreddits, payload) VALUES (?, ?, ?, ?)",
		report.ID, report.CreatedAt.Format(timeLayout), string(subs), string(payload),
	)
	if err != nil {
		return nil, fmt.Errorf("reports: insert: %w", err)
	}
	return report, nil
}

// Get returns one report by ID, or trend.ErrReportNotFound.
func (s *ReportStore) Get(ctx context.Context, id string) (*Report, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT id, created_at, subreddits, payload FROM reports WHERE id = ?", id)

	report, err := scanReport(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, trend.ErrReportNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("reports: get %s: %w", id, err)
	}
	return report, nil
}

// List returns reports newest-first with the total count for pagination.
func (s *ReportStore) List(ctx context.Context, limit, offset int) ([]*Report, int, error) {
	var total int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM reports").Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("reports: count: %w", err)
	}

	rows, err := s.db.QueryContext(ctx,
		"SELECT id, created_at, subreddits, payload FROM reports ORDER BY created_at DESC, id DESC LIMIT ? OFFSET ?",
		limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("reports: list: %w", err)
	}
	defer rows.Close() //nolint:errcheck

	reports := make([]*Report, 0, limit)
	for rows.Next() {
		report, scanErr := scanReport(rows)
		if scanErr != nil {
			return nil, 0, fmt.Errorf("reports: list scan: %w", scanErr)
		}
		reports = append(reports, report)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("reports: list rows: %w", err)
	}
	return reports, total, nil
}

// scanner abstracts *sql.Row and *sql.Rows for scanReport.
type scanner interface {
	Scan(dest ...any) error
}

// scanReport decodes one reports row.
func scanReport(row scanner) (*Report, error) {
	var (
		report    Report
		createdAt string
		subs      string
		payload   string
	)
	if err := row.Scan(&report.ID, &createdAt, &subs, &payload); err != nil {
		return nil, err
	}

	ts, err := time.Parse(timeLayout, createdAt)
	if err != nil {
		return nil, fmt.Errorf("parse created_at %q: %w", createdAt, err)
	}
	report.CreatedAt = ts

	if err := json.Unmarshal([]byte(subs), &report.Subreddits); err != nil {
		return nil, fmt.Errorf("decode subreddits: %w", err)
	}
	if err := json.Unmarshal([]byte(payload), &report.Result); err != nil {
		return nil, fmt.Errorf("decode result: %w", err)
	}
	return &report, nil
}
