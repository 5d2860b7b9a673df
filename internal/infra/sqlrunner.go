package infra

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// SQLExecutor is what repositories and the credential store run queries
// through.
type SQLExecutor interface {
	Exec(ctx context.Context, query string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, query string, args ...any) pgx.Row
	Query(ctx context.Context, query string, args ...any) (pgx.Rows, error)
}

var markerRegexp = regexp.MustCompile(`^--sql [0-9a-f]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12}$`)

// ErrMissingMarker is returned for queries without a `--sql <uuid>` first line.
var ErrMissingMarker = errors.New("sql marker missing or invalid")

// DefaultSlowQuery is the duration above which a statement is logged at warn.
const DefaultSlowQuery = 200 * time.Millisecond

type markedQuery struct {
	marker string
	body   string
}

// SQLRunner runs marked statements and logs them by marker through the
// request logger found in ctx, falling back to its own logger.
type SQLRunner struct {
	db        SQLExecutor
	logger    zerolog.Logger
	slowQuery time.Duration
	parsed    sync.Map
}

func NewSQLRunner(pool *pgxpool.Pool, logger zerolog.Logger) *SQLRunner {
	return newSQLRunner(pool, logger)
}

func newSQLRunner(db SQLExecutor, logger zerolog.Logger) *SQLRunner {
	return &SQLRunner{db: db, logger: logger.With().Str("component", "sql").Logger(), slowQuery: DefaultSlowQuery}
}

func (r *SQLRunner) Exec(ctx context.Context, query string, args ...any) (pgconn.CommandTag, error) {
	q, err := r.prepare(query)
	if err != nil {
		return pgconn.CommandTag{}, err
	}
	start := time.Now()
	tag, err := r.db.Exec(ctx, q.body, args...)
	r.observe(ctx, q.marker, "exec", start, err).Int64("rows", tag.RowsAffected()).Send()
	return tag, err
}

func (r *SQLRunner) QueryRow(ctx context.Context, query string, args ...any) pgx.Row {
	q, err := r.prepare(query)
	if err != nil {
		return errorRow{err: err}
	}
	return &observedRow{
		Row:    r.db.QueryRow(ctx, q.body, args...),
		runner: r,
		ctx:    ctx,
		marker: q.marker,
		start:  time.Now(),
	}
}

func (r *SQLRunner) Query(ctx context.Context, query string, args ...any) (pgx.Rows, error) {
	q, err := r.prepare(query)
	if err != nil {
		return nil, err
	}
	start := time.Now()
	rows, err := r.db.Query(ctx, q.body, args...)
	if err != nil {
		r.observe(ctx, q.marker, "query", start, err).Send()
		return nil, err
	}
	return &observedRows{Rows: rows, runner: r, ctx: ctx, marker: q.marker, start: start}, nil
}

// prepare splits query into marker and body, caching the result since
// queries are package constants.
func (r *SQLRunner) prepare(query string) (markedQuery, error) {
	if v, ok := r.parsed.Load(query); ok {
		return v.(markedQuery), nil
	}
	marker, body, err := extractMarker(query)
	if err != nil {
		r.logger.Error().Err(err).Msg("rejected unmarked query")
		return markedQuery{}, err
	}
	q := markedQuery{marker: marker, body: body}
	r.parsed.Store(query, q)
	return q, nil
}

// observe starts a log event for one statement. Failures log at error,
// slow statements at warn and the rest at debug.
func (r *SQLRunner) observe(ctx context.Context, marker, op string, start time.Time, err error) *zerolog.Event {
	logger := zerolog.Ctx(ctx)
	if logger.GetLevel() == zerolog.Disabled {
		logger = &r.logger
	}
	took := time.Since(start)
	var evt *zerolog.Event
	switch {
	case err != nil && !IsNoRows(err):
		evt = logger.Error().Err(err)
	case took > r.slowQuery:
		evt = logger.Warn().Bool("slow", true)
	default:
		evt = logger.Debug()
	}
	return evt.Str("sql", marker).Str("op", op).Dur("took", took)
}

type observedRow struct {
	pgx.Row
	runner *SQLRunner
	ctx    context.Context
	marker string
	start  time.Time
}

func (o *observedRow) Scan(dest ...any) error {
	err := o.Row.Scan(dest...)
	o.runner.observe(o.ctx, o.marker, "query_row", o.start, err).Send()
	return err
}

type observedRows struct {
	pgx.Rows
	runner *SQLRunner
	ctx    context.Context
	marker string
	start  time.Time
	n      int
	closed bool
}

func (o *observedRows) Next() bool {
	if o.Rows.Next() {
		o.n++
		return true
	}
	return false
}

func (o *observedRows) Close() {
	o.Rows.Close()
	if o.closed {
		return
	}
	o.closed = true
	o.runner.observe(o.ctx, o.marker, "query", o.start, o.Rows.Err()).Int("rows", o.n).Send()
}

type errorRow struct {
	err error
}

func (e errorRow) Scan(...any) error {
	return e.err
}

func extractMarker(query string) (string, string, error) {
	trimmed := strings.TrimSpace(query)
	if trimmed == "" {
		return "", "", errors.New("empty query")
	}
	first, body, _ := strings.Cut(trimmed, "\n")
	first = strings.TrimSpace(first)
	if !markerRegexp.MatchString(first) {
		return "", "", ErrMissingMarker
	}
	return strings.TrimPrefix(first, "--sql "), strings.TrimSpace(body), nil
}

var _ SQLExecutor = (*SQLRunner)(nil)
