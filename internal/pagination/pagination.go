package pagination

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"
)

var (
	// ErrQueryFailed is the only error a store failure surfaces as. The cause is logged, not returned.
	ErrQueryFailed = errors.New("database query failed")
	// ErrInvalidPage is returned for page < 1 outside show-all mode.
	ErrInvalidPage = errors.New("page must be at least 1")
	// ErrInvalidPageSize is returned for page size < 1.
	ErrInvalidPageSize = errors.New("page size must be at least 1")

	errMissingCount = errors.New("count query returned no count column")
	errNoCountRow   = errors.New("count query returned no rows")
	errNullCount    = errors.New("count query returned NULL")
)

// Querier is the store boundary the executor reads through. *sql.DB satisfies it.
type Querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

// Spec describes one paginated read.
// BaseQuery is an unpaginated SELECT including its ORDER BY; CountQuery must count the same
// filtered set and accept the same Params.
type Spec struct {
	BaseQuery  string
	CountQuery string
	Params     []any
	Page       int
	PageSize   int
	ShowAll    bool
}

// Page is one window of rows plus the totals of the filtered set.
// LastPage is TotalPages floored at 1, for "page 1 of 1" style display of empty sets;
// TotalPages itself stays 0 when Total is 0.
type Page[T any] struct {
	Data       []T `json:"data"`
	Total      int `json:"total"`
	TotalPages int `json:"totalPages"`
	Page       int `json:"page"`
	LastPage   int `json:"lastPage"`
}

// ScanFunc reads the current row of rows into a T.
type ScanFunc[T any] func(rows *sql.Rows) (T, error)

// Executor runs paginated queries against a Querier. It keeps no per-call state and is
// safe for concurrent use.
type Executor struct {
	db      Querier
	log     zerolog.Logger
	metrics *Metrics
	tracer  trace.Tracer
}

// Option configures an Executor.
type Option func(*Executor)

// WithLogger sets the logger failures are reported to.
func WithLogger(l zerolog.Logger) Option {
	return func(e *Executor) {
		e.log = l.With().Str("component", "pagination").Logger()
	}
}

// WithMetrics enables Prometheus instrumentation.
func WithMetrics(m *Metrics) Option {
	return func(e *Executor) { e.metrics = m }
}

// NewExecutor creates an Executor reading through db.
func NewExecutor(db Querier, opts ...Option) *Executor {
	e := &Executor{
		db:     db,
		log:    zerolog.Nop(),
		tracer: otel.Tracer("streamadmin/pagination"),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Query fetches one page described by spec, scanning rows with scan.
//
// The windowed data query and the count query run concurrently and both must succeed.
// Any store failure is logged and reported as ErrQueryFailed; no partial page is returned.
// In show-all mode the base query runs without a window and the result is always
// page 1 of 1.
func Query[T any](ctx context.Context, e *Executor, spec Spec, scan ScanFunc[T]) (*Page[T], error) {
	if spec.PageSize <= 0 {
		return nil, ErrInvalidPageSize
	}
	if !spec.ShowAll && spec.Page < 1 {
		return nil, ErrInvalidPage
	}

	ctx, span := e.tracer.Start(ctx, "pagination.Query", trace.WithAttributes(
		attribute.Int("pagination.page", spec.Page),
		attribute.Int("pagination.page_size", spec.PageSize),
		attribute.Bool("pagination.show_all", spec.ShowAll),
	))
	defer span.End()
	start := time.Now()

	dataQuery, inRange := spec.BaseQuery, true
	if !spec.ShowAll {
		dataQuery, inRange = windowed(spec.BaseQuery, spec.Page, spec.PageSize)
	}

	var (
		data  = make([]T, 0)
		total int
	)
	g, gctx := errgroup.WithContext(ctx)
	// An offset past math.MaxInt cannot hold rows; only the count is read.
	if inRange {
		g.Go(func() error {
			rows, err := fetchRows(gctx, e.db, dataQuery, spec.Params, scan)
			if err != nil {
				return fmt.Errorf("data query: %w", err)
			}
			data = rows
			return nil
		})
	}
	g.Go(func() error {
		n, err := fetchCount(gctx, e.db, spec.CountQuery, spec.Params)
		if err != nil {
			return fmt.Errorf("count query: %w", err)
		}
		total = n
		return nil
	})
	if err := g.Wait(); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "query failed")
		e.metrics.observe(outcomeError, time.Since(start))
		e.log.Error().
			Err(err).
			Int("page", spec.Page).
			Int("page_size", spec.PageSize).
			Bool("show_all", spec.ShowAll).
			Msg("paginated query failed")
		return nil, ErrQueryFailed
	}

	out := &Page[T]{Data: data, Total: total, Page: spec.Page, TotalPages: 1}
	if spec.ShowAll {
		out.Page = 1
	} else {
		out.TotalPages = total / spec.PageSize
		if total%spec.PageSize != 0 {
			out.TotalPages++
		}
	}
	out.LastPage = max(out.TotalPages, 1)

	span.SetAttributes(attribute.Int("pagination.total", total))
	e.metrics.observe(outcomeOK, time.Since(start))
	return out, nil
}

// windowed appends the LIMIT/OFFSET clause after the caller's ORDER BY. ok is false when
// the offset of page does not fit in an int.
func windowed(base string, page, size int) (q string, ok bool) {
	if page-1 > math.MaxInt/size {
		return "", false
	}
	base = strings.TrimRight(base, " \t\r\n;")
	return fmt.Sprintf("%s LIMIT %d OFFSET %d", base, size, (page-1)*size), true
}

func fetchRows[T any](ctx context.Context, db Querier, q string, args []any, scan ScanFunc[T]) ([]T, error) {
	rows, err := db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]T, 0)
	for rows.Next() {
		item, err := scan(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

// fetchCount reads the "count" column of the first row as an integer.
func fetchCount(ctx context.Context, db Querier, q string, args []any) (int, error) {
	rows, err := db.QueryContext(ctx, q, args...)
	if err != nil {
		return 0, err
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return 0, err
	}
	idx := -1
	for i, c := range cols {
		if strings.EqualFold(c, "count") {
			idx = i
			break
		}
	}
	if idx < 0 {
		return 0, errMissingCount
	}

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return 0, err
		}
		return 0, errNoCountRow
	}

	dest := make([]any, len(cols))
	for i := range dest {
		dest[i] = new(any)
	}
	var n sql.NullInt64
	dest[idx] = &n
	if err := rows.Scan(dest...); err != nil {
		return 0, err
	}
	if !n.Valid {
		return 0, errNullCount
	}
	return int(n.Int64), nil
}
