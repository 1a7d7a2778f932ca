package reports

import (
	"context"
	"database/sql"
	"fmt"
	"slices"
	"sort"
	"sync"
	"time"

	"farmcore/internal/core"
	"farmcore/internal/entitymodel/sqlbundle"
)

// Queryer is the subset of *sql.DB used to run reports.
type Queryer interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

// Provider runs registered report definitions against a SQL database.
type Provider struct {
	db      Queryer
	dialect sqlbundle.Dialect
	logger  core.Logger

	mu   sync.RWMutex
	defs map[string]Definition
}

// Option customises a Provider.
type Option func(*Provider)

// WithLogger sets the provider logger.
func WithLogger(l core.Logger) Option {
	return func(p *Provider) {
		if l != nil {
			p.logger = l
		}
	}
}

// WithoutBuiltins starts the provider with an empty catalog.
func WithoutBuiltins() Option {
	return func(p *Provider) { p.defs = map[string]Definition{} }
}

// NewProvider returns a provider preloaded with BuiltinDefinitions.
func NewProvider(db Queryer, dialect sqlbundle.Dialect, opts ...Option) *Provider {
	p := &Provider{db: db, dialect: dialect, logger: core.NoopLogger(), defs: map[string]Definition{}}
	for _, def := range BuiltinDefinitions() {
		p.defs[def.Name] = def
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Register adds or replaces a definition after validating it.
func (p *Provider) Register(def Definition) error {
	if err := def.Validate(); err != nil {
		return err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.defs[def.Name] = def
	return nil
}

// Definition returns a registered definition.
func (p *Provider) Definition(name string) (Definition, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	def, ok := p.defs[name]
	return def, ok
}

// Definitions lists registered definitions by name.
func (p *Provider) Definitions() []Definition {
	p.mu.RLock()
	defer p.mu.RUnlock()
	out := make([]Definition, 0, len(p.defs))
	for _, def := range p.defs {
		out = append(out, def)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Run executes one page of the named report.
func (p *Provider) Run(ctx context.Context, name string, params map[string]any, req PageRequest) (Page, error) {
	def, ok := p.Definition(name)
	if !ok {
		return Page{}, fmt.Errorf("%w: %s", ErrReportNotFound, name)
	}
	started := time.Now()
	page, err := p.run(ctx, def, params, req.Normalize())
	if err != nil {
		p.logger.Warn("report failed", "report", name, "error", err)
		return Page{}, err
	}
	p.logger.Debug("report executed", "report", name, "page", page.PageNumber, "rows", len(page.Items), "total", page.TotalCount, "duration", time.Since(started))
	return page, nil
}

func (p *Provider) run(ctx context.Context, def Definition, params map[string]any, req PageRequest) (Page, error) {
	resolved, err := def.resolveParams(params)
	if err != nil {
		return Page{}, err
	}
	order, err := def.orderClause(req)
	if err != nil {
		return Page{}, err
	}
	base, args, err := bindNamed(def.Query, resolved)
	if err != nil {
		return Page{}, ParameterError{Report: def.Name, Message: err.Error()}
	}

	total, err := p.count(ctx, base, args)
	if err != nil {
		return Page{}, fmt.Errorf("report %s: count: %w", def.Name, err)
	}

	query := fmt.Sprintf("SELECT * FROM (%s) report_rows ORDER BY %s LIMIT ? OFFSET ?", base, order)
	pageArgs := append(slices.Clone(args), req.ItemCountPerPage, req.Offset())
	rows, err := p.db.QueryContext(ctx, p.dialect.Rebind(query), pageArgs...)
	if err != nil {
		return Page{}, fmt.Errorf("report %s: query: %w", def.Name, err)
	}
	defer func() { _ = rows.Close() }()
	cols, items, err := scanRows(rows, def.BoolColumns)
	if err != nil {
		return Page{}, fmt.Errorf("report %s: %w", def.Name, err)
	}
	return Page{
		Report:           def.Name,
		Columns:          cols,
		Items:            items,
		PageNumber:       req.PageNumber,
		ItemCountPerPage: req.ItemCountPerPage,
		TotalCount:       total,
		PageCount:        PageCount(total, req.ItemCountPerPage),
	}, nil
}

func (p *Provider) count(ctx context.Context, base string, args []any) (int, error) {
	query := p.dialect.Rebind(fmt.Sprintf("SELECT COUNT(*) FROM (%s) report_count", base))
	rows, err := p.db.QueryContext(ctx, query, args...)
	if err != nil {
		return 0, err
	}
	defer func() { _ = rows.Close() }()
	var total int64
	if rows.Next() {
		if err := rows.Scan(&total); err != nil {
			return 0, err
		}
	}
	return int(total), rows.Err()
}

func scanRows(rows *sql.Rows, boolCols []string) ([]string, []map[string]any, error) {
	cols, err := rows.Columns()
	if err != nil {
		return nil, nil, fmt.Errorf("columns: %w", err)
	}
	items := make([]map[string]any, 0)
	for rows.Next() {
		raw := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range raw {
			ptrs[i] = &raw[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, nil, fmt.Errorf("scan: %w", err)
		}
		item := make(map[string]any, len(cols))
		for i, col := range cols {
			item[col] = normalizeValue(raw[i], slices.Contains(boolCols, col))
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("iterate: %w", err)
	}
	return cols, items, nil
}

func normalizeValue(v any, isBool bool) any {
	switch t := v.(type) {
	case []byte:
		return string(t)
	case time.Time:
		return t.UTC()
	case int64:
		if isBool {
			return t != 0
		}
		return t
	default:
		return v
	}
}
