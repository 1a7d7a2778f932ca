package reports

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"

	"farmcore/internal/blob"
	"farmcore/internal/core"
)

// ExportResult describes a stored CSV export.
type ExportResult struct {
	Report string    `json:"report"`
	Rows   int       `json:"rows"`
	Blob   blob.Info `json:"blob"`
	URL    string    `json:"url,omitempty"`
}

// Exporter renders every page of a report to CSV and stores it as a blob.
type Exporter struct {
	provider  *Provider
	store     blob.Store
	now       func() time.Time
	pageSize  int
	urlExpiry time.Duration
	prefix    string
	logger    core.Logger
}

// ExporterOption customises an Exporter.
type ExporterOption func(*Exporter)

// WithExportClock overrides the clock used in blob keys.
func WithExportClock(now func() time.Time) ExporterOption {
	return func(e *Exporter) {
		if now != nil {
			e.now = now
		}
	}
}

// WithExportPageSize sets the rows fetched per query.
func WithExportPageSize(n int) ExporterOption {
	return func(e *Exporter) {
		if n > 0 {
			e.pageSize = n
		}
	}
}

// WithURLExpiry sets the lifetime of presigned download URLs.
func WithURLExpiry(d time.Duration) ExporterOption {
	return func(e *Exporter) { e.urlExpiry = d }
}

// WithExportLogger sets the exporter logger.
func WithExportLogger(l core.Logger) ExporterOption {
	return func(e *Exporter) {
		if l != nil {
			e.logger = l
		}
	}
}

// NewExporter writes exports below "reports/" in store.
func NewExporter(provider *Provider, store blob.Store, opts ...ExporterOption) *Exporter {
	e := &Exporter{
		provider: provider,
		store:    store,
		now:      time.Now,
		pageSize: MaxItemCountPerPage,
		prefix:   "reports",
		logger:   core.NoopLogger(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Export runs the report page by page using the ordering in order and stores
// the CSV. The URL is presigned when the driver supports it and falls back to
// the blob URL otherwise.
func (e *Exporter) Export(ctx context.Context, name string, params map[string]any, order PageRequest) (ExportResult, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	req := PageRequest{
		PageNumber:        1,
		ItemCountPerPage:  e.pageSize,
		OrderByColumnName: order.OrderByColumnName,
		OrderByDescending: order.OrderByDescending,
	}
	rows := 0
	for {
		page, err := e.provider.Run(ctx, name, params, req)
		if err != nil {
			return ExportResult{}, err
		}
		if req.PageNumber == 1 {
			if err := w.Write(page.Columns); err != nil {
				return ExportResult{}, err
			}
		}
		for _, item := range page.Items {
			record := make([]string, len(page.Columns))
			for i, col := range page.Columns {
				record[i] = FormatValue(item[col])
			}
			if err := w.Write(record); err != nil {
				return ExportResult{}, err
			}
			rows++
		}
		if !page.HasNext() {
			break
		}
		req.PageNumber++
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return ExportResult{}, fmt.Errorf("write csv: %w", err)
	}

	now := e.now().UTC()
	key := fmt.Sprintf("%s/%s/%s-%s.csv", e.prefix, name, now.Format("20060102T150405Z"), uuid.NewString()[:8])
	info, err := e.store.Put(ctx, key, bytes.NewReader(buf.Bytes()), blob.PutOptions{
		ContentType: "text/csv",
		Metadata: map[string]string{
			"report": name,
			"rows":   strconv.Itoa(rows),
		},
	})
	if err != nil {
		return ExportResult{}, fmt.Errorf("store export: %w", err)
	}
	url, err := e.store.PresignURL(ctx, key, blob.SignedURLOptions{Expiry: e.urlExpiry})
	switch {
	case errors.Is(err, blob.ErrUnsupported):
		url = info.URL
	case err != nil:
		return ExportResult{}, fmt.Errorf("presign export: %w", err)
	}
	e.logger.Info("report exported", "report", name, "rows", rows, "key", key, "driver", string(e.store.Driver()))
	return ExportResult{Report: name, Rows: rows, Blob: info, URL: url}, nil
}

// FormatValue renders a report cell for CSV.
func FormatValue(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case time.Time:
		return v.UTC().Format(time.RFC3339Nano)
	case bool:
		return strconv.FormatBool(v)
	case float32:
		return strconv.FormatFloat(float64(v), 'f', -1, 32)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case fmt.Stringer:
		return v.String()
	default:
		return fmt.Sprint(v)
	}
}
