package sqlstore

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// rowReader reads loosely typed driver values by column name. The first
// conversion failure is kept in err and later reads return zero values.
type rowReader struct {
	values map[string]any
	err    error
}

func newRowReader(cols []string, raw []any) *rowReader {
	values := make(map[string]any, len(cols))
	for i, col := range cols {
		values[strings.ToLower(col)] = raw[i]
	}
	return &rowReader{values: values}
}

func (r *rowReader) fail(col string, v any, err error) {
	if r.err == nil {
		r.err = fmt.Errorf("column %s: cannot convert %T: %w", col, v, err)
	}
}

func (r *rowReader) str(col string) string {
	switch v := r.values[col].(type) {
	case nil:
		return ""
	case string:
		return v
	case []byte:
		return string(v)
	case time.Time:
		return v.UTC().Format(time.RFC3339Nano)
	default:
		return fmt.Sprint(v)
	}
}

func (r *rowReader) int(col string) int64 {
	switch v := r.values[col].(type) {
	case nil:
		return 0
	case int64:
		return v
	case int32:
		return int64(v)
	case int:
		return int64(v)
	case float64:
		return int64(v)
	case string, []byte:
		s := strings.TrimSpace(r.str(col))
		if s == "" {
			return 0
		}
		n, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			r.fail(col, v, err)
		}
		return n
	default:
		r.fail(col, v, fmt.Errorf("unsupported type"))
		return 0
	}
}

func (r *rowReader) float(col string) float64 {
	switch v := r.values[col].(type) {
	case nil:
		return 0
	case float64:
		return v
	case float32:
		return float64(v)
	case int64:
		return float64(v)
	case string, []byte:
		s := strings.TrimSpace(r.str(col))
		if s == "" {
			return 0
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			r.fail(col, v, err)
		}
		return f
	default:
		r.fail(col, v, fmt.Errorf("unsupported type"))
		return 0
	}
}

func (r *rowReader) bool(col string) bool {
	switch v := r.values[col].(type) {
	case nil:
		return false
	case bool:
		return v
	case int64:
		return v != 0
	case string, []byte:
		s := strings.TrimSpace(r.str(col))
		if s == "" {
			return false
		}
		b, err := strconv.ParseBool(s)
		if err != nil {
			r.fail(col, v, err)
		}
		return b
	default:
		r.fail(col, v, fmt.Errorf("unsupported type"))
		return false
	}
}

func (r *rowReader) time(col string) time.Time {
	switch v := r.values[col].(type) {
	case nil:
		return time.Time{}
	case time.Time:
		return v.UTC()
	case string, []byte:
		s := strings.TrimSpace(r.str(col))
		if s == "" {
			return time.Time{}
		}
		t, err := time.Parse(time.RFC3339Nano, s)
		if err != nil {
			r.fail(col, v, err)
		}
		return t.UTC()
	default:
		r.fail(col, v, fmt.Errorf("unsupported type"))
		return time.Time{}
	}
}

func (r *rowReader) timePtr(col string) *time.Time {
	t := r.time(col)
	if t.IsZero() {
		return nil
	}
	return &t
}
