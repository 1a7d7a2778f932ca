// Package reports runs parameterised SQL report definitions against the
// normalised farmcore tables and pages their rows.
package reports

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

// ErrReportNotFound is wrapped when a report name is not registered.
var ErrReportNotFound = errors.New("report not found")

// Param declares a named query parameter referenced as :name in the query.
type Param struct {
	Name        string `json:"name"`
	Required    bool   `json:"required"`
	Description string `json:"description,omitempty"`
	Default     any    `json:"default,omitempty"`
}

// Definition describes a report. Query is a SELECT whose output columns may
// be ordered by any name in OrderColumns. KeyColumn must be unique per row; it
// ends every ORDER BY so pages never overlap.
type Definition struct {
	Name         string   `json:"name"`
	Description  string   `json:"description"`
	Query        string   `json:"-"`
	Params       []Param  `json:"params"`
	OrderColumns []string `json:"order_columns"`
	DefaultOrder string   `json:"default_order"`
	KeyColumn    string   `json:"key_column"`
	// BoolColumns are normalised to bool; SQLite returns them as 0/1.
	BoolColumns []string `json:"-"`
}

// ParameterError reports an invalid report request.
type ParameterError struct {
	Report  string
	Param   string
	Message string
}

func (e ParameterError) Error() string {
	if e.Param == "" {
		return fmt.Sprintf("report %s: %s", e.Report, e.Message)
	}
	return fmt.Sprintf("report %s: parameter %s: %s", e.Report, e.Param, e.Message)
}

// Validate checks the definition is internally consistent.
func (d Definition) Validate() error {
	if strings.TrimSpace(d.Name) == "" {
		return fmt.Errorf("report name required")
	}
	if strings.TrimSpace(d.Query) == "" {
		return fmt.Errorf("report %s: query required", d.Name)
	}
	if d.DefaultOrder == "" || !slices.Contains(d.OrderColumns, d.DefaultOrder) {
		return fmt.Errorf("report %s: default order %q not in order columns", d.Name, d.DefaultOrder)
	}
	if d.KeyColumn == "" || !slices.Contains(d.OrderColumns, d.KeyColumn) {
		return fmt.Errorf("report %s: key column %q not in order columns", d.Name, d.KeyColumn)
	}
	for _, name := range namedParams(d.Query) {
		if _, ok := d.param(name); !ok {
			return fmt.Errorf("report %s: query references undeclared parameter %q", d.Name, name)
		}
	}
	return nil
}

func (d Definition) param(name string) (Param, bool) {
	for _, p := range d.Params {
		if p.Name == name {
			return p, true
		}
	}
	return Param{}, false
}

// resolveParams applies defaults and rejects missing required or unknown
// parameters.
func (d Definition) resolveParams(in map[string]any) (map[string]any, error) {
	out := make(map[string]any, len(d.Params))
	for key := range in {
		if _, ok := d.param(key); !ok {
			return nil, ParameterError{Report: d.Name, Param: key, Message: "unknown parameter"}
		}
	}
	for _, p := range d.Params {
		v, ok := in[p.Name]
		if !ok || isBlank(v) {
			if p.Required && p.Default == nil {
				return nil, ParameterError{Report: d.Name, Param: p.Name, Message: "required"}
			}
			v = p.Default
		}
		out[p.Name] = v
	}
	return out, nil
}

// orderClause validates the requested column against the whitelist.
func (d Definition) orderClause(req PageRequest) (string, error) {
	col := req.OrderByColumnName
	if col == "" {
		col = d.DefaultOrder
	}
	if !slices.Contains(d.OrderColumns, col) {
		return "", ParameterError{Report: d.Name, Param: "order_by_column_name", Message: fmt.Sprintf("cannot order by %q", col)}
	}
	dir := "ASC"
	if req.OrderByDescending {
		dir = "DESC"
	}
	terms := []string{col + " " + dir}
	for _, next := range []string{d.DefaultOrder, d.KeyColumn} {
		if next != "" && next != col && !slices.Contains(terms, next+" ASC") {
			terms = append(terms, next+" ASC")
		}
	}
	return strings.Join(terms, ", "), nil
}

func isBlank(v any) bool {
	switch t := v.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(t) == ""
	default:
		return false
	}
}

// bindNamed replaces :name references with '?' and returns the arguments in
// placeholder order.
func bindNamed(query string, params map[string]any) (string, []any, error) {
	var args []any
	missing := ""
	out := rewriteNamed(query, func(name string) string {
		v, ok := params[name]
		if !ok && missing == "" {
			missing = name
		}
		args = append(args, v)
		return "?"
	})
	if missing != "" {
		return "", nil, fmt.Errorf("missing value for parameter %q", missing)
	}
	return out, args, nil
}

func namedParams(query string) []string {
	seen := map[string]bool{}
	var names []string
	rewriteNamed(query, func(name string) string {
		if !seen[name] {
			seen[name] = true
			names = append(names, name)
		}
		return ""
	})
	return names
}

// rewriteNamed substitutes every :name reference in query. Quoted literals
// and '::' casts are copied unchanged.
func rewriteNamed(query string, replace func(name string) string) string {
	var b strings.Builder
	b.Grow(len(query))
	quoted := false
	for i := 0; i < len(query); i++ {
		c := query[i]
		switch {
		case c == '\'':
			quoted = !quoted
			b.WriteByte(c)
		case c == ':' && !quoted && i+1 < len(query) && query[i+1] == ':':
			b.WriteString("::")
			i++
		case c == ':' && !quoted && i+1 < len(query) && isIdentStart(query[i+1]):
			j := i + 1
			for j < len(query) && isIdent(query[j]) {
				j++
			}
			b.WriteString(replace(query[i+1 : j]))
			i = j - 1
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}

func isIdentStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isIdent(c byte) bool {
	return isIdentStart(c) || (c >= '0' && c <= '9')
}
