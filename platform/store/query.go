package store

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

// Direction controls result ordering.
type Direction string

const (
	Asc  Direction = "asc"
	Desc Direction = "desc"
)

type filter struct {
	column string
	value  string
}

// Query is a single table-scoped operation under construction. A Query is
// built and executed within one request; it is not reused.
type Query struct {
	client     *Client
	table      string
	projection string
	filters    []filter
	order      string
	single     bool
}

// Select sets the column projection. Nested relation expansion uses the
// embedded-resource syntax, e.g. "id, nome_empresa, areas(id, nome)".
func (q *Query) Select(columns string) *Query {
	q.projection = strings.ReplaceAll(columns, " ", "")
	return q
}

// Eq adds an exact-match filter on a column.
func (q *Query) Eq(column string, value interface{}) *Query {
	q.filters = append(q.filters, filter{column: column, value: "eq." + formatValue(value)})
	return q
}

// In adds a set-membership filter on a column.
func (q *Query) In(column string, values ...interface{}) *Query {
	formatted := make([]string, 0, len(values))
	for _, v := range values {
		formatted = append(formatted, quoteInValue(v))
	}
	q.filters = append(q.filters, filter{column: column, value: "in.(" + strings.Join(formatted, ",") + ")"})
	return q
}

// Order sets the result ordering.
func (q *Query) Order(column string, dir Direction) *Query {
	q.order = column + "." + string(dir)
	return q
}

// Single marks the query as expecting exactly one row. Reads return ErrNoRows
// when nothing matches.
func (q *Query) Single() *Query {
	q.single = true
	return q
}

// Get executes a read and decodes the result into dest.
func (q *Query) Get(ctx context.Context, dest interface{}) error {
	payload, err := q.client.do(ctx, http.MethodGet, q.url(), nil, q.single)
	if err != nil {
		return err
	}
	if dest == nil {
		return nil
	}
	if err := json.Unmarshal(payload, dest); err != nil {
		return &Error{Message: "decode response: " + err.Error()}
	}
	return nil
}

// Insert executes a row insert. rows may be a single object or a slice; the
// inserted rows are decoded into dest when dest is non-nil.
func (q *Query) Insert(ctx context.Context, rows interface{}, dest interface{}) error {
	payload, err := q.client.do(ctx, http.MethodPost, q.url(), rows, q.single)
	if err != nil {
		return err
	}
	if dest == nil {
		return nil
	}
	if err := json.Unmarshal(payload, dest); err != nil {
		return &Error{Message: "decode response: " + err.Error()}
	}
	return nil
}

// Update executes a patch scoped by the query's filters and returns the
// number of affected rows, so callers can tell "nothing matched" apart from
// "store unreachable".
func (q *Query) Update(ctx context.Context, patch interface{}) (int, error) {
	payload, err := q.client.do(ctx, http.MethodPatch, q.url(), patch, false)
	if err != nil {
		return 0, err
	}
	return countRows(payload)
}

// Delete removes the rows matched by the query's filters and returns the
// number of affected rows.
func (q *Query) Delete(ctx context.Context) (int, error) {
	payload, err := q.client.do(ctx, http.MethodDelete, q.url(), nil, false)
	if err != nil {
		return 0, err
	}
	return countRows(payload)
}

func (q *Query) url() string {
	params := url.Values{}
	if q.projection != "" {
		params.Set("select", q.projection)
	}
	for _, f := range q.filters {
		params.Add(f.column, f.value)
	}
	if q.order != "" {
		params.Set("order", q.order)
	}

	raw := q.client.baseURL + "/" + url.PathEscape(q.table)
	if encoded := params.Encode(); encoded != "" {
		raw += "?" + encoded
	}
	return raw
}

func countRows(payload []byte) (int, error) {
	var rows []json.RawMessage
	if err := json.Unmarshal(payload, &rows); err != nil {
		return 0, &Error{Message: "decode response: " + err.Error()}
	}
	return len(rows), nil
}

func formatValue(value interface{}) string {
	switch v := value.(type) {
	case string:
		return v
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case bool:
		return strconv.FormatBool(v)
	default:
		return fmt.Sprintf("%v", v)
	}
}

// quoteInValue formats a value for use inside an in.(...) list; strings are
// double-quoted so commas and reserved characters survive.
func quoteInValue(value interface{}) string {
	if s, ok := value.(string); ok {
		return `"` + strings.ReplaceAll(s, `"`, `\"`) + `"`
	}
	return formatValue(value)
}
