// Package storetest provides an in-memory fake of the tabular store for
// tests. It speaks the subset of the PostgREST wire protocol the store client
// uses: eq/in filters, ordering, single-object reads, nested-relation
// embedding, and return=representation writes.
package storetest

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"sync"
)

// Row is one table row. Values follow JSON decoding conventions (numbers are
// float64 when they round-trip through the wire).
type Row = map[string]interface{}

// Embed describes a many-to-many relation the server can expand when a
// projection asks for it, e.g. "areas(id, nome)" on "clientes".
type Embed struct {
	// Alias is the embedded resource name in the projection ("areas").
	Alias string
	// JoinTable holds the association rows.
	JoinTable string
	// FK is the join column referencing the parent row's id.
	FK string
	// TargetTable holds the embedded rows, matched by join "area_id" → id.
	TargetTable string
	// TargetFK is the join column referencing the embedded row's id.
	TargetFK string
}

// Server is the fake store.
type Server struct {
	*httptest.Server

	mu      sync.Mutex
	tables  map[string][]Row
	nextID  map[string]int64
	embeds  map[string][]Embed
	failAll bool
}

// New starts a fake store server. Call Close when done.
func New() *Server {
	s := &Server{
		tables: make(map[string][]Row),
		nextID: make(map[string]int64),
		embeds: make(map[string][]Embed),
	}
	s.Server = httptest.NewServer(http.HandlerFunc(s.handle))
	return s
}

// GetStoreURL and GetStoreAPIKey make Server usable as a store config.
func (s *Server) GetStoreURL() string    { return s.URL }
func (s *Server) GetStoreAPIKey() string { return "test-key" }

// Seed replaces a table's rows.
func (s *Server) Seed(table string, rows ...Row) {
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := make([]Row, 0, len(rows))
	var maxID int64
	for _, row := range rows {
		copied = append(copied, cloneRow(row))
		if id, ok := asInt(row["id"]); ok && id > maxID {
			maxID = id
		}
	}
	s.tables[table] = copied
	s.nextID[table] = maxID + 1
}

// AddEmbed teaches the server how to expand a nested relation on reads.
func (s *Server) AddEmbed(table string, embed Embed) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.embeds[table] = append(s.embeds[table], embed)
}

// Rows returns a snapshot of a table's current rows.
func (s *Server) Rows(table string) []Row {
	s.mu.Lock()
	defer s.mu.Unlock()
	snapshot := make([]Row, 0, len(s.tables[table]))
	for _, row := range s.tables[table] {
		snapshot = append(snapshot, cloneRow(row))
	}
	return snapshot
}

// FailAll makes every subsequent request return a 500, simulating an
// unreachable or misconfigured store.
func (s *Server) FailAll(fail bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failAll = fail
}

func (s *Server) handle(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.failAll {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"message": "store unavailable"})
		return
	}

	table := strings.Trim(r.URL.Path, "/")
	if r.Method == http.MethodHead {
		w.WriteHeader(http.StatusOK)
		return
	}

	filters := parseFilters(r.URL.Query())
	single := r.Header.Get("Accept") == "application/vnd.pgrst.object+json"

	switch r.Method {
	case http.MethodGet:
		matched := s.filterRows(table, filters)
		if order := r.URL.Query().Get("order"); order != "" {
			sortRows(matched, order)
		}
		projection := r.URL.Query().Get("select")
		expanded := make([]Row, 0, len(matched))
		for _, row := range matched {
			expanded = append(expanded, s.expandRow(table, row, projection))
		}
		if single {
			if len(expanded) != 1 {
				writeJSON(w, http.StatusNotAcceptable, map[string]string{
					"message": fmt.Sprintf("JSON object requested, %d rows returned", len(expanded)),
				})
				return
			}
			writeJSON(w, http.StatusOK, expanded[0])
			return
		}
		writeJSON(w, http.StatusOK, expanded)

	case http.MethodPost:
		var rows []Row
		if err := decodeRows(r, &rows); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"message": err.Error()})
			return
		}
		inserted := make([]Row, 0, len(rows))
		for _, row := range rows {
			stored := cloneRow(row)
			if _, ok := stored["id"]; !ok {
				if s.nextID[table] == 0 {
					s.nextID[table] = 1
				}
				stored["id"] = s.nextID[table]
				s.nextID[table]++
			}
			s.tables[table] = append(s.tables[table], stored)
			inserted = append(inserted, cloneRow(stored))
		}
		writeJSON(w, http.StatusCreated, inserted)

	case http.MethodPatch:
		var patch Row
		if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"message": err.Error()})
			return
		}
		updated := make([]Row, 0)
		for _, row := range s.tables[table] {
			if matchesAll(row, filters) {
				for k, v := range patch {
					row[k] = v
				}
				updated = append(updated, cloneRow(row))
			}
		}
		writeJSON(w, http.StatusOK, updated)

	case http.MethodDelete:
		kept := make([]Row, 0)
		deleted := make([]Row, 0)
		for _, row := range s.tables[table] {
			if matchesAll(row, filters) {
				deleted = append(deleted, cloneRow(row))
			} else {
				kept = append(kept, row)
			}
		}
		s.tables[table] = kept
		writeJSON(w, http.StatusOK, deleted)

	default:
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"message": "unsupported method"})
	}
}

// expandRow attaches embedded relations requested by the projection.
func (s *Server) expandRow(table string, row Row, projection string) Row {
	out := cloneRow(row)
	for _, embed := range s.embeds[table] {
		if !strings.Contains(projection, embed.Alias+"(") {
			continue
		}
		nested := make([]Row, 0)
		for _, join := range s.tables[embed.JoinTable] {
			if !sameValue(join[embed.FK], row["id"]) {
				continue
			}
			for _, target := range s.tables[embed.TargetTable] {
				if sameValue(target["id"], join[embed.TargetFK]) {
					nested = append(nested, cloneRow(target))
				}
			}
		}
		out[embed.Alias] = nested
	}
	return out
}

func (s *Server) filterRows(table string, filters map[string][]string) []Row {
	matched := make([]Row, 0)
	for _, row := range s.tables[table] {
		if matchesAll(row, filters) {
			matched = append(matched, row)
		}
	}
	return matched
}

func parseFilters(query map[string][]string) map[string][]string {
	filters := make(map[string][]string)
	for column, values := range query {
		if column == "select" || column == "order" {
			continue
		}
		filters[column] = append(filters[column], values...)
	}
	return filters
}

func matchesAll(row Row, filters map[string][]string) bool {
	for column, conditions := range filters {
		for _, condition := range conditions {
			if !matches(row[column], condition) {
				return false
			}
		}
	}
	return true
}

func matches(value interface{}, condition string) bool {
	switch {
	case strings.HasPrefix(condition, "eq."):
		return render(value) == strings.TrimPrefix(condition, "eq.")
	case strings.HasPrefix(condition, "in.(") && strings.HasSuffix(condition, ")"):
		list := strings.TrimSuffix(strings.TrimPrefix(condition, "in.("), ")")
		for _, candidate := range strings.Split(list, ",") {
			candidate = strings.Trim(candidate, `"`)
			if render(value) == candidate {
				return true
			}
		}
		return false
	default:
		return false
	}
}

func sortRows(rows []Row, order string) {
	parts := strings.SplitN(order, ".", 2)
	column := parts[0]
	desc := len(parts) == 2 && parts[1] == "desc"
	sort.SliceStable(rows, func(i, j int) bool {
		less := render(rows[i][column]) < render(rows[j][column])
		if desc {
			return !less
		}
		return less
	})
}

func decodeRows(r *http.Request, rows *[]Row) error {
	var raw json.RawMessage
	if err := json.NewDecoder(r.Body).Decode(&raw); err != nil {
		return err
	}
	if len(raw) > 0 && raw[0] == '[' {
		return json.Unmarshal(raw, rows)
	}
	var row Row
	if err := json.Unmarshal(raw, &row); err != nil {
		return err
	}
	*rows = []Row{row}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func cloneRow(row Row) Row {
	copied := make(Row, len(row))
	for k, v := range row {
		copied[k] = v
	}
	return copied
}

// sameValue compares values that may have different numeric types depending
// on whether they were seeded in-process or decoded from the wire.
func sameValue(a, b interface{}) bool {
	return render(a) == render(b)
}

func render(value interface{}) string {
	switch v := value.(type) {
	case float64:
		if v == float64(int64(v)) {
			return fmt.Sprintf("%d", int64(v))
		}
		return fmt.Sprintf("%v", v)
	case nil:
		return ""
	default:
		return fmt.Sprintf("%v", v)
	}
}

func asInt(value interface{}) (int64, bool) {
	switch v := value.(type) {
	case int64:
		return v, true
	case int:
		return int64(v), true
	case float64:
		return int64(v), true
	default:
		return 0, false
	}
}
