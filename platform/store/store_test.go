package store

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"crm_backend/platform/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testConfig struct {
	url string
	key string
}

func (c testConfig) GetStoreURL() string    { return c.url }
func (c testConfig) GetStoreAPIKey() string { return c.key }

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return New(testConfig{url: srv.URL, key: "secret"}, logger.New("development"))
}

func TestQueryGet_BuildsFilterAndOrderParams(t *testing.T) {
	var gotQuery string
	var gotAuth string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		gotAuth = r.Header.Get("Authorization")
		w.Write([]byte(`[{"id":1,"nome":"Vendas"}]`))
	})

	var rows []struct {
		ID   int64  `json:"id"`
		Nome string `json:"nome"`
	}
	err := client.From("areas").
		Select("id, nome").
		Eq("id", int64(1)).
		Order("nome", Asc).
		Get(context.Background(), &rows)

	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Vendas", rows[0].Nome)
	assert.Contains(t, gotQuery, "select=id%2Cnome")
	assert.Contains(t, gotQuery, "id=eq.1")
	assert.Contains(t, gotQuery, "order=nome.asc")
	assert.Equal(t, "Bearer secret", gotAuth)
}

func TestQueryIn_QuotesStringValues(t *testing.T) {
	var gotQuery string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query().Get("nome")
		w.Write([]byte(`[]`))
	})

	err := client.From("areas").In("nome", "Vendas", "TI").Get(context.Background(), nil)

	require.NoError(t, err)
	assert.Equal(t, `in.("Vendas","TI")`, gotQuery)
}

func TestQuerySingle_NoRowsIsErrNoRows(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Accept") != "application/vnd.pgrst.object+json" {
			t.Errorf("expected single-object accept header, got %q", r.Header.Get("Accept"))
		}
		w.WriteHeader(http.StatusNotAcceptable)
		w.Write([]byte(`{"message":"JSON object requested, multiple (or no) rows returned"}`))
	})

	var row struct{}
	err := client.From("clientes").Eq("id", 99).Single().Get(context.Background(), &row)

	assert.ErrorIs(t, err, ErrNoRows)
}

func TestQueryUpdate_ReturnsAffectedRowCount(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPatch {
			t.Errorf("expected PATCH, got %s", r.Method)
		}
		if r.Header.Get("Prefer") != "return=representation" {
			t.Errorf("expected return=representation, got %q", r.Header.Get("Prefer"))
		}
		w.Write([]byte(`[{"id":7}]`))
	})

	affected, err := client.From("clientes").Eq("id", 7).Update(context.Background(), map[string]string{"etapa": "Reunião"})

	require.NoError(t, err)
	assert.Equal(t, 1, affected)
}

func TestQueryUpdate_ZeroRowsMatchedIsNotAnError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[]`))
	})

	affected, err := client.From("clientes").Eq("id", 404).Update(context.Background(), map[string]string{"etapa": "Reunião"})

	require.NoError(t, err)
	assert.Equal(t, 0, affected)
}

func TestQueryDelete_ReturnsAffectedRowCount(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodDelete {
			t.Errorf("expected DELETE, got %s", r.Method)
		}
		w.Write([]byte(`[{"cliente_id":7,"area_id":1},{"cliente_id":7,"area_id":2}]`))
	})

	affected, err := client.From("cliente_areas").Eq("cliente_id", 7).Delete(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 2, affected)
}

func TestStoreFailure_SurfacesUniformError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"message":"schema cache out of date"}`))
	})

	err := client.From("clientes").Get(context.Background(), nil)

	require.Error(t, err)
	assert.True(t, IsStoreError(err))
	assert.Contains(t, err.Error(), "schema cache out of date")
}
