package pipeline

import (
	"context"
	"sort"
	"testing"

	"crm_backend/platform/logger"
	"crm_backend/platform/store"
	"crm_backend/platform/store/storetest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var leadTables = Tables{Records: "clientes", Joins: "cliente_areas", JoinFK: "cliente_id"}

// Seeded rows carry int values while rows written over the wire come back as
// float64; tests compare both the same way.
func toInt64(value interface{}) int64 {
	switch v := value.(type) {
	case int:
		return int64(v)
	case int64:
		return v
	case float64:
		return int64(v)
	default:
		return 0
	}
}

func newTestRepository(t *testing.T) (*Repository, *storetest.Server) {
	t.Helper()
	srv := storetest.New()
	t.Cleanup(srv.Close)
	srv.AddEmbed("clientes", storetest.Embed{
		Alias:       "areas",
		JoinTable:   "cliente_areas",
		FK:          "cliente_id",
		TargetTable: "areas",
		TargetFK:    "area_id",
	})
	client := store.New(srv, logger.New("development"))
	return NewRepository(client, leadTables), srv
}

func joinSet(t *testing.T, srv *storetest.Server, recordID int64) []int64 {
	t.Helper()
	ids := make([]int64, 0)
	for _, row := range srv.Rows("cliente_areas") {
		if toInt64(row["cliente_id"]) != recordID {
			continue
		}
		ids = append(ids, toInt64(row["area_id"]))
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

func TestReplaceAreas_ResultEqualsInputSet(t *testing.T) {
	repo, srv := newTestRepository(t)
	srv.Seed("cliente_areas",
		storetest.Row{"cliente_id": 7, "area_id": 1},
		storetest.Row{"cliente_id": 7, "area_id": 2},
		storetest.Row{"cliente_id": 8, "area_id": 1},
	)

	err := repo.ReplaceAreas(context.Background(), 7, []int64{2, 3, 4})

	require.NoError(t, err)
	assert.Equal(t, []int64{2, 3, 4}, joinSet(t, srv, 7))
	// Other records' associations untouched.
	assert.Equal(t, []int64{1}, joinSet(t, srv, 8))
}

func TestReplaceAreas_EmptySetClearsAllAssociations(t *testing.T) {
	repo, srv := newTestRepository(t)
	srv.Seed("cliente_areas",
		storetest.Row{"cliente_id": 7, "area_id": 1},
		storetest.Row{"cliente_id": 7, "area_id": 2},
	)

	err := repo.ReplaceAreas(context.Background(), 7, nil)

	require.NoError(t, err)
	assert.Empty(t, joinSet(t, srv, 7))
}

func TestReplaceAreas_IsIdempotent(t *testing.T) {
	repo, srv := newTestRepository(t)
	srv.Seed("cliente_areas", storetest.Row{"cliente_id": 7, "area_id": 1})

	for i := 0; i < 2; i++ {
		require.NoError(t, repo.ReplaceAreas(context.Background(), 7, []int64{1, 5}))
	}

	assert.Equal(t, []int64{1, 5}, joinSet(t, srv, 7))
}

func TestReplaceAreas_DeduplicatesInput(t *testing.T) {
	repo, srv := newTestRepository(t)
	srv.Seed("cliente_areas")

	err := repo.ReplaceAreas(context.Background(), 7, []int64{5, 5, 5})

	require.NoError(t, err)
	assert.Equal(t, []int64{5}, joinSet(t, srv, 7))
}

func TestReplaceAreas_InputOrderDoesNotMatter(t *testing.T) {
	repo, srv := newTestRepository(t)
	srv.Seed("cliente_areas",
		storetest.Row{"cliente_id": 7, "area_id": 1},
		storetest.Row{"cliente_id": 7, "area_id": 2},
	)

	err := repo.ReplaceAreas(context.Background(), 7, []int64{2, 1})

	require.NoError(t, err)
	assert.Equal(t, []int64{1, 2}, joinSet(t, srv, 7))
}

func TestUpdateStage_ReportsAffectedRows(t *testing.T) {
	repo, srv := newTestRepository(t)
	srv.Seed("clientes", storetest.Row{"id": 7, "nome_empresa": "Acme", "nome_contato": "Ana", "etapa": "Reunião", "created_at": "2026-01-10T09:00:00Z"})

	affected, err := repo.UpdateStage(context.Background(), 7, "Em proposta")
	require.NoError(t, err)
	assert.Equal(t, 1, affected)

	affected, err = repo.UpdateStage(context.Background(), 99, "Em proposta")
	require.NoError(t, err)
	assert.Equal(t, 0, affected)
}

func TestGetByID_ExpandsAreasAndReportsMisses(t *testing.T) {
	repo, srv := newTestRepository(t)
	srv.Seed("areas", storetest.Row{"id": 1, "nome": "Vendas"}, storetest.Row{"id": 2, "nome": "TI"})
	srv.Seed("clientes", storetest.Row{"id": 7, "nome_empresa": "Acme", "nome_contato": "Ana", "etapa": "Em proposta", "created_at": "2026-01-10T09:00:00Z"})
	srv.Seed("cliente_areas",
		storetest.Row{"cliente_id": 7, "area_id": 1},
		storetest.Row{"cliente_id": 7, "area_id": 2},
	)

	record, err := repo.GetByID(context.Background(), 7)
	require.NoError(t, err)
	require.Len(t, record.Areas, 2)
	assert.Equal(t, "Em proposta", record.Etapa)

	_, err = repo.GetByID(context.Background(), 99)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestList_NewestFirst(t *testing.T) {
	repo, srv := newTestRepository(t)
	srv.Seed("clientes",
		storetest.Row{"id": 1, "nome_empresa": "Old", "nome_contato": "A", "etapa": "Reunião", "created_at": "2026-01-01T09:00:00Z"},
		storetest.Row{"id": 2, "nome_empresa": "New", "nome_contato": "B", "etapa": "Reunião", "created_at": "2026-02-01T09:00:00Z"},
	)

	records, err := repo.List(context.Background())

	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "New", records[0].NomeEmpresa)
}
