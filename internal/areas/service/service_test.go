package service

import (
	"context"
	"testing"

	"crm_backend/internal/areas/repository"
	"crm_backend/internal/areas/transport"
	"crm_backend/platform/apperr"
	"crm_backend/platform/logger"
	"crm_backend/platform/store"
	"crm_backend/platform/store/storetest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T) (*Service, *storetest.Server) {
	t.Helper()
	srv := storetest.New()
	t.Cleanup(srv.Close)
	client := store.New(srv, logger.New("development"))
	return New(repository.New(client), logger.New("development")), srv
}

func seedAreas(srv *storetest.Server) {
	srv.Seed("areas",
		storetest.Row{"id": 1, "nome": "Vendas"},
		storetest.Row{"id": 2, "nome": "TI"},
		storetest.Row{"id": 3, "nome": "Financeiro"},
	)
}

func TestResolveNames_DropsUnknownAndDeduplicates(t *testing.T) {
	svc, srv := newTestService(t)
	seedAreas(srv)

	ids, dropped, err := svc.ResolveNames(context.Background(), []string{"Vendas", "Jurídico", "TI", "Vendas", " "})

	require.NoError(t, err)
	assert.Equal(t, []int64{1, 2}, ids)
	assert.Equal(t, []string{"Jurídico"}, dropped)
}

func TestResolveNames_EmptyInput(t *testing.T) {
	svc, _ := newTestService(t)

	ids, dropped, err := svc.ResolveNames(context.Background(), nil)

	require.NoError(t, err)
	assert.Empty(t, ids)
	assert.Empty(t, dropped)
}

func TestCreate_DuplicateNameConflicts(t *testing.T) {
	svc, srv := newTestService(t)
	seedAreas(srv)

	_, err := svc.Create(context.Background(), transport.CreateAreaRequest{Nome: "Vendas"})

	require.Error(t, err)
	assert.Equal(t, apperr.KindConflict, apperr.GetKind(err))
}

func TestCreate_StoresTrimmedName(t *testing.T) {
	svc, srv := newTestService(t)
	seedAreas(srv)

	area, err := svc.Create(context.Background(), transport.CreateAreaRequest{Nome: "  Marketing  "})

	require.NoError(t, err)
	assert.Equal(t, "Marketing", area.Nome)
	assert.Len(t, srv.Rows("areas"), 4)
}

func TestList_OrderedByName(t *testing.T) {
	svc, srv := newTestService(t)
	seedAreas(srv)

	items, err := svc.List(context.Background())

	require.NoError(t, err)
	require.Len(t, items, 3)
	assert.Equal(t, "Financeiro", items[0].Nome)
	assert.Equal(t, "TI", items[1].Nome)
	assert.Equal(t, "Vendas", items[2].Nome)
}

func TestList_StoreDownReportsUnavailable(t *testing.T) {
	svc, srv := newTestService(t)
	srv.FailAll(true)

	_, err := svc.List(context.Background())

	require.Error(t, err)
	assert.Equal(t, apperr.KindUnavailable, apperr.GetKind(err))
}
