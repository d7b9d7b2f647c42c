package service

import (
	"context"
	"testing"

	"crm_backend/platform/apperr"
	"crm_backend/platform/logger"
	"crm_backend/platform/store"
	"crm_backend/platform/store/storetest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSummarize_CountsBothPipelines(t *testing.T) {
	srv := storetest.New()
	t.Cleanup(srv.Close)
	svc := New(store.New(srv, logger.New("development")), logger.New("development"))

	srv.Seed("clientes",
		storetest.Row{"id": 1, "etapa": "Em proposta"},
		storetest.Row{"id": 2, "etapa": "Em proposta"},
		storetest.Row{"id": 3, "etapa": "Finalizado"},
	)
	srv.Seed("pos_venda",
		storetest.Row{"id": 1, "etapa": "Entrega Realizada"},
	)

	summary, err := svc.Summarize(context.Background())
	require.NoError(t, err)

	assert.Equal(t, map[string]int{"Em proposta": 2, "Finalizado": 1}, summary.Leads.Counts)
	assert.Equal(t, 3, summary.Leads.Total)
	assert.Equal(t, map[string]int{"Entrega Realizada": 1}, summary.PostSale.Counts)
	assert.Equal(t, 1, summary.PostSale.Total)
}

func TestSummarize_EmptyTables(t *testing.T) {
	srv := storetest.New()
	t.Cleanup(srv.Close)
	svc := New(store.New(srv, logger.New("development")), logger.New("development"))

	summary, err := svc.Summarize(context.Background())
	require.NoError(t, err)

	assert.Empty(t, summary.Leads.Counts)
	assert.Zero(t, summary.Leads.Total)
	assert.Empty(t, summary.PostSale.Counts)
	assert.Zero(t, summary.PostSale.Total)
}

func TestSummarize_StoreDownReportsUnavailable(t *testing.T) {
	srv := storetest.New()
	t.Cleanup(srv.Close)
	svc := New(store.New(srv, logger.New("development")), logger.New("development"))
	srv.FailAll(true)

	_, err := svc.Summarize(context.Background())

	require.Error(t, err)
	assert.Equal(t, apperr.KindUnavailable, apperr.GetKind(err))
}
