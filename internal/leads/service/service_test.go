package service

import (
	"context"
	"sync"
	"testing"

	"crm_backend/internal/events"
	"crm_backend/internal/leads/repository"
	"crm_backend/internal/leads/transport"
	"crm_backend/internal/pipeline"
	"crm_backend/platform/apperr"
	"crm_backend/platform/logger"
	"crm_backend/platform/store"
	"crm_backend/platform/store/storetest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubDirectory struct {
	names map[int64]string
}

func (d stubDirectory) Map(context.Context) map[int64]string { return d.names }

type stubResolver struct {
	ids     map[string]int64
	failure error
}

func (r stubResolver) ResolveNames(_ context.Context, names []string) ([]int64, []string, error) {
	if r.failure != nil {
		return nil, nil, r.failure
	}
	ids := make([]int64, 0)
	dropped := make([]string, 0)
	for _, name := range names {
		if id, ok := r.ids[name]; ok {
			ids = append(ids, id)
		} else {
			dropped = append(dropped, name)
		}
	}
	return ids, dropped, nil
}

type recordingBus struct {
	mu     sync.Mutex
	events []events.Event
}

func (b *recordingBus) Publish(_ context.Context, event events.Event) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.events = append(b.events, event)
}

func (b *recordingBus) PublishSync(ctx context.Context, event events.Event) error {
	b.Publish(ctx, event)
	return nil
}

func (b *recordingBus) Subscribe(string, events.Handler) {}

func (b *recordingBus) published() []events.Event {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]events.Event(nil), b.events...)
}

func newTestService(t *testing.T) (*Service, *storetest.Server, *recordingBus) {
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

	log := logger.New("development")
	client := store.New(srv, log)
	bus := &recordingBus{}

	tables := pipeline.Tables{Records: "clientes", Joins: "cliente_areas", JoinFK: "cliente_id"}
	pipe := pipeline.NewService(
		pipeline.NewRepository(client, tables),
		stubDirectory{names: map[int64]string{10: "Rafael"}},
		bus,
		log,
		"lead",
		pipeline.LeadStages,
	)
	resolver := stubResolver{ids: map[string]int64{"Vendas": 1, "TI": 2}}
	svc := New(pipe, repository.New(client), resolver, bus, log)
	return svc, srv, bus
}

func seedLead(srv *storetest.Server) {
	srv.Seed("areas",
		storetest.Row{"id": 1, "nome": "Vendas"},
		storetest.Row{"id": 2, "nome": "TI"},
	)
	srv.Seed("clientes", storetest.Row{
		"id":           7,
		"nome_empresa": "Acme Ltda",
		"nome_contato": "Ana Souza",
		"etapa":        "Em proposta",
		"responsavel":  10,
		"created_at":   "2026-01-10T09:00:00Z",
	})
	srv.Seed("cliente_areas",
		storetest.Row{"cliente_id": 7, "area_id": 1},
		storetest.Row{"cliente_id": 7, "area_id": 2},
	)
}

func rowField(t *testing.T, row storetest.Row, key string) string {
	t.Helper()
	switch v := row[key].(type) {
	case string:
		return v
	default:
		return ""
	}
}

func TestConvert_SeedsPostSaleAndArchivesLead(t *testing.T) {
	svc, srv, bus := newTestService(t)
	seedLead(srv)

	resp, err := svc.Convert(context.Background(), 7)
	require.NoError(t, err)

	assert.Equal(t, int64(7), resp.LeadID)
	assert.Equal(t, pipeline.LeadArchivedStage, resp.LeadEtapa)
	assert.Equal(t, pipeline.PostSaleInitialStage, resp.Etapa)
	require.NotZero(t, resp.PostSaleID)

	// New post-sale record seeded from the lead, stage forced to the
	// pipeline's entry stage.
	postSales := srv.Rows("pos_venda")
	require.Len(t, postSales, 1)
	assert.Equal(t, "Acme Ltda", rowField(t, postSales[0], "nome_empresa"))
	assert.Equal(t, "Ana Souza", rowField(t, postSales[0], "nome_contato"))
	assert.Equal(t, pipeline.PostSaleInitialStage, rowField(t, postSales[0], "etapa"))

	// Both area associations copied across.
	assert.Len(t, srv.Rows("pos_venda_areas"), 2)

	// Source lead archived, never deleted.
	leads := srv.Rows("clientes")
	require.Len(t, leads, 1)
	assert.Equal(t, pipeline.LeadArchivedStage, rowField(t, leads[0], "etapa"))

	published := bus.published()
	require.Len(t, published, 1)
	converted, ok := published[0].(events.LeadConverted)
	require.True(t, ok)
	assert.Equal(t, int64(7), converted.LeadID)
	assert.Equal(t, resp.PostSaleID, converted.PostSaleID)
	assert.Equal(t, "Acme Ltda", converted.Company)
}

func TestConvert_MissingLeadWritesNothing(t *testing.T) {
	svc, srv, _ := newTestService(t)
	seedLead(srv)

	_, err := svc.Convert(context.Background(), 99)

	require.Error(t, err)
	assert.Equal(t, apperr.KindNotFound, apperr.GetKind(err))
	assert.Empty(t, srv.Rows("pos_venda"))
	assert.Empty(t, srv.Rows("pos_venda_areas"))
}

func TestConvert_ArchivedLeadConflicts(t *testing.T) {
	svc, srv, _ := newTestService(t)
	seedLead(srv)

	_, err := svc.Convert(context.Background(), 7)
	require.NoError(t, err)

	_, err = svc.Convert(context.Background(), 7)
	require.Error(t, err)
	assert.Equal(t, apperr.KindConflict, apperr.GetKind(err))
	assert.Len(t, srv.Rows("pos_venda"), 1)
}

func TestConvert_StoreDownReportsUnavailable(t *testing.T) {
	svc, srv, _ := newTestService(t)
	seedLead(srv)
	srv.FailAll(true)

	_, err := svc.Convert(context.Background(), 7)

	require.Error(t, err)
	assert.Equal(t, apperr.KindUnavailable, apperr.GetKind(err))
}

func TestCreate_ResolvesAreasAndReportsDropped(t *testing.T) {
	svc, srv, bus := newTestService(t)
	srv.Seed("areas",
		storetest.Row{"id": 1, "nome": "Vendas"},
		storetest.Row{"id": 2, "nome": "TI"},
	)

	email := "ana@acme.com.br"
	resp, err := svc.Create(context.Background(), transport.CreateLeadRequest{
		NomeEmpresa: "Acme Ltda",
		NomeContato: "Ana Souza",
		Email:       &email,
		Areas:       []string{"Vendas", "Jurídico"},
	})
	require.NoError(t, err)

	assert.Equal(t, "Acme Ltda", resp.Lead.NomeEmpresa)
	assert.Equal(t, pipeline.LeadStages[0], resp.Lead.Etapa)
	assert.Equal(t, []string{"Jurídico"}, resp.DroppedAreas)
	assert.Equal(t, []string{"Vendas"}, resp.Lead.Areas)

	links := srv.Rows("cliente_areas")
	require.Len(t, links, 1)

	published := bus.published()
	require.Len(t, published, 1)
	created, ok := published[0].(events.LeadCreated)
	require.True(t, ok)
	assert.Equal(t, "Acme Ltda", created.Company)
}

func TestCreate_RejectsUnknownStage(t *testing.T) {
	svc, _, _ := newTestService(t)

	_, err := svc.Create(context.Background(), transport.CreateLeadRequest{
		NomeEmpresa: "Acme Ltda",
		NomeContato: "Ana Souza",
		Etapa:       "Inventada",
	})

	require.Error(t, err)
	assert.Equal(t, apperr.KindValidation, apperr.GetKind(err))
}

func TestUpdate_PatchesOnlyProvidedFields(t *testing.T) {
	svc, srv, _ := newTestService(t)
	seedLead(srv)

	contato := "Bruno Lima"
	view, err := svc.Update(context.Background(), 7, transport.UpdateLeadRequest{NomeContato: &contato})
	require.NoError(t, err)

	assert.Equal(t, "Bruno Lima", view.NomeContato)
	assert.Equal(t, "Acme Ltda", view.NomeEmpresa)
	assert.Equal(t, "Em proposta", view.Etapa)
}

func TestUpdate_EmptyPatchIsRejected(t *testing.T) {
	svc, srv, _ := newTestService(t)
	seedLead(srv)

	_, err := svc.Update(context.Background(), 7, transport.UpdateLeadRequest{})

	require.Error(t, err)
	assert.Equal(t, apperr.KindValidation, apperr.GetKind(err))
}

func TestUpdate_MissingLeadIsNotFound(t *testing.T) {
	svc, srv, _ := newTestService(t)
	seedLead(srv)

	contato := "Bruno Lima"
	_, err := svc.Update(context.Background(), 99, transport.UpdateLeadRequest{NomeContato: &contato})

	require.Error(t, err)
	assert.Equal(t, apperr.KindNotFound, apperr.GetKind(err))
}

func TestHistory_NewestFirst(t *testing.T) {
	svc, srv, _ := newTestService(t)
	seedLead(srv)
	srv.Seed("historico",
		storetest.Row{"id": 1, "cliente_id": 7, "descricao": "Primeiro contato", "created_at": "2026-01-11T10:00:00Z"},
		storetest.Row{"id": 2, "cliente_id": 7, "descricao": "Proposta enviada", "created_at": "2026-01-12T10:00:00Z"},
		storetest.Row{"id": 3, "cliente_id": 8, "descricao": "Outro cliente", "created_at": "2026-01-13T10:00:00Z"},
	)

	items, err := svc.History(context.Background(), 7)
	require.NoError(t, err)

	require.Len(t, items, 2)
	assert.Equal(t, "Proposta enviada", items[0].Descricao)
	assert.Equal(t, "Primeiro contato", items[1].Descricao)
}
