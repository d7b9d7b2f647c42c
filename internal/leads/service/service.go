package service

import (
	"context"

	"crm_backend/internal/events"
	"crm_backend/internal/leads/repository"
	"crm_backend/internal/leads/transport"
	"crm_backend/internal/pipeline"
	"crm_backend/platform/apperr"
	"crm_backend/platform/logger"
	"crm_backend/platform/phone"
)

const msgStoreUnavailable = "data store unavailable"

// AreaResolver maps requested area names to identifiers, reporting the names
// that did not resolve.
type AreaResolver interface {
	ResolveNames(ctx context.Context, names []string) (ids []int64, dropped []string, err error)
}

// Service implements the lead-only operations: creation, field updates, the
// audit trail, and conversion into the post-sale pipeline. Everything both
// pipelines share lives in the pipeline service.
type Service struct {
	pipe  *pipeline.Service
	repo  *repository.Repository
	areas AreaResolver
	bus   events.Bus
	log   *logger.Logger
}

func New(pipe *pipeline.Service, repo *repository.Repository, areas AreaResolver, bus events.Bus, log *logger.Logger) *Service {
	return &Service{
		pipe:  pipe,
		repo:  repo,
		areas: areas,
		bus:   bus,
		log:   log,
	}
}

// Pipeline exposes the shared pipeline operations (list, board, stage, areas).
func (s *Service) Pipeline() *pipeline.Service {
	return s.pipe
}

// Create stores a new lead. Areas arrive as names; unknown ones are dropped
// from the association set and reported back, never treated as an error.
func (s *Service) Create(ctx context.Context, req transport.CreateLeadRequest) (transport.CreateLeadResponse, error) {
	etapa := req.Etapa
	if etapa == "" {
		etapa = pipeline.LeadStages[0]
	}
	if !pipeline.IsStage(pipeline.LeadStages, etapa) {
		return transport.CreateLeadResponse{}, apperr.Validation("unknown stage").WithDetails(pipeline.LeadStages)
	}

	areaIDs, dropped, err := s.areas.ResolveNames(ctx, req.Areas)
	if err != nil {
		return transport.CreateLeadResponse{}, err
	}

	row := map[string]interface{}{
		"nome_empresa": req.NomeEmpresa,
		"nome_contato": req.NomeContato,
		"etapa":        etapa,
	}
	if req.Email != nil {
		row["email"] = *req.Email
	}
	if req.Telefone != nil {
		row["telefone"] = phone.NormalizeE164(*req.Telefone)
	}
	if req.Responsavel != nil {
		row["responsavel"] = *req.Responsavel
	}

	record, err := s.pipe.Repo().Insert(ctx, row)
	if err != nil {
		s.log.StoreError("leads.create", "clientes", err)
		return transport.CreateLeadResponse{}, apperr.Unavailable(msgStoreUnavailable)
	}

	if err := s.pipe.Repo().InsertAreaLinks(ctx, record.ID, areaIDs); err != nil {
		s.log.ConsistencyGap("leads.create", record.ID, err)
		return transport.CreateLeadResponse{}, apperr.Unavailable(msgStoreUnavailable)
	}

	s.bus.Publish(ctx, events.LeadCreated{
		BaseEvent: events.NewBaseEvent(),
		LeadID:    record.ID,
		Company:   record.NomeEmpresa,
	})

	view, err := s.pipe.Get(ctx, record.ID)
	if err != nil {
		// The lead exists; fall back to the row we already hold.
		view = pipeline.Flatten(record, nil)
	}
	return transport.CreateLeadResponse{Lead: view, DroppedAreas: dropped}, nil
}

// Update patches the lead's contact fields. The stage and area set have their
// own endpoints and are not touched here.
func (s *Service) Update(ctx context.Context, id int64, req transport.UpdateLeadRequest) (pipeline.RecordView, error) {
	patch := make(map[string]interface{})
	if req.NomeEmpresa != nil {
		patch["nome_empresa"] = *req.NomeEmpresa
	}
	if req.NomeContato != nil {
		patch["nome_contato"] = *req.NomeContato
	}
	if req.Email != nil {
		patch["email"] = *req.Email
	}
	if req.Telefone != nil {
		patch["telefone"] = phone.NormalizeE164(*req.Telefone)
	}
	if req.Responsavel != nil {
		patch["responsavel"] = *req.Responsavel
	}
	if len(patch) == 0 {
		return pipeline.RecordView{}, apperr.Validation("no fields to update")
	}

	affected, err := s.pipe.Repo().UpdateFields(ctx, id, patch)
	if err != nil {
		s.log.StoreError("leads.update", "clientes", err)
		return pipeline.RecordView{}, apperr.Unavailable(msgStoreUnavailable)
	}
	if affected == 0 {
		return pipeline.RecordView{}, apperr.NotFound("record not found")
	}

	return s.pipe.Get(ctx, id)
}

// Convert moves a lead into the post-sale pipeline: a new post-sale record is
// seeded from the lead, the area associations are copied across, and the
// source lead is archived rather than deleted so its history survives.
//
// The steps are not transactional. Everything that can fail without a write
// is checked first; a failure after the post-sale insert leaves a duplicated,
// partially linked record, which is logged as a consistency gap and reported
// as an infrastructure error.
func (s *Service) Convert(ctx context.Context, leadID int64) (transport.ConvertLeadResponse, error) {
	record, err := s.pipe.Repo().GetByID(ctx, leadID)
	if err == pipeline.ErrNotFound {
		return transport.ConvertLeadResponse{}, apperr.NotFound("record not found")
	}
	if err != nil {
		s.log.StoreError("leads.convert", "clientes", err)
		return transport.ConvertLeadResponse{}, apperr.Unavailable(msgStoreUnavailable)
	}
	if record.Etapa == pipeline.LeadArchivedStage {
		return transport.ConvertLeadResponse{}, apperr.Conflict("lead already converted")
	}

	areaIDs, err := s.pipe.Repo().ListAreaIDs(ctx, leadID)
	if err != nil {
		s.log.StoreError("leads.convert", "cliente_areas", err)
		return transport.ConvertLeadResponse{}, apperr.Unavailable(msgStoreUnavailable)
	}

	row := map[string]interface{}{
		"nome_empresa": record.NomeEmpresa,
		"nome_contato": record.NomeContato,
		"etapa":        pipeline.PostSaleInitialStage,
	}
	if record.Email != nil {
		row["email"] = *record.Email
	}
	if record.Telefone != nil {
		row["telefone"] = *record.Telefone
	}
	if record.Responsavel != nil {
		row["responsavel"] = *record.Responsavel
	}

	postSaleID, err := s.repo.InsertPostSale(ctx, row)
	if err != nil {
		// Nothing was written; the lead stays live.
		s.log.StoreError("leads.convert", "pos_venda", err)
		return transport.ConvertLeadResponse{}, apperr.Unavailable(msgStoreUnavailable)
	}

	if err := s.repo.InsertPostSaleAreaLinks(ctx, postSaleID, areaIDs); err != nil {
		s.log.ConsistencyGap("leads.convert", postSaleID, err)
		return transport.ConvertLeadResponse{}, apperr.Unavailable(msgStoreUnavailable)
	}

	if _, err := s.pipe.Repo().UpdateStage(ctx, leadID, pipeline.LeadArchivedStage); err != nil {
		s.log.ConsistencyGap("leads.convert", leadID, err)
		return transport.ConvertLeadResponse{}, apperr.Unavailable(msgStoreUnavailable)
	}

	s.bus.Publish(ctx, events.LeadConverted{
		BaseEvent:  events.NewBaseEvent(),
		LeadID:     leadID,
		PostSaleID: postSaleID,
		Company:    record.NomeEmpresa,
	})

	return transport.ConvertLeadResponse{
		LeadID:     leadID,
		LeadEtapa:  pipeline.LeadArchivedStage,
		PostSaleID: postSaleID,
		Etapa:      pipeline.PostSaleInitialStage,
	}, nil
}

// History returns the lead's audit entries, newest first.
func (s *Service) History(ctx context.Context, leadID int64) ([]transport.HistoryEntryResponse, error) {
	if _, err := s.pipe.Repo().GetByID(ctx, leadID); err != nil {
		if err == pipeline.ErrNotFound {
			return nil, apperr.NotFound("record not found")
		}
		s.log.StoreError("leads.history", "clientes", err)
		return nil, apperr.Unavailable(msgStoreUnavailable)
	}

	entries, err := s.repo.History(ctx, leadID)
	if err != nil {
		s.log.StoreError("leads.history", "historico", err)
		return nil, apperr.Unavailable(msgStoreUnavailable)
	}

	items := make([]transport.HistoryEntryResponse, 0, len(entries))
	for _, entry := range entries {
		items = append(items, transport.HistoryEntryResponse{
			ID:        entry.ID,
			Descricao: entry.Descricao,
			CreatedAt: entry.CreatedAt,
		})
	}
	return items, nil
}
