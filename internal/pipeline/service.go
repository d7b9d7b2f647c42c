package pipeline

import (
	"context"

	"crm_backend/internal/events"
	"crm_backend/platform/apperr"
	"crm_backend/platform/logger"
)

const msgStoreUnavailable = "data store unavailable"

// EmployeeDirectory supplies the employee id→name map used to decorate
// records. Implementations degrade to an empty map on failure.
type EmployeeDirectory interface {
	Map(ctx context.Context) map[int64]string
}

// Service implements the operations every pipeline shares: reading flattened
// records, the board view, the stage mutator, and the area reconciler.
// Pipeline-specific operations (creation, conversion) live with the owning
// module.
type Service struct {
	repo       *Repository
	directory  EmployeeDirectory
	bus        events.Bus
	log        *logger.Logger
	name       string
	vocabulary []string
}

func NewService(repo *Repository, directory EmployeeDirectory, bus events.Bus, log *logger.Logger, name string, vocabulary []string) *Service {
	return &Service{
		repo:       repo,
		directory:  directory,
		bus:        bus,
		log:        log,
		name:       name,
		vocabulary: vocabulary,
	}
}

// Repo exposes the record repository to the owning module.
func (s *Service) Repo() *Repository {
	return s.repo
}

// Vocabulary returns the pipeline's stage vocabulary in funnel order.
func (s *Service) Vocabulary() []string {
	return s.vocabulary
}

// List returns every record flattened for tabular rendering.
func (s *Service) List(ctx context.Context) ([]RecordView, error) {
	records, err := s.repo.List(ctx)
	if err != nil {
		s.log.StoreError(s.name+".list", s.repo.tables.Records, err)
		return nil, apperr.Unavailable(msgStoreUnavailable)
	}
	return FlattenAll(records, s.directory.Map(ctx)), nil
}

// Board returns the kanban view: one column per vocabulary stage.
func (s *Service) Board(ctx context.Context) ([]BoardColumn, error) {
	records, err := s.repo.List(ctx)
	if err != nil {
		s.log.StoreError(s.name+".board", s.repo.tables.Records, err)
		return nil, apperr.Unavailable(msgStoreUnavailable)
	}
	return BuildBoard(records, s.vocabulary, s.directory.Map(ctx)), nil
}

// Get returns one flattened record.
func (s *Service) Get(ctx context.Context, id int64) (RecordView, error) {
	record, err := s.repo.GetByID(ctx, id)
	if err == ErrNotFound {
		return RecordView{}, apperr.NotFound("record not found")
	}
	if err != nil {
		s.log.StoreError(s.name+".get", s.repo.tables.Records, err)
		return RecordView{}, apperr.Unavailable(msgStoreUnavailable)
	}
	return Flatten(record, s.directory.Map(ctx)), nil
}

// UpdateStage moves one record to a new stage. Transitions are free-form
// within the vocabulary; a write that matches zero rows is reported as
// not-found, distinct from a store failure. Single attempt, no retries.
func (s *Service) UpdateStage(ctx context.Context, id int64, stage string) error {
	if !IsStage(s.vocabulary, stage) {
		return apperr.Validation("unknown stage").WithDetails(s.vocabulary)
	}

	affected, err := s.repo.UpdateStage(ctx, id, stage)
	if err != nil {
		s.log.StoreError(s.name+".update_stage", s.repo.tables.Records, err)
		return apperr.Unavailable(msgStoreUnavailable)
	}
	if affected == 0 {
		return apperr.NotFound("record not found")
	}

	s.bus.Publish(ctx, events.LeadStageChanged{
		BaseEvent: events.NewBaseEvent(),
		Pipeline:  s.name,
		RecordID:  id,
		Stage:     stage,
	})
	return nil
}

// ReconcileAreas replaces the record's area association set with exactly
// areaIDs. Duplicates in the input collapse; the empty set clears every
// association. The diff inside ReplaceAreas is not transactional, so a
// failure mid-way is logged as a consistency gap before being reported.
func (s *Service) ReconcileAreas(ctx context.Context, id int64, areaIDs []int64) error {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		if err == ErrNotFound {
			return apperr.NotFound("record not found")
		}
		s.log.StoreError(s.name+".reconcile_areas", s.repo.tables.Records, err)
		return apperr.Unavailable(msgStoreUnavailable)
	}

	if err := s.repo.ReplaceAreas(ctx, id, areaIDs); err != nil {
		s.log.ConsistencyGap(s.name+".reconcile_areas", id, err)
		return apperr.Unavailable(msgStoreUnavailable)
	}
	return nil
}
