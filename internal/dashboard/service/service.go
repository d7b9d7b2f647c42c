package service

import (
	"context"

	"crm_backend/internal/pipeline"
	"crm_backend/platform/apperr"
	"crm_backend/platform/logger"
	"crm_backend/platform/store"
)

const msgStoreUnavailable = "data store unavailable"

// PipelineSummary is one funnel's aggregate: record count per stage plus the
// overall total. Only stages with at least one record appear in Counts.
type PipelineSummary struct {
	Counts map[string]int `json:"counts"`
	Total  int            `json:"total"`
}

// Summary is the dashboard payload covering both funnels.
type Summary struct {
	Leads    PipelineSummary `json:"leads"`
	PostSale PipelineSummary `json:"postSale"`
}

type stageRow struct {
	Etapa string `json:"etapa"`
}

// Service aggregates stage counts for the dashboard. Both funnels go through
// the same counting path; there is exactly one aggregation algorithm.
type Service struct {
	store *store.Client
	log   *logger.Logger
}

func New(client *store.Client, log *logger.Logger) *Service {
	return &Service{store: client, log: log}
}

// Summarize counts records per stage for both pipelines.
func (s *Service) Summarize(ctx context.Context) (Summary, error) {
	leads, err := s.countTable(ctx, "clientes")
	if err != nil {
		s.log.StoreError("dashboard.summarize", "clientes", err)
		return Summary{}, apperr.Unavailable(msgStoreUnavailable)
	}

	postSale, err := s.countTable(ctx, "pos_venda")
	if err != nil {
		s.log.StoreError("dashboard.summarize", "pos_venda", err)
		return Summary{}, apperr.Unavailable(msgStoreUnavailable)
	}

	return Summary{Leads: leads, PostSale: postSale}, nil
}

func (s *Service) countTable(ctx context.Context, table string) (PipelineSummary, error) {
	rows := make([]stageRow, 0)
	err := s.store.From(table).
		Select("etapa").
		Get(ctx, &rows)
	if err != nil {
		return PipelineSummary{}, err
	}

	records := make([]pipeline.Record, 0, len(rows))
	for _, row := range rows {
		records = append(records, pipeline.Record{Etapa: row.Etapa})
	}
	return PipelineSummary{
		Counts: pipeline.CountByStage(records),
		Total:  len(records),
	}, nil
}
