package service

import (
	"context"
	"strings"

	"crm_backend/internal/areas/repository"
	"crm_backend/internal/areas/transport"
	"crm_backend/platform/apperr"
	"crm_backend/platform/logger"
)

const msgStoreUnavailable = "data store unavailable"

type Service struct {
	repo *repository.Repository
	log  *logger.Logger
}

func New(repo *repository.Repository, log *logger.Logger) *Service {
	return &Service{repo: repo, log: log}
}

// List returns the full area vocabulary.
func (s *Service) List(ctx context.Context) ([]transport.AreaResponse, error) {
	areas, err := s.repo.List(ctx)
	if err != nil {
		s.log.StoreError("areas.list", "areas", err)
		return nil, apperr.Unavailable(msgStoreUnavailable)
	}

	items := make([]transport.AreaResponse, 0, len(areas))
	for _, area := range areas {
		items = append(items, transport.AreaResponse{ID: area.ID, Nome: area.Nome})
	}
	return items, nil
}

// Create adds a new area name to the vocabulary. Duplicate names conflict.
func (s *Service) Create(ctx context.Context, req transport.CreateAreaRequest) (transport.AreaResponse, error) {
	nome := strings.TrimSpace(req.Nome)

	exists, err := s.repo.ExistsByName(ctx, nome)
	if err != nil {
		s.log.StoreError("areas.create", "areas", err)
		return transport.AreaResponse{}, apperr.Unavailable(msgStoreUnavailable)
	}
	if exists {
		return transport.AreaResponse{}, apperr.Conflict("area already exists")
	}

	area, err := s.repo.Create(ctx, nome)
	if err != nil {
		s.log.StoreError("areas.create", "areas", err)
		return transport.AreaResponse{}, apperr.Unavailable(msgStoreUnavailable)
	}

	return transport.AreaResponse{ID: area.ID, Nome: area.Nome}, nil
}

// ResolveNames maps area names to their identifiers. Unknown names are not an
// error: they are dropped from the association set and reported back so the
// caller can surface them.
func (s *Service) ResolveNames(ctx context.Context, names []string) (ids []int64, dropped []string, err error) {
	trimmed := make([]string, 0, len(names))
	for _, name := range names {
		if t := strings.TrimSpace(name); t != "" {
			trimmed = append(trimmed, t)
		}
	}
	if len(trimmed) == 0 {
		return []int64{}, []string{}, nil
	}

	areas, err := s.repo.FindByNames(ctx, trimmed)
	if err != nil {
		s.log.StoreError("areas.resolve", "areas", err)
		return nil, nil, apperr.Unavailable(msgStoreUnavailable)
	}

	byName := make(map[string]int64, len(areas))
	for _, area := range areas {
		byName[area.Nome] = area.ID
	}

	ids = make([]int64, 0, len(trimmed))
	dropped = make([]string, 0)
	seen := make(map[int64]bool, len(trimmed))
	for _, name := range trimmed {
		id, ok := byName[name]
		if !ok {
			dropped = append(dropped, name)
			continue
		}
		if !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}
	return ids, dropped, nil
}
