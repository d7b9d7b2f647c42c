package transport

import "crm_backend/internal/pipeline"

// Request DTOs
type UpdateStageRequest struct {
	Etapa string `json:"etapa" validate:"required"`
}

// ReconcileAreasRequest carries the full desired association set. An empty
// set is valid and clears every association.
type ReconcileAreasRequest struct {
	AreaIDs []int64 `json:"areaIds"`
}

// Response DTOs
type ListResponse struct {
	Items []pipeline.RecordView `json:"items"`
	Error string                `json:"error,omitempty"`
}

type BoardResponse struct {
	Columns []pipeline.BoardColumn `json:"columns"`
	Error   string                 `json:"error,omitempty"`
}
