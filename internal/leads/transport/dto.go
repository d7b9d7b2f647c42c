package transport

import (
	"time"

	"crm_backend/internal/pipeline"
)

// Request DTOs
type CreateLeadRequest struct {
	NomeEmpresa string   `json:"nomeEmpresa" validate:"required,min=2,max=200"`
	NomeContato string   `json:"nomeContato" validate:"required,min=2,max=200"`
	Email       *string  `json:"email" validate:"omitempty,email"`
	Telefone    *string  `json:"telefone" validate:"omitempty,min=8,max=30"`
	Responsavel *int64   `json:"responsavel"`
	Etapa       string   `json:"etapa"`
	Areas       []string `json:"areas"`
}

type UpdateLeadRequest struct {
	NomeEmpresa *string `json:"nomeEmpresa" validate:"omitempty,min=2,max=200"`
	NomeContato *string `json:"nomeContato" validate:"omitempty,min=2,max=200"`
	Email       *string `json:"email" validate:"omitempty,email"`
	Telefone    *string `json:"telefone" validate:"omitempty,min=8,max=30"`
	Responsavel *int64  `json:"responsavel"`
}

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

// CreateLeadResponse reports the stored lead plus any requested area names
// that did not resolve and were left out of the association set.
type CreateLeadResponse struct {
	Lead         pipeline.RecordView `json:"lead"`
	DroppedAreas []string            `json:"droppedAreas"`
}

// ConvertLeadResponse describes the outcome of moving a lead into the
// post-sale pipeline.
type ConvertLeadResponse struct {
	LeadID     int64  `json:"leadId"`
	LeadEtapa  string `json:"leadEtapa"`
	PostSaleID int64  `json:"postSaleId"`
	Etapa      string `json:"etapa"`
}

type HistoryEntryResponse struct {
	ID        int64     `json:"id"`
	Descricao string    `json:"descricao"`
	CreatedAt time.Time `json:"createdAt"`
}
