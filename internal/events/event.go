// Package events provides domain event definitions for decoupled,
// event-driven communication between modules.
// Infrastructure (Bus, Handler) is in platform/events.
package events

import (
	"crm_backend/platform/events"
)

// Re-export platform types for convenience
type (
	Event       = events.Event
	Bus         = events.Bus
	Handler     = events.Handler
	HandlerFunc = events.HandlerFunc
	BaseEvent   = events.BaseEvent
)

// Re-export platform functions
var (
	NewBaseEvent   = events.NewBaseEvent
	NewInMemoryBus = events.NewInMemoryBus
)

// LeadCreated is published when a new lead enters the pipeline.
type LeadCreated struct {
	BaseEvent
	LeadID  int64  `json:"leadId"`
	Company string `json:"company"`
}

func (e LeadCreated) EventName() string { return "leads.lead.created" }

// LeadStageChanged is published when a lead or post-sale record moves between
// pipeline stages.
type LeadStageChanged struct {
	BaseEvent
	Pipeline string `json:"pipeline"` // "lead" or "postsale"
	RecordID int64  `json:"recordId"`
	Stage    string `json:"stage"`
}

func (e LeadStageChanged) EventName() string { return "leads.stage.changed" }

// LeadConverted is published after a lead is copied into the post-sale
// pipeline and the source record is archived.
type LeadConverted struct {
	BaseEvent
	LeadID     int64  `json:"leadId"`
	PostSaleID int64  `json:"postSaleId"`
	Company    string `json:"company"`
}

func (e LeadConverted) EventName() string { return "leads.lead.converted" }
