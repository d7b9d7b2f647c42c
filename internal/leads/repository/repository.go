package repository

import (
	"context"
	"time"

	"crm_backend/platform/store"
)

// HistoryEntry is an append-only audit row attached to a lead. This service
// only ever reads them.
type HistoryEntry struct {
	ID        int64     `json:"id"`
	ClienteID int64     `json:"cliente_id"`
	Descricao string    `json:"descricao"`
	CreatedAt time.Time `json:"created_at"`
}

type postSaleRow struct {
	ID int64 `json:"id"`
}

// Repository covers the lead-specific store access that the shared pipeline
// repository does not: the audit trail and the writes into the post-sale
// tables performed during conversion.
type Repository struct {
	store *store.Client
}

func New(client *store.Client) *Repository {
	return &Repository{store: client}
}

// History returns the lead's audit entries, newest first.
func (r *Repository) History(ctx context.Context, leadID int64) ([]HistoryEntry, error) {
	entries := make([]HistoryEntry, 0)
	err := r.store.From("historico").
		Select("id, cliente_id, descricao, created_at").
		Eq("cliente_id", leadID).
		Order("created_at", store.Desc).
		Get(ctx, &entries)
	if err != nil {
		return nil, err
	}
	return entries, nil
}

// InsertPostSale creates the post-sale record a lead converts into and
// returns its new identifier.
func (r *Repository) InsertPostSale(ctx context.Context, row map[string]interface{}) (int64, error) {
	inserted := make([]postSaleRow, 0, 1)
	err := r.store.From("pos_venda").
		Insert(ctx, []map[string]interface{}{row}, &inserted)
	if err != nil {
		return 0, err
	}
	if len(inserted) == 0 {
		return 0, &store.Error{Message: "insert returned no rows"}
	}
	return inserted[0].ID, nil
}

// InsertPostSaleAreaLinks copies the lead's area associations onto the new
// post-sale record.
func (r *Repository) InsertPostSaleAreaLinks(ctx context.Context, postSaleID int64, areaIDs []int64) error {
	if len(areaIDs) == 0 {
		return nil
	}

	rows := make([]map[string]int64, 0, len(areaIDs))
	for _, areaID := range areaIDs {
		rows = append(rows, map[string]int64{
			"pos_venda_id": postSaleID,
			"area_id":      areaID,
		})
	}
	return r.store.From("pos_venda_areas").Insert(ctx, rows, nil)
}
