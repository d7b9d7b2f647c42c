package pipeline

import (
	"context"
	"errors"
	"time"

	"crm_backend/platform/store"
)

// ErrNotFound is returned when a record id matches nothing.
var ErrNotFound = errors.New("record not found")

// Tables names the store tables backing one pipeline.
type Tables struct {
	// Records is the record table ("clientes" or "pos_venda").
	Records string
	// Joins is the record↔area join table.
	Joins string
	// JoinFK is the join table column referencing the record.
	JoinFK string
}

// AreaRef is the nested shape the store returns for an expanded area relation.
type AreaRef struct {
	ID   int64  `json:"id"`
	Nome string `json:"nome"`
}

// Record is a lead or post-sale row with its expanded area relation. Areas is
// nil when the store returned no nested data; callers must treat that the
// same as an empty set.
type Record struct {
	ID          int64     `json:"id"`
	NomeEmpresa string    `json:"nome_empresa"`
	NomeContato string    `json:"nome_contato"`
	Email       *string   `json:"email"`
	Telefone    *string   `json:"telefone"`
	Responsavel *int64    `json:"responsavel"`
	Etapa       string    `json:"etapa"`
	CreatedAt   time.Time `json:"created_at"`
	Areas       []AreaRef `json:"areas"`
}

type joinRow struct {
	AreaID int64 `json:"area_id"`
}

const recordProjection = "id, nome_empresa, nome_contato, email, telefone, responsavel, etapa, created_at, areas(id, nome)"

// Repository reads and writes one pipeline's records through the store client.
type Repository struct {
	store  *store.Client
	tables Tables
}

func NewRepository(client *store.Client, tables Tables) *Repository {
	return &Repository{store: client, tables: tables}
}

// List returns every record with its area relation expanded, newest first.
func (r *Repository) List(ctx context.Context) ([]Record, error) {
	records := make([]Record, 0)
	err := r.store.From(r.tables.Records).
		Select(recordProjection).
		Order("created_at", store.Desc).
		Get(ctx, &records)
	if err != nil {
		return nil, err
	}
	return records, nil
}

// GetByID returns one record with its area relation expanded, or ErrNotFound.
func (r *Repository) GetByID(ctx context.Context, id int64) (Record, error) {
	var record Record
	err := r.store.From(r.tables.Records).
		Select(recordProjection).
		Eq("id", id).
		Single().
		Get(ctx, &record)
	if errors.Is(err, store.ErrNoRows) {
		return Record{}, ErrNotFound
	}
	if err != nil {
		return Record{}, err
	}
	return record, nil
}

// Insert creates a record from the given column values and returns the stored row.
func (r *Repository) Insert(ctx context.Context, row map[string]interface{}) (Record, error) {
	inserted := make([]Record, 0, 1)
	err := r.store.From(r.tables.Records).
		Insert(ctx, []map[string]interface{}{row}, &inserted)
	if err != nil {
		return Record{}, err
	}
	if len(inserted) == 0 {
		return Record{}, &store.Error{Message: "insert returned no rows"}
	}
	return inserted[0], nil
}

// UpdateFields patches the given columns on one record and returns the number
// of rows affected, so callers can tell a miss from a store failure.
func (r *Repository) UpdateFields(ctx context.Context, id int64, patch map[string]interface{}) (int, error) {
	return r.store.From(r.tables.Records).
		Eq("id", id).
		Update(ctx, patch)
}

// UpdateStage moves one record to a new stage.
func (r *Repository) UpdateStage(ctx context.Context, id int64, stage string) (int, error) {
	return r.UpdateFields(ctx, id, map[string]interface{}{"etapa": stage})
}

// ListAreaIDs returns the record's current area association set.
func (r *Repository) ListAreaIDs(ctx context.Context, id int64) ([]int64, error) {
	rows := make([]joinRow, 0)
	err := r.store.From(r.tables.Joins).
		Select("area_id").
		Eq(r.tables.JoinFK, id).
		Get(ctx, &rows)
	if err != nil {
		return nil, err
	}

	ids := make([]int64, 0, len(rows))
	for _, row := range rows {
		ids = append(ids, row.AreaID)
	}
	return ids, nil
}

// InsertAreaLinks creates join rows associating the record with each area.
func (r *Repository) InsertAreaLinks(ctx context.Context, id int64, areaIDs []int64) error {
	if len(areaIDs) == 0 {
		return nil
	}

	rows := make([]map[string]int64, 0, len(areaIDs))
	for _, areaID := range areaIDs {
		rows = append(rows, map[string]int64{
			r.tables.JoinFK: id,
			"area_id":       areaID,
		})
	}
	return r.store.From(r.tables.Joins).Insert(ctx, rows, nil)
}

// DeleteAreaLinks removes the join rows for the given areas.
func (r *Repository) DeleteAreaLinks(ctx context.Context, id int64, areaIDs []int64) error {
	if len(areaIDs) == 0 {
		return nil
	}

	values := make([]interface{}, 0, len(areaIDs))
	for _, areaID := range areaIDs {
		values = append(values, areaID)
	}

	_, err := r.store.From(r.tables.Joins).
		Eq(r.tables.JoinFK, id).
		In("area_id", values...).
		Delete(ctx)
	return err
}

// ReplaceAreas reconciles the record's association set to exactly areaIDs.
// Instead of delete-all-then-insert-all it computes the diff against the
// current set and applies only the missing and extra rows, which keeps the
// operation idempotent and avoids the window where a record has no areas at
// all. A failure between the two steps still leaves a partial set; callers
// log that as a consistency gap.
func (r *Repository) ReplaceAreas(ctx context.Context, id int64, areaIDs []int64) error {
	current, err := r.ListAreaIDs(ctx, id)
	if err != nil {
		return err
	}

	desired := make(map[int64]bool, len(areaIDs))
	for _, areaID := range areaIDs {
		desired[areaID] = true
	}
	existing := make(map[int64]bool, len(current))
	for _, areaID := range current {
		existing[areaID] = true
	}

	missing := make([]int64, 0)
	for areaID := range desired {
		if !existing[areaID] {
			missing = append(missing, areaID)
		}
	}
	extra := make([]int64, 0)
	for _, areaID := range current {
		if !desired[areaID] {
			extra = append(extra, areaID)
		}
	}

	if err := r.InsertAreaLinks(ctx, id, missing); err != nil {
		return err
	}
	return r.DeleteAreaLinks(ctx, id, extra)
}
