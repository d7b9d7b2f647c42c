package repository

import (
	"context"

	"crm_backend/platform/store"
)

// Area is a tag/category row from the shared vocabulary table.
type Area struct {
	ID   int64  `json:"id"`
	Nome string `json:"nome"`
}

type Repository struct {
	store *store.Client
}

func New(client *store.Client) *Repository {
	return &Repository{store: client}
}

// List returns every area ordered by name.
func (r *Repository) List(ctx context.Context) ([]Area, error) {
	areas := make([]Area, 0)
	err := r.store.From("areas").
		Select("id, nome").
		Order("nome", store.Asc).
		Get(ctx, &areas)
	if err != nil {
		return nil, err
	}
	return areas, nil
}

// FindByNames returns the areas whose names appear in the given set. Names
// with no matching row are simply absent from the result.
func (r *Repository) FindByNames(ctx context.Context, names []string) ([]Area, error) {
	if len(names) == 0 {
		return []Area{}, nil
	}

	values := make([]interface{}, 0, len(names))
	for _, name := range names {
		values = append(values, name)
	}

	areas := make([]Area, 0)
	err := r.store.From("areas").
		Select("id, nome").
		In("nome", values...).
		Get(ctx, &areas)
	if err != nil {
		return nil, err
	}
	return areas, nil
}

// ExistsByName reports whether an area with the exact name is already present.
func (r *Repository) ExistsByName(ctx context.Context, nome string) (bool, error) {
	rows := make([]Area, 0)
	err := r.store.From("areas").
		Select("id").
		Eq("nome", nome).
		Get(ctx, &rows)
	if err != nil {
		return false, err
	}
	return len(rows) > 0, nil
}

// Create inserts a new area and returns the stored row.
func (r *Repository) Create(ctx context.Context, nome string) (Area, error) {
	inserted := make([]Area, 0, 1)
	err := r.store.From("areas").
		Insert(ctx, []map[string]string{{"nome": nome}}, &inserted)
	if err != nil {
		return Area{}, err
	}
	if len(inserted) == 0 {
		return Area{}, &store.Error{Message: "insert returned no rows"}
	}
	return inserted[0], nil
}
