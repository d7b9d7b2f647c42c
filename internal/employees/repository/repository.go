package repository

import (
	"context"

	"crm_backend/platform/store"
)

// Employee is a row from the responsible-employee lookup table.
type Employee struct {
	ID   int64  `json:"id"`
	Nome string `json:"nome"`
}

type Repository struct {
	store *store.Client
}

func New(client *store.Client) *Repository {
	return &Repository{store: client}
}

// List returns every employee ordered by name.
func (r *Repository) List(ctx context.Context) ([]Employee, error) {
	employees := make([]Employee, 0)
	err := r.store.From("funcionarios").
		Select("id, nome").
		Order("nome", store.Asc).
		Get(ctx, &employees)
	if err != nil {
		return nil, err
	}
	return employees, nil
}
