package repository

import (
	"context"
	"errors"

	"crm_backend/platform/store"
)

// ErrNotFound is returned when no user matches.
var ErrNotFound = errors.New("user not found")

// User is an internal operator account. Accounts are provisioned directly in
// the store; there is no signup flow.
type User struct {
	ID        int64  `json:"id"`
	Nome      string `json:"nome"`
	Email     string `json:"email"`
	SenhaHash string `json:"senha_hash"`
}

type Repository struct {
	store *store.Client
}

func New(client *store.Client) *Repository {
	return &Repository{store: client}
}

func (r *Repository) FindByEmail(ctx context.Context, email string) (User, error) {
	var user User
	err := r.store.From("usuarios").
		Select("id, nome, email, senha_hash").
		Eq("email", email).
		Single().
		Get(ctx, &user)
	if errors.Is(err, store.ErrNoRows) {
		return User{}, ErrNotFound
	}
	if err != nil {
		return User{}, err
	}
	return user, nil
}

func (r *Repository) FindByID(ctx context.Context, id int64) (User, error) {
	var user User
	err := r.store.From("usuarios").
		Select("id, nome, email, senha_hash").
		Eq("id", id).
		Single().
		Get(ctx, &user)
	if errors.Is(err, store.ErrNoRows) {
		return User{}, ErrNotFound
	}
	if err != nil {
		return User{}, err
	}
	return user, nil
}
