package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/booklytrip/booking/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type ProjectRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Project, error)
}

type PGProjectRepository struct {
	db *pgxpool.Pool
}

func NewProjectRepository(db *pgxpool.Pool) ProjectRepository {
	return &PGProjectRepository{db: db}
}

func (r *PGProjectRepository) GetByID(ctx context.Context, id string) (*domain.Project, error) {
	var doc []byte
	if err := r.db.QueryRow(ctx, `SELECT doc FROM projects WHERE id=$1`, id).Scan(&doc); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	var p domain.Project
	if err := json.Unmarshal(doc, &p); err != nil {
		return nil, fmt.Errorf("unmarshal project: %w", err)
	}
	return &p, nil
}

var _ ProjectRepository = (*PGProjectRepository)(nil)
