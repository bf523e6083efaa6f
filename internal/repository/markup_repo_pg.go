package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/booklytrip/booking/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// MarkupRepository stores pricing rules. Rule order is an explicit integer
// priority: rules are returned and evaluated in ascending priority order,
// with the default rule forced to the end of the list.
type MarkupRepository interface {
	List(ctx context.Context, project string) ([]domain.Markup, error)
	Create(ctx context.Context, rule *domain.Markup) error
	Update(ctx context.Context, rule *domain.Markup) error
	Delete(ctx context.Context, project, id string) error
	Reorder(ctx context.Context, project string, ids []string) error
}

type PGMarkupRepository struct {
	db *pgxpool.Pool
}

func NewMarkupRepository(db *pgxpool.Pool) MarkupRepository {
	return &PGMarkupRepository{db: db}
}

func (r *PGMarkupRepository) List(ctx context.Context, project string) ([]domain.Markup, error) {
	rows, err := r.db.Query(ctx, `SELECT doc, priority FROM markups WHERE project=$1 ORDER BY is_default, priority`, project)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	rules := make([]domain.Markup, 0)
	for rows.Next() {
		var doc []byte
		var priority int
		if err := rows.Scan(&doc, &priority); err != nil {
			return nil, err
		}
		var rule domain.Markup
		if err := json.Unmarshal(doc, &rule); err != nil {
			return nil, fmt.Errorf("unmarshal markup: %w", err)
		}
		// The priority column is authoritative; the document copy may
		// predate a reorder.
		rule.Priority = priority
		rules = append(rules, rule)
	}
	return rules, rows.Err()
}

func (r *PGMarkupRepository) Create(ctx context.Context, rule *domain.Markup) error {
	if rule.ID == "" {
		rule.ID = uuid.NewString()
	}
	rule.CreatedAt = time.Now()

	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	// New rules go to the end of the evaluation order.
	var maxPriority int
	if err := tx.QueryRow(ctx, `SELECT COALESCE(MAX(priority), 0) FROM markups WHERE project=$1`, rule.Project).Scan(&maxPriority); err != nil {
		return err
	}
	rule.Priority = maxPriority + 1

	doc, err := json.Marshal(rule)
	if err != nil {
		return fmt.Errorf("marshal markup: %w", err)
	}

	if _, err := tx.Exec(ctx, `INSERT INTO markups (id, project, priority, is_default, doc, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		rule.ID, rule.Project, rule.Priority, rule.Default, doc, rule.CreatedAt); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func (r *PGMarkupRepository) Update(ctx context.Context, rule *domain.Markup) error {
	doc, err := json.Marshal(rule)
	if err != nil {
		return fmt.Errorf("marshal markup: %w", err)
	}

	cmd, err := r.db.Exec(ctx, `UPDATE markups SET doc=$3, is_default=$4 WHERE project=$1 AND id=$2`,
		rule.Project, rule.ID, doc, rule.Default)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PGMarkupRepository) Delete(ctx context.Context, project, id string) error {
	cmd, err := r.db.Exec(ctx, `DELETE FROM markups WHERE project=$1 AND id=$2`, project, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Reorder rewrites the priorities of all listed rules in one transaction,
// following the order of ids.
func (r *PGMarkupRepository) Reorder(ctx context.Context, project string, ids []string) error {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	for i, id := range ids {
		cmd, err := tx.Exec(ctx, `UPDATE markups SET priority=$3 WHERE project=$1 AND id=$2`, project, id, i+1)
		if err != nil {
			return err
		}
		if cmd.RowsAffected() == 0 {
			return errors.Join(ErrNotFound, fmt.Errorf("markup %s", id))
		}
	}

	return tx.Commit(ctx)
}

var _ MarkupRepository = (*PGMarkupRepository)(nil)
