package repository

import (
	"context"
	"database/sql"
	"errors"

	"app/internal/model"
)

type PurchaseRepository interface {
	CreatePurchase(ctx context.Context, p *model.Purchase) error
	GetPurchaseBySessionID(ctx context.Context, sessionID string) (*model.Purchase, error)
	UpdatePurchaseStatus(ctx context.Context, purchaseID, status string) error
}

type purchaseRepo struct {
	db *sql.DB
}

func NewPurchaseRepo(db *sql.DB) PurchaseRepository {
	return &purchaseRepo{db: db}
}

func (r *purchaseRepo) CreatePurchase(ctx context.Context, p *model.Purchase) error {
	query := `
		INSERT INTO purchases (id, course_id, user_id, status, amount_cents, session_id)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at, updated_at
	`
	err := r.db.QueryRowContext(ctx, query,
		p.ID, p.CourseID, p.UserID, p.Status, p.AmountCents, p.SessionID,
	).Scan(&p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return wrapStore("failed to insert purchase", err)
	}
	return nil
}

func (r *purchaseRepo) GetPurchaseBySessionID(ctx context.Context, sessionID string) (*model.Purchase, error) {
	query := `
		SELECT id, course_id, user_id, status, amount_cents, session_id, created_at, updated_at
		FROM purchases
		WHERE session_id = $1
	`
	var p model.Purchase
	err := r.db.QueryRowContext(ctx, query, sessionID).Scan(
		&p.ID,
		&p.CourseID,
		&p.UserID,
		&p.Status,
		&p.AmountCents,
		&p.SessionID,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, wrapStore("failed to scan purchase row", err)
	}
	return &p, nil
}

func (r *purchaseRepo) UpdatePurchaseStatus(ctx context.Context, purchaseID, status string) error {
	query := `UPDATE purchases SET status = $1, updated_at = NOW() WHERE id = $2`
	if _, err := r.db.ExecContext(ctx, query, status, purchaseID); err != nil {
		return wrapStore("failed to update purchase status", err)
	}
	return nil
}
