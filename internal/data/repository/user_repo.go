package repository

import (
	"context"
	"fmt"

	"venue-booking/internal/data/entity"
	"venue-booking/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type UserRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error)

	// Balance mutations are single conditional updates so concurrent
	// transfers never read-modify-write a stale balance.
	CreditBalance(ctx context.Context, id uuid.UUID, amount int64) error
	DebitBalance(ctx context.Context, id uuid.UUID, amount int64) error
	DebitBalanceFloored(ctx context.Context, id uuid.UUID, amount int64) error
}

type userRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewUserRepository(db database.PgxIface, log *zap.Logger) UserRepository {
	return &userRepository{
		db:  db,
		log: log.With(zap.String("repository", "user")),
	}
}

func (r *userRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	query := `
		SELECT id, name, email, role, balance, created_at, updated_at
		FROM users
		WHERE id = $1
	`

	var user entity.User
	err := r.db.QueryRow(ctx, query, id).Scan(
		&user.ID,
		&user.Name,
		&user.Email,
		&user.Role,
		&user.Balance,
		&user.CreatedAt,
		&user.UpdatedAt,
	)

	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find user by ID",
			zap.Error(err),
			zap.String("user_id", id.String()),
		)
		return nil, fmt.Errorf("find user by ID %s: %w", id.String(), err)
	}

	return &user, nil
}

func (r *userRepository) CreditBalance(ctx context.Context, id uuid.UUID, amount int64) error {
	query := `UPDATE users SET balance = balance + $2, updated_at = NOW() WHERE id = $1`

	result, err := r.db.Exec(ctx, query, id, amount)
	if err != nil {
		r.log.Error("Failed to credit balance",
			zap.Error(err),
			zap.String("user_id", id.String()),
			zap.Int64("amount", amount),
		)
		return fmt.Errorf("credit balance for user %s: %w", id.String(), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("user %s not found", id.String())
	}

	return nil
}

func (r *userRepository) DebitBalance(ctx context.Context, id uuid.UUID, amount int64) error {
	// Only debits when the balance covers the amount
	query := `UPDATE users SET balance = balance - $2, updated_at = NOW() WHERE id = $1 AND balance >= $2`

	result, err := r.db.Exec(ctx, query, id, amount)
	if err != nil {
		r.log.Error("Failed to debit balance",
			zap.Error(err),
			zap.String("user_id", id.String()),
			zap.Int64("amount", amount),
		)
		return fmt.Errorf("debit balance for user %s: %w", id.String(), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("user %s has insufficient balance", id.String())
	}

	return nil
}

func (r *userRepository) DebitBalanceFloored(ctx context.Context, id uuid.UUID, amount int64) error {
	// Refund path: the owner balance never goes below zero
	query := `UPDATE users SET balance = GREATEST(0, balance - $2), updated_at = NOW() WHERE id = $1`

	result, err := r.db.Exec(ctx, query, id, amount)
	if err != nil {
		r.log.Error("Failed to debit balance (floored)",
			zap.Error(err),
			zap.String("user_id", id.String()),
			zap.Int64("amount", amount),
		)
		return fmt.Errorf("debit balance (floored) for user %s: %w", id.String(), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("user %s not found", id.String())
	}

	return nil
}
