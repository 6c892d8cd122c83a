package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "github.com/lib/pq"

	"crewhub-backend/internal/features/invite/models"
	"crewhub-backend/internal/features/invite/repository"
)

type postgresRepository struct {
	db *sql.DB
}

func NewPostgresRepository(db *sql.DB) repository.InviteRepository {
	return &postgresRepository{db: db}
}

func (r *postgresRepository) Create(ctx context.Context, invite *models.Invite) error {
	query := `
		INSERT INTO invites (code, max_uses, used_count, active, created_by)
		VALUES ($1, $2, 0, TRUE, $3)
	`

	var maxUses sql.NullInt64
	if invite.MaxUses != nil {
		maxUses = sql.NullInt64{Int64: int64(*invite.MaxUses), Valid: true}
	}

	if _, err := r.db.ExecContext(ctx, query, invite.Code, maxUses, invite.CreatedBy); err != nil {
		return fmt.Errorf("failed to create invite: %w", err)
	}

	return nil
}

func (r *postgresRepository) GetByCode(ctx context.Context, code string) (*models.Invite, error) {
	query := `
		SELECT code, max_uses, used_count, active, created_by, created_at
		FROM invites
		WHERE code = $1
	`

	invite, err := scanInvite(r.db.QueryRowContext(ctx, query, code))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrInviteNotFound
		}
		return nil, fmt.Errorf("failed to get invite: %w", err)
	}

	return invite, nil
}

// Redeem performs the capacity check and the increment in one conditional
// UPDATE so concurrent redemptions can never overshoot max_uses.
func (r *postgresRepository) Redeem(ctx context.Context, code string) error {
	query := `
		UPDATE invites
		SET used_count = used_count + 1
		WHERE code = $1
		  AND active
		  AND (max_uses IS NULL OR used_count < max_uses)
	`

	result, err := r.db.ExecContext(ctx, query, code)
	if err != nil {
		return fmt.Errorf("failed to redeem invite: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected > 0 {
		return nil
	}

	// The conditional update matched nothing; a point read classifies why.
	// used_count only grows and active only flips off, so the verdict
	// cannot be stale in a way that admits an extra use.
	invite, err := r.GetByCode(ctx, code)
	if err != nil {
		return err
	}
	if !invite.Active {
		return repository.ErrInviteInactive
	}
	return repository.ErrInviteExhausted
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanInvite(row rowScanner) (*models.Invite, error) {
	var invite models.Invite
	var maxUses sql.NullInt64
	var createdBy sql.NullInt64

	err := row.Scan(&invite.Code, &maxUses, &invite.UsedCount,
		&invite.Active, &createdBy, &invite.CreatedAt)
	if err != nil {
		return nil, err
	}

	if maxUses.Valid {
		n := int(maxUses.Int64)
		invite.MaxUses = &n
	}
	if createdBy.Valid {
		invite.CreatedBy = createdBy.Int64
	}

	return &invite, nil
}
