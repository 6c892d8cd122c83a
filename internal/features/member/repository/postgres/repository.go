package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	_ "github.com/lib/pq"

	"crewhub-backend/internal/features/member/models"
	"crewhub-backend/internal/features/member/repository"
)

type postgresRepository struct {
	db *sql.DB
}

func NewPostgresRepository(db *sql.DB) repository.MemberRepository {
	return &postgresRepository{db: db}
}

const memberColumns = `telegram_id, username, first_name, crew_name, level,
	location, status_message, created_at, updated_at`

func (r *postgresRepository) Upsert(ctx context.Context, member *models.Member) error {
	query := `
		INSERT INTO users (telegram_id, username, first_name, level)
		VALUES ($1, NULLIF($2, ''), NULLIF($3, ''), $4)
		ON CONFLICT (telegram_id) DO UPDATE SET
			username = EXCLUDED.username,
			first_name = EXCLUDED.first_name,
			updated_at = NOW()
	`

	_, err := r.db.ExecContext(ctx, query,
		member.TelegramID, member.Username, member.FirstName, member.Level)
	if err != nil {
		return fmt.Errorf("failed to upsert member: %w", err)
	}

	return nil
}

func (r *postgresRepository) GetByID(ctx context.Context, id int64) (*models.Member, error) {
	query := fmt.Sprintf(`SELECT %s FROM users WHERE telegram_id = $1`, memberColumns)

	member, err := scanMember(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrMemberNotFound
		}
		return nil, fmt.Errorf("failed to get member: %w", err)
	}

	return member, nil
}

func (r *postgresRepository) List(ctx context.Context) ([]*models.Member, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM users
		ORDER BY level DESC, updated_at DESC
	`, memberColumns)

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list members: %w", err)
	}
	defer rows.Close()

	var members []*models.Member
	for rows.Next() {
		member, err := scanMember(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan member: %w", err)
		}
		members = append(members, member)
	}

	return members, rows.Err()
}

// UpdateProfile builds the update clause from the present patch fields.
// Column names are literals; every value travels as a typed parameter.
func (r *postgresRepository) UpdateProfile(ctx context.Context, id int64, patch models.ProfilePatch) error {
	updates := make([]string, 0, 4)
	values := make([]interface{}, 0, 5)
	paramIndex := 1

	appendSet := func(column string, value interface{}) {
		updates = append(updates, fmt.Sprintf("%s = $%d", column, paramIndex))
		values = append(values, value)
		paramIndex++
	}

	if patch.Level != nil {
		appendSet("level", *patch.Level)
	}
	if patch.Location != nil {
		appendSet("location", *patch.Location)
	}
	if patch.StatusMessage != nil {
		appendSet("status_message", *patch.StatusMessage)
	}
	if patch.CrewName != nil {
		appendSet("crew_name", *patch.CrewName)
	}
	if len(updates) == 0 {
		return nil
	}

	updates = append(updates, "updated_at = NOW()")
	values = append(values, id)

	query := fmt.Sprintf("UPDATE users SET %s WHERE telegram_id = $%d",
		strings.Join(updates, ", "), paramIndex)

	result, err := r.db.ExecContext(ctx, query, values...)
	if err != nil {
		return fmt.Errorf("failed to update profile: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return repository.ErrMemberNotFound
	}

	return nil
}

func (r *postgresRepository) IncrementLevel(ctx context.Context, id int64) (int, error) {
	query := `
		UPDATE users
		SET level = LEAST(level + 1, $2), updated_at = NOW()
		WHERE telegram_id = $1
		RETURNING level
	`

	return r.shiftLevel(ctx, query, id, models.MaxLevel)
}

func (r *postgresRepository) DecrementLevel(ctx context.Context, id int64) (int, error) {
	query := `
		UPDATE users
		SET level = GREATEST(level - 1, $2), updated_at = NOW()
		WHERE telegram_id = $1
		RETURNING level
	`

	return r.shiftLevel(ctx, query, id, 0)
}

func (r *postgresRepository) shiftLevel(ctx context.Context, query string, id int64, bound int) (int, error) {
	var level int
	err := r.db.QueryRowContext(ctx, query, id, bound).Scan(&level)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, repository.ErrMemberNotFound
		}
		return 0, fmt.Errorf("failed to shift level: %w", err)
	}

	return level, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanMember(row rowScanner) (*models.Member, error) {
	var member models.Member
	var username, firstName, crewName, location, statusMessage sql.NullString

	err := row.Scan(&member.TelegramID, &username, &firstName, &crewName,
		&member.Level, &location, &statusMessage, &member.CreatedAt, &member.UpdatedAt)
	if err != nil {
		return nil, err
	}

	member.Username = username.String
	member.FirstName = firstName.String
	member.CrewName = crewName.String
	member.Location = location.String
	member.StatusMessage = statusMessage.String

	return &member, nil
}
