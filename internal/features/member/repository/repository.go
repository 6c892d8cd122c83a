package repository

import (
	"context"
	"errors"

	"crewhub-backend/internal/features/member/models"
)

var ErrMemberNotFound = errors.New("member not found")

type MemberRepository interface {
	// Upsert creates the member or refreshes identity fields on re-entry.
	Upsert(ctx context.Context, member *models.Member) error
	GetByID(ctx context.Context, id int64) (*models.Member, error)
	// List returns all members, highest level first, most recently updated
	// first within a level.
	List(ctx context.Context) ([]*models.Member, error)
	// UpdateProfile applies all present patch fields and refreshes
	// updated_at in a single statement.
	UpdateProfile(ctx context.Context, id int64, patch models.ProfilePatch) error
	// IncrementLevel / DecrementLevel clamp and shift the level in one
	// atomic statement and return the new value.
	IncrementLevel(ctx context.Context, id int64) (int, error)
	DecrementLevel(ctx context.Context, id int64) (int, error)
}
