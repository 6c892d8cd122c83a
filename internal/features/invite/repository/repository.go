package repository

import (
	"context"
	"errors"

	"crewhub-backend/internal/features/invite/models"
)

var (
	ErrInviteNotFound  = errors.New("invite not found")
	ErrInviteInactive  = errors.New("invite inactive")
	ErrInviteExhausted = errors.New("invite exhausted")
)

type InviteRepository interface {
	Create(ctx context.Context, invite *models.Invite) error
	GetByCode(ctx context.Context, code string) (*models.Invite, error)
	// Redeem consumes one unit of capacity. The capacity check and the
	// increment must be a single atomic operation; two concurrent calls on
	// a code with one use left must yield exactly one success.
	Redeem(ctx context.Context, code string) error
}
