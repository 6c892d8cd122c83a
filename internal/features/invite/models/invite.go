package models

import "time"

// Invite is a capacity-limited onboarding code. A nil MaxUses means
// unlimited; once Active is false the code is permanently unusable.
type Invite struct {
	Code      string    `json:"code" example:"INV_7F3A2C1D"`
	MaxUses   *int      `json:"max_uses,omitempty" example:"5"`
	UsedCount int       `json:"used_count" example:"0"`
	Active    bool      `json:"active" example:"true"`
	CreatedBy int64     `json:"created_by,omitempty" example:"123456789"`
	CreatedAt time.Time `json:"created_at" example:"2024-03-15T14:30:00Z"`
}

// Remaining returns the uses left, or -1 for unlimited codes.
func (i *Invite) Remaining() int {
	if i.MaxUses == nil {
		return -1
	}
	if left := *i.MaxUses - i.UsedCount; left > 0 {
		return left
	}
	return 0
}
