package models

import "time"

const (
	// MaxLevel is the level ceiling; levels are always clamped to [0, MaxLevel].
	MaxLevel = 6
	// MaxTextLength bounds free-text profile fields.
	MaxTextLength = 200
)

// Member is a community member keyed by Telegram user ID.
type Member struct {
	TelegramID    int64     `json:"telegram_id" example:"123456789"`
	Username      string    `json:"username,omitempty" example:"johndoe"`
	FirstName     string    `json:"first_name,omitempty" example:"John"`
	CrewName      string    `json:"crew_name,omitempty" example:"Big John"`
	Level         int       `json:"level" example:"3"`
	Location      string    `json:"location,omitempty" example:"Kafana Kod Mike"`
	StatusMessage string    `json:"status_message,omitempty" example:"here all night"`
	CreatedAt     time.Time `json:"created_at" example:"2024-03-15T14:30:00Z"`
	UpdatedAt     time.Time `json:"updated_at" example:"2024-03-15T14:30:00Z"`
}

// DisplayName picks the name used in notifications: chosen crew name,
// then first name, then handle, then a generic label.
func (m *Member) DisplayName() string {
	switch {
	case m.CrewName != "":
		return m.CrewName
	case m.FirstName != "":
		return m.FirstName
	case m.Username != "":
		return "@" + m.Username
	default:
		return "a crew member"
	}
}

// ProfilePatch is the optional-field update to a member profile. A nil
// field is left untouched; a present field is applied as-is.
type ProfilePatch struct {
	Level         *int    `json:"level,omitempty" example:"3"`
	Location      *string `json:"location,omitempty" example:"Kafana Kod Mike"`
	StatusMessage *string `json:"status_message,omitempty" example:"here all night"`
	CrewName      *string `json:"crew_name,omitempty" example:"Big John"`
}

// IsEmpty reports whether the patch carries no recognized field.
func (p ProfilePatch) IsEmpty() bool {
	return p.Level == nil && p.Location == nil && p.StatusMessage == nil && p.CrewName == nil
}
