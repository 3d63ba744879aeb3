package models

import (
	"awm/src/types"

	"github.com/google/uuid"
)

type Notification struct {
	ID              uuid.UUID    `gorm:"primarykey;type:uuid;default:gen_random_uuid()" json:"id"`
	ProfileID       uint         `json:"profile_id"`
	ReferenceSource string       `json:"ref_src"`
	ReferenceValue  string       `json:"ref_value"`
	Title           string       `json:"title"`
	Description     *string      `json:"description"`
	ReferenceBody   *types.JSONB `gorm:"type:jsonb" json:"ref_body"`
	Type            string       `json:"type"`
	Read            bool         `gorm:"default:false" json:"read"`

	types.Timestamps
}
