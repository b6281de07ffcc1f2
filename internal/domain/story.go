package domain

import (
	"time"

	"github.com/google/uuid"
)

type Visibility string

const (
	VisibilityPublic  Visibility = "public"
	VisibilityPrivate Visibility = "private"
)

func (v Visibility) Valid() bool {
	return v == VisibilityPublic || v == VisibilityPrivate
}

// Story is a user-authored text post. OwnerID is fixed at creation; only
// the owner may edit or delete it.
type Story struct {
	ID         uuid.UUID  `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	OwnerID    uuid.UUID  `json:"ownerId" gorm:"type:uuid;not null;index"`
	Title      string     `json:"title" gorm:"not null"`
	Body       string     `json:"body" gorm:"type:text;not null"`
	Visibility Visibility `json:"visibility" gorm:"not null;default:'public';index"`
	CreatedAt  time.Time  `json:"createdAt"`
	UpdatedAt  time.Time  `json:"updatedAt"`
}
