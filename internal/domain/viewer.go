package domain

import "github.com/google/uuid"

// Viewer is the identity a request acts as after session resolution.
// The zero value is the anonymous viewer.
type Viewer struct {
	UserID        uuid.UUID
	Authenticated bool
}

func Anonymous() Viewer {
	return Viewer{}
}

func AuthenticatedViewer(userID uuid.UUID) Viewer {
	return Viewer{UserID: userID, Authenticated: true}
}

// Owns reports whether the viewer is the story's owner.
func (v Viewer) Owns(s *Story) bool {
	return v.Authenticated && v.UserID == s.OwnerID
}
