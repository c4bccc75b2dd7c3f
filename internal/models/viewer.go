package models

import (
	"github.com/google/uuid"
)

// Viewer is whoever is evaluating access right now. It arrives from the
// identity collaborator and is treated as opaque, read-only input; roles
// (anonymous, authenticated, comment author, post owner) are derived per
// access check and never stored.
type Viewer struct {
	ID          *uuid.UUID `json:"id,omitempty"`
	DisplayName string     `json:"displayName,omitempty"`
	AvatarURL   string     `json:"avatarUrl,omitempty"`
	Email       string     `json:"email,omitempty"`
}

// Anonymous returns the viewer used when no identity is presented.
func Anonymous() *Viewer {
	return &Viewer{}
}

// IsAnonymous reports whether the viewer has no identity.
func (v *Viewer) IsAnonymous() bool {
	return v == nil || v.ID == nil
}

// Is reports whether the viewer is the user with the given ID.
func (v *Viewer) Is(userID uuid.UUID) bool {
	return v != nil && v.ID != nil && *v.ID == userID
}
