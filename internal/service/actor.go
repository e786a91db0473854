package service

import "servicefinder/internal/models"

// Actor is the authenticated caller of an operation. The zero value is anonymous.
type Actor struct {
	UserID int64
	Role   models.Role
}

func (a Actor) IsAdmin() bool {
	return a.Role == models.RoleAdmin
}

func (a Actor) Anonymous() bool {
	return a.UserID == 0
}

// Owns reports whether the actor is an admin or one of ids.
func (a Actor) Owns(ids ...int64) bool {
	if a.IsAdmin() {
		return true
	}
	if a.Anonymous() {
		return false
	}
	for _, id := range ids {
		if id == a.UserID {
			return true
		}
	}
	return false
}

func (a Actor) require(ids ...int64) error {
	if !a.Owns(ids...) {
		return ErrForbidden
	}
	return nil
}

func (a Actor) requireAdmin() error {
	if !a.IsAdmin() {
		return ErrForbidden
	}
	return nil
}
