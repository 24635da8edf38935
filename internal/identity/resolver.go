package identity

import (
	"context"
	"fmt"

	"github.com/technohack/backend/internal/models"
)

// UserStore is the storage surface the resolver needs.
type UserStore interface {
	GetOrCreateUser(ctx context.Context, candidate *models.User) (*models.User, error)
}

// RoleSource decides the role a brand-new user is created with, so that
// allow-listed admins are stamped at first sight.
type RoleSource interface {
	InitialRole(email string) models.Role
}

// Resolver maps a normalized external identity onto the local user table,
// creating the row on first sight. Concurrent first-time resolutions for
// the same subject id collapse onto one row at the storage layer.
type Resolver struct {
	store UserStore
	roles RoleSource
}

func NewResolver(store UserStore, roles RoleSource) *Resolver {
	return &Resolver{store: store, roles: roles}
}

func (r *Resolver) Resolve(ctx context.Context, ident Identity) (*models.User, error) {
	if ident.SubjectID == "" {
		return nil, ErrMissingSubject
	}
	if ident.Email == "" {
		return nil, ErrMissingEmail
	}

	user, err := r.store.GetOrCreateUser(ctx, &models.User{
		SubjectID: ident.SubjectID,
		Email:     ident.Email,
		FirstName: ident.FirstName,
		LastName:  ident.LastName,
		AvatarURL: ident.AvatarURL,
		Role:      r.roles.InitialRole(ident.Email),
		IsActive:  true,
	})
	if err != nil {
		return nil, fmt.Errorf("resolving identity %v: %w", ident, err)
	}

	return user, nil
}
