package access

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/technohack/backend/internal/models"
)

// ErrNotAuthorized means the caller is known but lacks the required role.
var ErrNotAuthorized = errors.New("not authorized")

// Store is the storage surface the authority needs.
type Store interface {
	PromoteRole(ctx context.Context, userID string, to models.Role) (bool, error)
	RecordLogin(ctx context.Context, userID string) error
	AddAuditEvent(ctx context.Context, event *models.AuditEvent) error
}

// Allowlist is the static role configuration, read once at startup and
// injected here; it is never consulted from the environment afterwards.
type Allowlist struct {
	AdminEmails     []string
	SuperadminEmail string
}

// Authority decides and applies access levels. Promotion is one-way: this
// path never demotes, and removing an email from the allow-list leaves
// previously granted roles untouched.
type Authority struct {
	admins     map[string]struct{}
	superadmin string
	store      Store
}

func New(allowlist Allowlist, store Store) *Authority {
	admins := make(map[string]struct{}, len(allowlist.AdminEmails))
	for _, email := range allowlist.AdminEmails {
		admins[strings.ToLower(strings.TrimSpace(email))] = struct{}{}
	}
	return &Authority{
		admins:     admins,
		superadmin: strings.ToLower(strings.TrimSpace(allowlist.SuperadminEmail)),
		store:      store,
	}
}

// InitialRole is the role a brand-new user should be created with.
func (a *Authority) InitialRole(email string) models.Role {
	target, _ := a.Decide(email, models.RoleUser)
	return target
}

// Decide evaluates the allow-list against the persisted role and returns
// the resulting role plus whether a promotion is called for.
func (a *Authority) Decide(email string, persisted models.Role) (models.Role, bool) {
	if persisted.Elevated() {
		return persisted, false
	}

	email = strings.ToLower(email)
	if a.superadmin != "" && email == a.superadmin {
		return models.RoleSuperadmin, true
	}
	if _, ok := a.admins[email]; ok {
		return models.RoleAdmin, true
	}
	return models.RoleUser, false
}

// Resolve stamps the user's access level for this login: it applies any
// pending allow-list promotion via a conditional update (so races and
// repeats promote at most once), then records the login. The returned user
// reflects the final role.
func (a *Authority) Resolve(ctx context.Context, user *models.User) (*models.User, error) {
	target, promote := a.Decide(user.Email, user.Role)

	if promote {
		promoted, err := a.store.PromoteRole(ctx, user.ID, target)
		if err != nil {
			return nil, fmt.Errorf("promoting %s: %w", user.Email, err)
		}
		if promoted {
			logrus.WithFields(logrus.Fields{
				"user_id": user.ID,
				"email":   user.Email,
				"role":    target,
			}).Info("promoted user via allow-list")

			if err := a.store.AddAuditEvent(ctx, &models.AuditEvent{
				UserID:   user.ID,
				Kind:     models.AuditKindPromotion,
				FromRole: user.Role,
				ToRole:   target,
			}); err != nil {
				return nil, fmt.Errorf("recording promotion: %w", err)
			}
		}
		user.Role = target
	}

	if err := a.store.RecordLogin(ctx, user.ID); err != nil {
		return nil, fmt.Errorf("recording login: %w", err)
	}
	if err := a.store.AddAuditEvent(ctx, &models.AuditEvent{
		UserID:   user.ID,
		Kind:     models.AuditKindLogin,
		FromRole: user.Role,
		ToRole:   user.Role,
	}); err != nil {
		return nil, fmt.Errorf("recording login event: %w", err)
	}
	user.LoginCount++

	return user, nil
}

// RequireElevated is the per-call authorization check for admin-only
// operations; it never mutates persisted state.
func RequireElevated(user *models.User) error {
	if user == nil || !user.Role.Elevated() {
		return ErrNotAuthorized
	}
	return nil
}

// RequireSuperadmin guards role management itself.
func RequireSuperadmin(user *models.User) error {
	if user == nil || user.Role != models.RoleSuperadmin {
		return ErrNotAuthorized
	}
	return nil
}
