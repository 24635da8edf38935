package identity

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrMissingEmail   = errors.New("identity has no resolvable email")
	ErrMissingSubject = errors.New("identity has no subject id")

	ErrUnauthenticated = errors.New("unauthenticated")
)

// Identity is the normalized view of an externally authenticated user.
type Identity struct {
	SubjectID string
	Email     string
	FirstName string
	LastName  string
	AvatarURL string
}

func (i Identity) String() string {
	return fmt.Sprintf("Identity(%s, %s)", i.SubjectID, i.Email)
}

// Normalize maps the provider's loosely shaped payload to an Identity. The
// provider spells fields differently across event versions, so every known
// spelling is tried; a payload with no resolvable email fails closed.
func Normalize(payload map[string]any) (Identity, error) {
	ident := Identity{
		SubjectID: firstString(payload, "id", "user_id", "sub"),
		FirstName: firstString(payload, "first_name", "given_name"),
		LastName:  firstString(payload, "last_name", "family_name"),
		AvatarURL: firstString(payload, "image_url", "avatar_url", "picture"),
	}
	if ident.SubjectID == "" {
		return Identity{}, ErrMissingSubject
	}

	email := firstString(payload, "email", "email_address", "primary_email")
	if email == "" {
		email = nestedEmail(payload)
	}
	if email == "" {
		return Identity{}, ErrMissingEmail
	}
	ident.Email = strings.ToLower(email)

	return ident, nil
}

func firstString(payload map[string]any, keys ...string) string {
	for _, key := range keys {
		if v, ok := payload[key].(string); ok && v != "" {
			return v
		}
	}
	return ""
}

// nestedEmail handles the list-shaped variant:
// {"email_addresses": [{"email_address": "..."}, ...]}.
func nestedEmail(payload map[string]any) string {
	list, ok := payload["email_addresses"].([]any)
	if !ok || len(list) == 0 {
		return ""
	}
	entry, ok := list[0].(map[string]any)
	if !ok {
		return ""
	}
	return firstString(entry, "email_address", "email")
}
