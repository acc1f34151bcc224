package supabase

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/tumblera/tumblera-backend/pkg/enums"
	pkgerrors "github.com/tumblera/tumblera-backend/pkg/errors"
)

// ProfileRecord mirrors a row in the users table.
type ProfileRecord struct {
	ID        string          `json:"id"`
	Email     string          `json:"email"`
	FirstName string          `json:"first_name"`
	LastName  string          `json:"last_name"`
	Phone     string          `json:"phone"`
	Role      enums.ActorRole `json:"role"`
	CreatedAt time.Time       `json:"created_at"`
}

// ProfileUpdate carries the mutable profile fields. Nil fields are left
// untouched.
type ProfileUpdate struct {
	FirstName *string `json:"first_name,omitempty"`
	LastName  *string `json:"last_name,omitempty"`
	Phone     *string `json:"phone,omitempty"`
}

type profileInsertRow struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Phone     string `json:"phone"`
	Role      string `json:"role"`
	CreatedAt string `json:"created_at"`
}

// CreateProfile inserts the users row tied to a new auth account.
func (c *Client) CreateProfile(ctx context.Context, userID string, profile ProfileRecord) (ProfileRecord, error) {
	if strings.TrimSpace(userID) == "" {
		return ProfileRecord{}, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}

	role := profile.Role
	if role == "" {
		role = enums.ActorRoleCustomer
	}

	row := profileInsertRow{
		ID:        userID,
		Email:     profile.Email,
		FirstName: profile.FirstName,
		LastName:  profile.LastName,
		Phone:     profile.Phone,
		Role:      string(role),
		CreatedAt: time.Now().UTC().Format(time.RFC3339),
	}

	var created []ProfileRecord
	if err := c.doJSON(ctx, http.MethodPost, c.restURL("users", ""), []profileInsertRow{row}, &created); err != nil {
		return ProfileRecord{}, err
	}
	if len(created) == 0 {
		return ProfileRecord{}, pkgerrors.New(pkgerrors.CodeDependency, "profile insert returned no rows")
	}
	return created[0], nil
}

// GetProfileByEmail fetches the users row for an email address.
func (c *Client) GetProfileByEmail(ctx context.Context, email string) (ProfileRecord, error) {
	if strings.TrimSpace(email) == "" {
		return ProfileRecord{}, pkgerrors.New(pkgerrors.CodeValidation, "email is required")
	}

	query := url.Values{}
	query.Set("email", "eq."+email)
	query.Set("limit", "1")

	var profiles []ProfileRecord
	if err := c.doJSON(ctx, http.MethodGet, c.restURL("users", query.Encode()), nil, &profiles); err != nil {
		return ProfileRecord{}, err
	}
	if len(profiles) == 0 {
		return ProfileRecord{}, pkgerrors.New(pkgerrors.CodeNotFound, "profile not found")
	}
	return profiles[0], nil
}

// UpdateProfileByEmail patches the mutable profile fields and returns the
// updated row.
func (c *Client) UpdateProfileByEmail(ctx context.Context, email string, update ProfileUpdate) (ProfileRecord, error) {
	if strings.TrimSpace(email) == "" {
		return ProfileRecord{}, pkgerrors.New(pkgerrors.CodeValidation, "email is required")
	}

	query := url.Values{}
	query.Set("email", "eq."+email)

	var updated []ProfileRecord
	if err := c.doJSON(ctx, http.MethodPatch, c.restURL("users", query.Encode()), update, &updated); err != nil {
		return ProfileRecord{}, err
	}
	if len(updated) == 0 {
		return ProfileRecord{}, pkgerrors.New(pkgerrors.CodeNotFound, "profile not found")
	}
	return updated[0], nil
}
