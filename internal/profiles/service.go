package profiles

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	pkgerrors "github.com/tumblera/tumblera-backend/pkg/errors"
	"github.com/tumblera/tumblera-backend/pkg/kvstore"
	"github.com/tumblera/tumblera-backend/pkg/logger"
	"github.com/tumblera/tumblera-backend/pkg/supabase"
)

type gateway interface {
	GetProfileByEmail(ctx context.Context, email string) (supabase.ProfileRecord, error)
	UpdateProfileByEmail(ctx context.Context, email string, update supabase.ProfileUpdate) (supabase.ProfileRecord, error)
}

// Prefill is the free-form contact snapshot used to pre-populate the
// checkout form. It is keyed by email and last writer wins.
type Prefill struct {
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
}

// Service stores checkout prefill data locally and keeps the remote users
// row loosely in sync.
type Service interface {
	Get(ctx context.Context, email string) (Prefill, error)
	Save(ctx context.Context, email string, prefill Prefill) error
}

type service struct {
	kv      kvstore.Store
	gateway gateway
	logg    *logger.Logger
}

// NewService wires the profile service. The gateway may be nil when the
// remote store is not configured; prefill then lives only in the KV store.
func NewService(kv kvstore.Store, gw gateway, logg *logger.Logger) (Service, error) {
	if kv == nil {
		return nil, errors.New("kv store is required")
	}
	if logg == nil {
		return nil, errors.New("logger is required")
	}
	return &service{kv: kv, gateway: gw, logg: logg}, nil
}

func prefillKey(email string) string {
	return "profile:" + email
}

// Get returns the saved prefill for the email. A local miss falls back to
// the remote users row; no profile anywhere yields an empty prefill, not an
// error.
func (s *service) Get(ctx context.Context, email string) (Prefill, error) {
	if strings.TrimSpace(email) == "" {
		return Prefill{}, pkgerrors.New(pkgerrors.CodeValidation, "email is required")
	}

	raw, found, err := s.kv.Get(ctx, prefillKey(email))
	if err != nil {
		return Prefill{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to read profile")
	}
	if found {
		var prefill Prefill
		if jsonErr := json.Unmarshal([]byte(raw), &prefill); jsonErr == nil {
			return prefill, nil
		}
		// Corrupt documents are treated as absent, same as the cart.
		s.logg.Warn(s.logg.WithUserEmail(ctx, email), "stored profile is corrupt, ignoring")
	}

	if s.gateway == nil {
		return Prefill{}, nil
	}

	remote, err := s.gateway.GetProfileByEmail(ctx, email)
	if err != nil {
		typed := pkgerrors.As(err)
		if typed != nil && typed.Code() == pkgerrors.CodeNotFound {
			return Prefill{}, nil
		}
		return Prefill{}, err
	}

	prefill := Prefill{
		Name:  strings.TrimSpace(remote.FirstName + " " + remote.LastName),
		Phone: remote.Phone,
	}
	if err := s.persist(ctx, email, prefill); err != nil {
		s.logg.Warn(s.logg.WithUserEmail(ctx, email), "failed to cache remote profile: "+err.Error())
	}
	return prefill, nil
}

// Save stores the prefill locally and pushes name and phone to the remote
// users row when one exists. Remote sync is best-effort.
func (s *service) Save(ctx context.Context, email string, prefill Prefill) error {
	if strings.TrimSpace(email) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "email is required")
	}

	if err := s.persist(ctx, email, prefill); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to save profile")
	}

	if s.gateway != nil {
		s.syncRemote(ctx, email, prefill)
	}
	return nil
}

func (s *service) persist(ctx context.Context, email string, prefill Prefill) error {
	encoded, err := json.Marshal(prefill)
	if err != nil {
		return err
	}
	return s.kv.Set(ctx, prefillKey(email), string(encoded))
}

func (s *service) syncRemote(ctx context.Context, email string, prefill Prefill) {
	first, last := splitName(prefill.Name)
	update := supabase.ProfileUpdate{}
	if first != "" {
		update.FirstName = &first
	}
	if last != "" {
		update.LastName = &last
	}
	if prefill.Phone != "" {
		update.Phone = &prefill.Phone
	}
	if update == (supabase.ProfileUpdate{}) {
		return
	}

	if _, err := s.gateway.UpdateProfileByEmail(ctx, email, update); err != nil {
		typed := pkgerrors.As(err)
		if typed != nil && typed.Code() == pkgerrors.CodeNotFound {
			return
		}
		s.logg.Warn(s.logg.WithUserEmail(ctx, email), "failed to sync profile remotely: "+err.Error())
	}
}

func splitName(full string) (string, string) {
	full = strings.TrimSpace(full)
	if full == "" {
		return "", ""
	}
	parts := strings.SplitN(full, " ", 2)
	if len(parts) == 1 {
		return parts[0], ""
	}
	return parts[0], strings.TrimSpace(parts[1])
}
