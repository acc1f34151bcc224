package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/tumblera/tumblera-backend/internal/design"
	"github.com/tumblera/tumblera-backend/pkg/config"
	"github.com/tumblera/tumblera-backend/pkg/enums"
	pkgerrors "github.com/tumblera/tumblera-backend/pkg/errors"
	"github.com/tumblera/tumblera-backend/pkg/kvstore"
	"github.com/tumblera/tumblera-backend/pkg/logger"
)

// Item is an immutable snapshot of a design captured at add-to-cart time.
type Item struct {
	ID        int64             `json:"id"`
	Design    design.Design     `json:"design"`
	Price     int               `json:"price"`
	Size      enums.TumblerSize `json:"size"`
	Timestamp time.Time         `json:"timestamp"`
}

// Totals carries the derived cart amounts in whole pesos.
type Totals struct {
	Subtotal  int `json:"subtotal"`
	Shipping  int `json:"shipping"`
	Total     int `json:"total"`
	ItemCount int `json:"item_count"`
}

// Service is the session-scoped cart store.
type Service interface {
	Load(ctx context.Context, sessionID string) ([]Item, error)
	Add(ctx context.Context, sessionID string, d design.Design) (Item, error)
	Remove(ctx context.Context, sessionID string, itemID int64) error
	Clear(ctx context.Context, sessionID string) error
	Totals(items []Item) Totals
}

type service struct {
	kv          kvstore.Store
	shippingFee int
	logg        *logger.Logger
	now         func() time.Time
}

// NewService wires the cart store against the key-value persistence layer.
func NewService(kv kvstore.Store, pricing config.PricingConfig, logg *logger.Logger) (Service, error) {
	if kv == nil {
		return nil, errors.New("kv store is required")
	}
	if logg == nil {
		return nil, errors.New("logger is required")
	}
	return &service{
		kv:          kv,
		shippingFee: pricing.ShippingFee,
		logg:        logg,
		now:         time.Now,
	}, nil
}

func cartKey(sessionID string) string {
	return "cart:" + sessionID
}

// Load reads the persisted cart. A missing or corrupt record is treated as an
// empty cart, never an error.
func (s *service) Load(ctx context.Context, sessionID string) ([]Item, error) {
	if sessionID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "session id is required")
	}

	raw, found, err := s.kv.Get(ctx, cartKey(sessionID))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reading cart")
	}
	if !found || raw == "" {
		return []Item{}, nil
	}

	var items []Item
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		s.logg.Warn(s.logg.WithField(ctx, "session_id", sessionID), "cart record is corrupt, treating as empty")
		return []Item{}, nil
	}
	if items == nil {
		items = []Item{}
	}
	return items, nil
}

// Add snapshots the design into the cart. The stored copy is detached from
// the caller's design, so later edits never reach persisted items.
func (s *service) Add(ctx context.Context, sessionID string, d design.Design) (Item, error) {
	if sessionID == "" {
		return Item{}, pkgerrors.New(pkgerrors.CodeValidation, "session id is required")
	}
	if !d.IsCustomized() {
		return Item{}, pkgerrors.New(pkgerrors.CodeStateConflict, "design has no text or image to print")
	}
	if err := d.Validate(); err != nil {
		return Item{}, err
	}

	items, err := s.Load(ctx, sessionID)
	if err != nil {
		return Item{}, err
	}

	item := Item{
		ID:        s.nextID(items),
		Design:    d.Clone(),
		Price:     d.Price,
		Size:      d.Size,
		Timestamp: s.now().UTC(),
	}
	items = append(items, item)

	if err := s.persist(ctx, sessionID, items); err != nil {
		return Item{}, err
	}
	return item, nil
}

// nextID derives a time-based id, bumped past the tail so ids stay strictly
// increasing even when two adds land in the same millisecond.
func (s *service) nextID(items []Item) int64 {
	id := s.now().UnixMilli()
	if n := len(items); n > 0 && items[n-1].ID >= id {
		id = items[n-1].ID + 1
	}
	return id
}

// Remove drops the item with the given id. Removing an absent id is a no-op.
func (s *service) Remove(ctx context.Context, sessionID string, itemID int64) error {
	items, err := s.Load(ctx, sessionID)
	if err != nil {
		return err
	}

	kept := items[:0]
	for _, item := range items {
		if item.ID != itemID {
			kept = append(kept, item)
		}
	}
	if len(kept) == len(items) {
		return nil
	}
	return s.persist(ctx, sessionID, kept)
}

// Clear persists an empty cart. Called after a confirmed order submission.
func (s *service) Clear(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "session id is required")
	}
	return s.persist(ctx, sessionID, []Item{})
}

// Totals sums each item's own stored price; the shipping fee applies only to
// non-empty carts.
func (s *service) Totals(items []Item) Totals {
	totals := Totals{ItemCount: len(items)}
	for _, item := range items {
		totals.Subtotal += item.Price
	}
	if len(items) > 0 {
		totals.Shipping = s.shippingFee
	}
	totals.Total = totals.Subtotal + totals.Shipping
	return totals
}

func (s *service) persist(ctx context.Context, sessionID string, items []Item) error {
	payload, err := json.Marshal(items)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encoding cart")
	}
	if err := s.kv.Set(ctx, cartKey(sessionID), string(payload)); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, fmt.Sprintf("persisting cart for session %s", sessionID))
	}
	return nil
}
