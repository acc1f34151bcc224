package checkout

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	redislib "github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/tumblera/tumblera-backend/internal/cart"
	"github.com/tumblera/tumblera-backend/internal/notify"
	"github.com/tumblera/tumblera-backend/pkg/config"
	pkgerrors "github.com/tumblera/tumblera-backend/pkg/errors"
	"github.com/tumblera/tumblera-backend/pkg/logger"
	"github.com/tumblera/tumblera-backend/pkg/metrics"
	redisclient "github.com/tumblera/tumblera-backend/pkg/redis"
	"github.com/tumblera/tumblera-backend/pkg/supabase"
)

const (
	// submitLockTTL caps how long a crashed submission can block the session.
	submitLockTTL = 30 * time.Second
	receiptTTL    = time.Hour
)

// Contact carries the buyer's checkout form fields.
type Contact struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
	Notes   string `json:"notes"`
}

// SubmitInput is one checkout attempt for a session's cart.
type SubmitInput struct {
	SessionID string
	Contact   Contact
	UserID    *string
}

// Receipt is the ephemeral summary handed to the confirmation page.
type Receipt struct {
	ItemCount    int    `json:"item_count"`
	Total        string `json:"total"`
	CustomerName string `json:"customer_name"`
	OrderID      int64  `json:"order_id"`
}

type orderCreator interface {
	CreateOrder(ctx context.Context, in supabase.NewOrder) (supabase.OrderRecord, error)
}

type stateStore interface {
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Get(ctx context.Context, key string) (string, error)
	SetNX(ctx context.Context, key string, value any, ttl time.Duration) (bool, error)
	Del(ctx context.Context, keys ...string) error
}

// Service orchestrates checkout: validate, submit, clear, hand off receipt.
type Service interface {
	Submit(ctx context.Context, input SubmitInput) (Receipt, error)
	Receipt(ctx context.Context, sessionID string) (Receipt, error)
}

type service struct {
	carts     cart.Service
	gateway   orderCreator
	state     stateStore
	announcer notify.Announcer
	pricing   config.PricingConfig
	logg      *logger.Logger
	checkout  *metrics.CheckoutMetrics
	now       func() time.Time
}

// NewService wires the orchestrator. The announcer may be nil when event
// publishing is disabled; everything else is required.
func NewService(
	carts cart.Service,
	gateway orderCreator,
	state stateStore,
	announcer notify.Announcer,
	pricing config.PricingConfig,
	logg *logger.Logger,
	checkoutMetrics *metrics.CheckoutMetrics,
) (Service, error) {
	if carts == nil {
		return nil, errors.New("cart service is required")
	}
	if gateway == nil {
		return nil, errors.New("order gateway is required")
	}
	if state == nil {
		return nil, errors.New("state store is required")
	}
	if logg == nil {
		return nil, errors.New("logger is required")
	}
	return &service{
		carts:     carts,
		gateway:   gateway,
		state:     state,
		announcer: announcer,
		pricing:   pricing,
		logg:      logg,
		checkout:  checkoutMetrics,
		now:       time.Now,
	}, nil
}

// Submit runs one checkout attempt. Failures are non-destructive: the cart
// is only cleared after the gateway confirms the order.
func (s *service) Submit(ctx context.Context, input SubmitInput) (Receipt, error) {
	started := s.now()
	if input.SessionID == "" {
		return Receipt{}, pkgerrors.New(pkgerrors.CodeValidation, "session id is required")
	}

	logCtx := s.logg.WithSessionID(ctx, input.SessionID)

	// One in-flight submission per session. The lock plays the role of the
	// disabled submit button: a second attempt during the round-trip is
	// rejected instead of creating a duplicate order.
	lockKey := redisclient.CheckoutLockKey(input.SessionID)
	acquired, err := s.state.SetNX(ctx, lockKey, "1", submitLockTTL)
	if err != nil {
		return Receipt{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "acquiring checkout lock")
	}
	if !acquired {
		s.fail("locked", started)
		return Receipt{}, pkgerrors.New(pkgerrors.CodeConflict, "a checkout for this session is already in progress")
	}
	defer func() {
		if err := s.state.Del(ctx, lockKey); err != nil {
			s.logg.Warn(logCtx, "failed to release checkout lock")
		}
	}()

	items, err := s.carts.Load(ctx, input.SessionID)
	if err != nil {
		s.fail("cart_read", started)
		return Receipt{}, err
	}
	if len(items) == 0 {
		s.fail("empty_cart", started)
		return Receipt{}, pkgerrors.New(pkgerrors.CodeStateConflict, "cart is empty")
	}

	if missing := missingContactFields(input.Contact); len(missing) > 0 {
		s.fail("missing_contact", started)
		return Receipt{}, pkgerrors.New(pkgerrors.CodeValidation, "missing required contact fields").
			WithDetails(map[string]any{"fields": missing})
	}

	totals := s.carts.Totals(items)

	serialized, err := json.Marshal(items)
	if err != nil {
		s.fail("encode", started)
		return Receipt{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encoding cart items")
	}

	order, err := s.gateway.CreateOrder(ctx, supabase.NewOrder{
		UserID:          input.UserID,
		CustomerName:    input.Contact.Name,
		CustomerEmail:   input.Contact.Email,
		CustomerPhone:   input.Contact.Phone,
		CustomerAddress: input.Contact.Address,
		Items:           string(serialized),
		TotalAmount:     decimal.NewFromInt(int64(totals.Total)),
	})
	if err != nil {
		// Cart and form state stay intact so the user can retry as-is.
		s.fail("gateway", started)
		return Receipt{}, err
	}

	logCtx = s.logg.WithField(logCtx, "order_id", order.ID)

	if err := s.carts.Clear(ctx, input.SessionID); err != nil {
		// The order exists; losing the clear only leaves a stale cart.
		s.logg.Error(logCtx, "order created but cart clear failed", err)
	}

	receipt := Receipt{
		ItemCount:    totals.ItemCount,
		Total:        fmt.Sprintf("%s%d", s.pricing.Currency, totals.Total),
		CustomerName: input.Contact.Name,
		OrderID:      order.ID,
	}
	if err := s.storeReceipt(ctx, input.SessionID, receipt); err != nil {
		s.logg.Error(logCtx, "failed to store receipt", err)
	}

	s.announce(ctx, logCtx, order.ID, input.Contact, items, totals)

	if s.checkout != nil {
		s.checkout.IncSuccess(strconv.Itoa(totals.ItemCount))
		s.checkout.ObserveDuration("success", s.now().Sub(started))
	}
	s.logg.Info(logCtx, "checkout submitted")
	return receipt, nil
}

// Receipt returns the summary stored by the last successful submission.
func (s *service) Receipt(ctx context.Context, sessionID string) (Receipt, error) {
	if sessionID == "" {
		return Receipt{}, pkgerrors.New(pkgerrors.CodeValidation, "session id is required")
	}

	raw, err := s.state.Get(ctx, redisclient.ReceiptKey(sessionID))
	if err != nil {
		if errors.Is(err, redislib.Nil) {
			return Receipt{}, pkgerrors.New(pkgerrors.CodeNotFound, "no receipt for this session")
		}
		return Receipt{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reading receipt")
	}

	var receipt Receipt
	if err := json.Unmarshal([]byte(raw), &receipt); err != nil {
		return Receipt{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "decoding receipt")
	}
	return receipt, nil
}

func (s *service) storeReceipt(ctx context.Context, sessionID string, receipt Receipt) error {
	payload, err := json.Marshal(receipt)
	if err != nil {
		return err
	}
	return s.state.Set(ctx, redisclient.ReceiptKey(sessionID), string(payload), receiptTTL)
}

// announce publishes the order event. Delivery is best-effort; a publish
// failure never fails the checkout.
func (s *service) announce(ctx context.Context, logCtx context.Context, orderID int64, contact Contact, items []cart.Item, totals cart.Totals) {
	if s.announcer == nil {
		return
	}
	event := notify.OrderPlaced{
		OrderID:         orderID,
		CustomerName:    contact.Name,
		CustomerEmail:   contact.Email,
		CustomerPhone:   contact.Phone,
		CustomerAddress: contact.Address,
		CustomerNotes:   contact.Notes,
		Items:           items,
		Totals:          totals,
		PlacedAt:        s.now().UTC(),
	}
	if err := s.announcer.AnnounceOrderPlaced(ctx, event); err != nil {
		s.logg.Error(logCtx, "order event publish failed", err)
	}
}

func (s *service) fail(reason string, started time.Time) {
	if s.checkout == nil {
		return
	}
	s.checkout.IncFailure(reason)
	s.checkout.ObserveDuration("failure", s.now().Sub(started))
}

func missingContactFields(contact Contact) []string {
	var missing []string
	for _, field := range []struct {
		name  string
		value string
	}{
		{"name", contact.Name},
		{"email", contact.Email},
		{"phone", contact.Phone},
		{"address", contact.Address},
	} {
		if strings.TrimSpace(field.value) == "" {
			missing = append(missing, field.name)
		}
	}
	return missing
}
