package checkout

import (
	"context"
	"testing"
	"time"

	redislib "github.com/redis/go-redis/v9"
	"github.com/tumblera/tumblera-backend/internal/cart"
	"github.com/tumblera/tumblera-backend/internal/design"
	"github.com/tumblera/tumblera-backend/internal/notify"
	"github.com/tumblera/tumblera-backend/pkg/config"
	pkgerrors "github.com/tumblera/tumblera-backend/pkg/errors"
	"github.com/tumblera/tumblera-backend/pkg/logger"
	redisclient "github.com/tumblera/tumblera-backend/pkg/redis"
	"github.com/tumblera/tumblera-backend/pkg/supabase"
)

type memKV struct {
	data map[string]string
}

func newMemKV() *memKV { return &memKV{data: map[string]string{}} }

func (m *memKV) Get(ctx context.Context, key string) (string, bool, error) {
	val, ok := m.data[key]
	return val, ok, nil
}

func (m *memKV) Set(ctx context.Context, key, value string) error {
	m.data[key] = value
	return nil
}

func (m *memKV) Delete(ctx context.Context, key string) error {
	delete(m.data, key)
	return nil
}

type memState struct {
	data map[string]string
}

func newMemState() *memState { return &memState{data: map[string]string{}} }

func (m *memState) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	m.data[key] = value.(string)
	return nil
}

func (m *memState) Get(ctx context.Context, key string) (string, error) {
	val, ok := m.data[key]
	if !ok {
		return "", redislib.Nil
	}
	return val, nil
}

func (m *memState) SetNX(ctx context.Context, key string, value any, ttl time.Duration) (bool, error) {
	if _, ok := m.data[key]; ok {
		return false, nil
	}
	switch v := value.(type) {
	case string:
		m.data[key] = v
	default:
		m.data[key] = "1"
	}
	return true, nil
}

func (m *memState) Del(ctx context.Context, keys ...string) error {
	for _, key := range keys {
		delete(m.data, key)
	}
	return nil
}

type stubGateway struct {
	calls   int
	lastIn  supabase.NewOrder
	fail    error
	orderID int64
}

func (g *stubGateway) CreateOrder(ctx context.Context, in supabase.NewOrder) (supabase.OrderRecord, error) {
	g.calls++
	g.lastIn = in
	if g.fail != nil {
		return supabase.OrderRecord{}, g.fail
	}
	return supabase.OrderRecord{ID: g.orderID, CustomerEmail: in.CustomerEmail}, nil
}

type stubAnnouncer struct {
	events []notify.OrderPlaced
	fail   error
}

func (a *stubAnnouncer) AnnounceOrderPlaced(ctx context.Context, event notify.OrderPlaced) error {
	if a.fail != nil {
		return a.fail
	}
	a.events = append(a.events, event)
	return nil
}

type fixture struct {
	svc       Service
	carts     cart.Service
	gateway   *stubGateway
	state     *memState
	announcer *stubAnnouncer
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	logg := logger.New(logger.Options{ServiceName: "test"})
	pricing := config.PricingConfig{ShippingFee: 5, Currency: "₱"}

	carts, err := cart.NewService(newMemKV(), pricing, logg)
	if err != nil {
		t.Fatalf("cart service: %v", err)
	}

	gateway := &stubGateway{orderID: 42}
	state := newMemState()
	announcer := &stubAnnouncer{}

	svc, err := NewService(carts, gateway, state, announcer, pricing, logg, nil)
	if err != nil {
		t.Fatalf("checkout service: %v", err)
	}
	return &fixture{svc: svc, carts: carts, gateway: gateway, state: state, announcer: announcer}
}

func validContact() Contact {
	return Contact{
		Name:    "Ana Cruz",
		Email:   "ana@example.com",
		Phone:   "09171234567",
		Address: "Quezon City",
	}
}

func addItem(t *testing.T, carts cart.Service, sessionID string) cart.Item {
	t.Helper()
	item, err := carts.Add(context.Background(), sessionID, design.Default().WithText("Hi"))
	if err != nil {
		t.Fatalf("add item: %v", err)
	}
	return item
}

func TestSubmitEmptyCartFailsBeforeGateway(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Submit(context.Background(), SubmitInput{SessionID: "sess-1", Contact: validContact()})
	if err == nil {
		t.Fatal("expected empty cart error")
	}
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeStateConflict {
		t.Fatalf("expected STATE_CONFLICT, got %v", err)
	}
	if f.gateway.calls != 0 {
		t.Fatal("gateway must not be called for an empty cart")
	}
}

func TestSubmitMissingContactFieldsFails(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	addItem(t, f.carts, "sess-1")

	contact := validContact()
	contact.Phone = "  "
	_, err := f.svc.Submit(ctx, SubmitInput{SessionID: "sess-1", Contact: contact})
	if err == nil {
		t.Fatal("expected validation error")
	}
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected VALIDATION, got %v", err)
	}
	if f.gateway.calls != 0 {
		t.Fatal("gateway must not be called with incomplete contact")
	}

	items, err := f.carts.Load(ctx, "sess-1")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(items) != 1 {
		t.Fatal("validation failure must not touch the cart")
	}
}

func TestSubmitGatewayFailureIsNonDestructive(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	addItem(t, f.carts, "sess-1")
	f.gateway.fail = pkgerrors.New(pkgerrors.CodeDependency, "orders table unavailable")

	_, err := f.svc.Submit(ctx, SubmitInput{SessionID: "sess-1", Contact: validContact()})
	if err == nil {
		t.Fatal("expected gateway error to surface")
	}

	items, err := f.carts.Load(ctx, "sess-1")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(items) != 1 {
		t.Fatal("cart must survive a failed submission")
	}

	// The lock is released, so an explicit retry goes through.
	f.gateway.fail = nil
	if _, err := f.svc.Submit(ctx, SubmitInput{SessionID: "sess-1", Contact: validContact()}); err != nil {
		t.Fatalf("retry after failure: %v", err)
	}
}

func TestSubmitSuccessClearsCartAndStoresReceipt(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	addItem(t, f.carts, "sess-1")
	addItem(t, f.carts, "sess-1")

	receipt, err := f.svc.Submit(ctx, SubmitInput{SessionID: "sess-1", Contact: validContact()})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}

	if receipt.OrderID != 42 || receipt.ItemCount != 2 || receipt.CustomerName != "Ana Cruz" {
		t.Fatalf("unexpected receipt: %+v", receipt)
	}
	if receipt.Total != "₱1003" { // 2×499 + 5
		t.Fatalf("formatted total %s", receipt.Total)
	}

	items, err := f.carts.Load(ctx, "sess-1")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(items) != 0 {
		t.Fatal("cart not cleared after success")
	}

	stored, err := f.svc.Receipt(ctx, "sess-1")
	if err != nil {
		t.Fatalf("receipt: %v", err)
	}
	if stored != receipt {
		t.Fatalf("stored receipt %+v differs from returned %+v", stored, receipt)
	}

	if len(f.announcer.events) != 1 {
		t.Fatalf("expected 1 order event, got %d", len(f.announcer.events))
	}
	if f.announcer.events[0].OrderID != 42 || f.announcer.events[0].Totals.Total != 1003 {
		t.Fatalf("unexpected event: %+v", f.announcer.events[0])
	}
}

func TestSubmitConcurrentAttemptIsRejected(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	addItem(t, f.carts, "sess-1")

	// Simulate an in-flight submission holding the per-session lock.
	if ok, err := f.state.SetNX(ctx, redisclient.CheckoutLockKey("sess-1"), "1", time.Minute); err != nil || !ok {
		t.Fatalf("seed lock: ok=%v err=%v", ok, err)
	}

	_, err := f.svc.Submit(ctx, SubmitInput{SessionID: "sess-1", Contact: validContact()})
	if err == nil {
		t.Fatal("expected rejection while a submission is in flight")
	}
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeConflict {
		t.Fatalf("expected CONFLICT, got %v", err)
	}
	if f.gateway.calls != 0 {
		t.Fatal("in-flight rejection must not reach the gateway")
	}
}

func TestSubmitAnnounceFailureDoesNotFailCheckout(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	addItem(t, f.carts, "sess-1")
	f.announcer.fail = pkgerrors.New(pkgerrors.CodeDependency, "topic unavailable")

	if _, err := f.svc.Submit(ctx, SubmitInput{SessionID: "sess-1", Contact: validContact()}); err != nil {
		t.Fatalf("announce failure must not fail checkout: %v", err)
	}
}

func TestSubmitSerializesCartForGateway(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	addItem(t, f.carts, "sess-1")

	if _, err := f.svc.Submit(ctx, SubmitInput{SessionID: "sess-1", Contact: validContact()}); err != nil {
		t.Fatalf("submit: %v", err)
	}

	in := f.gateway.lastIn
	if in.CustomerEmail != "ana@example.com" || in.Items == "" {
		t.Fatalf("gateway input incomplete: %+v", in)
	}
	if in.TotalAmount.IntPart() != 504 {
		t.Fatalf("gateway total %s, want 504", in.TotalAmount)
	}
}

func TestReceiptMissingIsNotFound(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Receipt(context.Background(), "sess-none")
	if err == nil {
		t.Fatal("expected not found")
	}
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected NOT_FOUND, got %v", err)
	}
}
