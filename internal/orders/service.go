package orders

import (
	"context"
	"errors"
	"fmt"

	"github.com/tumblera/tumblera-backend/pkg/enums"
	pkgerrors "github.com/tumblera/tumblera-backend/pkg/errors"
	"github.com/tumblera/tumblera-backend/pkg/logger"
	"github.com/tumblera/tumblera-backend/pkg/supabase"
)

type gateway interface {
	ListOrdersByEmail(ctx context.Context, email string) ([]supabase.OrderRecord, error)
	ListAllOrders(ctx context.Context) ([]supabase.OrderRecord, error)
	UpdateOrderStatus(ctx context.Context, orderID int64, status enums.OrderStatus) (supabase.OrderRecord, error)
}

// Service reads and manages orders through the remote data gateway.
// Authorization happens here, server-side: the seller role comes from the
// verified token, never from anything the client can write.
type Service interface {
	ListMine(ctx context.Context, email string) ([]supabase.OrderRecord, error)
	ListAll(ctx context.Context, role enums.ActorRole) ([]supabase.OrderRecord, error)
	UpdateStatus(ctx context.Context, role enums.ActorRole, orderID int64, status enums.OrderStatus) (supabase.OrderRecord, error)
}

type service struct {
	gateway gateway
	logg    *logger.Logger
}

// NewService wires the orders service against the remote data gateway.
func NewService(gw gateway, logg *logger.Logger) (Service, error) {
	if gw == nil {
		return nil, errors.New("order gateway is required")
	}
	if logg == nil {
		return nil, errors.New("logger is required")
	}
	return &service{gateway: gw, logg: logg}, nil
}

// ListMine returns the caller's own orders, newest first.
func (s *service) ListMine(ctx context.Context, email string) ([]supabase.OrderRecord, error) {
	if email == "" {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "sign in to view orders")
	}
	return s.gateway.ListOrdersByEmail(ctx, email)
}

// ListAll returns every order for the seller dashboard.
func (s *service) ListAll(ctx context.Context, role enums.ActorRole) ([]supabase.OrderRecord, error) {
	if role != enums.ActorRoleSeller {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "seller access required")
	}
	return s.gateway.ListAllOrders(ctx)
}

// UpdateStatus transitions an order on behalf of the seller.
func (s *service) UpdateStatus(ctx context.Context, role enums.ActorRole, orderID int64, status enums.OrderStatus) (supabase.OrderRecord, error) {
	if role != enums.ActorRoleSeller {
		return supabase.OrderRecord{}, pkgerrors.New(pkgerrors.CodeForbidden, "seller access required")
	}
	if !status.IsValid() {
		return supabase.OrderRecord{}, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("unknown order status %q", status))
	}

	updated, err := s.gateway.UpdateOrderStatus(ctx, orderID, status)
	if err != nil {
		return supabase.OrderRecord{}, err
	}

	logCtx := s.logg.WithFields(ctx, map[string]any{
		"order_id": orderID,
		"status":   status,
	})
	s.logg.Info(logCtx, "order status updated")
	return updated, nil
}
