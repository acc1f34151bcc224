package supabase

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/tumblera/tumblera-backend/pkg/enums"
	pkgerrors "github.com/tumblera/tumblera-backend/pkg/errors"
)

// OrderRecord mirrors a row in the orders table.
type OrderRecord struct {
	ID              int64             `json:"id"`
	UserID          *string           `json:"user_id"`
	CustomerName    string            `json:"customer_name"`
	CustomerEmail   string            `json:"customer_email"`
	CustomerPhone   string            `json:"customer_phone"`
	CustomerAddress string            `json:"customer_address"`
	Items           string            `json:"items"`
	TotalAmount     decimal.Decimal   `json:"total_amount"`
	Status          enums.OrderStatus `json:"status"`
	CreatedAt       time.Time         `json:"created_at"`
	UpdatedAt       *time.Time        `json:"updated_at,omitempty"`
}

// NewOrder carries the fields persisted when an order is first created.
// Items holds the cart snapshot serialized as JSON.
type NewOrder struct {
	UserID          *string
	CustomerName    string
	CustomerEmail   string
	CustomerPhone   string
	CustomerAddress string
	Items           string
	TotalAmount     decimal.Decimal
}

type orderInsertRow struct {
	UserID          *string `json:"user_id"`
	CustomerName    string  `json:"customer_name"`
	CustomerEmail   string  `json:"customer_email"`
	CustomerPhone   string  `json:"customer_phone"`
	CustomerAddress string  `json:"customer_address"`
	Items           string  `json:"items"`
	TotalAmount     string  `json:"total_amount"`
	Status          string  `json:"status"`
	CreatedAt       string  `json:"created_at"`
}

// CreateOrder inserts a pending order and returns the stored row.
func (c *Client) CreateOrder(ctx context.Context, in NewOrder) (OrderRecord, error) {
	if strings.TrimSpace(in.CustomerEmail) == "" {
		return OrderRecord{}, pkgerrors.New(pkgerrors.CodeValidation, "customer email is required")
	}

	row := orderInsertRow{
		UserID:          in.UserID,
		CustomerName:    in.CustomerName,
		CustomerEmail:   in.CustomerEmail,
		CustomerPhone:   in.CustomerPhone,
		CustomerAddress: in.CustomerAddress,
		Items:           in.Items,
		TotalAmount:     in.TotalAmount.String(),
		Status:          string(enums.OrderStatusPending),
		CreatedAt:       time.Now().UTC().Format(time.RFC3339),
	}

	var created []OrderRecord
	if err := c.doJSON(ctx, http.MethodPost, c.restURL("orders", ""), []orderInsertRow{row}, &created); err != nil {
		return OrderRecord{}, err
	}
	if len(created) == 0 {
		return OrderRecord{}, pkgerrors.New(pkgerrors.CodeDependency, "order insert returned no rows")
	}
	return created[0], nil
}

// ListOrdersByEmail returns the customer's orders, newest first.
func (c *Client) ListOrdersByEmail(ctx context.Context, email string) ([]OrderRecord, error) {
	if strings.TrimSpace(email) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "email is required")
	}

	query := url.Values{}
	query.Set("customer_email", "eq."+email)
	query.Set("order", "created_at.desc")

	var orders []OrderRecord
	if err := c.doJSON(ctx, http.MethodGet, c.restURL("orders", query.Encode()), nil, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

// ListAllOrders returns every order, newest first. Callers gate this behind
// the seller role.
func (c *Client) ListAllOrders(ctx context.Context) ([]OrderRecord, error) {
	query := url.Values{}
	query.Set("order", "created_at.desc")

	var orders []OrderRecord
	if err := c.doJSON(ctx, http.MethodGet, c.restURL("orders", query.Encode()), nil, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

// UpdateOrderStatus transitions an order and returns the updated row.
func (c *Client) UpdateOrderStatus(ctx context.Context, orderID int64, status enums.OrderStatus) (OrderRecord, error) {
	if !status.IsValid() {
		return OrderRecord{}, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid order status %q", status))
	}

	query := url.Values{}
	query.Set("id", fmt.Sprintf("eq.%d", orderID))

	patch := map[string]string{
		"status":     string(status),
		"updated_at": time.Now().UTC().Format(time.RFC3339),
	}

	var updated []OrderRecord
	if err := c.doJSON(ctx, http.MethodPatch, c.restURL("orders", query.Encode()), patch, &updated); err != nil {
		return OrderRecord{}, err
	}
	if len(updated) == 0 {
		return OrderRecord{}, pkgerrors.New(pkgerrors.CodeNotFound, fmt.Sprintf("order %d not found", orderID))
	}
	return updated[0], nil
}
