package emailjs

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/tumblera/tumblera-backend/pkg/config"
	pkgerrors "github.com/tumblera/tumblera-backend/pkg/errors"
	"github.com/tumblera/tumblera-backend/pkg/logger"
)

const sendPath = "/api/v1.0/email/send"

var (
	errLoggerRequired = errors.New("emailjs logger is required")
	errNotConfigured  = errors.New("emailjs credentials are not configured")
)

// Client delivers transactional emails through the EmailJS REST API.
type Client struct {
	cfg    config.EmailJSConfig
	http   *http.Client
	logger *logger.Logger
}

// NewClient validates the EmailJS credentials and returns a sender.
func NewClient(cfg config.EmailJSConfig, logg *logger.Logger) (*Client, error) {
	if logg == nil {
		return nil, errLoggerRequired
	}
	if !cfg.Enabled() {
		return nil, errNotConfigured
	}
	return &Client{
		cfg:    cfg,
		http:   &http.Client{Timeout: cfg.Timeout},
		logger: logg,
	}, nil
}

type sendRequest struct {
	ServiceID      string         `json:"service_id"`
	TemplateID     string         `json:"template_id"`
	UserID         string         `json:"user_id"`
	TemplateParams map[string]any `json:"template_params"`
}

// Send delivers the template with the given parameters.
func (c *Client) Send(ctx context.Context, templateID string, params map[string]any) error {
	if strings.TrimSpace(templateID) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "template id is required")
	}

	payload, err := json.Marshal(sendRequest{
		ServiceID:      c.cfg.ServiceID,
		TemplateID:     templateID,
		UserID:         c.cfg.PublicKey,
		TemplateParams: params,
	})
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encoding emailjs request")
	}

	endpoint := strings.TrimRight(c.cfg.APIBase, "/") + sendPath
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "building emailjs request")
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "calling emailjs")
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return pkgerrors.New(pkgerrors.CodeDependency, fmt.Sprintf("emailjs returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(raw))))
	}
	io.Copy(io.Discard, resp.Body)
	return nil
}

// OrderTemplateID is the customer confirmation template.
func (c *Client) OrderTemplateID() string {
	return c.cfg.OrderTemplateID
}

// SellerTemplateID is the seller notification template.
func (c *Client) SellerTemplateID() string {
	return c.cfg.SellerTemplateID
}
