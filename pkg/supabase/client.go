package supabase

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

var (
	errURLRequired     = errors.New("supabase url is required")
	errAnonKeyRequired = errors.New("supabase anon key is required")
	errLoggerRequired  = errors.New("supabase logger is required")
)

// Client talks to the Supabase REST, auth, and storage APIs with centralized
// auth headers and error mapping.
type Client struct {
	baseURL string
	anonKey string
	bucket  string
	http    *http.Client
	logger  *logger.Logger
}

// NewClient initializes the Supabase wrapper and validates the credentials.
func NewClient(ctx context.Context, cfg config.SupabaseConfig, logg *logger.Logger) (*Client, error) {
	if logg == nil {
		return nil, errLoggerRequired
	}
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.URL), "/")
	if baseURL == "" {
		return nil, errURLRequired
	}
	anonKey := strings.TrimSpace(cfg.AnonKey)
	if anonKey == "" {
		return nil, errAnonKeyRequired
	}

	c := &Client{
		baseURL: baseURL,
		anonKey: anonKey,
		bucket:  cfg.StorageBucket,
		http:    &http.Client{Timeout: cfg.Timeout},
		logger:  logg,
	}

	logg.Info(ctx, "supabase client initialized")
	return c, nil
}

// restURL builds a PostgREST endpoint for the given table and query string.
func (c *Client) restURL(table, query string) string {
	u := fmt.Sprintf("%s/rest/v1/%s", c.baseURL, table)
	if query != "" {
		u += "?" + query
	}
	return u
}

// doJSON performs a request with the service headers applied and decodes the
// JSON response into out when out is non-nil.
func (c *Client) doJSON(ctx context.Context, method, url string, body any, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encoding supabase request")
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "building supabase request")
	}
	req.Header.Set("apikey", c.anonKey)
	req.Header.Set("Authorization", "Bearer "+c.anonKey)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if method == http.MethodPost || method == http.MethodPatch {
		req.Header.Set("Prefer", "return=representation")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "calling supabase")
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return mapStatusError(resp)
	}

	if out == nil {
		io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decoding supabase response")
	}
	return nil
}

type apiError struct {
	Message     string `json:"message"`
	Msg         string `json:"msg"`
	Description string `json:"error_description"`
}

func (e apiError) text() string {
	for _, s := range []string{e.Message, e.Msg, e.Description} {
		if s != "" {
			return s
		}
	}
	return ""
}

func mapStatusError(resp *http.Response) error {
	var detail apiError
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	_ = json.Unmarshal(raw, &detail)

	msg := detail.text()
	if msg == "" {
		msg = fmt.Sprintf("supabase returned status %d", resp.StatusCode)
	}

	switch resp.StatusCode {
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		return pkgerrors.New(pkgerrors.CodeValidation, msg)
	case http.StatusUnauthorized:
		return pkgerrors.New(pkgerrors.CodeUnauthorized, msg)
	case http.StatusForbidden:
		return pkgerrors.New(pkgerrors.CodeForbidden, msg)
	case http.StatusNotFound, http.StatusNotAcceptable:
		return pkgerrors.New(pkgerrors.CodeNotFound, msg)
	case http.StatusConflict:
		return pkgerrors.New(pkgerrors.CodeConflict, msg)
	default:
		return pkgerrors.New(pkgerrors.CodeDependency, msg)
	}
}
