package supabase

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	pkgerrors "github.com/tumblera/tumblera-backend/pkg/errors"
)

var objectNameSanitizeRe = regexp.MustCompile(`[^a-zA-Z0-9._-]+`)

// UploadDesignImage stores a customer-supplied design image in the configured
// bucket and returns its public URL. The object name is prefixed with the
// owner and a timestamp so uploads never collide.
func (c *Client) UploadDesignImage(ctx context.Context, owner, fileName, contentType string, body io.Reader) (string, error) {
	if body == nil {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "upload body is required")
	}
	if strings.TrimSpace(fileName) == "" {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "file name is required")
	}
	if strings.TrimSpace(owner) == "" {
		owner = "guest"
	}

	objectName := fmt.Sprintf("%s_%d_%s",
		objectNameSanitizeRe.ReplaceAllString(owner, "-"),
		time.Now().UnixMilli(),
		objectNameSanitizeRe.ReplaceAllString(fileName, "-"),
	)

	endpoint := fmt.Sprintf("%s/storage/v1/object/%s/%s", c.baseURL, url.PathEscape(c.bucket), url.PathEscape(objectName))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, body)
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeInternal, err, "building storage request")
	}
	req.Header.Set("apikey", c.anonKey)
	req.Header.Set("Authorization", "Bearer "+c.anonKey)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "uploading design image")
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return "", mapStatusError(resp)
	}
	io.Copy(io.Discard, resp.Body)

	return c.PublicURL(objectName), nil
}

// PublicURL returns the public address for an object in the designs bucket.
func (c *Client) PublicURL(objectName string) string {
	return fmt.Sprintf("%s/storage/v1/object/public/%s/%s", c.baseURL, url.PathEscape(c.bucket), url.PathEscape(objectName))
}
