package clients

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/premaicommerce/hypestorefront/internal/middleware"
	"github.com/premaicommerce/hypestorefront/internal/storefront"
)

// Client is the shared HTTP client for one upstream commerce service.
type Client struct {
	Name           string
	BaseURL        *url.URL
	HTTP           *http.Client
	PublishableKey string
}

func NewClient(name, baseURL, publishableKey string, httpClient *http.Client) *Client {
	u, err := url.Parse(baseURL)
	if err != nil {
		// Fail fast: config error
		panic(fmt.Sprintf("invalid %s base url %q: %v", name, baseURL, err))
	}
	return &Client{Name: name, BaseURL: u, HTTP: httpClient, PublishableKey: publishableKey}
}

// do issues a JSON request and decodes the response into out (skipped when
// out is nil). Transport failures come back wrapped in ErrTransient; error
// statuses are classified by classifyStatus.
func (c *Client) do(ctx context.Context, method, path, rawQuery string, body, out any) error {
	rel := &url.URL{Path: path, RawQuery: rawQuery}
	u := c.BaseURL.ResolveReference(rel)

	var reqBody *bytes.Buffer
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("%s: marshal request: %w", c.Name, err)
		}
		reqBody = bytes.NewBuffer(payload)
	} else {
		reqBody = &bytes.Buffer{}
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), reqBody)
	if err != nil {
		return fmt.Errorf("%s: build request: %w", c.Name, err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.PublishableKey != "" {
		req.Header.Set("X-Publishable-Api-Key", c.PublishableKey)
	}
	if cid := middleware.GetCorrelationID(ctx); cid != "" {
		req.Header.Set(middleware.HeaderCorrelationID, cid)
	}

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s %s: %w: %v", c.Name, method, path, storefront.ErrTransient, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return c.classifyStatus(method, path, resp)
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("%s %s %s: decode response: %w: %v", c.Name, method, path, storefront.ErrTransient, err)
		}
	}
	return nil
}

// upstreamError is the error payload both commerce services return.
type upstreamError struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

const errTypeInsufficientInventory = "insufficient_inventory"

func (c *Client) classifyStatus(method, path string, resp *http.Response) error {
	var ue upstreamError
	_ = json.NewDecoder(resp.Body).Decode(&ue)

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return fmt.Errorf("%s %s %s: %w", c.Name, method, path, storefront.ErrNotFound)
	case ue.Type == errTypeInsufficientInventory,
		resp.StatusCode == http.StatusConflict:
		return fmt.Errorf("%s %s %s: %w: %s", c.Name, method, path, storefront.ErrInventoryExceeded, ue.Message)
	default:
		return fmt.Errorf("%s %s %s: status %d: %w: %s", c.Name, method, path, resp.StatusCode, storefront.ErrTransient, ue.Message)
	}
}
