package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	zlog "github.com/rs/zerolog/log"

	entity "pim.GO/model/entity"
)

// Client talks to the remote PIM attribute store (request/response JSON).
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

func New(baseURL, token string) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		token:      token,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// NewWithHTTPClient allows tests to supply their own transport.
func NewWithHTTPClient(baseURL, token string, hc *http.Client) *Client {
	c := New(baseURL, token)
	if hc != nil {
		c.httpClient = hc
	}
	return c
}

// APIError is a non-2xx response from the backend.
type APIError struct {
	StatusCode int
	Body       string
	// Fields holds per-field validation errors, NonField the rest.
	Fields   map[string][]string
	NonField []string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("pim api: status %d: %s", e.StatusCode, e.Body)
}

// IsUniqueViolation reports whether this is a 400-class response carrying a
// non-field or "unique" error, i.e. the composite uniqueness constraint on
// (product, attribute, locale, channel) rejected a create.
func (e *APIError) IsUniqueViolation() bool {
	if e.StatusCode < 400 || e.StatusCode >= 500 {
		return false
	}
	if len(e.NonField) > 0 {
		return true
	}
	return strings.Contains(strings.ToLower(e.Body), "unique")
}

// IsUniqueViolation unwraps err and checks the APIError inside, if any.
func IsUniqueViolation(err error) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.IsUniqueViolation()
	}
	return false
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out interface{}) error {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%s %s: read body: %w", method, path, err)
	}
	zlog.Debug().
		Str("method", method).
		Str("path", path).
		Int("status", resp.StatusCode).
		Dur("duration", time.Since(start)).
		Msg("pim request")

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return newAPIError(resp.StatusCode, data)
	}
	if out == nil || len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("%s %s: decode response: %w", method, path, err)
	}
	return nil
}

// newAPIError splits the error body into field and non-field errors. The
// backend returns either {"error": "..."} or a map of field -> messages with
// non-field errors under "non_field_errors".
func newAPIError(status int, data []byte) *APIError {
	apiErr := &APIError{StatusCode: status, Body: strings.TrimSpace(string(data))}

	var raw map[string]interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return apiErr
	}
	for field, v := range raw {
		var msgs []string
		switch t := v.(type) {
		case string:
			msgs = []string{t}
		case []interface{}:
			for _, m := range t {
				if s, ok := m.(string); ok {
					msgs = append(msgs, s)
				}
			}
		}
		if len(msgs) == 0 {
			continue
		}
		if field == "non_field_errors" || field == "error" {
			apiErr.NonField = append(apiErr.NonField, msgs...)
			continue
		}
		if apiErr.Fields == nil {
			apiErr.Fields = make(map[string][]string)
		}
		apiErr.Fields[field] = msgs
	}
	return apiErr
}

// FetchAttributes returns all attribute definitions.
func (c *Client) FetchAttributes(ctx context.Context) ([]entity.AttributeDefinition, error) {
	var defs []entity.AttributeDefinition
	if err := c.do(ctx, http.MethodGet, "/attributes", nil, nil, &defs); err != nil {
		return nil, err
	}
	return defs, nil
}

// FetchProductValues returns the attribute values of a product, optionally
// filtered by locale/channel codes.
func (c *Client) FetchProductValues(ctx context.Context, productID uint, locale, channel string) ([]entity.AttributeValue, error) {
	q := url.Values{}
	if locale != "" {
		q.Set("locale", locale)
	}
	if channel != "" {
		q.Set("channel", channel)
	}
	var values []entity.AttributeValue
	path := fmt.Sprintf("/products/%d/attributes", productID)
	if err := c.do(ctx, http.MethodGet, path, q, nil, &values); err != nil {
		return nil, err
	}
	return values, nil
}

// CreateValueRequest is the POST body for a new attribute value.
type CreateValueRequest struct {
	Attribute uint        `json:"attribute"`
	Product   uint        `json:"product"`
	Value     interface{} `json:"value"`
	LocaleID  *uint       `json:"locale_id"`
	ChannelID *uint       `json:"channel_id"`
}

// UpdateValueRequest is the partial PATCH body for an existing value.
type UpdateValueRequest struct {
	Value     interface{} `json:"value"`
	LocaleID  *uint       `json:"locale_id"`
	ChannelID *uint       `json:"channel_id"`
}

func (c *Client) CreateProductValue(ctx context.Context, productID uint, body CreateValueRequest) (entity.AttributeValue, error) {
	var created entity.AttributeValue
	path := fmt.Sprintf("/products/%d/attributes", productID)
	if err := c.do(ctx, http.MethodPost, path, nil, body, &created); err != nil {
		return entity.AttributeValue{}, err
	}
	return created, nil
}

func (c *Client) UpdateProductValue(ctx context.Context, productID, valueID uint, body UpdateValueRequest) (entity.AttributeValue, error) {
	var updated entity.AttributeValue
	path := fmt.Sprintf("/products/%d/attributes/%d", productID, valueID)
	if err := c.do(ctx, http.MethodPatch, path, nil, body, &updated); err != nil {
		return entity.AttributeValue{}, err
	}
	return updated, nil
}

func (c *Client) DeleteProductValue(ctx context.Context, productID, valueID uint) error {
	path := fmt.Sprintf("/products/%d/attributes/%d", productID, valueID)
	return c.do(ctx, http.MethodDelete, path, nil, nil, nil)
}

func (c *Client) FetchLocales(ctx context.Context) ([]entity.Locale, error) {
	var locales []entity.Locale
	if err := c.do(ctx, http.MethodGet, "/locales", nil, nil, &locales); err != nil {
		return nil, err
	}
	return locales, nil
}

func (c *Client) FetchChannels(ctx context.Context) ([]entity.Channel, error) {
	var channels []entity.Channel
	if err := c.do(ctx, http.MethodGet, "/channels", nil, nil, &channels); err != nil {
		return nil, err
	}
	return channels, nil
}

func (c *Client) FetchOrganization(ctx context.Context) (entity.Organization, error) {
	var org entity.Organization
	if err := c.do(ctx, http.MethodGet, "/organization", nil, nil, &org); err != nil {
		return entity.Organization{}, err
	}
	return org, nil
}
