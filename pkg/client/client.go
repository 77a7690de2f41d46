package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/gujitrio/ping/pkg/domain"
)

// TokenSource supplies the bearer token attached to outgoing requests and
// is cleared when the backend rejects it. The session store implements it.
type TokenSource interface {
	Token() string
	Clear() error
}

// LoginRequest is the payload for the login endpoint.
type LoginRequest struct {
	UsernameOrEmail string `json:"usernameOrEmail"`
	Password        string `json:"password"`
}

// SignupRequest is the payload for registering a new account.
// PasswordConfirm is validated client-side and never sent.
type SignupRequest struct {
	Username          string                    `json:"username"`
	Email             string                    `json:"email"`
	Password          string                    `json:"password"`
	Name              string                    `json:"name"`
	PhoneNumber       string                    `json:"phoneNumber"`
	Address           string                    `json:"address,omitempty"`
	DeviceID          string                    `json:"deviceId,omitempty"`
	EmergencyContacts []domain.EmergencyContact `json:"emergencyContacts,omitempty"`
}

// CreateAlertRequest is the payload for creating an emergency incident.
type CreateAlertRequest struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Address   string  `json:"address,omitempty"`
}

// Client is the ping API client.
type Client struct {
	baseURL    string
	tokens     TokenSource
	httpClient *http.Client
}

// New creates a new API client. tokens may be nil for unauthenticated use.
func New(baseURL string, tokens TokenSource) *Client {
	return &Client{
		baseURL: baseURL,
		tokens:  tokens,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// StaticToken is a fixed-token TokenSource. Clearing it is a no-op, so a
// 401 on the wrapped request cannot touch the caller's real session store.
type StaticToken string

func (s StaticToken) Token() string { return string(s) }
func (s StaticToken) Clear() error  { return nil }

// WithTokens returns a copy of the client that authenticates with the given
// source. The server-side logout uses this to carry the token captured
// before the local session is torn down.
func (c *Client) WithTokens(tokens TokenSource) *Client {
	cp := *c
	cp.tokens = tokens
	return &cp
}

// authPayload is the flattened login/signup response: the token plus the
// profile fields at the same level (possibly wrapped in a data envelope).
type authPayload struct {
	Token string `json:"token"`
	domain.User
}

// Login authenticates with username-or-email and password.
func (c *Client) Login(ctx context.Context, req LoginRequest) (*domain.Session, error) {
	var p authPayload
	if err := c.post(ctx, "/api/auth/login", req, &p); err != nil {
		return nil, fmt.Errorf("client.Login: %w", err)
	}
	if p.Token == "" {
		return nil, fmt.Errorf("client.Login: response carried no token")
	}
	return &domain.Session{Token: p.Token, User: p.User}, nil
}

// Signup registers a new account. When the backend auto-logs the account in
// it returns a session; otherwise (success flag only) the session is nil and
// the caller should send the user to the login form.
func (c *Client) Signup(ctx context.Context, req SignupRequest) (*domain.Session, error) {
	var p authPayload
	if err := c.post(ctx, "/api/auth/signup", req, &p); err != nil {
		return nil, fmt.Errorf("client.Signup: %w", err)
	}
	if p.Token == "" {
		return nil, nil
	}
	return &domain.Session{Token: p.Token, User: p.User}, nil
}

// Logout notifies the backend that the session ended. Best-effort; the
// stored session is cleared by the caller regardless.
func (c *Client) Logout(ctx context.Context) error {
	if err := c.doRequest(ctx, http.MethodPost, "/api/auth/logout", nil, nil); err != nil {
		return fmt.Errorf("client.Logout: %w", err)
	}
	return nil
}

// GetMe returns the authenticated user's profile.
func (c *Client) GetMe(ctx context.Context) (*domain.User, error) {
	var u domain.User
	if err := c.get(ctx, "/api/user/me", &u); err != nil {
		return nil, fmt.Errorf("client.GetMe: %w", err)
	}
	return &u, nil
}

// GetCurrentLocation fetches the device's most recent position.
func (c *Client) GetCurrentLocation(ctx context.Context) (*domain.LocationSample, error) {
	var s domain.LocationSample
	if err := c.get(ctx, "/api/location/current", &s); err != nil {
		return nil, fmt.Errorf("client.GetCurrentLocation: %w", err)
	}
	return &s, nil
}

// locationsPayload wraps list responses from the location endpoints.
type locationsPayload struct {
	Locations []domain.LocationSample `json:"locations"`
}

// ListRecentLocations fetches the bounded set of recent samples.
func (c *Client) ListRecentLocations(ctx context.Context) ([]domain.LocationSample, error) {
	var p locationsPayload
	if err := c.get(ctx, "/api/location/recent", &p); err != nil {
		return nil, fmt.Errorf("client.ListRecentLocations: %w", err)
	}
	return p.Locations, nil
}

// ListLocationHistory fetches up to limit historical samples.
func (c *Client) ListLocationHistory(ctx context.Context, limit int) ([]domain.LocationSample, error) {
	params := url.Values{}
	params.Set("limit", strconv.Itoa(limit))

	var p locationsPayload
	if err := c.get(ctx, "/api/location/history?"+params.Encode(), &p); err != nil {
		return nil, fmt.Errorf("client.ListLocationHistory: %w", err)
	}
	return p.Locations, nil
}

// ListLocationRange fetches samples between two instants.
func (c *Client) ListLocationRange(ctx context.Context, start, end time.Time) ([]domain.LocationSample, error) {
	params := url.Values{}
	params.Set("startDate", start.Format(time.RFC3339))
	params.Set("endDate", end.Format(time.RFC3339))

	var p locationsPayload
	if err := c.get(ctx, "/api/location/history/range?"+params.Encode(), &p); err != nil {
		return nil, fmt.Errorf("client.ListLocationRange: %w", err)
	}
	return p.Locations, nil
}

// recordsPayload wraps the alert list response.
type recordsPayload struct {
	Records []domain.EmergencyRecord `json:"records"`
}

// ListAlerts fetches emergency-button incident records, most recent first.
func (c *Client) ListAlerts(ctx context.Context) ([]domain.EmergencyRecord, error) {
	var p recordsPayload
	if err := c.get(ctx, "/api/emergency/alerts", &p); err != nil {
		return nil, fmt.Errorf("client.ListAlerts: %w", err)
	}
	return p.Records, nil
}

// GetAlert fetches a single incident record by ID.
func (c *Client) GetAlert(ctx context.Context, id string) (*domain.EmergencyRecord, error) {
	var rec domain.EmergencyRecord
	if err := c.get(ctx, "/api/emergency/alerts/"+url.PathEscape(id), &rec); err != nil {
		return nil, fmt.Errorf("client.GetAlert: %w", err)
	}
	return &rec, nil
}

// CreateAlert creates a new incident record.
func (c *Client) CreateAlert(ctx context.Context, req CreateAlertRequest) (*domain.EmergencyRecord, error) {
	var rec domain.EmergencyRecord
	if err := c.post(ctx, "/api/emergency/alert", req, &rec); err != nil {
		return nil, fmt.Errorf("client.CreateAlert: %w", err)
	}
	return &rec, nil
}

// ResolveAlert marks an incident as resolved.
func (c *Client) ResolveAlert(ctx context.Context, id string) error {
	if err := c.doRequest(ctx, http.MethodPatch, "/api/emergency/alerts/"+url.PathEscape(id)+"/resolve", nil, nil); err != nil {
		return fmt.Errorf("client.ResolveAlert: %w", err)
	}
	return nil
}

// ListContacts returns the user's emergency contacts in priority order.
func (c *Client) ListContacts(ctx context.Context) ([]domain.EmergencyContact, error) {
	var contacts []domain.EmergencyContact
	if err := c.get(ctx, "/api/user/emergency-contacts", &contacts); err != nil {
		return nil, fmt.Errorf("client.ListContacts: %w", err)
	}
	return contacts, nil
}

// AddContact registers a new emergency contact.
func (c *Client) AddContact(ctx context.Context, contact domain.EmergencyContact) (*domain.EmergencyContact, error) {
	var created domain.EmergencyContact
	if err := c.post(ctx, "/api/user/emergency-contacts", contact, &created); err != nil {
		return nil, fmt.Errorf("client.AddContact: %w", err)
	}
	return &created, nil
}

// UpdateContact replaces an existing contact's fields.
func (c *Client) UpdateContact(ctx context.Context, id string, contact domain.EmergencyContact) error {
	if err := c.doRequest(ctx, http.MethodPut, "/api/user/emergency-contacts/"+url.PathEscape(id), contact, nil); err != nil {
		return fmt.Errorf("client.UpdateContact: %w", err)
	}
	return nil
}

// DeleteContact removes a contact.
func (c *Client) DeleteContact(ctx context.Context, id string) error {
	if err := c.doRequest(ctx, http.MethodDelete, "/api/user/emergency-contacts/"+url.PathEscape(id), nil, nil); err != nil {
		return fmt.Errorf("client.DeleteContact: %w", err)
	}
	return nil
}

func (c *Client) post(ctx context.Context, path string, body any, out any) error {
	return c.doRequest(ctx, http.MethodPost, path, body, out)
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	return c.doRequest(ctx, http.MethodGet, path, nil, out)
}

func (c *Client) doRequest(ctx context.Context, method, path string, body any, out any) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal body: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.tokens != nil {
		if tok := c.tokens.Token(); tok != "" {
			req.Header.Set("Authorization", "Bearer "+tok)
		}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close() //nolint:errcheck // best-effort close

	if resp.StatusCode == http.StatusUnauthorized && c.tokens != nil {
		// Global session teardown: any 401 invalidates the stored session,
		// no matter which endpoint produced it.
		c.tokens.Clear() //nolint:errcheck // the 401 is still reported below
	}

	if resp.StatusCode >= 400 {
		respBody, readErr := io.ReadAll(io.LimitReader(resp.Body, 1<<20)) // 1 MB max error body
		if readErr != nil {
			return &HTTPError{StatusCode: resp.StatusCode, Message: fmt.Sprintf("failed to read body: %v", readErr)}
		}
		var apiErr struct {
			Message string `json:"message"`
			Error   string `json:"error"`
		}
		if json.Unmarshal(respBody, &apiErr) == nil {
			if apiErr.Message != "" {
				return &HTTPError{StatusCode: resp.StatusCode, Message: apiErr.Message}
			}
			if apiErr.Error != "" {
				return &HTTPError{StatusCode: resp.StatusCode, Message: apiErr.Error}
			}
		}
		return &HTTPError{StatusCode: resp.StatusCode, Message: string(respBody)}
	}

	if out != nil {
		raw, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
		if err != nil {
			return fmt.Errorf("read response: %w", err)
		}
		if err := json.Unmarshal(normalize(raw), out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}

// normalize unwraps the optional {"data": ...} envelope some endpoints use,
// so callers never branch on response shape.
func normalize(raw []byte) []byte {
	var env struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(raw, &env); err == nil && len(env.Data) > 0 && string(env.Data) != "null" {
		return env.Data
	}
	return raw
}
