package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gujitrio/ping/internal/fakeapi"
	"github.com/gujitrio/ping/pkg/domain"
)

// fakeTokens is a minimal TokenSource for tests.
type fakeTokens struct {
	token   string
	cleared bool
}

func (f *fakeTokens) Token() string { return f.token }

func (f *fakeTokens) Clear() error {
	f.cleared = true
	f.token = ""
	return nil
}

func TestLoginUnwrapsDataEnvelope(t *testing.T) {
	srv := httptest.NewServer(fakeapi.New())
	defer srv.Close()

	c := New(srv.URL, &fakeTokens{})
	sess, err := c.Login(context.Background(), LoginRequest{
		UsernameOrEmail: fakeapi.DemoUsername,
		Password:        fakeapi.DemoPassword,
	})
	if err != nil {
		t.Fatalf("Login() error: %v", err)
	}
	if sess.Token == "" {
		t.Error("Login() returned empty token")
	}
	if sess.User.Username != fakeapi.DemoUsername {
		t.Errorf("User.Username = %q, want %q", sess.User.Username, fakeapi.DemoUsername)
	}
	if sess.User.Name != "배준하" {
		t.Errorf("User.Name = %q, want %q", sess.User.Name, "배준하")
	}
}

func TestLoginWrongPassword(t *testing.T) {
	srv := httptest.NewServer(fakeapi.New())
	defer srv.Close()

	c := New(srv.URL, &fakeTokens{})
	_, err := c.Login(context.Background(), LoginRequest{
		UsernameOrEmail: fakeapi.DemoUsername,
		Password:        "wrong",
	})
	if err == nil {
		t.Fatal("expected error for bad credentials")
	}
	if !IsStatus(err, http.StatusUnauthorized) {
		t.Errorf("IsStatus(err, 401) = false, err = %v", err)
	}
	if got := Message(err); got != "아이디 또는 비밀번호가 올바르지 않습니다." {
		t.Errorf("Message(err) = %q, want server message", got)
	}
}

func TestLoginAcceptsTopLevelPayload(t *testing.T) {
	// Some backend variants return the token at the top level, without the
	// data envelope. The client accepts both.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{ //nolint:errcheck
			"token":    "flat-token",
			"id":       3,
			"username": "flat",
		})
	}))
	defer srv.Close()

	c := New(srv.URL, &fakeTokens{})
	sess, err := c.Login(context.Background(), LoginRequest{UsernameOrEmail: "flat", Password: "pw"})
	if err != nil {
		t.Fatalf("Login() error: %v", err)
	}
	if sess.Token != "flat-token" {
		t.Errorf("Token = %q, want %q", sess.Token, "flat-token")
	}
	if sess.User.Username != "flat" {
		t.Errorf("Username = %q, want %q", sess.User.Username, "flat")
	}
}

func TestSignupConflict(t *testing.T) {
	srv := httptest.NewServer(fakeapi.New())
	defer srv.Close()

	c := New(srv.URL, &fakeTokens{})
	_, err := c.Signup(context.Background(), SignupRequest{
		Username:    fakeapi.DemoUsername,
		Email:       "other@example.com",
		Password:    "secret1",
		Name:        "중복",
		PhoneNumber: "010-0000-0000",
	})
	if err == nil {
		t.Fatal("expected conflict error")
	}
	if !IsStatus(err, http.StatusConflict) {
		t.Errorf("IsStatus(err, 409) = false, err = %v", err)
	}
}

func TestSignupAutoLogin(t *testing.T) {
	srv := httptest.NewServer(fakeapi.New())
	defer srv.Close()

	c := New(srv.URL, &fakeTokens{})
	sess, err := c.Signup(context.Background(), SignupRequest{
		Username:    "newuser",
		Email:       "new@example.com",
		Password:    "secret1",
		Name:        "신규",
		PhoneNumber: "010-1111-2222",
	})
	if err != nil {
		t.Fatalf("Signup() error: %v", err)
	}
	if sess == nil || sess.Token == "" {
		t.Fatal("Signup() did not auto-login")
	}
	if sess.User.Username != "newuser" {
		t.Errorf("Username = %q, want %q", sess.User.Username, "newuser")
	}
}

func TestBearerHeaderAttachedWhenTokenPresent(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		json.NewEncoder(w).Encode(domain.User{Username: "junha"}) //nolint:errcheck
	}))
	defer srv.Close()

	c := New(srv.URL, &fakeTokens{token: "tok-abc"})
	if _, err := c.GetMe(context.Background()); err != nil {
		t.Fatalf("GetMe() error: %v", err)
	}
	if gotAuth != "Bearer tok-abc" {
		t.Errorf("Authorization = %q, want %q", gotAuth, "Bearer tok-abc")
	}
}

func TestNoBearerHeaderWhenLoggedOut(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		json.NewEncoder(w).Encode(domain.User{}) //nolint:errcheck
	}))
	defer srv.Close()

	c := New(srv.URL, &fakeTokens{})
	if _, err := c.GetMe(context.Background()); err != nil {
		t.Fatalf("GetMe() error: %v", err)
	}
	if gotAuth != "" {
		t.Errorf("Authorization = %q, want empty", gotAuth)
	}
}

func TestAnyUnauthorizedResponseClearsSession(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]string{"message": "만료된 토큰입니다."}) //nolint:errcheck
	}))
	defer srv.Close()

	endpoints := []func(c *Client) error{
		func(c *Client) error { _, err := c.GetMe(context.Background()); return err },
		func(c *Client) error { _, err := c.GetCurrentLocation(context.Background()); return err },
		func(c *Client) error { _, err := c.ListAlerts(context.Background()); return err },
		func(c *Client) error { _, err := c.ListContacts(context.Background()); return err },
	}
	for i, call := range endpoints {
		tokens := &fakeTokens{token: "stale"}
		c := New(srv.URL, tokens)
		err := call(c)
		if !IsStatus(err, http.StatusUnauthorized) {
			t.Errorf("endpoint %d: err = %v, want HTTP 401", i, err)
		}
		if !tokens.cleared {
			t.Errorf("endpoint %d: 401 response did not clear the session", i)
		}
	}
}

func TestListAlertsMostRecentFirst(t *testing.T) {
	srv := httptest.NewServer(fakeapi.New())
	defer srv.Close()

	tokens := &fakeTokens{}
	c := New(srv.URL, tokens)
	sess, err := c.Login(context.Background(), LoginRequest{
		UsernameOrEmail: fakeapi.DemoUsername,
		Password:        fakeapi.DemoPassword,
	})
	if err != nil {
		t.Fatalf("Login() error: %v", err)
	}
	tokens.token = sess.Token

	created, err := c.CreateAlert(context.Background(), CreateAlertRequest{
		Latitude:  37.5665,
		Longitude: 126.9780,
		Address:   "서울특별시 중구",
	})
	if err != nil {
		t.Fatalf("CreateAlert() error: %v", err)
	}

	records, err := c.ListAlerts(context.Background())
	if err != nil {
		t.Fatalf("ListAlerts() error: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("got %d records, want 2", len(records))
	}
	if records[0].ID != created.ID {
		t.Errorf("records[0].ID = %s, want newest record %s", records[0].ID, created.ID)
	}

	rec, err := c.GetAlert(context.Background(), records[1].ID.String())
	if err != nil {
		t.Fatalf("GetAlert() error: %v", err)
	}
	if rec.RiskLevel != domain.RiskHigh {
		t.Errorf("RiskLevel = %q, want %q", rec.RiskLevel, domain.RiskHigh)
	}
	if !strings.Contains(rec.AISummary, "살려주세요") {
		t.Errorf("AISummary = %q, want seeded summary", rec.AISummary)
	}
}

func TestContactsCRUD(t *testing.T) {
	srv := httptest.NewServer(fakeapi.New())
	defer srv.Close()

	tokens := &fakeTokens{}
	c := New(srv.URL, tokens)
	sess, err := c.Login(context.Background(), LoginRequest{
		UsernameOrEmail: fakeapi.DemoUsername,
		Password:        fakeapi.DemoPassword,
	})
	if err != nil {
		t.Fatalf("Login() error: %v", err)
	}
	tokens.token = sess.Token

	added, err := c.AddContact(context.Background(), domain.EmergencyContact{
		Name: "아버지", Phone: "010-2222-3333", Relation: "가족",
	})
	if err != nil {
		t.Fatalf("AddContact() error: %v", err)
	}

	contacts, err := c.ListContacts(context.Background())
	if err != nil {
		t.Fatalf("ListContacts() error: %v", err)
	}
	if len(contacts) != 2 {
		t.Fatalf("got %d contacts, want 2", len(contacts))
	}

	added.Phone = "010-2222-4444"
	if err := c.UpdateContact(context.Background(), added.ID.String(), *added); err != nil {
		t.Fatalf("UpdateContact() error: %v", err)
	}

	if err := c.DeleteContact(context.Background(), added.ID.String()); err != nil {
		t.Fatalf("DeleteContact() error: %v", err)
	}
	contacts, err = c.ListContacts(context.Background())
	if err != nil {
		t.Fatalf("ListContacts() after delete error: %v", err)
	}
	if len(contacts) != 1 {
		t.Errorf("got %d contacts after delete, want 1", len(contacts))
	}
}

func TestRecentLocationsOrderedOldestFirst(t *testing.T) {
	srv := httptest.NewServer(fakeapi.New())
	defer srv.Close()

	tokens := &fakeTokens{}
	c := New(srv.URL, tokens)
	sess, err := c.Login(context.Background(), LoginRequest{
		UsernameOrEmail: fakeapi.DemoUsername,
		Password:        fakeapi.DemoPassword,
	})
	if err != nil {
		t.Fatalf("Login() error: %v", err)
	}
	tokens.token = sess.Token

	locs, err := c.ListRecentLocations(context.Background())
	if err != nil {
		t.Fatalf("ListRecentLocations() error: %v", err)
	}
	if len(locs) != 5 {
		t.Fatalf("got %d locations, want 5", len(locs))
	}
	for i := 1; i < len(locs); i++ {
		if locs[i].Timestamp.Before(locs[i-1].Timestamp) {
			t.Errorf("locations out of order at index %d", i)
		}
	}

	cur, err := c.GetCurrentLocation(context.Background())
	if err != nil {
		t.Fatalf("GetCurrentLocation() error: %v", err)
	}
	if cur.Latitude != locs[len(locs)-1].Latitude {
		t.Errorf("current location %v does not match newest sample", cur)
	}
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"enveloped", `{"data":{"token":"t"}}`, `{"token":"t"}`},
		{"flat", `{"token":"t"}`, `{"token":"t"}`},
		{"null data", `{"data":null,"token":"t"}`, `{"data":null,"token":"t"}`},
		{"array", `[1,2,3]`, `[1,2,3]`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := string(normalize([]byte(tt.in))); got != tt.want {
				t.Errorf("normalize(%s) = %s, want %s", tt.in, got, tt.want)
			}
		})
	}
}

func TestResolveAlert(t *testing.T) {
	srv := httptest.NewServer(fakeapi.New())
	defer srv.Close()

	tokens := &fakeTokens{}
	c := New(srv.URL, tokens)
	sess, err := c.Login(context.Background(), LoginRequest{
		UsernameOrEmail: fakeapi.DemoUsername,
		Password:        fakeapi.DemoPassword,
	})
	if err != nil {
		t.Fatalf("Login() error: %v", err)
	}
	tokens.token = sess.Token

	records, err := c.ListAlerts(context.Background())
	if err != nil {
		t.Fatalf("ListAlerts() error: %v", err)
	}
	id := records[0].ID.String()

	if err := c.ResolveAlert(context.Background(), id); err != nil {
		t.Fatalf("ResolveAlert() error: %v", err)
	}
	rec, err := c.GetAlert(context.Background(), id)
	if err != nil {
		t.Fatalf("GetAlert() error: %v", err)
	}
	if !rec.Resolved {
		t.Error("expected record marked resolved")
	}

	if err := c.ResolveAlert(context.Background(), "no-such-id"); !IsStatus(err, http.StatusNotFound) {
		t.Errorf("expected 404 for unknown record, got %v", err)
	}
}

func TestLocationHistoryEndpoints(t *testing.T) {
	srv := httptest.NewServer(fakeapi.New())
	defer srv.Close()

	tokens := &fakeTokens{}
	c := New(srv.URL, tokens)
	sess, err := c.Login(context.Background(), LoginRequest{
		UsernameOrEmail: fakeapi.DemoUsername,
		Password:        fakeapi.DemoPassword,
	})
	if err != nil {
		t.Fatalf("Login() error: %v", err)
	}
	tokens.token = sess.Token

	locs, err := c.ListLocationHistory(context.Background(), 50)
	if err != nil {
		t.Fatalf("ListLocationHistory() error: %v", err)
	}
	if len(locs) == 0 {
		t.Fatal("expected history samples")
	}

	start := locs[0].Timestamp
	end := locs[len(locs)-1].Timestamp
	ranged, err := c.ListLocationRange(context.Background(), start, end)
	if err != nil {
		t.Fatalf("ListLocationRange() error: %v", err)
	}
	if len(ranged) == 0 {
		t.Fatal("expected ranged samples")
	}
}
