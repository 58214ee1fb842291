package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"

	"github.com/shopd-dev/shopd/internal/cli/session"
)

// newTestClient wires a client to a stub server with an in-memory session store
func newTestClient(t *testing.T, handler http.Handler) (*Client, *session.Session) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	sess := session.New(session.NewMemoryStore(), zerolog.Nop())
	return New(srv.URL, sess, zerolog.Nop()), sess
}

func writeEnvelope(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"statusCode": status,
		"message":    http.StatusText(status),
		"data":       data,
	})
}

func TestSignIdempotent(t *testing.T) {
	sess := session.New(session.NewMemoryStore(), zerolog.Nop())
	sess.SetAccessToken("tok-123")
	c := New("http://example.test", sess, zerolog.Nop())

	req, err := http.NewRequest(http.MethodGet, "http://example.test/api/brands", nil)
	if err != nil {
		t.Fatalf("failed to build request: %v", err)
	}

	c.sign(req)
	first := req.Header.Values("Authorization")
	c.sign(req)
	second := req.Header.Values("Authorization")

	if len(first) != 1 || first[0] != "Bearer tok-123" {
		t.Errorf("expected single 'Bearer tok-123' header, got %v", first)
	}
	if len(second) != 1 || second[0] != first[0] {
		t.Errorf("signing twice changed the header: first %v, second %v", first, second)
	}
}

func TestSignUnauthenticated(t *testing.T) {
	sess := session.New(session.NewMemoryStore(), zerolog.Nop())
	c := New("http://example.test", sess, zerolog.Nop())

	req, _ := http.NewRequest(http.MethodGet, "http://example.test/api/brands", nil)
	c.sign(req)

	if got := req.Header.Get("Authorization"); got != "" {
		t.Errorf("expected no Authorization header without a token, got %q", got)
	}
}

func TestDecimalCoercion(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    float64
		wantErr bool
	}{
		{name: "quoted string", in: `"19.99"`, want: 19.99},
		{name: "plain number", in: `19.99`, want: 19.99},
		{name: "integer", in: `42`, want: 42},
		{name: "quoted integer", in: `"42"`, want: 42},
		{name: "null", in: `null`, want: 0},
		{name: "empty string", in: `""`, want: 0},
		{name: "garbage", in: `"abc"`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var d Decimal
			err := json.Unmarshal([]byte(tt.in), &d)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error for %s, got %v", tt.in, d)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if d.Float64() != tt.want {
				t.Errorf("Decimal(%s) = %v, want %v", tt.in, d.Float64(), tt.want)
			}
		})
	}
}

func TestEnvelopeTolerance(t *testing.T) {
	wrapped := []byte(`{"statusCode":200,"message":"OK","data":{"id":"x"}}`)
	bare := []byte(`{"id":"x"}`)

	type record struct {
		ID string `json:"id"`
	}

	for _, body := range [][]byte{wrapped, bare} {
		var rec record
		if err := json.Unmarshal(unwrap(body), &rec); err != nil {
			t.Fatalf("failed to decode %s: %v", body, err)
		}
		if rec.ID != "x" {
			t.Errorf("extracted record from %s = %+v, want id 'x'", body, rec)
		}
	}
}

func TestNormalizeHTTPDefaults(t *testing.T) {
	tests := []struct {
		status int
		want   string
	}{
		{400, "Invalid request data"},
		{401, "Unauthorized access"},
		{403, "You do not have permission to perform this action"},
		{404, "Resource not found"},
		{409, "Conflict with existing data"},
		{422, "Validation error"},
		{500, "Server error - please try again later"},
		{599, "Error 599"},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("status_%d", tt.status), func(t *testing.T) {
			apiErr := NormalizeHTTP(tt.status, nil)
			if apiErr.Status != tt.status {
				t.Errorf("status = %d, want %d", apiErr.Status, tt.status)
			}
			if apiErr.Message != tt.want {
				t.Errorf("message = %q, want %q", apiErr.Message, tt.want)
			}
		})
	}
}

func TestNormalizeHTTPServerMessage(t *testing.T) {
	body := []byte(`{"statusCode":422,"message":"price must be positive","details":{"field":"price"}}`)
	apiErr := NormalizeHTTP(422, body)

	if apiErr.Message != "price must be positive" {
		t.Errorf("expected server message to win, got %q", apiErr.Message)
	}
	if len(apiErr.Details) == 0 {
		t.Error("expected details to be carried through")
	}
}

func TestNormalizeTransportCancelled(t *testing.T) {
	err := NormalizeTransport(fmt.Errorf("request failed: %w", context.Canceled))
	if !errors.Is(err, ErrCancelled) {
		t.Errorf("expected cancelled error, got %v", err)
	}
	if err.Status != 0 {
		t.Errorf("expected status 0, got %d", err.Status)
	}
}

func TestNormalizeTransportNoResponse(t *testing.T) {
	err := NormalizeTransport(errors.New("dial tcp: connection refused"))
	if err.Status != 0 {
		t.Errorf("expected status 0, got %d", err.Status)
	}
	if err.Message != "No response from server. Please check your connection." {
		t.Errorf("unexpected message: %q", err.Message)
	}
}

func TestLoginStoresSession(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/auth/login" || r.Method != http.MethodPost {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
			w.WriteHeader(http.StatusNotFound)
			return
		}
		writeEnvelope(w, http.StatusOK, map[string]any{
			"accessToken":  "A",
			"refreshToken": "R",
			"user":         map[string]any{"id": "U1", "email": "a@b.com"},
		})
	})

	c, sess := newTestClient(t, handler)

	resp, err := c.Login(context.Background(), "a@b.com", "secret")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if resp.User.Email != "a@b.com" {
		t.Errorf("unexpected user: %+v", resp.User)
	}

	if sess.AccessToken() != "A" || sess.RefreshToken() != "R" || sess.UserID() != "U1" {
		t.Errorf("session not populated: access=%q refresh=%q user=%q",
			sess.AccessToken(), sess.RefreshToken(), sess.UserID())
	}
	if !sess.IsAuthenticated() {
		t.Error("expected IsAuthenticated to be true after login")
	}
}

func TestRefreshOn401ThenRecover(t *testing.T) {
	var brandCalls, refreshCalls int
	var firstAuth, replayAuth string

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/brands/b1":
			brandCalls++
			if brandCalls == 1 {
				firstAuth = r.Header.Get("Authorization")
				writeEnvelope(w, http.StatusUnauthorized, nil)
				return
			}
			replayAuth = r.Header.Get("Authorization")
			writeEnvelope(w, http.StatusOK, map[string]any{"id": "b1", "name": "Acme"})
		case "/api/auth/refresh":
			refreshCalls++
			var body map[string]string
			_ = json.NewDecoder(r.Body).Decode(&body)
			if body["userId"] != "U1" || body["refreshToken"] != "R1" {
				t.Errorf("unexpected refresh payload: %v", body)
			}
			writeEnvelope(w, http.StatusOK, map[string]string{"accessToken": "A2"})
		default:
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
			w.WriteHeader(http.StatusNotFound)
		}
	})

	c, sess := newTestClient(t, handler)
	sess.SetAccessToken("A1")
	sess.SetRefreshToken("R1")
	sess.SetUserID("U1")

	brand, err := c.GetBrand(context.Background(), "b1")
	if err != nil {
		t.Fatalf("expected recovery via refresh, got error: %v", err)
	}
	if brand.Name != "Acme" {
		t.Errorf("unexpected brand: %+v", brand)
	}

	if refreshCalls != 1 {
		t.Errorf("expected exactly one refresh call, got %d", refreshCalls)
	}
	if sess.AccessToken() != "A2" {
		t.Errorf("expected access token A2 after refresh, got %q", sess.AccessToken())
	}
	if firstAuth != "Bearer A1" {
		t.Errorf("first attempt should carry old token, got %q", firstAuth)
	}
	if replayAuth != "Bearer A2" {
		t.Errorf("replay should carry new token, got %q", replayAuth)
	}
}

func TestNoDoubleRefresh(t *testing.T) {
	var refreshCalls int

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/auth/refresh" {
			refreshCalls++
			writeEnvelope(w, http.StatusOK, map[string]string{"accessToken": "A2"})
			return
		}
		// The resource keeps 401ing even after the refresh
		writeEnvelope(w, http.StatusUnauthorized, nil)
	})

	c, sess := newTestClient(t, handler)
	sess.SetAccessToken("A1")
	sess.SetRefreshToken("R1")
	sess.SetUserID("U1")

	_, err := c.GetBrand(context.Background(), "b1")
	if err == nil {
		t.Fatal("expected the persistent 401 to surface, got success")
	}

	var apiErr *APIError
	if !errors.As(err, &apiErr) || apiErr.Status != 401 {
		t.Errorf("expected 401 APIError, got %v", err)
	}
	if refreshCalls != 1 {
		t.Errorf("expected exactly one refresh for the request chain, got %d", refreshCalls)
	}
}

func TestNoRefreshWithoutPreconditions(t *testing.T) {
	tests := []struct {
		name    string
		refresh string
		userID  string
	}{
		{name: "missing user id", refresh: "R1", userID: ""},
		{name: "missing refresh token", refresh: "", userID: "U1"},
		{name: "missing both", refresh: "", userID: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var refreshCalls int
			handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.URL.Path == "/api/auth/refresh" {
					refreshCalls++
					writeEnvelope(w, http.StatusOK, map[string]string{"accessToken": "A2"})
					return
				}
				writeEnvelope(w, http.StatusUnauthorized, nil)
			})

			c, sess := newTestClient(t, handler)
			sess.SetAccessToken("A1")
			sess.SetRefreshToken(tt.refresh)
			sess.SetUserID(tt.userID)

			_, err := c.GetBrand(context.Background(), "b1")

			var apiErr *APIError
			if !errors.As(err, &apiErr) || apiErr.Status != 401 {
				t.Errorf("expected 401 APIError, got %v", err)
			}
			if refreshCalls != 0 {
				t.Errorf("expected no refresh attempt, got %d", refreshCalls)
			}
		})
	}
}

func TestSessionTeardownOnRefreshFailure(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Both the resource and the refresh endpoint 401
		writeEnvelope(w, http.StatusUnauthorized, nil)
	})

	c, sess := newTestClient(t, handler)
	sess.SetAccessToken("A1")
	sess.SetRefreshToken("R1")
	sess.SetUserID("U1")

	var logouts int
	sess.OnLogout(func() { logouts++ })

	_, err := c.GetBrand(context.Background(), "b1")
	if err == nil {
		t.Fatal("expected refresh failure to surface")
	}

	if sess.AccessToken() != "" || sess.RefreshToken() != "" || sess.UserID() != "" {
		t.Errorf("expected full session teardown: access=%q refresh=%q user=%q",
			sess.AccessToken(), sess.RefreshToken(), sess.UserID())
	}
	if logouts != 1 {
		t.Errorf("expected exactly one logout broadcast, got %d", logouts)
	}
}

func TestCSRFHeaderOnMutations(t *testing.T) {
	var postCSRF, getCSRF string

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/csrf-token":
			http.SetCookie(w, &http.Cookie{Name: csrfCookieName, Value: "csrf-42", Path: "/"})
			writeEnvelope(w, http.StatusOK, map[string]string{"csrfToken": "csrf-42"})
		case "/api/brands":
			if r.Method == http.MethodPost {
				postCSRF = r.Header.Get(csrfHeader)
				writeEnvelope(w, http.StatusOK, map[string]any{"id": "b1"})
				return
			}
			getCSRF = r.Header.Get(csrfHeader)
			writeEnvelope(w, http.StatusOK, []any{})
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	})

	c, _ := newTestClient(t, handler)

	token, err := c.FetchCSRFToken(context.Background())
	if err != nil {
		t.Fatalf("failed to fetch CSRF token: %v", err)
	}
	if token != "csrf-42" {
		t.Errorf("unexpected CSRF token %q", token)
	}

	if _, err := c.CreateBrand(context.Background(), BrandInput{Name: "Acme", Slug: "acme"}); err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if postCSRF != "csrf-42" {
		t.Errorf("expected CSRF header on POST, got %q", postCSRF)
	}

	if _, err := c.ListBrands(context.Background()); err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if getCSRF != "" {
		t.Errorf("expected no CSRF header on GET, got %q", getCSRF)
	}
}

func TestCancelledRequest(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	})

	c, _ := newTestClient(t, handler)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.ListBrands(ctx)
	if !errors.Is(err, ErrCancelled) {
		t.Errorf("expected cancelled error, got %v", err)
	}
}
