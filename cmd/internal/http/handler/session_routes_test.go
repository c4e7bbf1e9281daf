package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"simplecms/cmd/internal/contract"
	"simplecms/cmd/internal/domain/policy"
	"simplecms/cmd/internal/seed"
	"simplecms/cmd/internal/service"
	"simplecms/cmd/internal/utils"
	"simplecms/cmd/internal/utils/apierror"

	"github.com/labstack/echo/v4"
)

type mockSessionService struct {
	signInFn  func(req *contract.SignInRequest) (*contract.SignInResponse, *service.IssuedSession, apierror.ErrorResponse)
	signedOut []string
}

func (m *mockSessionService) GetSession(_ context.Context, actor *policy.Authentication) *contract.SessionResponse {
	if actor == nil {
		return &contract.SessionResponse{SignedIn: false}
	}
	return &contract.SessionResponse{SignedIn: true, UserID: actor.ItemID}
}

func (m *mockSessionService) SignIn(_ context.Context, req *contract.SignInRequest) (*contract.SignInResponse, *service.IssuedSession, apierror.ErrorResponse) {
	return m.signInFn(req)
}

func (m *mockSessionService) SignInFederated(context.Context, *contract.FederatedSignInRequest) (*contract.SignInResponse, *service.IssuedSession, apierror.ErrorResponse) {
	return nil, nil, apierror.FederatedDisabledError
}

func (m *mockSessionService) SignOut(_ context.Context, sessionID string) (*contract.SignOutResponse, apierror.ErrorResponse) {
	m.signedOut = append(m.signedOut, sessionID)
	return &contract.SignOutResponse{Success: true}, nil
}

type mockResetter struct {
	resetFn func() (*seed.Summary, error)
}

func (m *mockResetter) Reset(context.Context) (*seed.Summary, error) {
	return m.resetFn()
}

func sessionCookie(rec *httptest.ResponseRecorder) *http.Cookie {
	for _, c := range rec.Result().Cookies() {
		if c.Name == utils.SessionCookieName {
			return c
		}
	}
	return nil
}

func TestSessionRoute_GetSessionAnonymous(t *testing.T) {
	e := echo.New()
	route := NewSessionDefault(&mockSessionService{}, nil, false, "/admin")

	req := httptest.NewRequest(http.MethodGet, "/api/session", nil)
	rec := httptest.NewRecorder()
	if err := route.GetSession(e.NewContext(req, rec)); err != nil {
		t.Fatalf("GetSession() error = %v", err)
	}

	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("response is not json: %v", err)
	}
	if len(body) != 1 || body["signedIn"] != false {
		t.Errorf("body = %v, want only signedIn=false", body)
	}
}

func TestSessionRoute_SignInSetsCookie(t *testing.T) {
	e := echo.New()
	svc := &mockSessionService{
		signInFn: func(req *contract.SignInRequest) (*contract.SignInResponse, *service.IssuedSession, apierror.ErrorResponse) {
			if req.Username != "ada@example.com" || req.Password != "Secret123" {
				return &contract.SignInResponse{Success: false}, nil, nil
			}
			return &contract.SignInResponse{Success: true, ItemID: "u1"},
				&service.IssuedSession{Token: "tok", ExpiresAt: time.Now().Add(time.Hour)}, nil
		},
	}
	route := NewSessionDefault(svc, nil, true, "/admin")

	req := httptest.NewRequest(http.MethodGet, "/api/signin?username=ada@example.com&password=Secret123", nil)
	rec := httptest.NewRecorder()
	if err := route.SignIn(e.NewContext(req, rec)); err != nil {
		t.Fatalf("SignIn() error = %v", err)
	}

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}
	cookie := sessionCookie(rec)
	if cookie == nil || cookie.Value != "tok" {
		t.Fatalf("cookie = %+v, want session token", cookie)
	}
	if !cookie.HttpOnly || !cookie.Secure {
		t.Errorf("cookie = %+v, want HttpOnly and Secure", cookie)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/signin?username=ada@example.com&password=wrong", nil)
	rec = httptest.NewRecorder()
	_ = route.SignIn(e.NewContext(req, rec))

	if rec.Code != http.StatusOK {
		t.Errorf("failed sign-in status = %d, want 200", rec.Code)
	}
	if c := sessionCookie(rec); c != nil {
		t.Errorf("failed sign-in set cookie %+v", c)
	}
}

func TestSessionRoute_SignOutClearsCookie(t *testing.T) {
	e := echo.New()
	svc := &mockSessionService{}
	route := NewSessionDefault(svc, nil, false, "/admin")

	req := httptest.NewRequest(http.MethodGet, "/api/signout", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	utils.SetSession(c, &policy.Authentication{ListKey: "User", ItemID: "u1"}, "sid-1")

	if err := route.SignOut(c); err != nil {
		t.Fatalf("SignOut() error = %v", err)
	}

	if len(svc.signedOut) != 1 || svc.signedOut[0] != "sid-1" {
		t.Errorf("signed out = %v, want [sid-1]", svc.signedOut)
	}
	cookie := sessionCookie(rec)
	if cookie == nil || cookie.MaxAge >= 0 {
		t.Errorf("cookie = %+v, want an expiring cookie", cookie)
	}
}

func TestSessionRoute_ResetDB(t *testing.T) {
	tests := []struct {
		name     string
		resetErr error
		wantCode int
		wantBody bool
	}{
		{name: "success redirects", wantCode: http.StatusFound},
		{name: "concurrent reset", resetErr: seed.ErrResetInProgress, wantCode: http.StatusConflict, wantBody: true},
		{name: "failure", resetErr: errors.New("disk full"), wantCode: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resetter := &mockResetter{resetFn: func() (*seed.Summary, error) {
				if tt.resetErr != nil {
					return nil, tt.resetErr
				}
				return &seed.Summary{Inserted: map[string]int{"User": 3}}, nil
			}}
			route := NewSessionDefault(&mockSessionService{}, resetter, false, "/admin")

			e := echo.New()
			req := httptest.NewRequest(http.MethodGet, "/reset-db", nil)
			rec := httptest.NewRecorder()
			if err := route.ResetDB(e.NewContext(req, rec)); err != nil {
				t.Fatalf("ResetDB() error = %v", err)
			}

			if rec.Code != tt.wantCode {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantCode)
			}
			if tt.wantCode == http.StatusFound && rec.Header().Get("Location") != "/admin" {
				t.Errorf("Location = %q, want /admin", rec.Header().Get("Location"))
			}
			if hasBody := rec.Body.Len() > 0; hasBody != tt.wantBody {
				t.Errorf("body = %q, want body %v", rec.Body.String(), tt.wantBody)
			}
		})
	}
}

func TestSessionMiddleware_BadCookieIsAnonymous(t *testing.T) {
	e := newServer(t)
	forged := &http.Cookie{Name: utils.SessionCookieName, Value: "forged"}

	rec := do(e, http.MethodPost, "/api/posts", `{"name":"Hello","slug":"hello"}`, forged)
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want anonymous create to be denied", rec.Code)
	}
}
