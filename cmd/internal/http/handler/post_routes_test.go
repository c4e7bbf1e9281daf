package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"simplecms/cmd/internal/auth"
	"simplecms/cmd/internal/domain/entity"
	"simplecms/cmd/internal/domain/schema"
	"simplecms/cmd/internal/domain/sqlite"
	"simplecms/cmd/internal/domain/sqlite/repository"
	"simplecms/cmd/internal/http/middleware"
	"simplecms/cmd/internal/service"
	"simplecms/cmd/internal/utils/uid"
	"simplecms/cmd/internal/utils/validators"

	"github.com/labstack/echo/v4"
)

func TestMain(m *testing.M) {
	uid.Init(1)
	os.Exit(m.Run())
}

// newServer wires the post and session routes against an in-memory database.
func newServer(t *testing.T) *echo.Echo {
	t.Helper()
	db, err := sqlite.Init(":memory:")
	if err != nil {
		t.Fatalf("sqlite.Init() error = %v", err)
	}
	registry, err := schema.NewDefault()
	if err != nil {
		t.Fatalf("schema.NewDefault() error = %v", err)
	}

	validate := validators.New()
	userRepo := repository.NewUserRepository(db)
	for _, email := range []string{"ada@example.com", "eve@example.com"} {
		hash, err := auth.HashPassword("Secret123")
		if err != nil {
			t.Fatalf("HashPassword() error = %v", err)
		}
		user := &entity.User{ID: uid.Generate(), Name: email, Email: email, PasswordHash: hash}
		if err := userRepo.Save(context.Background(), user); err != nil {
			t.Fatalf("save user error = %v", err)
		}
	}

	password, err := auth.NewPasswordStrategy(userRepo)
	if err != nil {
		t.Fatalf("NewPasswordStrategy() error = %v", err)
	}
	sessions := service.NewSessionService(repository.NewSessionRepository(db), userRepo, password, nil,
		auth.NewSessionSigner("test-secret"), validate, nil, time.Hour)
	posts := service.NewPostService(registry, repository.NewPostRepository(db), repository.NewCategoryRepository(db),
		userRepo, service.NoopNotifier{}, validate)

	sessionRoutes := NewSessionDefault(sessions, nil, false, "/admin")
	postRoutes := NewPostDefault(posts)

	e := echo.New()
	e.Use(middleware.NewSessionMiddleware(sessions))
	e.GET("/api/signin", sessionRoutes.SignIn)
	e.GET("/api/posts/:id", postRoutes.GetPost)
	e.POST("/api/posts", postRoutes.CreatePost)
	e.DELETE("/api/posts/:id", postRoutes.DeletePost)
	return e
}

func signIn(t *testing.T, e *echo.Echo, email string) *http.Cookie {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/api/signin?username="+email+"&password=Secret123", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	cookie := sessionCookie(rec)
	if cookie == nil {
		t.Fatalf("sign-in as %s set no cookie: %s", email, rec.Body.String())
	}
	return cookie
}

func do(e *echo.Echo, method, target, body string, cookie *http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if cookie != nil {
		req.AddCookie(cookie)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func extractID(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil || body.ID == "" {
		t.Fatalf("no id in %s: %v", rec.Body.String(), err)
	}
	return body.ID
}

func TestPostRoutes_DenialLooksLikeMissing(t *testing.T) {
	e := newServer(t)
	ada := signIn(t, e, "ada@example.com")
	eve := signIn(t, e, "eve@example.com")

	created := do(e, http.MethodPost, "/api/posts", `{"name":"Hello","slug":"hello","status":"published"}`, ada)
	if created.Code != http.StatusCreated {
		t.Fatalf("create status = %d, body %s", created.Code, created.Body.String())
	}
	id := extractID(t, created)

	denied := do(e, http.MethodDelete, "/api/posts/"+id, "", eve)
	missing := do(e, http.MethodDelete, "/api/posts/does-not-exist", "", eve)

	if denied.Code != http.StatusNotFound || missing.Code != http.StatusNotFound {
		t.Fatalf("status = %d / %d, want 404 / 404", denied.Code, missing.Code)
	}
	if denied.Body.String() != missing.Body.String() {
		t.Errorf("denied body %q differs from missing body %q", denied.Body.String(), missing.Body.String())
	}

	if rec := do(e, http.MethodGet, "/api/posts/"+id, "", nil); rec.Code != http.StatusOK {
		t.Errorf("anonymous read status = %d, want 200", rec.Code)
	}
	if rec := do(e, http.MethodDelete, "/api/posts/"+id, "", ada); rec.Code != http.StatusNoContent {
		t.Errorf("owner delete status = %d, want 204", rec.Code)
	}
}
