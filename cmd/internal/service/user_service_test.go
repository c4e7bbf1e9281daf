package service

import (
	"bytes"
	"context"
	"mime/multipart"
	"net/http/httptest"
	"testing"

	"simplecms/cmd/internal/auth"
	"simplecms/cmd/internal/contract"
	"simplecms/cmd/internal/utils/apierror"

	"golang.org/x/crypto/bcrypt"
)

type memoryStore struct {
	files   map[string][]byte
	deleted []string
}

func newMemoryStore() *memoryStore {
	return &memoryStore{files: map[string][]byte{}}
}

func (m *memoryStore) Upload(_ context.Context, key string, data []byte) error {
	m.files[key] = data
	return nil
}

func (m *memoryStore) Delete(_ context.Context, key string) error {
	delete(m.files, key)
	m.deleted = append(m.deleted, key)
	return nil
}

func (m *memoryStore) URL(key string) string {
	return "/uploads/" + key
}

// fileHeader builds a multipart header the way echo hands it to handlers.
func fileHeader(t *testing.T, name string, data []byte) *multipart.FileHeader {
	t.Helper()
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	part, err := w.CreateFormFile("file", name)
	if err != nil {
		t.Fatalf("CreateFormFile() error = %v", err)
	}
	_, _ = part.Write(data)
	_ = w.Close()

	req := httptest.NewRequest("PUT", "/", &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	if err := req.ParseMultipartForm(1 << 20); err != nil {
		t.Fatalf("ParseMultipartForm() error = %v", err)
	}
	return req.MultipartForm.File["file"][0]
}

func TestUserService_EmailAndPasswordSelfOnly(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	ada := env.createUser(t, "Ada", "ada@example.com", "")
	eve := env.createUser(t, "Eve", "eve@example.com", "")
	svc := env.users()

	_, apierr := svc.UpdateUser(ctx, as(eve), ada.ID, &contract.UpdateUserRequest{Email: strPtr("eve2@example.com")})
	if apierr != apierror.NotFoundError {
		t.Errorf("other email update = %+v, want not found", apierr)
	}

	_, apierr = svc.UpdateUser(ctx, nil, ada.ID, &contract.UpdateUserRequest{Password: strPtr("Hijack123")})
	if apierr != apierror.NotFoundError {
		t.Errorf("anonymous password update = %+v, want not found", apierr)
	}

	_, apierr = svc.UpdateUser(ctx, as(ada), ada.ID, &contract.UpdateUserRequest{
		Email:    strPtr("Ada@Lovelace.org"),
		Password: strPtr("Engine1843"),
	})
	if apierr != nil {
		t.Fatalf("self update error = %+v", apierr)
	}

	stored, _ := env.userRepo.FindByID(ctx, ada.ID)
	if stored.Email != "ada@lovelace.org" {
		t.Errorf("Email = %q, want lowercased new email", stored.Email)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("Engine1843")); err != nil {
		t.Errorf("password should be stored hashed: %v", err)
	}
}

func TestUserService_SelfUpdatedCredentialsSignIn(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	bob := env.createUser(t, "Bob", "bob@old.example.com", "Initial123")

	_, apierr := env.users().UpdateUser(ctx, as(bob), bob.ID, &contract.UpdateUserRequest{
		Email:    strPtr("Bob@Example.com"),
		Password: strPtr("  NewSecret9  "),
	})
	if apierr != nil {
		t.Fatalf("UpdateUser() error = %+v", apierr)
	}

	strategy, err := auth.NewPasswordStrategy(env.userRepo)
	if err != nil {
		t.Fatalf("NewPasswordStrategy() error = %v", err)
	}

	res, err := strategy.Validate(ctx, auth.Credentials{Username: "Bob@Example.com", Password: "  NewSecret9  "})
	if err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	if !res.Success || res.Item.ID != bob.ID {
		t.Errorf("Validate() = %+v, want success with the exact values set", res)
	}

	res, _ = strategy.Validate(ctx, auth.Credentials{Username: "bob@example.com", Password: "NewSecret9"})
	if res.Success {
		t.Error("a trimmed password must not match")
	}
}

func TestUserService_NameIsPublic(t *testing.T) {
	env := newTestEnv(t)
	ada := env.createUser(t, "Ada", "ada@example.com", "")

	resp, apierr := env.users().UpdateUser(context.Background(), nil, ada.ID, &contract.UpdateUserRequest{Name: strPtr("Countess")})
	if apierr != nil {
		t.Fatalf("UpdateUser() error = %+v", apierr)
	}
	if resp.Name == nil || *resp.Name != "Countess" {
		t.Errorf("Name = %v, want Countess", resp.Name)
	}
}

func TestUserService_CreateCannotSetSecrets(t *testing.T) {
	env := newTestEnv(t)
	svc := env.users()

	_, apierr := svc.CreateUser(context.Background(), nil, &contract.CreateUserRequest{Name: "New", Email: strPtr("new@example.com")})
	if apierr != apierror.NotFoundError {
		t.Errorf("create with email = %+v, want not found", apierr)
	}

	resp, apierr := svc.CreateUser(context.Background(), nil, &contract.CreateUserRequest{Name: "New"})
	if apierr != nil {
		t.Fatalf("CreateUser() error = %+v", apierr)
	}
	if resp.ID == "" || resp.Label != "New" {
		t.Errorf("CreateUser() = %+v, want id and label", resp)
	}
}

func TestUserService_ResponseHidesUnreadable(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	ada := env.createUser(t, "Ada", "ada@example.com", "Secret123")
	eve := env.createUser(t, "Eve", "eve@example.com", "")

	if _, apierr := env.notes().CreateNote(ctx, as(ada), &contract.CreateNoteRequest{Note: "mine"}); apierr != nil {
		t.Fatalf("CreateNote() error = %+v", apierr)
	}
	env.waitNotifications(t, 1)

	svc := env.users()
	self, _ := svc.GetUser(ctx, as(ada), ada.ID)
	other, _ := svc.GetUser(ctx, as(eve), ada.ID)

	if len(self.NoteIDs) != 1 {
		t.Errorf("self NoteIDs = %v, want 1 note", self.NoteIDs)
	}
	if len(other.NoteIDs) != 0 {
		t.Errorf("other NoteIDs = %v, notes of others must be hidden", other.NoteIDs)
	}

	users, _ := svc.GetUsers(ctx, nil)
	if len(users) != 2 {
		t.Errorf("len(users) = %d, want 2", len(users))
	}
}

func TestUserService_UploadAvatarReplacesOld(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	ada := env.createUser(t, "Ada", "ada@example.com", "")

	images := newMemoryStore()
	svc := NewUserService(env.registry, env.userRepo, env.noteRepo, newMemoryStore(), images, env.validate)

	first, apierr := svc.UploadAvatar(ctx, nil, ada.ID, fileHeader(t, "me.png", []byte("png-1")))
	if apierr != nil {
		t.Fatalf("UploadAvatar() error = %+v", apierr)
	}
	if first.Avatar == nil {
		t.Fatal("response should include the avatar")
	}

	if _, apierr := svc.UploadAvatar(ctx, nil, ada.ID, fileHeader(t, "me2.PNG", []byte("png-2"))); apierr != nil {
		t.Fatalf("second UploadAvatar() error = %+v", apierr)
	}

	if len(images.files) != 1 {
		t.Errorf("stored images = %d, want 1", len(images.files))
	}
	if len(images.deleted) != 1 {
		t.Errorf("deleted images = %d, want the replaced one", len(images.deleted))
	}

	_, apierr = svc.UploadAvatar(ctx, nil, ada.ID, fileHeader(t, "script.exe", []byte("nope")))
	if apierr == nil || apierr.Code() != 400 {
		t.Errorf("bad extension = %+v, want 400", apierr)
	}
}
