package localfs

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestStore_UploadAndDelete(t *testing.T) {
	root := t.TempDir()
	store, err := NewStore(root, "/uploads/")
	if err != nil {
		t.Fatalf("NewStore() error = %v", err)
	}

	ctx := context.Background()
	if err = store.Upload(ctx, "attachments/a.txt", []byte("hello")); err != nil {
		t.Fatalf("Upload() error = %v", err)
	}

	data, err := os.ReadFile(filepath.Join(root, "attachments", "a.txt"))
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if string(data) != "hello" {
		t.Errorf("content = %q, want %q", data, "hello")
	}

	if got := store.URL("attachments/a.txt"); got != "/uploads/attachments/a.txt" {
		t.Errorf("URL() = %q, want %q", got, "/uploads/attachments/a.txt")
	}

	if err = store.Delete(ctx, "attachments/a.txt"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if err = store.Delete(ctx, "attachments/a.txt"); err != nil {
		t.Errorf("second Delete() error = %v, want nil", err)
	}
}

func TestStore_RejectsEscapingKeys(t *testing.T) {
	store, err := NewStore(t.TempDir(), "/uploads")
	if err != nil {
		t.Fatalf("NewStore() error = %v", err)
	}

	for _, key := range []string{"", "../secret", "/etc/passwd"} {
		if err := store.Upload(context.Background(), key, nil); !errors.Is(err, ErrInvalidKey) {
			t.Errorf("Upload(%q) error = %v, want ErrInvalidKey", key, err)
		}
	}
}
