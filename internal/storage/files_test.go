package storage

import (
	"io"
	"strings"
	"testing"

	"github.com/trymedating/trymed/pkg/errors"
)

func newTestStore(t *testing.T, maxSize int64) *FileStore {
	t.Helper()
	store, err := NewFileStore(t.TempDir(), maxSize)
	if err != nil {
		t.Fatalf("NewFileStore() error = %v", err)
	}
	return store
}

func TestFileStoreSaveAndOpen(t *testing.T) {
	store := newTestStore(t, 1024)

	rel, size, err := store.Save(42, "photo.png", strings.NewReader("fake image bytes"))
	if err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if size != int64(len("fake image bytes")) {
		t.Errorf("size = %d, want %d", size, len("fake image bytes"))
	}
	if !strings.HasPrefix(rel, "chat/42/") {
		t.Errorf("path = %q, want chat/42/ prefix", rel)
	}
	if !strings.HasSuffix(rel, "_photo.png") {
		t.Errorf("path = %q, want _photo.png suffix", rel)
	}

	f, err := store.Open(rel)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		t.Fatalf("ReadAll() error = %v", err)
	}
	if string(data) != "fake image bytes" {
		t.Errorf("content = %q", data)
	}
}

func TestFileStoreSanitizesNames(t *testing.T) {
	store := newTestStore(t, 1024)

	rel, _, err := store.Save(1, "../../etc/pass wd?.png", strings.NewReader("x"))
	if err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if strings.Contains(rel, "..") || strings.Contains(rel, " ") || strings.Contains(rel, "?") {
		t.Errorf("unsafe characters survived sanitization: %q", rel)
	}
}

func TestFileStoreSizeLimit(t *testing.T) {
	store := newTestStore(t, 10)

	_, _, err := store.Save(1, "big.bin", strings.NewReader(strings.Repeat("a", 11)))
	if err == nil {
		t.Fatal("Save() expected size limit error, got nil")
	}
	if errors.Code(err) != errors.ErrCodeValidationFailed {
		t.Errorf("error code = %q, want %q", errors.Code(err), errors.ErrCodeValidationFailed)
	}

	// Exactly at the limit is fine.
	if _, _, err := store.Save(1, "ok.bin", strings.NewReader(strings.Repeat("a", 10))); err != nil {
		t.Errorf("Save() at limit error = %v", err)
	}
}

func TestFileStoreRejectsTraversal(t *testing.T) {
	store := newTestStore(t, 1024)

	for _, rel := range []string{"../outside", "/etc/passwd", "chat/../../x", "."} {
		if _, err := store.Open(rel); errors.Code(err) != errors.ErrCodeValidationFailed {
			t.Errorf("Open(%q) error = %v, want validation failure", rel, err)
		}
	}
}

func TestFileStoreOpenMissing(t *testing.T) {
	store := newTestStore(t, 1024)

	_, err := store.Open("chat/1/none.png")
	if errors.Code(err) != errors.ErrCodeNotFound {
		t.Errorf("Open() error = %v, want not found", err)
	}
}

func TestFileStoreRemove(t *testing.T) {
	store := newTestStore(t, 1024)

	rel, _, err := store.Save(1, "gone.png", strings.NewReader("x"))
	if err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	if err := store.Remove(rel); err != nil {
		t.Fatalf("Remove() error = %v", err)
	}
	if _, err := store.Open(rel); errors.Code(err) != errors.ErrCodeNotFound {
		t.Errorf("Open() after remove = %v, want not found", err)
	}

	// Removing twice is not an error.
	if err := store.Remove(rel); err != nil {
		t.Errorf("Remove() second call error = %v", err)
	}
}
