package repositories

import (
	"net/url"
	"sort"
	"testing"

	"github.com/trymedating/trymed/internal/models"
)

func TestListAttachmentPaths(t *testing.T) {
	repo := NewMessageRepository(newTestDB(t))

	seed := []models.Message{
		// sent attachment
		{ConnectionID: 1, SenderID: 1, RecipientID: 2,
			Kind: models.MessageKindAttachment, FileName: "a.png", FilePath: "chat/1/a.png"},
		// received attachment
		{ConnectionID: 1, SenderID: 2, RecipientID: 1,
			Kind: models.MessageKindAttachment, FileName: "b.png", FilePath: "chat/1/b.png"},
		// received legacy sentinel row
		{ConnectionID: 1, SenderID: 2, RecipientID: 1, Kind: models.MessageKindText,
			Body: "[[file:" + url.QueryEscape(`{"name":"c.png","path":"chat/1/c.png"}`) + "]]"},
		// plain text, no attachment
		{ConnectionID: 1, SenderID: 1, RecipientID: 2, Kind: models.MessageKindText, Body: "hello"},
		// attachment on an unrelated pair
		{ConnectionID: 9, SenderID: 3, RecipientID: 4,
			Kind: models.MessageKindAttachment, FileName: "z.png", FilePath: "chat/9/z.png"},
	}
	for i := range seed {
		if err := repo.Create(&seed[i]); err != nil {
			t.Fatalf("seed message %d: %v", i, err)
		}
	}

	got, err := repo.ListAttachmentPaths(1)
	if err != nil {
		t.Fatalf("ListAttachmentPaths() error = %v", err)
	}
	sort.Strings(got)

	want := []string{"chat/1/a.png", "chat/1/b.png", "chat/1/c.png"}
	if len(got) != len(want) {
		t.Fatalf("paths = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("paths[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestMarkReadAndCountUnread(t *testing.T) {
	repo := NewMessageRepository(newTestDB(t))

	for i := 0; i < 3; i++ {
		msg := models.Message{ConnectionID: 1, SenderID: 2, RecipientID: 1,
			Kind: models.MessageKindText, Body: "hi"}
		if err := repo.Create(&msg); err != nil {
			t.Fatalf("seed message: %v", err)
		}
	}
	other := models.Message{ConnectionID: 5, SenderID: 3, RecipientID: 1,
		Kind: models.MessageKindText, Body: "other connection"}
	if err := repo.Create(&other); err != nil {
		t.Fatalf("seed message: %v", err)
	}

	count, err := repo.CountUnread(1)
	if err != nil {
		t.Fatalf("CountUnread() error = %v", err)
	}
	if count != 4 {
		t.Errorf("unread = %d, want 4", count)
	}

	affected, err := repo.MarkRead(1, 1)
	if err != nil {
		t.Fatalf("MarkRead() error = %v", err)
	}
	if affected != 3 {
		t.Errorf("affected = %d, want 3", affected)
	}

	count, err = repo.CountUnread(1)
	if err != nil {
		t.Fatalf("CountUnread() error = %v", err)
	}
	if count != 1 {
		t.Errorf("unread after mark = %d, want 1 (other connection untouched)", count)
	}

	// Second pass is a no-op.
	affected, err = repo.MarkRead(1, 1)
	if err != nil {
		t.Fatalf("MarkRead() error = %v", err)
	}
	if affected != 0 {
		t.Errorf("second MarkRead affected = %d, want 0", affected)
	}
}
