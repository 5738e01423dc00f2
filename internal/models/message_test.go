package models

import (
	"net/url"
	"testing"
)

func TestDecodeLegacyAttachment(t *testing.T) {
	encoded := url.QueryEscape(`{"name":"pic.png","type":"image/png","size":2048,"path":"chat/5/pic.png"}`)

	tests := []struct {
		name     string
		body     string
		wantOK   bool
		wantPath string
	}{
		{
			name:     "Canonical file sentinel",
			body:     "[[file:" + encoded + "]]",
			wantOK:   true,
			wantPath: "chat/5/pic.png",
		},
		{
			name:     "Legacy media sentinel",
			body:     "[[media:" + encoded + "]]",
			wantOK:   true,
			wantPath: "chat/5/pic.png",
		},
		{
			name:   "Plain text",
			body:   "hello there",
			wantOK: false,
		},
		{
			name:   "Unterminated sentinel",
			body:   "[[file:" + encoded,
			wantOK: false,
		},
		{
			name:   "Garbage payload",
			body:   "[[file:%%%not-json]]",
			wantOK: false,
		},
		{
			name:   "Empty meta",
			body:   "[[file:" + url.QueryEscape(`{}`) + "]]",
			wantOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			meta, ok := DecodeLegacyAttachment(tt.body)
			if ok != tt.wantOK {
				t.Fatalf("ok = %v, want %v", ok, tt.wantOK)
			}
			if !ok {
				return
			}
			if meta.Path != tt.wantPath {
				t.Errorf("Path = %q, want %q", meta.Path, tt.wantPath)
			}
			if meta.Name != "pic.png" {
				t.Errorf("Name = %q, want pic.png", meta.Name)
			}
			if meta.Size != 2048 {
				t.Errorf("Size = %d, want 2048", meta.Size)
			}
		})
	}
}
