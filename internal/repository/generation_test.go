package repository

import (
	"errors"
	"testing"
	"time"
)

func TestCursorRoundTrip(t *testing.T) {
	created := time.Date(2025, 6, 1, 12, 30, 0, 0, time.UTC)
	cursor := &PaginationCursor{ID: "01J8ZToriginal", CreatedAt: created}

	encoded := encodeCursor(cursor)
	if encoded == "" {
		t.Fatal("encoded cursor should not be empty")
	}

	decoded, err := decodeCursor(encoded)
	if err != nil {
		t.Fatalf("decodeCursor failed: %v", err)
	}

	if decoded.ID != cursor.ID {
		t.Errorf("ID mismatch: got %q, want %q", decoded.ID, cursor.ID)
	}
	if !decoded.CreatedAt.Equal(cursor.CreatedAt) {
		t.Errorf("CreatedAt mismatch: got %v, want %v", decoded.CreatedAt, cursor.CreatedAt)
	}
}

func TestDecodeCursorInvalid(t *testing.T) {
	tests := []struct {
		name   string
		cursor string
	}{
		{"not_base64", "%%%not-base64%%%"},
		{"not_json", "bm90LWpzb24"}, // base64("not-json")
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			if _, err := decodeCursor(test.cursor); err == nil {
				t.Fatal("expected decode error")
			}
		})
	}
}

func TestInsufficientCreditsError_Message(t *testing.T) {
	err := &InsufficientCreditsError{Required: 2, Available: 1}
	want := "insufficient credits: required 2, available 1"
	if err.Error() != want {
		t.Errorf("got %q, want %q", err.Error(), want)
	}

	var ice *InsufficientCreditsError
	if !errors.As(error(err), &ice) {
		t.Error("errors.As should match *InsufficientCreditsError")
	}
}
