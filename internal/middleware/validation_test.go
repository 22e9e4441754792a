package middleware

import (
	"errors"
	"strings"
	"testing"
)

func TestValidateModelID(t *testing.T) {
	valid := []string{
		"",
		"recraft-v3-svg",
		"recraft-ai/recraft-v3-svg",
		"owner/model:3ad5612c",
		"stability.ai/sdxl_1.0",
	}
	for _, id := range valid {
		if err := ValidateModelID(id); err != nil {
			t.Errorf("ValidateModelID(%q) = %v, want nil", id, err)
		}
	}

	if err := ValidateModelID(strings.Repeat("a", MaxModelIDLength+1)); !errors.Is(err, ErrModelIDTooLong) {
		t.Errorf("expected ErrModelIDTooLong, got %v", err)
	}

	invalid := []string{"model with spaces", "model\n", "model;drop", "модель"}
	for _, id := range invalid {
		if err := ValidateModelID(id); !errors.Is(err, ErrModelIDInvalid) {
			t.Errorf("ValidateModelID(%q) = %v, want ErrModelIDInvalid", id, err)
		}
	}
}

func TestValidateStyle(t *testing.T) {
	for _, style := range []string{"", "vector_illustration", "line_art", "icon"} {
		if err := ValidateStyle(style); err != nil {
			t.Errorf("ValidateStyle(%q) = %v, want nil", style, err)
		}
	}
	for _, style := range []string{"Vector", "with space", "style!"} {
		if err := ValidateStyle(style); !errors.Is(err, ErrStyleInvalid) {
			t.Errorf("ValidateStyle(%q) = %v, want ErrStyleInvalid", style, err)
		}
	}
	if err := ValidateStyle(strings.Repeat("a", MaxStyleLength+1)); !errors.Is(err, ErrStyleTooLong) {
		t.Errorf("expected ErrStyleTooLong, got %v", err)
	}
}

func TestValidateSize(t *testing.T) {
	for _, size := range []string{"", "1024x1024", "512x512", "1792x1024"} {
		if err := ValidateSize(size); err != nil {
			t.Errorf("ValidateSize(%q) = %v, want nil", size, err)
		}
	}
	for _, size := range []string{"1024", "big", "1024X1024", "1024x1024x3", "0x"} {
		if err := ValidateSize(size); !errors.Is(err, ErrSizeInvalid) {
			t.Errorf("ValidateSize(%q) = %v, want ErrSizeInvalid", size, err)
		}
	}
}

func TestValidatePromptText(t *testing.T) {
	if err := ValidatePromptText("a fox reading\na book\twith care"); err != nil {
		t.Errorf("whitespace should be allowed: %v", err)
	}
	if err := ValidatePromptText("sneaky\x00prompt"); !errors.Is(err, ErrPromptNonASCII) {
		t.Errorf("expected ErrPromptNonASCII, got %v", err)
	}
}
