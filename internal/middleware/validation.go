// Package middleware provides HTTP middleware for the Inkwell API.
package middleware

import (
	"errors"
	"regexp"
	"unicode"
)

// Validation limits.
const (
	// MaxModelIDLength is the maximum length for a model identifier.
	MaxModelIDLength = 200

	// MaxStyleLength is the maximum length for a style name.
	MaxStyleLength = 64
)

// Validation errors.
var (
	ErrModelIDTooLong = errors.New("model identifier exceeds maximum length")
	ErrModelIDInvalid = errors.New("model identifier contains invalid characters")
	ErrStyleTooLong   = errors.New("style exceeds maximum length")
	ErrStyleInvalid   = errors.New("style contains invalid characters")
	ErrSizeInvalid    = errors.New("size must be of the form WIDTHxHEIGHT")
	ErrPromptNonASCII = errors.New("prompt contains control characters")
)

// validModelIDPattern matches provider-form model identifiers such as
// "recraft-ai/recraft-v3-svg" or "owner/model:versionhash".
var validModelIDPattern = regexp.MustCompile(`^[a-zA-Z0-9._/:-]+$`)

// validStylePattern matches style names like "vector_illustration".
var validStylePattern = regexp.MustCompile(`^[a-z0-9_]+$`)

// validSizePattern matches pixel dimensions like "1024x1024".
var validSizePattern = regexp.MustCompile(`^\d{2,4}x\d{2,4}$`)

// ValidateModelID validates a client-supplied model identifier.
// Empty is valid (the default model is used).
func ValidateModelID(id string) error {
	if id == "" {
		return nil
	}
	if len(id) > MaxModelIDLength {
		return ErrModelIDTooLong
	}
	if !validModelIDPattern.MatchString(id) {
		return ErrModelIDInvalid
	}
	return nil
}

// ValidateStyle validates a client-supplied style name.
// Empty is valid (the default style is used).
func ValidateStyle(style string) error {
	if style == "" {
		return nil
	}
	if len(style) > MaxStyleLength {
		return ErrStyleTooLong
	}
	if !validStylePattern.MatchString(style) {
		return ErrStyleInvalid
	}
	return nil
}

// ValidateSize validates a client-supplied output size.
// Empty is valid (the default size is used).
func ValidateSize(size string) error {
	if size == "" {
		return nil
	}
	if !validSizePattern.MatchString(size) {
		return ErrSizeInvalid
	}
	return nil
}

// ValidatePromptText rejects prompts carrying control characters other
// than whitespace. Length limits are enforced by the service.
func ValidatePromptText(prompt string) error {
	for _, r := range prompt {
		if unicode.IsControl(r) && !unicode.IsSpace(r) {
			return ErrPromptNonASCII
		}
	}
	return nil
}
