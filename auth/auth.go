// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"net/http"
	"strings"
)

var (
	ErrInvalidPresenterKey = errors.New("invalid presenter key")
)

// PresenterKeyHeader carries the presenter key on presenter requests
const PresenterKeyHeader = "X-Presenter-Key"

// ValidatePresenterKey checks the provided key against the configured one
// in constant time
func ValidatePresenterKey(provided, expected string) error {
	if provided == "" || expected == "" {
		return ErrInvalidPresenterKey
	}
	if !hmac.Equal([]byte(provided), []byte(expected)) {
		return ErrInvalidPresenterKey
	}
	return nil
}

// ValidatePresenterRequest reads the presenter key header from r
func ValidatePresenterRequest(r *http.Request, expected string) error {
	return ValidatePresenterKey(r.Header.Get(PresenterKeyHeader), expected)
}

// KeyFingerprint returns a short, non-reversible tag for a secret so logs
// can show which key is configured without printing it
func KeyFingerprint(key string) string {
	h := hmac.New(sha256.New, []byte("quickly-pick-live"))
	h.Write([]byte(key))
	sum := h.Sum(nil)
	// URL-safe base64, first 8 bytes, no padding
	return strings.TrimRight(base64.URLEncoding.EncodeToString(sum[:8]), "=")
}
