// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package auth

import (
	"net/http/httptest"
	"strings"
	"testing"
)

func TestValidatePresenterKey(t *testing.T) {
	tests := []struct {
		name     string
		provided string
		expected string
		wantErr  bool
	}{
		{"matching key", "secret", "secret", false},
		{"wrong key", "guess", "secret", true},
		{"empty provided", "", "secret", true},
		{"empty configured", "secret", "", true},
		{"both empty", "", "", true},
		{"prefix only", "sec", "secret", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePresenterKey(tt.provided, tt.expected)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidatePresenterKey() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && err != ErrInvalidPresenterKey {
				t.Errorf("ValidatePresenterKey() error = %v, want ErrInvalidPresenterKey", err)
			}
		})
	}
}

func TestValidatePresenterRequest(t *testing.T) {
	req := httptest.NewRequest("POST", "/presenter/activate", nil)
	if err := ValidatePresenterRequest(req, "secret"); err == nil {
		t.Error("expected error without header")
	}

	req.Header.Set(PresenterKeyHeader, "secret")
	if err := ValidatePresenterRequest(req, "secret"); err != nil {
		t.Errorf("expected valid request, got %v", err)
	}
}

func TestKeyFingerprint(t *testing.T) {
	a := KeyFingerprint("secret-one")
	b := KeyFingerprint("secret-two")

	if a == b {
		t.Error("different keys should have different fingerprints")
	}
	if a != KeyFingerprint("secret-one") {
		t.Error("fingerprint should be deterministic")
	}
	if strings.Contains(a, "secret") {
		t.Error("fingerprint must not contain the key")
	}
	// 8 bytes -> 11 base64 chars without padding
	if len(a) != 11 {
		t.Errorf("expected 11 chars, got %d (%s)", len(a), a)
	}
	if strings.ContainsAny(a, "+/=") {
		t.Errorf("fingerprint should be URL-safe, got %s", a)
	}
}
