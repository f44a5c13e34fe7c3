// Package token decodes bearer token claims without verifying the
// signature. Verification is the backend's job; the client only needs
// the payload to derive its local session.
package token

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/Leorodrigs/deathstore-storefront/internal/domain"
)

// ErrMalformed reports a token whose structure cannot be decoded.
var ErrMalformed = errors.New("malformed token")

// Decode parses the middle segment of a three-part dot-delimited token
// as base64url-encoded JSON. Any structural deviation (wrong segment
// count, invalid base64, invalid JSON) returns an error wrapping
// ErrMalformed; Decode never panics on hostile input.
func Decode(raw string) (domain.Claims, error) {
	parts := strings.Split(raw, ".")
	if len(parts) != 3 {
		return domain.Claims{}, fmt.Errorf("%w: expected 3 segments, got %d", ErrMalformed, len(parts))
	}

	// Tolerate both padded and unpadded base64url payloads.
	payload, err := base64.RawURLEncoding.DecodeString(strings.TrimRight(parts[1], "="))
	if err != nil {
		return domain.Claims{}, fmt.Errorf("%w: claims segment is not base64url: %v", ErrMalformed, err)
	}

	var claims domain.Claims
	if err := json.Unmarshal(payload, &claims); err != nil {
		return domain.Claims{}, fmt.Errorf("%w: claims segment is not JSON: %v", ErrMalformed, err)
	}
	return claims, nil
}
