// Package cursor encodes opaque keyset pagination tokens for dungeon listings.
package cursor

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// Cursor points just past the last record of a page. Listings are ordered
// newest first, ties broken by ascending id.
type Cursor struct {
	// CreatedAt is the last record's creation time in Unix milliseconds.
	CreatedAt int64 `json:"created_at"`
	// ID is the last record's id.
	ID string `json:"id"`
}

// Encode encodes a cursor to an opaque URL-safe string.
func Encode(c Cursor) (string, error) {
	if strings.TrimSpace(c.ID) == "" {
		return "", errors.New("cursor id is required")
	}
	data, err := json.Marshal(c)
	if err != nil {
		return "", fmt.Errorf("marshal cursor: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(data), nil
}

// Decode decodes a token produced by Encode.
func Decode(token string) (Cursor, error) {
	if token == "" {
		return Cursor{}, errors.New("empty token")
	}
	data, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		return Cursor{}, fmt.Errorf("decode base64: %w", err)
	}
	var c Cursor
	if err := json.Unmarshal(data, &c); err != nil {
		return Cursor{}, fmt.Errorf("unmarshal cursor: %w", err)
	}
	if strings.TrimSpace(c.ID) == "" {
		return Cursor{}, errors.New("cursor id is required")
	}
	return c, nil
}
