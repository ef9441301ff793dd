// Trafficdb - Road Link Traffic Observation API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/trafficdb

// Package idcodec converts link UUIDs to and from the short URL-safe tokens
// used in every public URL and JSON body.
//
// A token is the unpadded base64url encoding of the 16 raw UUID bytes and is
// always TokenLength characters long. Tokens do not sort in byte order, so
// anything ordered by identifier must decode first and compare UUIDs.
package idcodec

import (
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// TokenLength is the length of every encoded identifier.
const TokenLength = 22

// ErrInvalidToken is returned for any string that is not a valid token.
var ErrInvalidToken = errors.New("invalid identifier token")

// Encode returns the token for id.
func Encode(id uuid.UUID) string {
	return base64.RawURLEncoding.EncodeToString(id[:])
}

// Decode parses a token back into a UUID.
//
// Trailing bits of the final character are not required to be zero, so
// every 22-character string over the base64url alphabet decodes.
func Decode(token string) (uuid.UUID, error) {
	if len(token) != TokenLength {
		return uuid.Nil, fmt.Errorf("%w: length %d", ErrInvalidToken, len(token))
	}

	padded := token + strings.Repeat("=", (4-len(token)%4)%4)
	raw, err := base64.URLEncoding.DecodeString(padded)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	id, err := uuid.FromBytes(raw)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	return id, nil
}

// MustDecode is like Decode but panics on error. Intended for tests and
// constants.
func MustDecode(token string) uuid.UUID {
	id, err := Decode(token)
	if err != nil {
		panic(err)
	}
	return id
}
