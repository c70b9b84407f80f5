// Copyright (c) 2026 YaMDb. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"
)

// # Confirmation Codes

// CodeSource produces one-time confirmation codes.
//
// The identity flow depends on this interface so tests can supply a fixed code.
type CodeSource interface {
	NewCode() (string, error)
}

// RandomCodeSource draws numeric codes of a fixed length from crypto/rand.
type RandomCodeSource struct {
	Length int
}

// NewRandomCodeSource returns a [RandomCodeSource] producing codes of the given length.
func NewRandomCodeSource(length int) *RandomCodeSource {
	return &RandomCodeSource{Length: length}
}

// NewCode returns a zero-padded decimal code.
func (source *RandomCodeSource) NewCode() (string, error) {
	if source.Length <= 0 {
		return "", fmt.Errorf("sec: invalid code length %d", source.Length)
	}

	var builder strings.Builder
	builder.Grow(source.Length)

	ten := big.NewInt(10)
	for range source.Length {
		digit, err := rand.Int(rand.Reader, ten)
		if err != nil {
			return "", fmt.Errorf("sec: failed to read random digit: %w", err)
		}
		builder.WriteByte(byte('0' + digit.Int64()))
	}

	return builder.String(), nil
}

// StaticCodeSource always returns the same code.
type StaticCodeSource string

// NewCode implements [CodeSource].
func (source StaticCodeSource) NewCode() (string, error) {
	return string(source), nil
}
