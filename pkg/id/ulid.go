// Package id generates request identifiers.
package id

import (
	"crypto/rand"
	"encoding/binary"
	"errors"
	"strings"
	"time"
)

// Crockford's Base32 alphabet (excludes I, L, O, U to avoid confusion).
const crockfordBase32 = "0123456789ABCDEFGHJKMNPQRSTVWXYZ"

// ULIDLength is the length of an encoded ULID.
const ULIDLength = 26

// ErrInvalidULID is returned by ULIDTime for malformed input.
var ErrInvalidULID = errors.New("id: invalid ULID")

// NewULID generates a ULID: 48 bits of Unix milliseconds followed by 80
// random bits, encoded as 26 Crockford Base32 characters. IDs sort
// lexicographically by creation time.
func NewULID() string {
	ms := uint64(time.Now().UnixMilli())

	var raw [16]byte
	binary.BigEndian.PutUint16(raw[0:2], uint16(ms>>32))
	binary.BigEndian.PutUint32(raw[2:6], uint32(ms))
	if _, err := rand.Read(raw[6:]); err != nil {
		// Degraded entropy beats no ID.
		binary.BigEndian.PutUint64(raw[6:14], uint64(time.Now().UnixNano()))
	}
	return encode(raw)
}

// encode writes the 128-bit value as 26 base32 digits, most significant
// first. The leading digit carries only the top 3 bits.
func encode(raw [16]byte) string {
	hi := binary.BigEndian.Uint64(raw[0:8])
	lo := binary.BigEndian.Uint64(raw[8:16])

	var out [ULIDLength]byte
	for i := ULIDLength - 1; i >= 0; i-- {
		out[i] = crockfordBase32[lo&0x1F]
		lo = lo>>5 | hi<<59
		hi >>= 5
	}
	return string(out[:])
}

// ULIDTime returns the creation time encoded in the first ten characters of s.
func ULIDTime(s string) (time.Time, error) {
	if len(s) != ULIDLength || s[0] > '7' {
		return time.Time{}, ErrInvalidULID
	}
	var ms uint64
	for i := range 10 {
		v := strings.IndexByte(crockfordBase32, s[i])
		if v < 0 {
			return time.Time{}, ErrInvalidULID
		}
		ms = ms<<5 | uint64(v)
	}
	return time.UnixMilli(int64(ms)), nil
}
