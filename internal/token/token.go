package token

import (
	"github.com/google/uuid"
	"github.com/gorilla/securecookie"

	"github.com/example/tablebook/internal/internaltypes"
)

const tokenName = "booking"

// Codec seals booking IDs into opaque manage tokens. A guest holding the
// token can edit or cancel their booking without any account; tampering or
// guessing fails the HMAC check and reads as not-found.
type Codec struct {
	sc *securecookie.SecureCookie
}

// NewCodec takes a 32-byte hash key and a 16/24/32-byte block key.
func NewCodec(hashKey, blockKey []byte) *Codec {
	sc := securecookie.New(hashKey, blockKey)
	// Tokens stay valid for the life of the booking; status governs validity.
	sc.MaxAge(0)
	return &Codec{sc: sc}
}

// Issue seals a booking ID into a token.
func (c *Codec) Issue(bookingID uuid.UUID) (string, error) {
	return c.sc.Encode(tokenName, bookingID.String())
}

// Decode unseals a token back to the booking ID. Any invalid token maps to
// ErrNotFound: callers cannot distinguish a forged token from a missing booking.
func (c *Codec) Decode(token string) (uuid.UUID, error) {
	var raw string
	if err := c.sc.Decode(tokenName, token, &raw); err != nil {
		return uuid.Nil, internaltypes.ErrNotFound
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, internaltypes.ErrNotFound
	}
	return id, nil
}
