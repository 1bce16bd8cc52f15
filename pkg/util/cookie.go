package util

import (
	"time"

	"github.com/gorilla/securecookie"
)

// CookieCodec signs and timestamps cookie values. Values older than the
// configured max age fail to decode.
type CookieCodec struct {
	sc *securecookie.SecureCookie
}

func NewCookieCodec(secret string, maxAge time.Duration) *CookieCodec {
	sc := securecookie.New([]byte(secret), nil)
	sc.MaxAge(int(maxAge.Seconds()))
	sc.SetSerializer(securecookie.JSONEncoder{})
	return &CookieCodec{sc: sc}
}

// Encode signs value for the cookie called name
func (c *CookieCodec) Encode(name, value string) (string, error) {
	return c.sc.Encode(name, value)
}

// Decode verifies encoded against name and returns the original value
func (c *CookieCodec) Decode(name, encoded string) (string, error) {
	var value string
	if err := c.sc.Decode(name, encoded, &value); err != nil {
		return "", err
	}
	return value, nil
}
