package credential

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims is the display view of a JWT bearer token.
type Claims struct {
	Subject   string
	Email     string
	Name      string
	Role      string
	Issuer    string
	IssuedAt  time.Time
	ExpiresAt time.Time
	Raw       map[string]any
}

// Expired reports whether the token carries an expiry before now.
func (c Claims) Expired(now time.Time) bool {
	return !c.ExpiresAt.IsZero() && now.After(c.ExpiresAt)
}

// Inspect decodes the claims of a JWT without verifying its signature.
// The result is for display only; the API remains the judge of validity.
func Inspect(token string) (Claims, error) {
	mc := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, mc); err != nil {
		return Claims{}, fmt.Errorf("credential: token is not a JWT: %w", err)
	}

	c := Claims{Raw: map[string]any(mc)}
	c.Subject, _ = mc.GetSubject()
	c.Issuer, _ = mc.GetIssuer()
	if exp, err := mc.GetExpirationTime(); err == nil && exp != nil {
		c.ExpiresAt = exp.Time
	}
	if iat, err := mc.GetIssuedAt(); err == nil && iat != nil {
		c.IssuedAt = iat.Time
	}
	c.Email = stringClaim(mc, "email")
	c.Name = stringClaim(mc, "name")
	c.Role = stringClaim(mc, "role")
	if c.Subject == "" {
		// Fall back to common user id claims.
		c.Subject = firstNonEmpty(stringClaim(mc, "id"), stringClaim(mc, "_id"), stringClaim(mc, "userId"))
	}
	return c, nil
}

func stringClaim(mc jwt.MapClaims, name string) string {
	if v, ok := mc[name].(string); ok {
		return v
	}
	return ""
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
