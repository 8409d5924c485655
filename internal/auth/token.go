package auth

import (
	"errors"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Errors returned by Redeem. Callers map these onto the application
// error taxonomy.
var (
	ErrExpiredToken = errors.New("reset token expired")
	ErrInvalidToken = errors.New("reset token invalid")
)

// ResetTokenMaxAge is how long a password-reset token stays valid.
const ResetTokenMaxAge = time.Hour

// ResetTokenSigner issues and redeems time-limited signed tokens
// carrying a user ID. Tokens are HS256 JWTs with subject and
// issued-at claims; the age check happens at redemption against the
// caller-supplied maximum, so the token itself carries no expiry.
type ResetTokenSigner struct {
	secret []byte
	now    func() time.Time
}

// NewResetTokenSigner creates a signer keyed with the server secret.
func NewResetTokenSigner(secret string) *ResetTokenSigner {
	return &ResetTokenSigner{
		secret: []byte(secret),
		now:    time.Now,
	}
}

// Issue signs a token embedding the user ID and the issue time.
// The result is URL-safe and opaque to clients.
func (s *ResetTokenSigner) Issue(userID uint) (string, error) {
	claims := jwt.MapClaims{
		"sub": strconv.FormatUint(uint64(userID), 10),
		"iat": jwt.NewNumericDate(s.now()),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// Redeem validates the signature and the token's age. It returns
// ErrInvalidToken for malformed or tampered tokens and
// ErrExpiredToken when issue time + maxAge is in the past. A token
// redeemed at exactly maxAge still succeeds.
func (s *ResetTokenSigner) Redeem(token string, maxAge time.Duration) (uint, error) {
	parsed, err := jwt.Parse(token, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return s.secret, nil
	})
	if err != nil || !parsed.Valid {
		return 0, ErrInvalidToken
	}

	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return 0, ErrInvalidToken
	}

	issuedAt, err := claims.GetIssuedAt()
	if err != nil || issuedAt == nil {
		return 0, ErrInvalidToken
	}
	if s.now().Sub(issuedAt.Time) > maxAge {
		return 0, ErrExpiredToken
	}

	sub, err := claims.GetSubject()
	if err != nil || sub == "" {
		return 0, ErrInvalidToken
	}
	userID, err := strconv.ParseUint(sub, 10, 32)
	if err != nil {
		return 0, ErrInvalidToken
	}
	return uint(userID), nil
}
