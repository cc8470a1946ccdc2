package helpers

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var ErrInvalidToken = errors.New("invalid token")

// JWTManager handles generation and validation of session tokens.
// Tokens are signed with SigningSecret; VerifySecrets may additionally
// contain retired secrets that remain valid for verification, so a
// secret rotation does not invalidate outstanding tokens at once.
type JWTManager struct {
	SigningSecret []byte
	VerifySecrets [][]byte
	TTL           time.Duration
}

// Claims carries the authenticated subject. The claim key is "id",
// which existing clients depend on.
type Claims struct {
	UserID string `json:"id"`
	jwt.RegisteredClaims
}

func NewJWTManager(secrets []string, ttl time.Duration) *JWTManager {
	m := &JWTManager{TTL: ttl}
	for i, s := range secrets {
		b := []byte(s)
		if i == 0 {
			m.SigningSecret = b
		}
		m.VerifySecrets = append(m.VerifySecrets, b)
	}
	return m
}

// Issue signs a token for the given user id with an issued-at claim and
// an expiry of now+TTL.
func (m *JWTManager) Issue(userID string) (string, time.Time, error) {
	now := time.Now()
	exp := now.Add(m.TTL)
	claims := &Claims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	s, err := t.SignedString(m.SigningSecret)
	return s, exp, err
}

// Parse validates the token signature, structure, and expiry and returns
// the embedded claims. Each verification secret is tried in order.
func (m *JWTManager) Parse(tokenStr string) (*Claims, error) {
	var lastErr error = ErrInvalidToken
	for _, secret := range m.VerifySecrets {
		claims, err := parseToken(tokenStr, secret)
		if err == nil {
			return claims, nil
		}
		lastErr = err
		if !errors.Is(err, jwt.ErrTokenSignatureInvalid) {
			// Only a signature mismatch is worth retrying with an
			// older secret; malformed or expired tokens are final.
			break
		}
	}
	return nil, lastErr
}

func parseToken(tokenStr string, secret []byte) (*Claims, error) {
	claims := &Claims{}
	tkn, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return secret, nil
	})
	if err != nil {
		return nil, err
	}
	if !tkn.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
