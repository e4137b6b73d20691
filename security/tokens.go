package security

import (
	"fmt"
	"time"

	"wrenlabs/board-api/model"

	"github.com/golang-jwt/jwt/v5"
	"github.com/spf13/viper"
)

type TokenKind string

const (
	AccessToken  TokenKind = "access"
	RefreshToken TokenKind = "refresh"
)

// Identity is what a verified token resolves to
type Identity struct {
	AccountID string
	Email     string
	Role      model.Role
}

// TokenService signs and verifies the two token kinds. The secrets are
// independent so leaking one never lets anyone forge the other kind
type TokenService struct {
	AccessSecret  []byte
	RefreshSecret []byte
	AccessTTL     time.Duration
	RefreshTTL    time.Duration
}

func NewTokenService() *TokenService {
	return &TokenService{
		AccessSecret:  []byte(viper.GetString("jwt.access_secret")),
		RefreshSecret: []byte(viper.GetString("jwt.refresh_secret")),
		AccessTTL:     time.Duration(viper.GetInt("jwt.access_ttl_min")) * time.Minute,
		RefreshTTL:    time.Duration(viper.GetInt("jwt.refresh_ttl_days")) * 24 * time.Hour,
	}
}

func (s *TokenService) secret(kind TokenKind) []byte {
	if kind == RefreshToken {
		return s.RefreshSecret
	}
	return s.AccessSecret
}

func (s *TokenService) ttl(kind TokenKind) time.Duration {
	if kind == RefreshToken {
		return s.RefreshTTL
	}
	return s.AccessTTL
}

// Issue signs a token of the given kind for the identity
func (s *TokenService) Issue(id Identity, kind TokenKind) (string, error) {
	now := time.Now()

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":   id.AccountID,
		"email": id.Email,
		"role":  string(id.Role),
		"typ":   string(kind),
		"iat":   now.Unix(),
		"exp":   now.Add(s.ttl(kind)).Unix(),
	})

	return t.SignedString(s.secret(kind))
}

// IssuePair signs a fresh access/refresh token pair
func (s *TokenService) IssuePair(id Identity) (access, refresh string, err error) {
	access, err = s.Issue(id, AccessToken)
	if err != nil {
		return "", "", err
	}

	refresh, err = s.Issue(id, RefreshToken)
	if err != nil {
		return "", "", err
	}

	return access, refresh, nil
}

// Verify checks signature, expiry and kind. It never returns an error:
// any malformed, expired or wrongly-signed token simply reports ok=false
// so callers treat invalid tokens as ordinary control flow
func (s *TokenService) Verify(token string, kind TokenKind) (Identity, bool) {
	t, err := jwt.Parse(token, func(t *jwt.Token) (any, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, fmt.Errorf("unexpected signing method: %s", t.Method.Alg())
		}

		return s.secret(kind), nil
	})
	if err != nil || !t.Valid {
		return Identity{}, false
	}

	claims, ok := t.Claims.(jwt.MapClaims)
	if !ok {
		return Identity{}, false
	}

	// A refresh token must never pass as an access token and vice versa,
	// even though both are well-formed JWTs
	if typ, _ := claims["typ"].(string); typ != string(kind) {
		return Identity{}, false
	}

	sub, _ := claims["sub"].(string)
	email, _ := claims["email"].(string)
	role, _ := claims["role"].(string)

	if sub == "" || !model.Role(role).Valid() {
		return Identity{}, false
	}

	return Identity{AccountID: sub, Email: email, Role: model.Role(role)}, true
}
