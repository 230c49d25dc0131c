package utils

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/MicahParks/keyfunc/v2"
	"github.com/golang-jwt/jwt/v5"
)

type Claims struct {
	UserID string
	Role   string
}

// TokenConfig selects how bearer tokens are verified. With Auth0Domain set,
// RS256 tokens are checked against the tenant JWKS; otherwise HS256 tokens
// signed with Secret are accepted.
type TokenConfig struct {
	Auth0Domain    string
	Auth0Audience  string
	Auth0Namespace string
	Secret         string
}

var (
	mu       sync.RWMutex
	jwks     *keyfunc.JWKS
	tokenCfg TokenConfig
)

func InitTokens(cfg TokenConfig) error {
	mu.Lock()
	defer mu.Unlock()

	tokenCfg = cfg
	if cfg.Auth0Domain == "" {
		jwks = nil
		return nil
	}

	jwksURL := fmt.Sprintf("https://%s/.well-known/jwks.json", cfg.Auth0Domain)
	set, err := keyfunc.Get(jwksURL, keyfunc.Options{
		RefreshInterval:   time.Hour,
		RefreshUnknownKID: true,
	})
	if err != nil {
		return fmt.Errorf("load jwks: %w", err)
	}
	jwks = set
	return nil
}

func ValidateToken(tokenString string) (*Claims, error) {
	mu.RLock()
	cfg, set := tokenCfg, jwks
	mu.RUnlock()

	var (
		token *jwt.Token
		err   error
	)
	switch {
	case set != nil:
		token, err = jwt.Parse(tokenString, set.Keyfunc,
			jwt.WithAudience(cfg.Auth0Audience),
			jwt.WithIssuer(fmt.Sprintf("https://%s/", cfg.Auth0Domain)),
			jwt.WithValidMethods([]string{"RS256"}),
		)
	case cfg.Secret != "":
		token, err = jwt.Parse(tokenString, func(*jwt.Token) (interface{}, error) {
			return []byte(cfg.Secret), nil
		}, jwt.WithValidMethods([]string{"HS256"}))
	default:
		return nil, errors.New("token verification not initialized")
	}
	if err != nil || !token.Valid {
		return nil, errors.New("invalid token")
	}

	mapClaims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, errors.New("invalid claims")
	}

	sub, _ := mapClaims["sub"].(string)
	role, _ := mapClaims[cfg.Auth0Namespace+"/role"].(string)
	if role == "" {
		role, _ = mapClaims["role"].(string)
	}
	if sub == "" {
		return nil, errors.New("token has no subject")
	}

	return &Claims{UserID: sub, Role: role}, nil
}

// SignToken issues an HS256 token for the configured secret. It is used by
// local tooling and tests; production tokens come from Auth0.
func SignToken(userID, role string, ttl time.Duration) (string, error) {
	mu.RLock()
	secret := tokenCfg.Secret
	mu.RUnlock()
	if secret == "" {
		return "", errors.New("JWT secret not configured")
	}

	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  userID,
		"role": role,
		"iat":  now.Unix(),
		"exp":  now.Add(ttl).Unix(),
	})
	return token.SignedString([]byte(secret))
}
