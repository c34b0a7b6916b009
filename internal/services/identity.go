package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/yungbote/courseware-backend/internal/platform/ctxutil"
	"github.com/yungbote/courseware-backend/internal/platform/logger"
)

var ErrInvalidToken = errors.New("invalid token")

// TokenVerifier turns a bearer token into the caller identity. Tokens are issued by
// the auth provider; this service only verifies them.
type TokenVerifier interface {
	Verify(ctx context.Context, raw string) (*ctxutil.Identity, error)
}

type IdentityConfig struct {
	Secret   string
	Issuer   string
	Audience string
	Leeway   time.Duration
}

type jwtVerifier struct {
	log    *logger.Logger
	secret []byte
	parser *jwt.Parser
}

func NewTokenVerifier(log *logger.Logger, cfg IdentityConfig) (TokenVerifier, error) {
	secret := strings.TrimSpace(cfg.Secret)
	if secret == "" {
		return nil, fmt.Errorf("auth jwt secret is required")
	}
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithLeeway(cfg.Leeway),
	}
	if iss := strings.TrimSpace(cfg.Issuer); iss != "" {
		opts = append(opts, jwt.WithIssuer(iss))
	}
	if aud := strings.TrimSpace(cfg.Audience); aud != "" {
		opts = append(opts, jwt.WithAudience(aud))
	}
	return &jwtVerifier{
		log:    log.With("service", "TokenVerifier"),
		secret: []byte(secret),
		parser: jwt.NewParser(opts...),
	}, nil
}

func (v *jwtVerifier) Verify(ctx context.Context, raw string) (*ctxutil.Identity, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, ErrInvalidToken
	}
	claims := &jwt.RegisteredClaims{}
	tok, err := v.parser.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
		return v.secret, nil
	})
	if err != nil || !tok.Valid {
		v.log.Debug("token rejected", "error", err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	sub := strings.TrimSpace(claims.Subject)
	if sub == "" {
		return nil, fmt.Errorf("%w: missing subject", ErrInvalidToken)
	}
	return &ctxutil.Identity{UserID: sub, Token: raw}, nil
}
