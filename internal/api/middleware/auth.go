package middleware

import (
	"crypto/rsa"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	"github.com/votehub/voting-api/internal/core/domain"
)

// Context keys set by Auth.
const (
	ContextSubject = "sub"
	ContextName    = "name"
	ContextEmail   = "email"
)

// AuthConfig describes the accepted tokens.
type AuthConfig struct {
	Issuer    string
	Audience  string
	Algorithm string // RS256 or HS256
	PublicKey string // PEM, RS256 only
	Secret    string // HS256 only
}

// Verifier validates bearer tokens issued by the identity provider.
type Verifier struct {
	parser   *jwt.Parser
	key      any
	audience string
}

func NewVerifier(cfg AuthConfig) (*Verifier, error) {
	alg := strings.ToUpper(cfg.Algorithm)
	var key any
	switch alg {
	case jwt.SigningMethodRS256.Alg():
		pub, err := parsePublicKey(cfg.PublicKey)
		if err != nil {
			return nil, err
		}
		key = pub
	case jwt.SigningMethodHS256.Alg():
		if cfg.Secret == "" {
			return nil, errors.New("auth: HS256 requires a secret")
		}
		key = []byte(cfg.Secret)
	default:
		return nil, fmt.Errorf("auth: unsupported algorithm %q", cfg.Algorithm)
	}

	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{alg}),
		jwt.WithExpirationRequired(),
	}
	if cfg.Audience != "" {
		opts = append(opts, jwt.WithAudience(cfg.Audience))
	}
	if cfg.Issuer != "" {
		opts = append(opts, jwt.WithIssuer(cfg.Issuer))
	}

	return &Verifier{
		parser:   jwt.NewParser(opts...),
		key:      key,
		audience: strings.TrimSuffix(cfg.Audience, "/"),
	}, nil
}

// PEM blocks passed through env files often carry literal "\n" sequences.
func parsePublicKey(pem string) (*rsa.PublicKey, error) {
	if pem == "" {
		return nil, errors.New("auth: RS256 requires a public key")
	}
	pem = strings.ReplaceAll(pem, `\n`, "\n")
	pub, err := jwt.ParseRSAPublicKeyFromPEM([]byte(pem))
	if err != nil {
		return nil, fmt.Errorf("auth: parse public key: %w", err)
	}
	return pub, nil
}

// Verify parses raw and returns the identity it carries.
func (v *Verifier) Verify(raw string) (domain.Identity, error) {
	claims := jwt.MapClaims{}
	tkn, err := v.parser.ParseWithClaims(raw, claims, func(*jwt.Token) (interface{}, error) {
		return v.key, nil
	})
	if err != nil || !tkn.Valid {
		return domain.Identity{}, fmt.Errorf("%w: invalid token", domain.ErrUnauthorized)
	}

	sub, _ := claims.GetSubject()
	if sub == "" {
		return domain.Identity{}, fmt.Errorf("%w: token has no subject", domain.ErrUnauthorized)
	}
	return domain.Identity{
		Subject: sub,
		Name:    v.claim(claims, "name"),
		Email:   v.claim(claims, "email"),
	}, nil
}

// claim reads a plain claim, falling back to the audience-namespaced form
// ("<audience>/email") that custom identity provider rules emit.
func (v *Verifier) claim(claims jwt.MapClaims, name string) string {
	if s, ok := claims[name].(string); ok && s != "" {
		return s
	}
	if v.audience != "" {
		if s, ok := claims[v.audience+"/"+name].(string); ok {
			return s
		}
	}
	return ""
}

// Auth validates the bearer token and injects the identity into context.
func Auth(v *Verifier) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing authorization header")
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid authorization header")
			}

			id, err := v.Verify(strings.TrimSpace(parts[1]))
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
			}

			c.Set(ContextSubject, id.Subject)
			c.Set(ContextName, id.Name)
			c.Set(ContextEmail, id.Email)

			return next(c)
		}
	}
}
