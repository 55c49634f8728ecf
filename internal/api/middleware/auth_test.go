package middleware

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

const (
	testAudience = "https://voting.example.com"
	testIssuer   = "https://tenant.example.auth0.com/"
	testSecret   = "secret"
)

func hsVerifier(t *testing.T) *Verifier {
	t.Helper()
	v, err := NewVerifier(AuthConfig{
		Issuer:    testIssuer,
		Audience:  testAudience,
		Algorithm: "HS256",
		Secret:    testSecret,
	})
	if err != nil {
		t.Fatalf("new verifier: %v", err)
	}
	return v
}

func validClaims() jwt.MapClaims {
	return jwt.MapClaims{
		"sub":   "auth0|alice",
		"iss":   testIssuer,
		"aud":   testAudience,
		"exp":   time.Now().Add(time.Hour).Unix(),
		"name":  "Alice",
		"email": "alice@example.com",
	}
}

func signHS(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return signed
}

func runAuth(t *testing.T, v *Verifier, header string, next echo.HandlerFunc) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := Auth(v)(next)(c); err != nil {
		e.HTTPErrorHandler(err, c)
	}
	return rec
}

func mustNotReach(t *testing.T) echo.HandlerFunc {
	return func(c echo.Context) error {
		t.Fatalf("should not reach next")
		return nil
	}
}

func TestAuthMiddleware_ValidToken(t *testing.T) {
	called := false
	rec := runAuth(t, hsVerifier(t), "Bearer "+signHS(t, validClaims()), func(c echo.Context) error {
		called = true
		if c.Get(ContextSubject) != "auth0|alice" {
			t.Fatalf("subject not set: %v", c.Get(ContextSubject))
		}
		if c.Get(ContextName) != "Alice" {
			t.Fatalf("name not set: %v", c.Get(ContextName))
		}
		if c.Get(ContextEmail) != "alice@example.com" {
			t.Fatalf("email not set: %v", c.Get(ContextEmail))
		}
		return c.NoContent(http.StatusOK)
	})

	if !called {
		t.Fatalf("next not called")
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestAuthMiddleware_NamespacedClaims(t *testing.T) {
	claims := validClaims()
	delete(claims, "name")
	delete(claims, "email")
	claims[testAudience+"/name"] = "Bob"
	claims[testAudience+"/email"] = "bob@example.com"

	rec := runAuth(t, hsVerifier(t), "Bearer "+signHS(t, claims), func(c echo.Context) error {
		if c.Get(ContextName) != "Bob" || c.Get(ContextEmail) != "bob@example.com" {
			t.Fatalf("namespaced claims not read: %v %v", c.Get(ContextName), c.Get(ContextEmail))
		}
		return c.NoContent(http.StatusOK)
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestAuthMiddleware_MissingHeader(t *testing.T) {
	rec := runAuth(t, hsVerifier(t), "", mustNotReach(t))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestAuthMiddleware_InvalidHeaderFormat(t *testing.T) {
	rec := runAuth(t, hsVerifier(t), "Token abc", mustNotReach(t))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestAuthMiddleware_InvalidToken(t *testing.T) {
	rec := runAuth(t, hsVerifier(t), "Bearer not-a-token", mustNotReach(t))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestAuthMiddleware_RejectsBadClaims(t *testing.T) {
	cases := map[string]func(jwt.MapClaims){
		"expired":        func(c jwt.MapClaims) { c["exp"] = time.Now().Add(-time.Minute).Unix() },
		"no expiry":      func(c jwt.MapClaims) { delete(c, "exp") },
		"wrong audience": func(c jwt.MapClaims) { c["aud"] = "https://other.example.com" },
		"wrong issuer":   func(c jwt.MapClaims) { c["iss"] = "https://evil.example.com/" },
		"no subject":     func(c jwt.MapClaims) { delete(c, "sub") },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			claims := validClaims()
			mutate(claims)
			rec := runAuth(t, hsVerifier(t), "Bearer "+signHS(t, claims), mustNotReach(t))
			if rec.Code != http.StatusUnauthorized {
				t.Fatalf("expected 401, got %d", rec.Code)
			}
		})
	}
}

func TestVerifier_RS256(t *testing.T) {
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatalf("generate key: %v", err)
	}
	der, err := x509.MarshalPKIXPublicKey(&key.PublicKey)
	if err != nil {
		t.Fatalf("marshal key: %v", err)
	}
	pubPEM := pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: der})

	v, err := NewVerifier(AuthConfig{
		Issuer:    testIssuer,
		Audience:  testAudience,
		Algorithm: "RS256",
		PublicKey: string(pubPEM),
	})
	if err != nil {
		t.Fatalf("new verifier: %v", err)
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodRS256, validClaims()).SignedString(key)
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	id, err := v.Verify(signed)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if id.Subject != "auth0|alice" || id.Email != "alice@example.com" {
		t.Fatalf("unexpected identity: %+v", id)
	}

	// An HS256 token must not pass an RS256 verifier.
	if _, err := v.Verify(signHS(t, validClaims())); err == nil {
		t.Fatal("expected algorithm mismatch to be rejected")
	}
}

func TestNewVerifier_Misconfigured(t *testing.T) {
	if _, err := NewVerifier(AuthConfig{Algorithm: "RS256"}); err == nil {
		t.Fatal("expected error for missing public key")
	}
	if _, err := NewVerifier(AuthConfig{Algorithm: "HS256"}); err == nil {
		t.Fatal("expected error for missing secret")
	}
	if _, err := NewVerifier(AuthConfig{Algorithm: "none", Secret: "x"}); err == nil {
		t.Fatal("expected error for unsupported algorithm")
	}
}
