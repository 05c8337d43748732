package identity

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/jrazmi/taskdeck/sdk/environment"
)

// JWTConfig holds the settings for verifying provider-issued session tokens.
type JWTConfig struct {
	SigningKey string `env:"JWT_SIGNING_KEY" required:"true"`
	CookieName string `env:"SESSION_COOKIE" default:"session_token"`
	Issuer     string `env:"JWT_ISSUER"`
}

// JWTResolver verifies HS256 session tokens minted by the identity
// provider and extracts the stable user id from the sub claim. It only
// verifies; token issuance is the provider's business.
type JWTResolver struct {
	signingKey []byte
	cookieName string
	issuer     string
}

// NewJWTResolverFromEnv creates a resolver using environment variables.
func NewJWTResolverFromEnv(prefix string) (*JWTResolver, error) {
	var cfg JWTConfig
	if err := environment.ParseEnvTags(prefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing jwt resolver config: %w", err)
	}
	return NewJWTResolver(cfg), nil
}

// NewJWTResolver creates a resolver with the given config.
func NewJWTResolver(cfg JWTConfig) *JWTResolver {
	return &JWTResolver{
		signingKey: []byte(cfg.SigningKey),
		cookieName: cfg.CookieName,
		issuer:     cfg.Issuer,
	}
}

// ResolveRequest implements Resolver. The bearer header wins over the
// session cookie when both are present.
func (jr *JWTResolver) ResolveRequest(r *http.Request) (Identity, error) {
	token := bearerToken(r)
	if token == "" {
		token = cookieToken(r, jr.cookieName)
	}
	if token == "" {
		return Identity{}, ErrNoSession
	}

	return jr.resolveToken(token)
}

func (jr *JWTResolver) resolveToken(tokenString string) (Identity, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	}
	if jr.issuer != "" {
		opts = append(opts, jwt.WithIssuer(jr.issuer))
	}

	var claims jwt.RegisteredClaims
	token, err := jwt.ParseWithClaims(tokenString, &claims, func(t *jwt.Token) (any, error) {
		return jr.signingKey, nil
	}, opts...)
	if err != nil || !token.Valid {
		return Identity{}, ErrNoSession
	}

	if claims.Subject == "" {
		return Identity{}, ErrNoSession
	}

	return Identity{ID: claims.Subject}, nil
}

func bearerToken(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return ""
	}
	if !strings.HasPrefix(authHeader, "Bearer ") {
		return ""
	}
	return strings.TrimPrefix(authHeader, "Bearer ")
}

func cookieToken(r *http.Request, name string) string {
	if name == "" {
		return ""
	}
	c, err := r.Cookie(name)
	if err != nil {
		return ""
	}
	return c.Value
}
