package auth

import (
	"errors"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
)

// Sentinel errors distinguishing token verification failures.
var (
	ErrTokenExpired          = errors.New("token expired")
	ErrTokenSignatureInvalid = errors.New("token signature invalid")
	ErrTokenMalformed        = errors.New("token malformed")
)

// TokenManager handles issuing and verifying JWT tokens. The signing
// secret and issuer are fixed at construction; there is no runtime
// mutation of signing configuration.
type TokenManager struct {
	secret []byte
	issuer string
	ttl    time.Duration
	now    func() time.Time
}

// NewTokenManager builds a new manager. The secret must be non-empty;
// key strength beyond that is the caller's responsibility.
func NewTokenManager(secret, issuer string, ttl time.Duration) (*TokenManager, error) {
	if secret == "" {
		return nil, errors.New("signing secret must not be empty")
	}
	if ttl <= 0 {
		ttl = 3 * time.Hour
	}
	return &TokenManager{secret: []byte(secret), issuer: issuer, ttl: ttl, now: time.Now}, nil
}

// tokenClaims describes the JWT payload carrying a ClaimSet.
type tokenClaims struct {
	Email     string `json:"email"`
	GivenName string `json:"given_name"`
	Role      string `json:"role"`
	Name      string `json:"name"`
	jwt.RegisteredClaims
}

// Issue signs the claim set into a self-contained HS256 token. Issuer and
// audience are both set to the configured issuer string.
func (tm *TokenManager) Issue(cs ClaimSet) (string, time.Time, error) {
	issuedAt := tm.now()
	expiresAt := issuedAt.Add(tm.ttl)
	claims := &tokenClaims{
		Email:     cs.Email,
		GivenName: cs.GivenName,
		Role:      cs.Role,
		Name:      cs.Name,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   cs.Subject,
			Issuer:    tm.issuer,
			Audience:  jwt.ClaimStrings{tm.issuer},
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(issuedAt),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(tm.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return tokenString, expiresAt, nil
}

// Verify checks signature and expiry and returns the embedded claim set.
// Failures are reported as ErrTokenExpired, ErrTokenSignatureInvalid or
// ErrTokenMalformed.
func (tm *TokenManager) Verify(tokenStr string) (*ClaimSet, error) {
	parsed, err := jwt.ParseWithClaims(tokenStr, &tokenClaims{},
		func(token *jwt.Token) (interface{}, error) {
			if token.Method != jwt.SigningMethodHS256 {
				return nil, ErrTokenSignatureInvalid
			}
			return tm.secret, nil
		},
		jwt.WithTimeFunc(func() time.Time { return tm.now() }),
		jwt.WithIssuer(tm.issuer),
	)
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, ErrTokenExpired
		case errors.Is(err, jwt.ErrTokenSignatureInvalid), errors.Is(err, ErrTokenSignatureInvalid):
			return nil, ErrTokenSignatureInvalid
		default:
			return nil, ErrTokenMalformed
		}
	}

	claims, ok := parsed.Claims.(*tokenClaims)
	if !ok || !parsed.Valid {
		return nil, ErrTokenMalformed
	}
	return &ClaimSet{
		Subject:   claims.Subject,
		Email:     claims.Email,
		GivenName: claims.GivenName,
		Role:      claims.Role,
		Name:      claims.Name,
	}, nil
}

// WithClock overrides the clock source, primarily for tests.
func (tm *TokenManager) WithClock(now func() time.Time) *TokenManager {
	tm.now = now
	return tm
}
