package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/texamhq/texam/pkg/kernel"
)

// JWTService implements TokenService with HS256-signed JWTs. Access tokens
// are self-contained: validation needs only the shared secret, no store
// round-trip.
type JWTService struct {
	secretKey      []byte
	accessTokenTTL time.Duration
	issuer         string
}

// NewJWTService creates a JWT token service.
func NewJWTService(secretKey string, accessTokenTTL time.Duration, issuer string) *JWTService {
	if accessTokenTTL == 0 {
		accessTokenTTL = time.Hour
	}
	if issuer == "" {
		issuer = "texam"
	}

	return &JWTService{
		secretKey:      []byte(secretKey),
		accessTokenTTL: accessTokenTTL,
		issuer:         issuer,
	}
}

type jwtClaims struct {
	UserID kernel.UserID `json:"user_id"`
	Email  string        `json:"email"`
	jwt.RegisteredClaims
}

// IssueAccessToken signs a short-lived assertion of {user_id, email, exp}.
// It fails only on an internal signing fault, never on valid input.
func (j *JWTService) IssueAccessToken(userID kernel.UserID, email string) (string, error) {
	now := time.Now()

	claims := jwtClaims{
		UserID: userID,
		Email:  email,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    j.issuer,
			Subject:   userID.String(),
			ExpiresAt: jwt.NewNumericDate(now.Add(j.accessTokenTTL)),
			NotBefore: jwt.NewNumericDate(now),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(j.secretKey)
	if err != nil {
		return "", ErrTokenGenerationFailed().WithCause(err)
	}
	return signed, nil
}

// ValidateAccessToken verifies signature and expiry. Every verification
// failure collapses into the same error; callers never learn whether a
// token was malformed, forged or merely expired.
func (j *JWTService) ValidateAccessToken(tokenString string) (*TokenClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &jwtClaims{}, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return j.secretKey, nil
	})
	if err != nil {
		return nil, ErrTokenValidationFailed().WithCause(err)
	}
	if !token.Valid {
		return nil, ErrTokenValidationFailed()
	}

	claims, ok := token.Claims.(*jwtClaims)
	if !ok {
		return nil, ErrTokenValidationFailed()
	}

	return &TokenClaims{
		UserID:    claims.UserID,
		Email:     claims.Email,
		IssuedAt:  claims.IssuedAt.Time,
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}

// AccessTokenTTL returns the configured access token lifetime.
func (j *JWTService) AccessTokenTTL() time.Duration {
	return j.accessTokenTTL
}
