package pkg

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrTokenExpired      = errors.New("token expired")
	ErrTokenInvalid      = errors.New("token invalid")
	ErrRefreshExpired    = errors.New("refresh expired")
	ErrRefreshInvalid    = errors.New("refresh invalid")
	ErrTokenParseFailure = errors.New("token parse failure")
)

const (
	AccessTTL  = time.Minute * 30
	RefreshTTL = time.Hour * 24
)

// Secrets are overridden from config at startup.
var (
	AccessSecret  = []byte("secret-key")
	RefreshSecret = []byte("refresh-key")
)

type Claims struct {
	UserID uint64 `json:"user_id"`
	jwt.RegisteredClaims
}

type Pair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

func GeneratePair(userID uint64) (*Pair, error) {
	now := time.Now()

	access := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(AccessTTL)),
			Subject:   "access",
		},
	})
	accessToken, err := access.SignedString(AccessSecret)
	if err != nil {
		return nil, err
	}

	refresh := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(RefreshTTL)),
			Subject:   "refresh",
		},
	})
	refreshToken, err := refresh.SignedString(RefreshSecret)
	if err != nil {
		return nil, err
	}

	return &Pair{AccessToken: accessToken, RefreshToken: refreshToken}, nil
}

func ParseAccess(tokenStr string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (any, error) {
		return AccessSecret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenNotValidYet):
			return nil, ErrTokenInvalid
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, ErrTokenExpired
		default:
			return nil, err
		}
	}
	if !token.Valid {
		return nil, ErrTokenParseFailure
	}
	return token.Claims.(*Claims), nil
}

// Refresh exchanges a valid refresh token for a fresh pair.
func Refresh(refreshToken string) (*Pair, error) {
	token, err := jwt.ParseWithClaims(refreshToken, &Claims{}, func(t *jwt.Token) (any, error) {
		return RefreshSecret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenNotValidYet):
			return nil, ErrRefreshInvalid
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, ErrRefreshExpired
		}
		return nil, err
	}
	if !token.Valid {
		return nil, ErrRefreshInvalid
	}
	claims := token.Claims.(*Claims)
	return GeneratePair(claims.UserID)
}
