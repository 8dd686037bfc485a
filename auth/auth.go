package auth

import (
	"encoding/hex"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/blake2b"

	"github.com/nampwaztaken/skycast-ultra-casino/responses"
)

// Token audiences. Bearer tokens open the REST surface and the casino
// websocket; refresh tokens are single-use and only trade for new
// credentials.
const (
	AudienceBearer  = "auth"
	AudienceRefresh = "refresh"
)

func signToken(sub string, iss string, aud string, validity uint64, secret []byte) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"iss": iss,
		"sub": sub,
		"exp": now.Add(time.Second * time.Duration(validity)).Unix(),
		"iat": now.Unix(),
		"aud": aud,
	})
	return token.SignedString(secret)
}

func CreateCredentials(
	sub string,
	iss string,
	bearerExp uint64,
	refreshExp uint64,
	secret []byte,
) (*responses.Credentials, error) {
	bearerString, err := signToken(sub, iss, AudienceBearer, bearerExp, secret)
	if err != nil {
		return nil, err
	}
	refreshString, err := signToken(sub, iss, AudienceRefresh, refreshExp, secret)
	if err != nil {
		return nil, err
	}

	return &responses.Credentials{
		AccessToken:  bearerString,
		RefreshToken: refreshString,
		TokenType:    "Bearer",
		ExpiresIn:    bearerExp,
	}, nil
}

func VerifyToken(tokenString string, secret []byte) (jwt.Claims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		return secret, nil
	})
	if err != nil {
		return nil, err
	}

	if !token.Valid {
		return nil, errors.New("Malformed token")
	}

	exp_time, err := token.Claims.GetExpirationTime()
	if err != nil {
		return nil, err
	}

	now := time.Now()
	if now.Unix() > exp_time.Time.Unix() {
		return nil, errors.New("Token expired")
	}

	return token.Claims, nil
}

func HashPassword(password string, salt string) string {
	hash := blake2b.Sum256([]byte(password + salt))

	return hex.EncodeToString(hash[:])
}
