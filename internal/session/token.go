package session

import (
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrTokenInvalid 会话令牌无效
var ErrTokenInvalid = errors.New("session token invalid")

// Claims 会话令牌声明，仅携带会话 ID
type Claims struct {
	SessionID string `json:"sid"`
	jwt.RegisteredClaims
}

// TokenCodec 会话令牌签发与校验
type TokenCodec struct {
	secret []byte
}

// NewTokenCodec 创建令牌编解码器
func NewTokenCodec(secret string) *TokenCodec {
	return &TokenCodec{secret: []byte(secret)}
}

// Encode 签发会话令牌
func (c *TokenCodec) Encode(sessionID string, expiresAt time.Time) (string, error) {
	now := time.Now()
	claims := Claims{
		SessionID: sessionID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.secret)
}

// Decode 校验令牌并返回会话 ID
func (c *TokenCodec) Decode(tokenString string) (string, error) {
	tokenString = strings.TrimSpace(tokenString)
	if tokenString == "" {
		return "", ErrTokenInvalid
	}
	parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	token, err := parser.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		return c.secret, nil
	})
	if err != nil {
		return "", ErrTokenInvalid
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || strings.TrimSpace(claims.SessionID) == "" {
		return "", ErrTokenInvalid
	}
	return claims.SessionID, nil
}
