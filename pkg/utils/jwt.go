package utils

import (
	"time"

	"github.com/go-faster/errors"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"
)

var ErrWrongTokenType = errors.New("wrong token type")

// RevokedTokenKey 吊销名单中的缓存键
func RevokedTokenKey(jti string) string {
	return "revoked:" + jti
}

// Claims 自定义JWT Claims
type Claims struct {
	UserID    string `json:"user_id"`
	IsAdmin   bool   `json:"is_admin"`
	TokenType string `json:"token_type"`
	jwt.RegisteredClaims
}

// TokenPair 登录返回的令牌对
type TokenPair struct {
	Access           string    `json:"access"`
	Refresh          string    `json:"refresh"`
	AccessExpiresAt  time.Time `json:"accessExpiresAt"`
	RefreshExpiresAt time.Time `json:"refreshExpiresAt"`
}

// TokenManager 签发与校验 JWT
type TokenManager struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
	now        func() time.Time
}

// NewTokenManager 创建令牌管理器
func NewTokenManager(secret string, accessTTL, refreshTTL time.Duration) *TokenManager {
	return &TokenManager{
		secret:     []byte(secret),
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		now:        time.Now,
	}
}

// GenerateTokenPair 生成 access + refresh
func (m *TokenManager) GenerateTokenPair(userID string, isAdmin bool) (*TokenPair, error) {
	access, accessExp, err := m.generate(userID, isAdmin, TokenTypeAccess, m.accessTTL)
	if err != nil {
		return nil, err
	}
	refresh, refreshExp, err := m.generate(userID, isAdmin, TokenTypeRefresh, m.refreshTTL)
	if err != nil {
		return nil, err
	}
	return &TokenPair{
		Access:           access,
		Refresh:          refresh,
		AccessExpiresAt:  accessExp,
		RefreshExpiresAt: refreshExp,
	}, nil
}

// GenerateAccessToken 生成单个 access token
func (m *TokenManager) GenerateAccessToken(userID string, isAdmin bool) (string, time.Time, error) {
	return m.generate(userID, isAdmin, TokenTypeAccess, m.accessTTL)
}

func (m *TokenManager) generate(userID string, isAdmin bool, tokenType string, ttl time.Duration) (string, time.Time, error) {
	now := m.now().UTC()
	expireTime := now.Add(ttl)

	claims := Claims{
		UserID:    userID,
		IsAdmin:   isAdmin,
		TokenType: tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expireTime),
			Issuer:    "ecommerce-api",
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return "", time.Time{}, errors.Wrap(err, "sign token")
	}
	return token, expireTime, nil
}

// ParseToken 验证JWT Token 并校验类型
func (m *TokenManager) ParseToken(tokenString, tokenType string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return m.secret, nil
	}, jwt.WithTimeFunc(m.now))
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, jwt.ErrTokenInvalidClaims
	}
	if claims.TokenType != tokenType {
		return nil, ErrWrongTokenType
	}
	return claims, nil
}
