package service

import (
	"chatlens/internal/model"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// SessionService issues and validates the signed viewing-session token
type SessionService struct {
	jwtSecret []byte
	ttl       time.Duration
}

// NewSessionService creates a session service
func NewSessionService(secret string, ttl time.Duration) *SessionService {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &SessionService{
		jwtSecret: []byte(secret),
		ttl:       ttl,
	}
}

// TTL is the lifetime of a session token
func (s *SessionService) TTL() time.Duration {
	return s.ttl
}

// Issue starts a new session and returns its ID and signed token
func (s *SessionService) Issue() (sessionID, token string, err error) {
	now := time.Now()
	sessionID = uuid.New().String()

	claims := &model.SessionClaims{
		SessionID: sessionID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}

	token, err = jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.jwtSecret)
	if err != nil {
		return "", "", err
	}
	return sessionID, token, nil
}

// Validate checks a session token and returns its claims
func (s *SessionService) Validate(tokenString string) (*model.SessionClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &model.SessionClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return s.jwtSecret, nil
	})
	if err != nil {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*model.SessionClaims)
	if !ok || !token.Valid || claims.SessionID == "" {
		return nil, ErrInvalidToken
	}

	return claims, nil
}
