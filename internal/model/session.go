package model

import "github.com/golang-jwt/jwt/v5"

// SessionClaims are JWT claims for the viewing-session cookie
type SessionClaims struct {
	SessionID string `json:"sid"`
	jwt.RegisteredClaims
}
