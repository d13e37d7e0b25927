package main

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
)

const (
	defaultTokenTTL = 7 * 24 * time.Hour
	tokenIssuer     = "spacewars"
	secretSetting   = "token_secret"
)

var ErrInvalidToken = errors.New("invalid resume token")

// ResumeClaims identify a stored snapshot that a client may resume
type ResumeClaims struct {
	SnapshotID string `json:"snap"`
	SessionID  string `json:"sid"`
	jwt.RegisteredClaims
}

// Tokens issues and checks signed resume tokens
type Tokens struct {
	secret []byte
	ttl    time.Duration
}

// NewTokens creates a token issuer. An empty secret is loaded from the
// database, or generated and persisted on first run.
func NewTokens(secret string, ttl time.Duration, db *DB, log zerolog.Logger) (*Tokens, error) {
	if ttl <= 0 {
		ttl = defaultTokenTTL
	}
	if secret != "" {
		return &Tokens{secret: []byte(secret), ttl: ttl}, nil
	}
	key, err := loadOrCreateSecret(db, log)
	if err != nil {
		return nil, err
	}
	return &Tokens{secret: key, ttl: ttl}, nil
}

// loadOrCreateSecret loads the signing key from the database, or generates
// and persists a new one if none exists.
func loadOrCreateSecret(db *DB, log zerolog.Logger) ([]byte, error) {
	if db != nil {
		if h := db.GetSetting(secretSetting); h != "" {
			if b, err := hex.DecodeString(h); err == nil && len(b) == 32 {
				return b, nil
			}
		}
	}
	secret := make([]byte, 32)
	if _, err := rand.Read(secret); err != nil {
		return nil, fmt.Errorf("generate token secret: %w", err)
	}
	if db != nil {
		if err := db.SetSetting(secretSetting, hex.EncodeToString(secret)); err != nil {
			log.Warn().Err(err).Msg("could not persist token secret")
		}
	}
	return secret, nil
}

// Issue signs a token for the snapshot
func (t *Tokens) Issue(snapshotID, sessionID string) (string, error) {
	now := time.Now()
	claims := ResumeClaims{
		SnapshotID: snapshotID,
		SessionID:  sessionID,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    tokenIssuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(t.ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	s, err := token.SignedString(t.secret)
	if err != nil {
		return "", fmt.Errorf("sign resume token: %w", err)
	}
	return s, nil
}

// Validate checks a token's signature and expiry and returns its claims
func (t *Tokens) Validate(tokenStr string) (*ResumeClaims, error) {
	var claims ResumeClaims
	token, err := jwt.ParseWithClaims(tokenStr, &claims, func(tok *jwt.Token) (interface{}, error) {
		if _, ok := tok.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", tok.Header["alg"])
		}
		return t.secret, nil
	}, jwt.WithIssuer(tokenIssuer))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !token.Valid || claims.SnapshotID == "" {
		return nil, ErrInvalidToken
	}
	return &claims, nil
}
