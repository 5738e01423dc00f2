package security

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// InviteTokenType tags invite JWTs so a leaked session token can never be
// replayed as an invite (and vice versa).
const InviteTokenType = "tmdv1"

// InviteTokenTTL is deliberately short; invites are meant to be scanned or
// clicked within moments of being shown.
const InviteTokenTTL = 5 * time.Minute

type Claims struct {
	UserID uint   `json:"user_id"`
	Handle string `json:"handle"`
	jwt.RegisteredClaims
}

// GenerateJWT creates a session token for a user.
func GenerateJWT(userID uint, handle, secret string) (string, error) {
	claims := &Claims{
		UserID: userID,
		Handle: handle,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(24 * time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// ValidateJWT validates and parses a session token.
func ValidateJWT(tokenString, secret string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(secret), nil
	})

	if err != nil {
		return nil, err
	}

	if claims, ok := token.Claims.(*Claims); ok && token.Valid {
		return claims, nil
	}

	return nil, fmt.Errorf("invalid token")
}

// InviteClaims is the payload of a one-time invite token. PID identifies the
// issuer; the jti is the single-use nonce stamped into the ledger on redeem.
type InviteClaims struct {
	Type string `json:"t"`
	PID  uint   `json:"pid"`
	jwt.RegisteredClaims
}

// MintInviteToken signs a short-lived single-use invite for issuerID.
// Returns the token, its unix expiry and the jti.
func MintInviteToken(issuerID uint, secret string) (string, int64, string, error) {
	jti := uuid.NewString()
	exp := time.Now().Add(InviteTokenTTL)

	claims := &InviteClaims{
		Type: InviteTokenType,
		PID:  issuerID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   fmt.Sprintf("%d", issuerID),
			ID:        jti,
			ExpiresAt: jwt.NewNumericDate(exp),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", 0, "", err
	}
	return signed, exp.Unix(), jti, nil
}

// VerifyInviteToken checks signature, expiry and the expected claim shape.
func VerifyInviteToken(tokenString, secret string) (*InviteClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &InviteClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(secret), nil
	})

	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*InviteClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}
	if claims.Type != InviteTokenType || claims.PID == 0 || claims.ID == "" {
		return nil, fmt.Errorf("invalid token payload")
	}

	return claims, nil
}
