package security

import (
	"encoding/base64"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	RoleKiosk = "kiosk"
	RoleAdmin = "admin"
)

// DeviceIdentity is what a scan kiosk or admin session presents. DeviceID
// is assigned when the device is registered, Label is the human name shown
// in logs ("Gerbang Utara", "TU").
type DeviceIdentity struct {
	DeviceID string
	Label    string
	Role     string
}

type Identity struct {
	DeviceID string `json:"device_id"`
	Label    string `json:"label"`
	Role     string `json:"role"`
	SID      string `json:"sid"`
}

type IdentityClaims struct {
	Identity
	jwt.RegisteredClaims
}

func CreateIdentityToken(identity *DeviceIdentity, base64Secret string, expiresInSeconds int64) (string, error) {
	secretBytes, err := base64.StdEncoding.DecodeString(base64Secret)
	if err != nil {
		return "", err
	}
	claims := IdentityClaims{
		Identity: Identity{
			DeviceID: identity.DeviceID,
			Label:    identity.Label,
			Role:     identity.Role,
			SID:      uuid.NewString(),
		},
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "presensi",
			Audience:  []string{"*.presensi.app"},
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Duration(expiresInSeconds) * time.Second)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	return token.SignedString([]byte(secretBytes))
}
