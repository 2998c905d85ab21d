package paseto

import (
	"fmt"
	"time"

	"github.com/o1egl/paseto"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"parlour-attendance/config"
	"parlour-attendance/models"
)

type PasetoMaker struct {
	paseto       *paseto.V2
	symmetricKey []byte
	ttl          time.Duration
	now          func() time.Time
}

// NewPasetoMaker builds a v2.local token maker from a base64 encoded 32 byte key.
func NewPasetoMaker(secretBase64 string, ttl time.Duration) (*PasetoMaker, error) {
	key, err := config.DecodeSecret(secretBase64)
	if err != nil {
		return nil, fmt.Errorf("failed to decode PASETO_SECRET: %w", err)
	}
	if len(key) != 32 {
		return nil, fmt.Errorf("PASETO_SECRET must be exactly 32 bytes after Base64 decoding, got %d bytes", len(key))
	}
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}

	return &PasetoMaker{
		paseto:       paseto.NewV2(),
		symmetricKey: key,
		ttl:          ttl,
		now:          time.Now,
	}, nil
}

func (m *PasetoMaker) GenerateToken(user *models.User) (string, error) {
	now := m.now()

	token := paseto.JSONToken{
		Subject:    user.ID.Hex(),
		IssuedAt:   now,
		Expiration: now.Add(m.ttl),
		NotBefore:  now,
	}
	token.Set("user_id", user.ID.Hex())
	token.Set("email", user.Email)
	token.Set("role", user.Role)

	return m.paseto.Encrypt(m.symmetricKey, token, "")
}

func (m *PasetoMaker) ValidateToken(tokenString string) (*models.Claims, error) {
	var token paseto.JSONToken
	var footer string

	if err := m.paseto.Decrypt(tokenString, m.symmetricKey, &token, &footer); err != nil {
		return nil, fmt.Errorf("failed to decrypt paseto token: %w", err)
	}

	if err := token.Validate(paseto.ValidAt(m.now())); err != nil {
		return nil, fmt.Errorf("token validation failed: %w", err)
	}

	userID, err := primitive.ObjectIDFromHex(token.Get("user_id"))
	if err != nil {
		return nil, fmt.Errorf("invalid user_id format: %w", err)
	}

	return &models.Claims{
		UserID: userID,
		Email:  token.Get("email"),
		Role:   token.Get("role"),
	}, nil
}
