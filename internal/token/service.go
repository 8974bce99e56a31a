package token

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/magiskboy/blog-backend/internal/domain"
)

// Store is the shared alive-token set. A token authenticates only while it
// is a member, regardless of what its signed payload says.
type Store interface {
	Add(ctx context.Context, token string) error
	Contains(ctx context.Context, token string) (bool, error)
	Remove(ctx context.Context, token string) error
	Members(ctx context.Context) ([]string, error)
}

// Claims is the decoded session token payload.
//
// The wire field names are historical and deliberately non-standard: "iss"
// holds the issued-at unix timestamp as a float, and "iat" holds the validity
// window in milliseconds. Existing clients depend on these exact semantics.
type Claims struct {
	UserID   int64
	Name     string
	Email    string
	IssuedAt float64
	Window   time.Duration
}

// ExpiresAt returns the instant the encoded validity window runs out.
func (c *Claims) ExpiresAt() time.Time {
	sec, frac := int64(c.IssuedAt), c.IssuedAt-float64(int64(c.IssuedAt))
	issued := time.Unix(sec, int64(frac*float64(time.Second)))
	return issued.Add(c.Window)
}

type Service struct {
	store  Store
	secret []byte
}

func NewService(store Store, secret []byte) *Service {
	return &Service{store: store, secret: secret}
}

// Issue signs a session token for the user. It does not register the token
// in the alive set; the caller decides when the token becomes honored.
func (s *Service) Issue(user *domain.User, window time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"id":    user.ID,
		"name":  user.Name,
		"email": user.Email,
		"iss":   float64(time.Now().UnixNano()) / float64(time.Second),
		"iat":   window.Milliseconds(),
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Register adds the token to the alive set, making it valid for auth.
func (s *Service) Register(ctx context.Context, token string) error {
	return s.store.Add(ctx, token)
}

// Validate checks alive-set membership and the HMAC signature. It does not
// enforce the encoded window; eviction of stale tokens is the sweeper's job.
func (s *Service) Validate(ctx context.Context, token string) (*Claims, error) {
	if strings.TrimSpace(token) == "" {
		return nil, domain.ErrNotAuthenticated
	}

	alive, err := s.store.Contains(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("check token liveness: %w", err)
	}
	if !alive {
		return nil, domain.ErrNotAuthenticated
	}

	claims, err := s.Decode(token)
	if err != nil {
		return nil, domain.ErrNotAuthenticated
	}
	return claims, nil
}

// Revoke removes the token from the alive set. Idempotent.
func (s *Service) Revoke(ctx context.Context, token string) error {
	return s.store.Remove(ctx, token)
}

// Decode verifies the signature and unpacks the claims without consulting
// the alive set.
func (s *Service) Decode(token string) (*Claims, error) {
	parsed, err := jwt.Parse(token, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return s.secret, nil
	})
	if err != nil || !parsed.Valid {
		return nil, domain.ErrNotAuthenticated
	}

	raw, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return nil, domain.ErrNotAuthenticated
	}

	id, ok := raw["id"].(float64)
	if !ok {
		return nil, domain.ErrNotAuthenticated
	}
	name, _ := raw["name"].(string)
	email, _ := raw["email"].(string)
	issuedAt, _ := raw["iss"].(float64)
	windowMS, _ := raw["iat"].(float64)

	return &Claims{
		UserID:   int64(id),
		Name:     name,
		Email:    email,
		IssuedAt: issuedAt,
		Window:   time.Duration(windowMS) * time.Millisecond,
	}, nil
}
