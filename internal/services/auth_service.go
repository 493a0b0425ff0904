package services

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"taskflow/internal/models"
)

// Claims is the payload of a session token.
type Claims struct {
	UserID string `json:"id"`
	Email  string `json:"email"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// Requester converts verified claims into the caller identity.
func (c *Claims) Requester() models.Requester {
	return models.Requester{ID: c.UserID, Email: c.Email, Role: c.Role}
}

type AuthService interface {
	HashPassword(password string) (string, error)
	// CheckPassword reports whether password matches hash. A malformed hash
	// is treated the same as a wrong password.
	CheckPassword(hash, password string) bool
	GenerateToken(user *models.User) (string, error)
	ParseToken(token string) (*Claims, error)
}

type authService struct {
	secret []byte
	ttl    time.Duration
	cost   int
	now    func() time.Time
}

func NewAuthService(secret string, ttl time.Duration, bcryptCost int) AuthService {
	if bcryptCost == 0 {
		bcryptCost = bcrypt.DefaultCost
	}
	return &authService{secret: []byte(secret), ttl: ttl, cost: bcryptCost, now: time.Now}
}

func (s *authService) HashPassword(password string) (string, error) {
	h, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(h), nil
}

func (s *authService) CheckPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

func (s *authService) GenerateToken(user *models.User) (string, error) {
	now := s.now()
	claims := &Claims{
		UserID: user.ID,
		Email:  user.Email,
		Role:   user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

func (s *authService) ParseToken(tokenStr string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		// принимаем только HMAC
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return s.secret, nil
	}, jwt.WithExpirationRequired(), jwt.WithTimeFunc(s.now))
	if err != nil || !token.Valid {
		return nil, fmt.Errorf("%w: %v", ErrUnauthenticated, err)
	}
	if claims.UserID == "" || claims.Role == "" {
		return nil, fmt.Errorf("%w: token without identity", ErrUnauthenticated)
	}
	return claims, nil
}
