package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"taskflow/internal/authz"
	"taskflow/internal/models"
	"taskflow/internal/repositories"
	"taskflow/internal/utils"
)

// RegisterUserInput is the admin-supplied payload for a new account.
type RegisterUserInput struct {
	Email          string
	Password       string
	Name           string
	Role           string
	TelegramChatID int64
}

// SeedUser is a fixed account inserted at startup when missing.
type SeedUser struct {
	ID       string
	Email    string
	Password string
	Name     string
	Role     string
}

// LoginResult is what a successful login hands back.
type LoginResult struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

type UserService interface {
	Login(ctx context.Context, email, password string) (*LoginResult, error)
	Register(ctx context.Context, requester models.Requester, in RegisterUserInput) (*models.User, error)
	ListUsers(ctx context.Context) ([]*models.User, error)
	ListWorkers(ctx context.Context) ([]*models.User, error)
	EnsureSeedUsers(ctx context.Context, users []SeedUser) error
}

type userService struct {
	repo         repositories.UserRepository
	emailService EmailService
	authService  AuthService
}

// NewUserService wires the credential store. emailService may be nil.
func NewUserService(repo repositories.UserRepository, emailService EmailService, authService AuthService) UserService {
	return &userService{
		repo:         repo,
		emailService: emailService,
		authService:  authService,
	}
}

func (s *userService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return nil, fmt.Errorf("%w: email and password required", ErrValidation)
	}

	user, err := s.repo.GetByEmail(ctx, email)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, ErrUnauthenticated
	}
	if err != nil {
		return nil, err
	}
	if !s.authService.CheckPassword(user.PasswordHash, password) {
		return nil, ErrUnauthenticated
	}

	token, err := s.authService.GenerateToken(user)
	if err != nil {
		return nil, fmt.Errorf("generate token: %w", err)
	}
	return &LoginResult{Token: token, User: user}, nil
}

func (s *userService) Register(ctx context.Context, requester models.Requester, in RegisterUserInput) (*models.User, error) {
	if !authz.CanRegisterUser(requester.Role) {
		return nil, fmt.Errorf("%w: admin access required", ErrForbidden)
	}
	in.Email = strings.TrimSpace(in.Email)
	in.Name = strings.TrimSpace(in.Name)
	if in.Email == "" || in.Password == "" || in.Name == "" || in.Role == "" {
		return nil, fmt.Errorf("%w: all fields required", ErrValidation)
	}
	if !authz.IsValidRole(in.Role) {
		return nil, fmt.Errorf("%w: role must be admin or worker", ErrValidation)
	}

	hashedPassword, err := s.authService.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}
	user := &models.User{
		ID:             utils.NewID("user"),
		Email:          in.Email,
		PasswordHash:   hashedPassword,
		Name:           in.Name,
		Role:           in.Role,
		TelegramChatID: in.TelegramChatID,
	}
	if err := s.repo.Create(ctx, user); err != nil {
		if errors.Is(err, repositories.ErrDuplicateEmail) {
			return nil, ErrDuplicateEmail
		}
		return nil, err
	}

	if s.emailService != nil {
		if err := s.emailService.SendWelcomeEmail(user.Email, user.Name, user.Role); err != nil {
			// warn but do not fail creation
			log.Printf("[user][register][warn] welcome email to %s: %v", user.Email, err)
		}
	}
	return user, nil
}

func (s *userService) ListUsers(ctx context.Context) ([]*models.User, error) {
	return s.repo.List(ctx)
}

func (s *userService) ListWorkers(ctx context.Context) ([]*models.User, error) {
	return s.repo.ListByRole(ctx, authz.RoleWorker)
}

func (s *userService) EnsureSeedUsers(ctx context.Context, users []SeedUser) error {
	for _, su := range users {
		hash, err := s.authService.HashPassword(su.Password)
		if err != nil {
			return err
		}
		created, err := s.repo.CreateIfNotExists(ctx, &models.User{
			ID:           su.ID,
			Email:        su.Email,
			PasswordHash: hash,
			Name:         su.Name,
			Role:         su.Role,
		})
		if err != nil {
			return fmt.Errorf("seed user %s: %w", su.ID, err)
		}
		if created {
			log.Printf("[seed] user created id=%s email=%s role=%s", su.ID, su.Email, su.Role)
		}
	}
	return nil
}

// DefaultSeedUsers mirrors the accounts the service has always shipped with.
func DefaultSeedUsers(adminPassword, workerPassword string) []SeedUser {
	return []SeedUser{
		{ID: "admin1", Email: "admin@example.com", Password: adminPassword, Name: "Admin User", Role: authz.RoleAdmin},
		{ID: "worker1", Email: "worker@example.com", Password: workerPassword, Name: "Worker One", Role: authz.RoleWorker},
		{ID: "worker2", Email: "worker2@example.com", Password: workerPassword, Name: "Worker Two", Role: authz.RoleWorker},
	}
}
