package auth

import (
	"context"
	"errors"
	"time"

	"go-helpdesk/internal/common/models"
	"go-helpdesk/internal/features/audit"
	"go-helpdesk/internal/features/user"
	"go-helpdesk/pkg/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type AuthService interface {
	Register(ctx context.Context, username, password, email string) (*models.User, error)
	Login(ctx context.Context, username, password string) (string, error)
}

type AuthServiceImpl struct {
	UserRepo     user.UserRepository
	AuditService audit.AuditService
}

func NewAuthService(userRepo user.UserRepository, auditService audit.AuditService) AuthService {
	return &AuthServiceImpl{
		UserRepo:     userRepo,
		AuditService: auditService,
	}
}

func (s *AuthServiceImpl) Register(ctx context.Context, username, password, email string) (*models.User, error) {
	if username == "" || password == "" {
		return nil, errors.New("username and password are required")
	}

	// hash password placeholder (TODO: use bcrypt)
	hashedPassword := password

	newUser := models.User{
		ID:        primitive.NewObjectID(),
		Username:  username,
		Password:  hashedPassword,
		Email:     email,
		Status:    "active",
		Role:      models.UserRoleAgent,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}

	if err := s.UserRepo.Create(ctx, &newUser); err != nil {
		return nil, err
	}

	changes := map[string]models.Change{
		"username": {New: username},
		"email":    {New: email},
	}
	_ = s.AuditService.LogChange(ctx, models.AuditActionCreate, "users", newUser.ID.Hex(), changes)

	return &newUser, nil
}

func (s *AuthServiceImpl) Login(ctx context.Context, username, password string) (string, error) {
	usr, err := s.UserRepo.FindByUsername(ctx, username)
	if err != nil {
		return "", errors.New("invalid credentials")
	}

	// Check password (TODO: use bcrypt)
	if usr.Password != password {
		return "", errors.New("invalid credentials")
	}

	if usr.Status == "suspended" {
		return "", errors.New("account suspended")
	}
	if usr.Status == "inactive" {
		return "", errors.New("account inactive")
	}

	token, err := utils.GenerateToken(usr.ID, string(usr.Role))
	if err != nil {
		return "", err
	}

	now := time.Now()
	_ = s.UserRepo.Update(ctx, usr.ID.Hex(), bson.M{"last_login": now})

	_ = s.AuditService.LogChange(ctx, models.AuditActionLogin, "users", usr.ID.Hex(), map[string]models.Change{
		"last_login": {Old: usr.LastLogin, New: now},
	})

	return token, nil
}
