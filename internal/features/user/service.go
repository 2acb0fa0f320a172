package user

import (
	"context"
	"errors"
	"time"

	"go-helpdesk/internal/common/models"
	"go-helpdesk/internal/features/audit"

	"go.mongodb.org/mongo-driver/bson"
)

type UserService interface {
	CreateUser(ctx context.Context, user *models.User) error
	GetUser(ctx context.Context, id string) (*models.User, error)
	ListUsers(ctx context.Context, filter map[string]interface{}, page, limit int64) ([]models.User, int64, error)
	UpdateUser(ctx context.Context, id string, updates map[string]interface{}) error
	DeleteUser(ctx context.Context, id string) error
}

type UserServiceImpl struct {
	Repo         UserRepository
	AuditService audit.AuditService
}

func NewUserService(repo UserRepository, auditService audit.AuditService) UserService {
	return &UserServiceImpl{
		Repo:         repo,
		AuditService: auditService,
	}
}

func (s *UserServiceImpl) CreateUser(ctx context.Context, user *models.User) error {
	if user.Username == "" || user.Email == "" {
		return errors.New("username and email are required")
	}
	if user.Role == "" {
		user.Role = models.UserRoleAgent
	}
	if user.Status == "" {
		user.Status = "active"
	}
	user.CreatedAt = time.Now()
	user.UpdatedAt = time.Now()

	if err := s.Repo.Create(ctx, user); err != nil {
		return err
	}

	changes := map[string]models.Change{
		"username": {New: user.Username},
		"email":    {New: user.Email},
		"role":     {New: user.Role},
	}
	_ = s.AuditService.LogChange(ctx, models.AuditActionCreate, "users", user.ID.Hex(), changes)

	return nil
}

func (s *UserServiceImpl) GetUser(ctx context.Context, id string) (*models.User, error) {
	return s.Repo.FindByID(ctx, id)
}

func (s *UserServiceImpl) ListUsers(ctx context.Context, filter map[string]interface{}, page, limit int64) ([]models.User, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 20
	}
	return s.Repo.List(ctx, filter, limit, (page-1)*limit)
}

func (s *UserServiceImpl) UpdateUser(ctx context.Context, id string, updates map[string]interface{}) error {
	old, err := s.Repo.FindByID(ctx, id)
	if err != nil {
		return err
	}

	bsonUpdates := bson.M{"updated_at": time.Now()}
	for k, v := range updates {
		// password changes go through a dedicated flow, not the generic update
		if k == "password" || k == "_id" {
			continue
		}
		bsonUpdates[k] = v
	}

	if err := s.Repo.Update(ctx, id, bsonUpdates); err != nil {
		return err
	}

	changes := map[string]models.Change{}
	for k, v := range updates {
		changes[k] = models.Change{Old: nil, New: v}
	}
	changes["username"] = models.Change{Old: old.Username, New: old.Username}
	_ = s.AuditService.LogChange(ctx, models.AuditActionUpdate, "users", id, changes)

	return nil
}

func (s *UserServiceImpl) DeleteUser(ctx context.Context, id string) error {
	old, _ := s.Repo.FindByID(ctx, id)
	if err := s.Repo.Delete(ctx, id); err != nil {
		return err
	}
	_ = s.AuditService.LogChange(ctx, models.AuditActionDelete, "users", id, map[string]models.Change{
		"user": {Old: old, New: "DELETED"},
	})
	return nil
}
