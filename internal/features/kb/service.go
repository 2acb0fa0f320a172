package kb

import (
	"context"
	"errors"
	"fmt"

	"go-helpdesk/internal/common/models"
	"go-helpdesk/internal/features/audit"
	"go-helpdesk/pkg/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type ArticleService interface {
	CreateArticle(ctx context.Context, article *Article) error
	GetArticle(ctx context.Context, id string) (*Article, error)
	GetArticleBySlug(ctx context.Context, slug string) (*Article, error)
	ListArticles(ctx context.Context, filter map[string]interface{}, page, limit int64) ([]Article, int64, error)
	UpdateArticle(ctx context.Context, id string, updates map[string]interface{}) error
	DeleteArticle(ctx context.Context, id string) error
	ListCategories(ctx context.Context) ([]string, error)
}

type ArticleServiceImpl struct {
	repo         ArticleRepository
	auditService audit.AuditService
}

func NewArticleService(repo ArticleRepository, auditService audit.AuditService) ArticleService {
	return &ArticleServiceImpl{
		repo:         repo,
		auditService: auditService,
	}
}

func (s *ArticleServiceImpl) CreateArticle(ctx context.Context, article *Article) error {
	if article.Title == "" {
		return errors.New("title is required")
	}
	if article.Body == "" {
		return errors.New("body is required")
	}

	slug, err := s.uniqueSlug(ctx, article.Title)
	if err != nil {
		return err
	}
	article.Slug = slug

	if err := s.repo.Create(ctx, article); err != nil {
		return err
	}

	_ = s.auditService.LogChange(ctx, models.AuditActionCreate, "kb_articles", article.ID.Hex(), map[string]models.Change{
		"title": {New: article.Title},
		"slug":  {New: article.Slug},
	})
	return nil
}

// uniqueSlug slugifies the title and appends a numeric suffix on collision.
func (s *ArticleServiceImpl) uniqueSlug(ctx context.Context, title string) (string, error) {
	base := utils.Slugify(title)
	if base == "" {
		return "", errors.New("title produces an empty slug")
	}

	slug := base
	for i := 2; ; i++ {
		exists, err := s.repo.SlugExists(ctx, slug)
		if err != nil {
			return "", err
		}
		if !exists {
			return slug, nil
		}
		slug = fmt.Sprintf("%s-%d", base, i)
	}
}

func (s *ArticleServiceImpl) GetArticle(ctx context.Context, id string) (*Article, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, errors.New("invalid article ID")
	}
	return s.repo.FindByID(ctx, objID)
}

// GetArticleBySlug resolves the public article URL and counts the view.
func (s *ArticleServiceImpl) GetArticleBySlug(ctx context.Context, slug string) (*Article, error) {
	article, err := s.repo.FindBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	_ = s.repo.IncrementViews(ctx, article.ID)
	article.Views++
	return article, nil
}

func (s *ArticleServiceImpl) ListArticles(ctx context.Context, filter map[string]interface{}, page, limit int64) ([]Article, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 20
	}

	query := bson.M{}
	for k, v := range filter {
		switch k {
		case "category":
			query["category"] = v
		case "tag":
			query["tags"] = v
		case "published":
			query["published"] = v == "true" || v == true
		case "search":
			query["$or"] = []bson.M{
				{"title": bson.M{"$regex": v, "$options": "i"}},
				{"body": bson.M{"$regex": v, "$options": "i"}},
			}
		}
	}

	return s.repo.FindAll(ctx, query, page, limit)
}

func (s *ArticleServiceImpl) UpdateArticle(ctx context.Context, id string, updates map[string]interface{}) error {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return errors.New("invalid article ID")
	}

	set := bson.M{}
	for k, v := range updates {
		if k == "_id" || k == "slug" || k == "views" || k == "created_at" {
			continue
		}
		set[k] = v
	}
	if title, ok := set["title"].(string); ok && title != "" {
		slug, err := s.uniqueSlug(ctx, title)
		if err != nil {
			return err
		}
		set["slug"] = slug
	}

	if err := s.repo.Update(ctx, objID, set); err != nil {
		return err
	}

	changes := map[string]models.Change{}
	for k, v := range set {
		changes[k] = models.Change{New: v}
	}
	_ = s.auditService.LogChange(ctx, models.AuditActionUpdate, "kb_articles", id, changes)
	return nil
}

func (s *ArticleServiceImpl) DeleteArticle(ctx context.Context, id string) error {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return errors.New("invalid article ID")
	}
	old, _ := s.repo.FindByID(ctx, objID)
	if err := s.repo.Delete(ctx, objID); err != nil {
		return err
	}
	_ = s.auditService.LogChange(ctx, models.AuditActionDelete, "kb_articles", id, map[string]models.Change{
		"article": {Old: old, New: "DELETED"},
	})
	return nil
}

func (s *ArticleServiceImpl) ListCategories(ctx context.Context) ([]string, error) {
	return s.repo.Categories(ctx)
}
