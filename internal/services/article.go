package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/diewo77/offermaster/internal/db"
	"github.com/diewo77/offermaster/internal/models"
	"github.com/diewo77/offermaster/validation"
)

const (
	DefaultPageSize = 10
	MaxPageSize     = 100
)

// Page is one slice of a paginated listing. Number is zero-based.
type Page[T any] struct {
	Content       []T   `json:"content"`
	TotalElements int64 `json:"totalElements"`
	TotalPages    int   `json:"totalPages"`
	Size          int   `json:"size"`
	Number        int   `json:"number"`
}

// ArticleInput is the writable part of a catalog article.
type ArticleInput struct {
	Name        string             `json:"name"`
	Category    models.Category    `json:"category"`
	Price       decimal.Decimal    `json:"price"`
	Description string             `json:"description"`
	MeasureUnit models.MeasureUnit `json:"measureUnit"`
}

func (in ArticleInput) validate() error {
	v := validation.Violations{}
	validation.Required("name", in.Name, v)
	validation.MaxLen("name", in.Name, 255, v)
	validation.NonNegativeDecimal("price", in.Price, v)
	validation.OneOf("category", in.Category.Valid(), v)
	if in.MeasureUnit != "" {
		validation.OneOf("measureUnit", in.MeasureUnit.Valid(), v)
	}
	return invalid(v)
}

func (in ArticleInput) apply(a *models.Article) {
	a.Name = in.Name
	a.Category = in.Category
	a.Price = in.Price
	a.Description = in.Description
	a.MeasureUnit = in.MeasureUnit
}

// likeEscaper makes search text match literally inside a LIKE pattern.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// ArticleService manages the shared catalog.
type ArticleService struct {
	DB *gorm.DB
}

func NewArticleService(db *gorm.DB) *ArticleService { return &ArticleService{DB: db} }

// List returns one page of articles, newest first. search matches the name
// ignoring case.
func (s *ArticleService) List(ctx context.Context, page, size int, search string) (Page[models.Article], error) {
	if size <= 0 {
		size = DefaultPageSize
	}
	if size > MaxPageSize {
		size = MaxPageSize
	}
	if page < 0 {
		page = 0
	}
	q := s.DB.WithContext(ctx).Model(&models.Article{})
	if search = strings.TrimSpace(search); search != "" {
		q = q.Where(`name_key LIKE ? ESCAPE '\'`, "%"+likeEscaper.Replace(models.NameKeyOf(search))+"%")
	}
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return Page[models.Article]{}, fmt.Errorf("count articles: %w", err)
	}
	items := []models.Article{}
	if err := q.Order("id desc").Limit(size).Offset(page * size).Find(&items).Error; err != nil {
		return Page[models.Article]{}, fmt.Errorf("list articles: %w", err)
	}
	return Page[models.Article]{
		Content:       items,
		TotalElements: total,
		TotalPages:    int((total + int64(size) - 1) / int64(size)),
		Size:          size,
		Number:        page,
	}, nil
}

// All returns the whole catalog. Totals are priced against it.
func (s *ArticleService) All(ctx context.Context) ([]models.Article, error) {
	var items []models.Article
	if err := s.DB.WithContext(ctx).Order("id").Find(&items).Error; err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}
	return items, nil
}

func (s *ArticleService) Get(ctx context.Context, id uint) (*models.Article, error) {
	var a models.Article
	err := s.DB.WithContext(ctx).First(&a, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (s *ArticleService) Create(ctx context.Context, in ArticleInput) (*models.Article, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	var a models.Article
	in.apply(&a)
	if err := s.DB.WithContext(ctx).Create(&a).Error; err != nil {
		if db.IsDuplicate(err) {
			return nil, &ConflictError{Code: "article_exists"}
		}
		return nil, fmt.Errorf("create article: %w", err)
	}
	return &a, nil
}

func (s *ArticleService) Update(ctx context.Context, id uint, in ArticleInput) (*models.Article, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	a, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	in.apply(a)
	if err := s.DB.WithContext(ctx).Save(a).Error; err != nil {
		if db.IsDuplicate(err) {
			return nil, &ConflictError{Code: "article_exists"}
		}
		return nil, fmt.Errorf("update article: %w", err)
	}
	return a, nil
}

// Delete removes an article. Quote lines referencing it stay and price as zero.
func (s *ArticleService) Delete(ctx context.Context, id uint) error {
	res := s.DB.WithContext(ctx).Delete(&models.Article{}, id)
	if res.Error != nil {
		return fmt.Errorf("delete article: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
