package services

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/diewo77/offermaster/gate"
	"github.com/diewo77/offermaster/internal/db"
	"github.com/diewo77/offermaster/internal/logger"
	"github.com/diewo77/offermaster/internal/models"
	"github.com/diewo77/offermaster/internal/policy"
	"github.com/diewo77/offermaster/internal/storage"
	"github.com/diewo77/offermaster/validation"
)

// ProjectInput creates a project.
type ProjectInput struct {
	Name        string               `json:"name"`
	Address     string               `json:"address"`
	Status      models.ProjectStatus `json:"status"`
	Notes       string               `json:"notes"`
	ImageBase64 string               `json:"imageBase64,omitempty"`
}

// ProjectPatch is a partial update; nil fields are left alone.
type ProjectPatch struct {
	Name        *string               `json:"name,omitempty"`
	Address     *string               `json:"address,omitempty"`
	Status      *models.ProjectStatus `json:"status,omitempty"`
	Notes       *string               `json:"notes,omitempty"`
	ImageBase64 *string               `json:"imageBase64,omitempty"`
	RemoveImage bool                  `json:"removeImage,omitempty"`
}

func validateProject(p *models.Project) error {
	v := validation.Violations{}
	validation.Required("name", p.Name, v)
	validation.MaxLen("name", p.Name, 255, v)
	validation.Required("address", p.Address, v)
	validation.MaxLen("address", p.Address, 500, v)
	if p.Status != "" {
		validation.OneOf("status", p.Status.Valid(), v)
	}
	return invalid(v)
}

// ProjectService manages the current user's job sites.
type ProjectService struct {
	DB    *gorm.DB
	Store storage.Store
	Gate  *policy.AuthGate
}

func NewProjectService(db *gorm.DB, store storage.Store, g *policy.AuthGate) *ProjectService {
	return &ProjectService{DB: db, Store: store, Gate: g}
}

// loadProject fetches a project and checks the current user may act on it.
func loadProject(ctx context.Context, conn *gorm.DB, g *policy.AuthGate, id uint, action gate.Action) (*models.Project, error) {
	var p models.Project
	err := conn.WithContext(ctx).First(&p, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if err := g.Authorize(ctx, action, policy.ResourceProject, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// List returns the user's projects by name.
func (s *ProjectService) List(ctx context.Context) ([]models.Project, error) {
	uid, err := currentUser(ctx)
	if err != nil {
		return nil, err
	}
	projects := []models.Project{}
	if err := s.DB.WithContext(ctx).Where("user_id = ?", uid).Order("name_key").Find(&projects).Error; err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	return projects, nil
}

func (s *ProjectService) Get(ctx context.Context, id uint) (*models.Project, error) {
	return loadProject(ctx, s.DB, s.Gate, id, gate.ActionView)
}

func (s *ProjectService) Create(ctx context.Context, in ProjectInput) (*models.Project, error) {
	uid, err := currentUser(ctx)
	if err != nil {
		return nil, err
	}
	p := models.Project{UserID: uid, Name: in.Name, Address: in.Address, Status: in.Status, Notes: in.Notes}
	if err := validateProject(&p); err != nil {
		return nil, err
	}
	if in.ImageBase64 != "" {
		if p.ImageKey, p.ImageURL, err = upload(ctx, s.Store, "projects", in.ImageBase64, "imageBase64"); err != nil {
			return nil, err
		}
	}
	if err := s.DB.WithContext(ctx).Create(&p).Error; err != nil {
		s.dropImage(ctx, p.ImageKey)
		if db.IsDuplicate(err) {
			return nil, &ConflictError{Code: "project_exists"}
		}
		return nil, fmt.Errorf("create project: %w", err)
	}
	return &p, nil
}

// Update applies a partial change. removeImage clears the stored image; a new
// imageBase64 replaces it.
func (s *ProjectService) Update(ctx context.Context, id uint, patch ProjectPatch) (*models.Project, error) {
	p, err := loadProject(ctx, s.DB, s.Gate, id, gate.ActionUpdate)
	if err != nil {
		return nil, err
	}
	if patch.Name != nil {
		p.Name = *patch.Name
	}
	if patch.Address != nil {
		p.Address = *patch.Address
	}
	if patch.Status != nil {
		p.Status = *patch.Status
	}
	if patch.Notes != nil {
		p.Notes = *patch.Notes
	}
	if err := validateProject(p); err != nil {
		return nil, err
	}

	oldKey := p.ImageKey
	var newKey string
	switch {
	case patch.ImageBase64 != nil && *patch.ImageBase64 != "":
		if newKey, p.ImageURL, err = upload(ctx, s.Store, "projects", *patch.ImageBase64, "imageBase64"); err != nil {
			return nil, err
		}
		p.ImageKey = newKey
	case patch.RemoveImage:
		p.ImageKey, p.ImageURL = "", ""
	}

	if err := s.DB.WithContext(ctx).Save(p).Error; err != nil {
		s.dropImage(ctx, newKey)
		if db.IsDuplicate(err) {
			return nil, &ConflictError{Code: "project_exists"}
		}
		return nil, fmt.Errorf("update project: %w", err)
	}
	if oldKey != "" && oldKey != p.ImageKey {
		s.dropImage(ctx, oldKey)
	}
	return p, nil
}

// Delete removes a project. Its quotes survive without a project.
func (s *ProjectService) Delete(ctx context.Context, id uint) error {
	p, err := loadProject(ctx, s.DB, s.Gate, id, gate.ActionDelete)
	if err != nil {
		return err
	}
	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Quote{}).Where("project_id = ?", p.ID).Update("project_id", nil).Error; err != nil {
			return err
		}
		return tx.Delete(p).Error
	})
	if err != nil {
		return fmt.Errorf("delete project %d: %w", id, err)
	}
	s.dropImage(ctx, p.ImageKey)
	return nil
}

func (s *ProjectService) dropImage(ctx context.Context, key string) {
	if key == "" {
		return
	}
	if err := s.Store.Delete(context.WithoutCancel(ctx), key); err != nil && !errors.Is(err, storage.ErrNotFound) {
		logger.FromContext(ctx).Warn("project image not deleted", zap.String("key", key), zap.Error(err))
	}
}
