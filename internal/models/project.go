package models

import (
	"strings"
	"time"

	"gorm.io/gorm"
)

// ProjectStatus is the lifecycle state of a job site.
type ProjectStatus string

const (
	ProjectActive  ProjectStatus = "ACTIVE"
	ProjectPending ProjectStatus = "PENDING"
	ProjectDone    ProjectStatus = "DONE"
)

// Valid reports whether s is a known status.
func (s ProjectStatus) Valid() bool {
	switch s {
	case ProjectActive, ProjectPending, ProjectDone:
		return true
	}
	return false
}

// DisplayName returns the localized label shown in listings.
func (s ProjectStatus) DisplayName() string {
	switch s {
	case ProjectActive:
		return "Aktivan"
	case ProjectPending:
		return "Na čekanju"
	case ProjectDone:
		return "Završen"
	}
	return string(s)
}

// Project is a job site quotes can be filed under.
// Implements the Ownable interface for ownership-based authorization.
type Project struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`

	UserID uint `gorm:"not null;uniqueIndex:idx_projects_user_name,priority:1" json:"-"`

	Name     string        `gorm:"size:255;not null" json:"name"`
	NameKey  string        `gorm:"size:255;not null;uniqueIndex:idx_projects_user_name,priority:2" json:"-"`
	Address  string        `gorm:"size:500;not null" json:"address"`
	Status   ProjectStatus `gorm:"size:16;not null;default:'ACTIVE'" json:"status"`
	Notes    string        `gorm:"type:text" json:"notes,omitempty"`
	ImageURL string        `gorm:"size:1024" json:"imageUrl,omitempty"`
	ImageKey string        `gorm:"size:255" json:"-"`
}

// GetUserID implements the Ownable interface for authorization.
func (p *Project) GetUserID() uint {
	return p.UserID
}

// BeforeSave keeps NameKey in sync with Name.
func (p *Project) BeforeSave(_ *gorm.DB) error {
	p.Name = strings.TrimSpace(p.Name)
	p.NameKey = NameKeyOf(p.Name)
	if p.Status == "" {
		p.Status = ProjectActive
	}
	return nil
}
