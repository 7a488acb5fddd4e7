package repository

import (
	"context"

	repo "github.com/mwendwa/payrelay/pkg/repository"
	"gorm.io/gorm"
)

type projectRepository struct {
	db *gorm.DB
}

// NewProject creates a project repository using the provided *gorm.DB.
func NewProject(db *gorm.DB) repo.Project {
	return &projectRepository{db: db}
}

// MarkCompleted implements repository.Project.
func (r *projectRepository) MarkCompleted(ctx context.Context, projectID string) error {
	return r.db.WithContext(
		ctx,
	).Model(
		&Project{},
	).Where(
		"project_id = ?",
		projectID,
	).Update(
		"status", "completed",
	).Error
}
