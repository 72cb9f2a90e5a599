package repositories

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/talentlink/marketplace-api/internal/models"
)

type projectRepo struct {
	db *gorm.DB
}

func (r *projectRepo) GetByID(id uuid.UUID) (models.Project, error) {
	var project models.Project
	err := r.db.First(&project, "id = ?", id).Error
	return project, err
}

func (r *projectRepo) AssignIfUnassigned(projectID, freelancerID uuid.UUID, at time.Time) (bool, error) {
	result := r.db.Model(&models.Project{}).
		Where("id = ? AND assigned_to IS NULL", projectID).
		Updates(map[string]interface{}{
			"assigned_to": freelancerID,
			"assigned_at": at,
			"status":      models.ProjectStatusAssigned,
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *projectRepo) SetStatus(projectID uuid.UUID, status models.ProjectStatus, assignedTo *uuid.UUID, assignedAt *time.Time) error {
	return r.db.Model(&models.Project{}).
		Where("id = ?", projectID).
		Updates(map[string]interface{}{
			"status":      status,
			"assigned_to": assignedTo,
			"assigned_at": assignedAt,
		}).Error
}

func (r *projectRepo) Delete(projectID uuid.UUID) error {
	return r.db.Delete(&models.Project{}, "id = ?", projectID).Error
}

func (r *projectRepo) IDsByClient(clientID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := r.db.Model(&models.Project{}).
		Where("client_id = ?", clientID).
		Pluck("id", &ids).Error
	return ids, err
}

func (r *projectRepo) ResetByFreelancer(freelancerID uuid.UUID) error {
	return r.db.Model(&models.Project{}).
		Where("assigned_to = ?", freelancerID).
		Updates(map[string]interface{}{
			"assigned_to": nil,
			"assigned_at": nil,
			"status":      models.ProjectStatusOpen,
		}).Error
}
