package repositories

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/talentlink/marketplace-api/internal/models"
)

type applicationRepo struct {
	db *gorm.DB
}

func (r *applicationRepo) GetByID(id uuid.UUID) (models.Application, error) {
	var app models.Application
	err := r.db.First(&app, "id = ?", id).Error
	return app, err
}

func (r *applicationRepo) GetByIDForUpdate(id uuid.UUID) (models.Application, error) {
	var app models.Application
	err := r.db.Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&app, "id = ?", id).Error
	return app, err
}

func (r *applicationRepo) ExistsForPair(projectID, freelancerID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.Model(&models.Application{}).
		Where("project_id = ? AND freelancer_id = ?", projectID, freelancerID).
		Count(&count).Error
	return count > 0, err
}

func (r *applicationRepo) Create(app *models.Application) error {
	return r.db.Create(app).Error
}

func (r *applicationRepo) SetStatus(id uuid.UUID, status models.ApplicationStatus) error {
	return r.db.Model(&models.Application{}).
		Where("id = ?", id).
		Update("status", status).Error
}

func (r *applicationRepo) RejectOtherPending(projectID, exceptID uuid.UUID) error {
	return r.db.Model(&models.Application{}).
		Where("project_id = ? AND id <> ? AND status = ?",
			projectID, exceptID, models.AppStatusPending).
		Update("status", models.AppStatusRejected).Error
}

func (r *applicationRepo) Delete(id uuid.UUID) error {
	return r.db.Delete(&models.Application{}, "id = ?", id).Error
}

func (r *applicationRepo) DeleteByProject(projectID uuid.UUID) error {
	return r.db.Delete(&models.Application{}, "project_id = ?", projectID).Error
}

func (r *applicationRepo) DeleteByFreelancer(freelancerID uuid.UUID) error {
	return r.db.Delete(&models.Application{}, "freelancer_id = ?", freelancerID).Error
}
