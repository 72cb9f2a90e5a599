package repositories

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/talentlink/marketplace-api/internal/models"
)

type userRepo struct {
	db *gorm.DB
}

func (r *userRepo) GetByID(id uuid.UUID) (models.User, error) {
	var user models.User
	err := r.db.First(&user, "id = ?", id).Error
	return user, err
}

func (r *userRepo) Delete(id uuid.UUID) error {
	return r.db.Delete(&models.User{}, "id = ?", id).Error
}
