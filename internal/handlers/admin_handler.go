package handlers

import (
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/talentlink/marketplace-api/internal/models"
	"github.com/talentlink/marketplace-api/internal/services/workflow"
)

type AdminHandler struct {
	DB       *gorm.DB
	Workflow *workflow.Service
}

func NewAdminHandler(db *gorm.DB, wf *workflow.Service) *AdminHandler {
	return &AdminHandler{DB: db, Workflow: wf}
}

// ListUsers returns every account. Password hashes never serialize.
func (h *AdminHandler) ListUsers(c *fiber.Ctx) error {
	var users []models.User
	if err := h.DB.Order("created_at DESC").Find(&users).Error; err != nil {
		log.Println("Error fetching users:", err)
		return c.Status(500).JSON(fiber.Map{
			"success": false,
			"message": "Server error fetching user data.",
		})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    users,
	})
}

// DeleteUser removes an account and its dependents through the workflow
// service.
func (h *AdminHandler) DeleteUser(c *fiber.Ctx) error {
	actor, err := getActor(c)
	if err != nil {
		return fiber.ErrUnauthorized
	}

	userID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{
			"success": false,
			"message": "Invalid User ID.",
		})
	}

	if err := h.Workflow.DeleteUser(userID, actor); err != nil {
		return failWorkflow(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "User deleted successfully.",
	})
}
