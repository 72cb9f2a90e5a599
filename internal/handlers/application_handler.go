package handlers

import (
	"log"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/talentlink/marketplace-api/internal/models"
	"github.com/talentlink/marketplace-api/internal/realtime"
	"github.com/talentlink/marketplace-api/internal/services/workflow"
)

type ApplicationHandler struct {
	DB       *gorm.DB
	Workflow *workflow.Service
	Hub      *realtime.Hub
}

func NewApplicationHandler(db *gorm.DB, wf *workflow.Service, hub *realtime.Hub) *ApplicationHandler {
	return &ApplicationHandler{DB: db, Workflow: wf, Hub: hub}
}

type SubmitApplicationRequest struct {
	ProjectID   string  `json:"project_id"`
	BidAmount   float64 `json:"bid_amount"`
	CoverLetter string  `json:"cover_letter"`
}

// Submit creates a new pending application. Freelancers only.
func (h *ApplicationHandler) Submit(c *fiber.Ctx) error {
	actor, err := getActor(c)
	if err != nil {
		return fiber.ErrUnauthorized
	}

	var req SubmitApplicationRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{
			"success": false,
			"message": "Invalid request body",
		})
	}

	projectID, err := uuid.Parse(strings.TrimSpace(req.ProjectID))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{
			"success": false,
			"message": "Invalid Project ID format provided.",
		})
	}

	app, err := h.Workflow.SubmitApplication(projectID, actor, req.BidAmount, req.CoverLetter)
	if err != nil {
		return failWorkflow(c, err)
	}

	return c.Status(201).JSON(fiber.Map{
		"success": true,
		"message": "Application submitted successfully!",
		"data":    app,
	})
}

// ListForProject returns every application on one project, for the owning
// client's review (or an admin).
func (h *ApplicationHandler) ListForProject(c *fiber.Ctx) error {
	actor, err := getActor(c)
	if err != nil {
		return fiber.ErrUnauthorized
	}

	projectID, err := uuid.Parse(c.Params("projectId"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{
			"success": false,
			"message": "Invalid Project ID format.",
		})
	}

	var project models.Project
	if err := h.DB.First(&project, "id = ?", projectID).Error; err != nil {
		return c.Status(404).JSON(fiber.Map{
			"success": false,
			"message": "Project not found.",
		})
	}

	if project.ClientID != actor.ID && actor.Role != models.RoleAdmin {
		return c.Status(403).JSON(fiber.Map{
			"success": false,
			"message": "Not authorized to view applications for this project.",
		})
	}

	var apps []models.Application
	if err := h.DB.
		Preload("Freelancer").
		Preload("Project").
		Where("project_id = ?", projectID).
		Order("application_date DESC").
		Find(&apps).Error; err != nil {
		log.Println("Error fetching applications for project:", err)
		return c.Status(500).JSON(fiber.Map{
			"success": false,
			"message": "Server error: Could not fetch applications for project.",
		})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    apps,
	})
}

// ListMine returns the authenticated freelancer's applications.
func (h *ApplicationHandler) ListMine(c *fiber.Ctx) error {
	uid, err := getUserUUID(c)
	if err != nil {
		return fiber.ErrUnauthorized
	}

	var apps []models.Application
	if err := h.DB.
		Preload("Project").
		Preload("Project.Client").
		Where("freelancer_id = ?", uid).
		Order("application_date DESC").
		Find(&apps).Error; err != nil {
		log.Println("Error fetching freelancer applications:", err)
		return c.Status(500).JSON(fiber.Map{
			"success": false,
			"message": "Server error: Could not fetch applications.",
		})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    apps,
	})
}

// ListForClientReview returns all applications across every project the
// authenticated client has posted.
func (h *ApplicationHandler) ListForClientReview(c *fiber.Ctx) error {
	uid, err := getUserUUID(c)
	if err != nil {
		return fiber.ErrUnauthorized
	}

	var projectIDs []uuid.UUID
	if err := h.DB.Model(&models.Project{}).
		Where("client_id = ?", uid).
		Pluck("id", &projectIDs).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{
			"success": false,
			"message": "Server error: Could not fetch applications for review.",
		})
	}

	if len(projectIDs) == 0 {
		return c.JSON(fiber.Map{
			"success": true,
			"data":    []models.Application{},
		})
	}

	var apps []models.Application
	if err := h.DB.
		Preload("Freelancer").
		Preload("Project").
		Where("project_id IN ?", projectIDs).
		Order("application_date DESC").
		Find(&apps).Error; err != nil {
		log.Println("Error fetching applications for client review:", err)
		return c.Status(500).JSON(fiber.Map{
			"success": false,
			"message": "Server error: Could not fetch applications for review.",
		})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    apps,
	})
}

type UpdateApplicationStatusRequest struct {
	Status string `json:"status"`
}

// UpdateStatus accepts or rejects an application through the workflow
// service and broadcasts the outcome to both parties.
func (h *ApplicationHandler) UpdateStatus(c *fiber.Ctx) error {
	actor, err := getActor(c)
	if err != nil {
		return fiber.ErrUnauthorized
	}

	applicationID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{
			"success": false,
			"message": "Invalid Application ID.",
		})
	}

	var req UpdateApplicationStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{
			"success": false,
			"message": "Invalid request body",
		})
	}

	newStatus := models.ApplicationStatus(strings.ToLower(strings.TrimSpace(req.Status)))
	app, err := h.Workflow.SetApplicationStatus(applicationID, actor, newStatus)
	if err != nil {
		return failWorkflow(c, err)
	}

	// Reload with relations for the response payload.
	var out models.Application
	if err := h.DB.
		Preload("Freelancer").
		Preload("Project").
		First(&out, "id = ?", app.ID).Error; err != nil {
		out = app
	}

	if app.Project != nil {
		h.Hub.SendToUsers([]uuid.UUID{app.Project.ClientID, app.FreelancerID}, fiber.Map{
			"type":        "application_status_update",
			"application": out,
		})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Application status updated to " + string(app.Status) + ".",
		"data":    out,
	})
}

// Withdraw removes an application. The submitting freelancer or an admin.
func (h *ApplicationHandler) Withdraw(c *fiber.Ctx) error {
	actor, err := getActor(c)
	if err != nil {
		return fiber.ErrUnauthorized
	}

	applicationID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{
			"success": false,
			"message": "Invalid application ID.",
		})
	}

	if err := h.Workflow.WithdrawApplication(applicationID, actor); err != nil {
		return failWorkflow(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Application deleted successfully!",
	})
}
