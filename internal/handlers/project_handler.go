package handlers

import (
	"encoding/json"
	"log"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/talentlink/marketplace-api/internal/models"
	"github.com/talentlink/marketplace-api/internal/services/workflow"
)

type ProjectHandler struct {
	DB       *gorm.DB
	Workflow *workflow.Service
}

func NewProjectHandler(db *gorm.DB, wf *workflow.Service) *ProjectHandler {
	return &ProjectHandler{DB: db, Workflow: wf}
}

type CreateProjectRequest struct {
	Title          string   `json:"title"`
	Description    string   `json:"description"`
	Budget         string   `json:"budget"`
	SkillsRequired []string `json:"skills_required"`
}

// Create posts a new project. Clients only.
func (h *ProjectHandler) Create(c *fiber.Ctx) error {
	uid, err := getUserUUID(c)
	if err != nil {
		return fiber.ErrUnauthorized
	}

	var req CreateProjectRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{
			"success": false,
			"message": "Invalid request body",
		})
	}

	if strings.TrimSpace(req.Title) == "" || strings.TrimSpace(req.Description) == "" || strings.TrimSpace(req.Budget) == "" {
		return c.Status(400).JSON(fiber.Map{
			"success": false,
			"message": "Please enter all required fields: title, description, and budget.",
		})
	}

	skills := req.SkillsRequired
	if skills == nil {
		skills = []string{}
	}
	skillsJSON, err := json.Marshal(skills)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{
			"success": false,
			"message": "Invalid skills list",
		})
	}

	project := models.Project{
		ClientID:       uid,
		Title:          strings.TrimSpace(req.Title),
		Description:    req.Description,
		Budget:         req.Budget,
		Status:         models.ProjectStatusOpen,
		SkillsRequired: datatypes.JSON(skillsJSON),
	}

	if err := h.DB.Create(&project).Error; err != nil {
		log.Println("Error creating project:", err)
		return c.Status(500).JSON(fiber.Map{
			"success": false,
			"message": "Server error: Could not post project.",
		})
	}

	return c.Status(201).JSON(fiber.Map{
		"success": true,
		"message": "Project posted successfully!",
		"data":    project,
	})
}

// List returns all projects for browsing, with client and assignee loaded.
func (h *ProjectHandler) List(c *fiber.Ctx) error {
	var projects []models.Project
	if err := h.DB.
		Preload("Client").
		Preload("Freelancer").
		Order("created_at DESC").
		Find(&projects).Error; err != nil {
		log.Println("Error fetching projects:", err)
		return c.Status(500).JSON(fiber.Map{
			"success": false,
			"message": "Server error: Could not fetch projects.",
		})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    projects,
	})
}

// ListMine returns the authenticated client's posted projects, optionally
// filtered by a comma-separated status list.
func (h *ProjectHandler) ListMine(c *fiber.Ctx) error {
	uid, err := getUserUUID(c)
	if err != nil {
		return fiber.ErrUnauthorized
	}

	q := h.DB.
		Preload("Client").
		Preload("Freelancer").
		Where("client_id = ?", uid)

	if statuses := parseStatusFilter(c.Query("status")); len(statuses) > 0 {
		q = q.Where("status IN ?", statuses)
	}

	var projects []models.Project
	if err := q.Order("created_at DESC").Find(&projects).Error; err != nil {
		log.Println("Error fetching posted projects:", err)
		return c.Status(500).JSON(fiber.Map{
			"success": false,
			"message": "Server error: Could not fetch posted projects.",
		})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    projects,
	})
}

// ListWorking returns projects assigned to a freelancer. The freelancer
// themselves or an admin only. Defaults to assigned + "in progress".
func (h *ProjectHandler) ListWorking(c *fiber.Ctx) error {
	uid, err := getUserUUID(c)
	if err != nil {
		return fiber.ErrUnauthorized
	}
	role, _ := c.Locals("role").(string)

	freelancerID, err := uuid.Parse(c.Params("freelancerId"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{
			"success": false,
			"message": "Invalid Freelancer ID format.",
		})
	}

	if role == string(models.RoleFreelancer) && uid != freelancerID {
		return c.Status(403).JSON(fiber.Map{
			"success": false,
			"message": "Not authorized to view these projects.",
		})
	}

	statuses := parseStatusFilter(c.Query("status"))
	if len(statuses) == 0 {
		statuses = []string{
			string(models.ProjectStatusAssigned),
			string(models.ProjectStatusInProgress),
		}
	}

	var projects []models.Project
	if err := h.DB.
		Preload("Client").
		Preload("Freelancer").
		Where("assigned_to = ? AND status IN ?", freelancerID, statuses).
		Order("created_at DESC").
		Find(&projects).Error; err != nil {
		log.Println("Error fetching working projects:", err)
		return c.Status(500).JSON(fiber.Map{
			"success": false,
			"message": "Server error: Could not fetch freelancer working projects.",
		})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    projects,
	})
}

// Get returns a single project by id.
func (h *ProjectHandler) Get(c *fiber.Ctx) error {
	projectID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{
			"success": false,
			"message": "Invalid Project ID format.",
		})
	}

	var project models.Project
	if err := h.DB.
		Preload("Client").
		Preload("Freelancer").
		First(&project, "id = ?", projectID).Error; err != nil {
		return c.Status(404).JSON(fiber.Map{
			"success": false,
			"message": "Project not found",
		})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    project,
	})
}

type UpdateProjectRequest struct {
	Title          *string   `json:"title"`
	Description    *string   `json:"description"`
	Budget         *string   `json:"budget"`
	SkillsRequired *[]string `json:"skills_required"`
}

// Update edits a project's descriptive fields. Status and assignment are
// off-limits here; those go through the workflow service.
func (h *ProjectHandler) Update(c *fiber.Ctx) error {
	actor, err := getActor(c)
	if err != nil {
		return fiber.ErrUnauthorized
	}

	projectID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{
			"success": false,
			"message": "Invalid Project ID format.",
		})
	}

	var req UpdateProjectRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{
			"success": false,
			"message": "Invalid request body",
		})
	}

	var project models.Project
	if err := h.DB.First(&project, "id = ?", projectID).Error; err != nil {
		return c.Status(404).JSON(fiber.Map{
			"success": false,
			"message": "Project not found",
		})
	}

	if project.ClientID != actor.ID && actor.Role != models.RoleAdmin {
		return c.Status(403).JSON(fiber.Map{
			"success": false,
			"message": "Not authorized to update this project.",
		})
	}

	if req.Title != nil && strings.TrimSpace(*req.Title) != "" {
		project.Title = strings.TrimSpace(*req.Title)
	}
	if req.Description != nil && *req.Description != "" {
		project.Description = *req.Description
	}
	if req.Budget != nil && *req.Budget != "" {
		project.Budget = *req.Budget
	}
	if req.SkillsRequired != nil {
		skillsJSON, err := json.Marshal(*req.SkillsRequired)
		if err != nil {
			return c.Status(400).JSON(fiber.Map{
				"success": false,
				"message": "Invalid skills list",
			})
		}
		project.SkillsRequired = datatypes.JSON(skillsJSON)
	}

	if err := h.DB.Save(&project).Error; err != nil {
		log.Println("Error updating project:", err)
		return c.Status(500).JSON(fiber.Map{
			"success": false,
			"message": "Server error: Could not update project.",
		})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Project updated successfully!",
		"data":    project,
	})
}

type UpdateProjectStatusRequest struct {
	Status string `json:"status"`
}

// UpdateStatus routes the direct status edit through the workflow service so
// the assignment invariant holds on this path too.
func (h *ProjectHandler) UpdateStatus(c *fiber.Ctx) error {
	actor, err := getActor(c)
	if err != nil {
		return fiber.ErrUnauthorized
	}

	projectID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{
			"success": false,
			"message": "Invalid Project ID format.",
		})
	}

	var req UpdateProjectStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{
			"success": false,
			"message": "Invalid request body",
		})
	}

	newStatus := models.ProjectStatus(strings.ToLower(strings.TrimSpace(req.Status)))
	project, err := h.Workflow.SetProjectStatus(projectID, actor, newStatus)
	if err != nil {
		return failWorkflow(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Project status updated to " + string(project.Status) + ".",
		"data":    project,
	})
}

// Delete removes a project and all of its applications.
func (h *ProjectHandler) Delete(c *fiber.Ctx) error {
	actor, err := getActor(c)
	if err != nil {
		return fiber.ErrUnauthorized
	}

	projectID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{
			"success": false,
			"message": "Invalid Project ID format.",
		})
	}

	if err := h.Workflow.DeleteProject(projectID, actor); err != nil {
		return failWorkflow(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Project and associated applications deleted successfully!",
	})
}

func parseStatusFilter(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if s := strings.TrimSpace(p); s != "" {
			out = append(out, s)
		}
	}
	return out
}
