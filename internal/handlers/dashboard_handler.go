package handlers

import (
	"log"
	"regexp"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/talentlink/marketplace-api/internal/cache"
	"github.com/talentlink/marketplace-api/internal/models"
)

type DashboardHandler struct {
	DB    *gorm.DB
	Cache *cache.Cache
}

func NewDashboardHandler(db *gorm.DB, c *cache.Cache) *DashboardHandler {
	return &DashboardHandler{DB: db, Cache: c}
}

type ClientStats struct {
	TotalPostedProjects int64 `json:"total_posted_projects"`
	ActiveProjects      int64 `json:"active_projects"`
	PendingApplications int64 `json:"pending_applications"`
	CompletedProjects   int64 `json:"completed_projects"`
}

// ClientStats aggregates the authenticated client's project and application
// counts.
func (h *DashboardHandler) ClientStats(c *fiber.Ctx) error {
	uid, err := getUserUUID(c)
	if err != nil {
		return fiber.ErrUnauthorized
	}

	cacheKey := "stats:client:" + uid.String()
	var stats ClientStats
	if h.Cache.GetJSON(c.Context(), cacheKey, &stats) {
		return c.JSON(fiber.Map{"success": true, "data": stats})
	}

	if err := h.DB.Model(&models.Project{}).
		Where("client_id = ?", uid).
		Count(&stats.TotalPostedProjects).Error; err != nil {
		return h.statsFail(c, err)
	}

	if err := h.DB.Model(&models.Project{}).
		Where("client_id = ? AND status IN ?", uid,
			[]models.ProjectStatus{models.ProjectStatusAssigned, models.ProjectStatusInProgress}).
		Count(&stats.ActiveProjects).Error; err != nil {
		return h.statsFail(c, err)
	}

	if err := h.DB.Model(&models.Application{}).
		Joins("JOIN projects ON projects.id = applications.project_id").
		Where("projects.client_id = ? AND applications.status = ?", uid, models.AppStatusPending).
		Count(&stats.PendingApplications).Error; err != nil {
		return h.statsFail(c, err)
	}

	if err := h.DB.Model(&models.Project{}).
		Where("client_id = ? AND status = ?", uid, models.ProjectStatusCompleted).
		Count(&stats.CompletedProjects).Error; err != nil {
		return h.statsFail(c, err)
	}

	h.Cache.SetJSON(c.Context(), cacheKey, stats)

	return c.JSON(fiber.Map{
		"success": true,
		"data":    stats,
	})
}

type FreelancerStats struct {
	ActiveProjects      int64   `json:"active_projects"`
	PendingApplications int64   `json:"pending_applications"`
	CompletedProjects   int64   `json:"completed_projects"`
	TotalEarnings       float64 `json:"total_earnings"`
}

// FreelancerStats aggregates the authenticated freelancer's workload and
// earnings. Earnings sum the accepted bid amounts on completed projects the
// freelancer was assigned to.
func (h *DashboardHandler) FreelancerStats(c *fiber.Ctx) error {
	uid, err := getUserUUID(c)
	if err != nil {
		return fiber.ErrUnauthorized
	}

	cacheKey := "stats:freelancer:" + uid.String()
	var stats FreelancerStats
	if h.Cache.GetJSON(c.Context(), cacheKey, &stats) {
		return c.JSON(fiber.Map{"success": true, "data": stats})
	}

	if err := h.DB.Model(&models.Project{}).
		Where("assigned_to = ? AND status IN ?", uid,
			[]models.ProjectStatus{models.ProjectStatusAssigned, models.ProjectStatusInProgress}).
		Count(&stats.ActiveProjects).Error; err != nil {
		return h.statsFail(c, err)
	}

	if err := h.DB.Model(&models.Application{}).
		Where("freelancer_id = ? AND status = ?", uid, models.AppStatusPending).
		Count(&stats.PendingApplications).Error; err != nil {
		return h.statsFail(c, err)
	}

	if err := h.DB.Model(&models.Project{}).
		Where("assigned_to = ? AND status = ?", uid, models.ProjectStatusCompleted).
		Count(&stats.CompletedProjects).Error; err != nil {
		return h.statsFail(c, err)
	}

	var earnings *float64
	if err := h.DB.Model(&models.Application{}).
		Select("SUM(applications.bid_amount)").
		Joins("JOIN projects ON projects.id = applications.project_id").
		Where("applications.freelancer_id = ? AND applications.status = ?", uid, models.AppStatusAccepted).
		Where("projects.status = ? AND projects.assigned_to = ?", models.ProjectStatusCompleted, uid).
		Scan(&earnings).Error; err != nil {
		return h.statsFail(c, err)
	}
	if earnings != nil {
		stats.TotalEarnings = *earnings
	}

	h.Cache.SetJSON(c.Context(), cacheKey, stats)

	return c.JSON(fiber.Map{
		"success": true,
		"data":    stats,
	})
}

type AdminStats struct {
	TotalUsers          int64   `json:"total_users"`
	ActiveProjects      int64   `json:"active_projects"`
	PendingApplications int64   `json:"pending_applications"`
	TotalRevenue        float64 `json:"total_revenue"`
}

var nonNumeric = regexp.MustCompile(`[^0-9.]`)

// parseBudget extracts a numeric value from a free-text budget like "$1200".
// Ranges and unparseable strings count as zero.
func parseBudget(budget string) float64 {
	v, err := strconv.ParseFloat(nonNumeric.ReplaceAllString(budget, ""), 64)
	if err != nil {
		return 0
	}
	return v
}

// AdminStats aggregates platform-wide totals. Revenue is the sum of budgets
// of completed projects; budgets are free text so the parse is best effort.
func (h *DashboardHandler) AdminStats(c *fiber.Ctx) error {
	cacheKey := "stats:admin"
	var stats AdminStats
	if h.Cache.GetJSON(c.Context(), cacheKey, &stats) {
		return c.JSON(fiber.Map{"success": true, "data": stats})
	}

	if err := h.DB.Model(&models.User{}).Count(&stats.TotalUsers).Error; err != nil {
		return h.statsFail(c, err)
	}

	if err := h.DB.Model(&models.Project{}).
		Where("status IN ?", []models.ProjectStatus{
			models.ProjectStatusOpen, models.ProjectStatusAssigned, models.ProjectStatusInProgress,
		}).
		Count(&stats.ActiveProjects).Error; err != nil {
		return h.statsFail(c, err)
	}

	if err := h.DB.Model(&models.Application{}).
		Where("status = ?", models.AppStatusPending).
		Count(&stats.PendingApplications).Error; err != nil {
		return h.statsFail(c, err)
	}

	var budgets []string
	if err := h.DB.Model(&models.Project{}).
		Where("status = ?", models.ProjectStatusCompleted).
		Pluck("budget", &budgets).Error; err != nil {
		return h.statsFail(c, err)
	}
	for _, b := range budgets {
		stats.TotalRevenue += parseBudget(b)
	}

	h.Cache.SetJSON(c.Context(), cacheKey, stats)

	return c.JSON(fiber.Map{
		"success": true,
		"data":    stats,
	})
}

func (h *DashboardHandler) statsFail(c *fiber.Ctx, err error) error {
	log.Println("Error fetching dashboard stats:", err)
	return c.Status(500).JSON(fiber.Map{
		"success": false,
		"message": "Server error fetching dashboard data.",
	})
}
