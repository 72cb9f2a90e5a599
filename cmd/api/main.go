package main

import (
	"context"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/websocket/v2"
	"github.com/joho/godotenv"

	"github.com/talentlink/marketplace-api/internal/cache"
	"github.com/talentlink/marketplace-api/internal/config"
	"github.com/talentlink/marketplace-api/internal/db"
	"github.com/talentlink/marketplace-api/internal/handlers"
	"github.com/talentlink/marketplace-api/internal/middleware"
	"github.com/talentlink/marketplace-api/internal/models"
	"github.com/talentlink/marketplace-api/internal/realtime"
	"github.com/talentlink/marketplace-api/internal/repositories"
	"github.com/talentlink/marketplace-api/internal/services/workflow"
	"github.com/talentlink/marketplace-api/internal/utils"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	gdb, err := db.Connect(cfg.DBDSN)
	if err != nil {
		log.Fatal(err)
	}

	rdb := realtime.NewRedis(cfg.RedisAddr, cfg.RedisPassword)
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		log.Fatal("Redis not reachable:", err)
	}

	hub := realtime.NewHub()
	go hub.Run()

	if err := gdb.AutoMigrate(
		&models.User{},
		&models.Project{},
		&models.Application{},
		&models.Message{},
	); err != nil {
		log.Fatal(err)
	}

	store := repositories.NewStore(gdb)
	wf := workflow.NewService(store)
	statsCache := cache.New(rdb, 30*time.Second)

	authH := &handlers.AuthHandler{
		DB:        gdb,
		JWTSecret: cfg.JWTSecret,
		Expires:   cfg.JWTExpiresMin,
	}
	projectH := handlers.NewProjectHandler(gdb, wf)
	applicationH := handlers.NewApplicationHandler(gdb, wf, hub)
	messageH := handlers.NewMessageHandler(gdb, hub, rdb)
	dashboardH := handlers.NewDashboardHandler(gdb, statsCache)
	adminH := handlers.NewAdminHandler(gdb, wf)

	app := fiber.New()

	app.Use(cors.New(cors.Config{
		AllowOrigins:  cfg.CORSOrigins,
		AllowMethods:  "GET,POST,PUT,PATCH,DELETE,OPTIONS",
		AllowHeaders:  "Origin, Content-Type, Accept, Authorization",
		ExposeHeaders: "Content-Length",
	}))

	app.Options("/*", func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusNoContent)
	})

	api := app.Group("/api")

	// public
	api.Post("/auth/register", authH.Register)
	api.Post("/auth/login", authH.Login)

	// protected (JWT via Authorization: Bearer)
	protected := api.Group("/",
		middleware.JWTFromHeader(cfg.JWTSecret),
		middleware.AttachJWTLocals(),
	)

	protected.Get("/auth/me", authH.Me)

	// projects
	protected.Post("/projects",
		middleware.RequireRoles("client"),
		projectH.Create,
	)
	protected.Get("/projects", projectH.List)
	protected.Get("/projects/my-posted-projects",
		middleware.RequireRoles("client"),
		projectH.ListMine,
	)
	protected.Get("/projects/freelancer-working-projects/:freelancerId",
		middleware.RequireRoles("freelancer", "admin"),
		projectH.ListWorking,
	)
	protected.Get("/projects/:id", projectH.Get)
	protected.Put("/projects/:id",
		middleware.RequireRoles("client", "admin"),
		projectH.Update,
	)
	protected.Put("/projects/:id/status",
		middleware.RequireRoles("client", "admin"),
		projectH.UpdateStatus,
	)
	protected.Delete("/projects/:id",
		middleware.RequireRoles("client", "admin"),
		projectH.Delete,
	)

	// applications
	protected.Post("/applications",
		middleware.RequireRoles("freelancer"),
		applicationH.Submit,
	)
	protected.Get("/applications/project/:projectId",
		middleware.RequireRoles("client", "admin"),
		applicationH.ListForProject,
	)
	protected.Get("/applications/my-applications",
		middleware.RequireRoles("freelancer"),
		applicationH.ListMine,
	)
	protected.Get("/applications/client-review",
		middleware.RequireRoles("client"),
		applicationH.ListForClientReview,
	)
	protected.Put("/applications/:id/status",
		middleware.RequireRoles("client", "admin"),
		applicationH.UpdateStatus,
	)
	protected.Delete("/applications/:id",
		middleware.RequireRoles("freelancer", "admin"),
		applicationH.Withdraw,
	)

	// project chat
	protected.Post("/messages", messageH.Send)
	protected.Get("/messages/project/:projectId", messageH.ListForProject)

	// dashboards
	protected.Get("/client/dashboard-stats",
		middleware.RequireRoles("client"),
		dashboardH.ClientStats,
	)
	protected.Get("/freelancer/dashboard-stats",
		middleware.RequireRoles("freelancer"),
		dashboardH.FreelancerStats,
	)
	protected.Get("/admin/dashboard-stats",
		middleware.RequireRoles("admin"),
		dashboardH.AdminStats,
	)

	// admin
	protected.Get("/admin/users",
		middleware.RequireRoles("admin"),
		adminH.ListUsers,
	)
	protected.Delete("/admin/users/:id",
		middleware.RequireRoles("admin"),
		adminH.DeleteUser,
	)

	// WebSocket endpoint (no JWT middleware, token comes as a query param)
	verifyToken := func(token string) (string, error) {
		claims, err := utils.ParseJWT(cfg.JWTSecret, token)
		if err != nil {
			return "", err
		}
		return claims.UserID, nil
	}
	app.Get("/ws", websocket.New(messageH.WebSocketHandler(verifyToken)))

	log.Fatal(app.Listen(":" + cfg.AppPort))
}
