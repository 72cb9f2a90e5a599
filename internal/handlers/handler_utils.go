package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/talentlink/marketplace-api/internal/models"
	"github.com/talentlink/marketplace-api/internal/services/workflow"
)

func getUserUUID(c *fiber.Ctx) (uuid.UUID, error) {
	raw, ok := c.Locals("userId").(string)
	if !ok || raw == "" {
		return uuid.Nil, fiber.ErrUnauthorized
	}
	return uuid.Parse(raw)
}

func getActor(c *fiber.Ctx) (workflow.Actor, error) {
	uid, err := getUserUUID(c)
	if err != nil {
		return workflow.Actor{}, err
	}
	role, _ := c.Locals("role").(string)
	return workflow.Actor{ID: uid, Role: models.Role(role)}, nil
}

// failWorkflow translates a workflow error kind into an HTTP status and the
// standard response envelope. Messages are surfaced verbatim.
func failWorkflow(c *fiber.Ctx, err error) error {
	status := fiber.StatusInternalServerError
	message := "Server error."

	switch workflow.KindOf(err) {
	case workflow.KindInvalidArgument, workflow.KindInvalidState:
		status, message = fiber.StatusBadRequest, err.Error()
	case workflow.KindNotFound:
		status, message = fiber.StatusNotFound, err.Error()
	case workflow.KindForbidden:
		status, message = fiber.StatusForbidden, err.Error()
	case workflow.KindConflict:
		status, message = fiber.StatusConflict, err.Error()
	}

	return c.Status(status).JSON(fiber.Map{
		"success": false,
		"message": message,
	})
}
