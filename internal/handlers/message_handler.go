package handlers

import (
	"context"
	"encoding/json"
	"log"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/talentlink/marketplace-api/internal/models"
	"github.com/talentlink/marketplace-api/internal/realtime"
)

type MessageHandler struct {
	DB  *gorm.DB
	Hub *realtime.Hub
	RDB *redis.Client
}

func NewMessageHandler(db *gorm.DB, hub *realtime.Hub, rdb *redis.Client) *MessageHandler {
	return &MessageHandler{DB: db, Hub: hub, RDB: rdb}
}

type MessageResponse struct {
	ID        string    `json:"id"`
	ProjectID string    `json:"project_id"`
	SenderID  string    `json:"sender_id"`
	Content   string    `json:"content"`
	Read      bool      `json:"read"`
	CreatedAt time.Time `json:"created_at"`

	SenderUsername string `json:"sender_username,omitempty"`
	SenderRole     string `json:"sender_role,omitempty"`
}

func toMessageResponse(m *models.Message) MessageResponse {
	resp := MessageResponse{
		ID:        m.ID.String(),
		ProjectID: m.ProjectID.String(),
		SenderID:  m.SenderID.String(),
		Content:   m.Content,
		Read:      m.Read,
		CreatedAt: m.CreatedAt,
	}
	if m.Sender != nil {
		resp.SenderUsername = m.Sender.Username
		resp.SenderRole = string(m.Sender.Role)
	}
	return resp
}

// chatParties resolves who is allowed in a project chat: the owning client
// and the assigned freelancer.
func (h *MessageHandler) chatParties(c *fiber.Ctx, projectID uuid.UUID, userID uuid.UUID) (*models.Project, uuid.UUID, error) {
	var project models.Project
	if err := h.DB.First(&project, "id = ?", projectID).Error; err != nil {
		return nil, uuid.Nil, c.Status(404).JSON(fiber.Map{
			"success": false,
			"message": "Project not found.",
		})
	}

	isClient := project.ClientID == userID
	isAssigned := project.AssignedTo != nil && *project.AssignedTo == userID
	if !isClient && !isAssigned {
		return nil, uuid.Nil, c.Status(403).JSON(fiber.Map{
			"success": false,
			"message": "Not authorized to access messages for this project.",
		})
	}

	if project.AssignedTo == nil {
		return nil, uuid.Nil, c.Status(400).JSON(fiber.Map{
			"success": false,
			"message": "Project is not assigned yet. Cannot initiate chat.",
		})
	}

	counterpart := project.ClientID
	if isClient {
		counterpart = *project.AssignedTo
	}
	return &project, counterpart, nil
}

type SendMessageRequest struct {
	ProjectID string `json:"project_id"`
	Content   string `json:"content"`
}

// Send stores a chat message on a project and pushes it to both parties.
func (h *MessageHandler) Send(c *fiber.Ctx) error {
	uid, err := getUserUUID(c)
	if err != nil {
		return fiber.ErrUnauthorized
	}

	var req SendMessageRequest
	if err := c.BodyParser(&req); err != nil || strings.TrimSpace(req.Content) == "" || req.ProjectID == "" {
		return c.Status(400).JSON(fiber.Map{
			"success": false,
			"message": "Project ID and message content are required.",
		})
	}

	projectID, err := uuid.Parse(req.ProjectID)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{
			"success": false,
			"message": "Invalid Project ID format.",
		})
	}

	project, counterpart, ferr := h.chatParties(c, projectID, uid)
	if project == nil {
		return ferr
	}

	msg := models.Message{
		SenderID:   uid,
		ReceiverID: &counterpart,
		ProjectID:  projectID,
		Content:    strings.TrimSpace(req.Content),
	}

	if err := h.DB.Create(&msg).Error; err != nil {
		log.Println("Error creating message:", err)
		return c.Status(500).JSON(fiber.Map{
			"success": false,
			"message": "Server error: Could not send message.",
		})
	}

	h.DB.Preload("Sender").First(&msg, "id = ?", msg.ID)
	msgResp := toMessageResponse(&msg)

	h.Hub.SendToUsers([]uuid.UUID{project.ClientID, *project.AssignedTo}, fiber.Map{
		"type":    "new_message",
		"message": msgResp,
	})

	// Push notification channel for the counterpart (picked up by any
	// subscriber, e.g. a future mobile gateway).
	notif := map[string]interface{}{
		"type":       "chat_message",
		"project_id": projectID.String(),
		"sender_id":  uid.String(),
		"content":    msg.Content,
	}
	payload, _ := json.Marshal(notif)
	h.RDB.Publish(context.Background(), "notifications:"+counterpart.String(), payload)

	return c.Status(201).JSON(fiber.Map{
		"success": true,
		"message": "Message sent successfully!",
		"data":    msgResp,
	})
}

// ListForProject returns a project's chat history oldest-first and marks the
// counterpart's messages read.
func (h *MessageHandler) ListForProject(c *fiber.Ctx) error {
	uid, err := getUserUUID(c)
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

	isClient := project.ClientID == uid
	isAssigned := project.AssignedTo != nil && *project.AssignedTo == uid
	if !isClient && !isAssigned {
		return c.Status(403).JSON(fiber.Map{
			"success": false,
			"message": "Not authorized to view messages for this project.",
		})
	}

	var messages []models.Message
	if err := h.DB.
		Preload("Sender").
		Where("project_id = ?", projectID).
		Order("created_at ASC").
		Find(&messages).Error; err != nil {
		log.Println("Error fetching messages:", err)
		return c.Status(500).JSON(fiber.Map{
			"success": false,
			"message": "Server error: Could not retrieve messages.",
		})
	}

	if err := h.DB.Model(&models.Message{}).
		Where("project_id = ? AND sender_id <> ? AND read = false", projectID, uid).
		Update("read", true).Error; err != nil {
		log.Println("Error marking messages as read:", err)
	}

	out := make([]MessageResponse, 0, len(messages))
	for i := range messages {
		out = append(out, toMessageResponse(&messages[i]))
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    out,
	})
}

// WebSocketHandler registers a connection with the hub. The token travels as
// a query parameter since websocket upgrades skip the JWT middleware.
func (h *MessageHandler) WebSocketHandler(verify func(string) (string, error)) func(*websocket.Conn) {
	return func(c *websocket.Conn) {
		userID, err := verify(c.Query("token"))
		if err != nil {
			log.Println("WebSocket: token rejected:", err)
			c.Close()
			return
		}

		userUUID, err := uuid.Parse(userID)
		if err != nil {
			log.Println("WebSocket: invalid user id in token:", err)
			c.Close()
			return
		}

		log.Printf("WebSocket: user %s connected\n", userID)

		client := &realtime.Client{
			ID:     uuid.New().String(),
			UserID: userUUID,
			Conn:   realtime.NewWebSocketConn(c),
			Send:   make(chan []byte, 256),
		}

		h.Hub.RegisterClient(client)
		defer func() {
			h.Hub.UnregisterClient(client)
			log.Printf("WebSocket: user %s disconnected\n", userID)
		}()

		go func() {
			for msg := range client.Send {
				if err := c.WriteMessage(websocket.TextMessage, msg); err != nil {
					log.Println("WebSocket write error:", err)
					return
				}
			}
		}()

		// Read loop keeps the connection alive; clients only send pongs.
		for {
			var payload map[string]interface{}
			if err := c.ReadJSON(&payload); err != nil {
				break
			}
			if msgType, ok := payload["type"].(string); ok && msgType == "pong" {
				continue
			}
		}
	}
}
