package api

import (
	"context"

	userdomain "github.com/example/task-manager/domain/user"
	"github.com/example/task-manager/modules/activity"
	"github.com/example/task-manager/modules/auth"
	"github.com/example/task-manager/modules/catalog"
	"github.com/example/task-manager/modules/task"
	"github.com/go-monolith/mono"
	"github.com/gofiber/fiber/v2"
)

// HealthFunc reports the health of every running module by name.
type HealthFunc func(ctx context.Context) map[string]mono.HealthStatus

// Handlers contains HTTP handlers for the API.
type Handlers struct {
	auth     auth.AuthPort
	tasks    task.TaskPort
	activity activity.ActivityPort
	catalog  catalog.CatalogPort
	health   HealthFunc
}

// Root reports that the API is up.
func (h *Handlers) Root(c *fiber.Ctx) error {
	return c.JSON(MessageResponse{Message: "API is running"})
}

// Health aggregates module health. Any unhealthy module yields 503.
func (h *Handlers) Health(c *fiber.Ctx) error {
	if h.health == nil {
		return c.JSON(fiber.Map{"status": "healthy"})
	}

	modules := h.health(c.UserContext())
	status, code := "healthy", fiber.StatusOK
	for _, hs := range modules {
		if !hs.Healthy {
			status, code = "degraded", fiber.StatusServiceUnavailable
			break
		}
	}

	return c.Status(code).JSON(fiber.Map{
		"status":  status,
		"modules": modules,
	})
}

// Register handles user registration.
func (h *Handlers) Register(c *fiber.Ctx) error {
	var req RegisterRequest
	if errResp := parseBody(c, &req); errResp != nil {
		return c.Status(fiber.StatusBadRequest).JSON(errResp)
	}

	user, tokens, err := h.auth.Register(c.UserContext(), auth.RegisterRequest{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		return authError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(SessionResponse{User: user, Tokens: tokens})
}

// Login handles user login.
func (h *Handlers) Login(c *fiber.Ctx) error {
	var req LoginRequest
	if errResp := parseBody(c, &req); errResp != nil {
		return c.Status(fiber.StatusBadRequest).JSON(errResp)
	}

	user, tokens, err := h.auth.Login(c.UserContext(), auth.LoginRequest{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		return authError(c, err)
	}

	return c.JSON(SessionResponse{User: user, Tokens: tokens})
}

// Refresh exchanges a refresh token for a new token pair.
func (h *Handlers) Refresh(c *fiber.Ctx) error {
	var req RefreshRequest
	if errResp := parseBody(c, &req); errResp != nil {
		return c.Status(fiber.StatusBadRequest).JSON(errResp)
	}

	user, tokens, err := h.auth.Refresh(c.UserContext(), req.RefreshToken)
	if err != nil {
		return authError(c, err)
	}

	return c.JSON(SessionResponse{User: user, Tokens: tokens})
}

// GetMe returns the caller's profile.
func (h *Handlers) GetMe(c *fiber.Ctx) error {
	claims, ok := claimsFrom(c)
	if !ok {
		return unauthorized(c, "User not authenticated")
	}

	profile, err := h.auth.GetProfile(c.UserContext(), claims.UserID)
	if err != nil {
		return authError(c, err)
	}
	return c.JSON(profile)
}

// UpdateMe changes the caller's name and bio.
func (h *Handlers) UpdateMe(c *fiber.Ctx) error {
	claims, ok := claimsFrom(c)
	if !ok {
		return unauthorized(c, "User not authenticated")
	}

	var req UpdateProfileRequest
	if errResp := parseBody(c, &req); errResp != nil {
		return c.Status(fiber.StatusBadRequest).JSON(errResp)
	}

	profile, err := h.auth.UpdateProfile(c.UserContext(), claims.UserID, userdomain.ProfileUpdate{
		Name: req.Name,
		Bio:  req.Bio,
	})
	if err != nil {
		return authError(c, err)
	}
	return c.JSON(profile)
}

// MyActivity returns the caller's recent task activity.
func (h *Handlers) MyActivity(c *fiber.Ctx) error {
	claims, ok := claimsFrom(c)
	if !ok {
		return unauthorized(c, "User not authenticated")
	}

	entries, err := h.activity.Recent(c.UserContext(), claims.UserID, c.QueryInt("limit", 0))
	if err != nil {
		return internalError(c, err)
	}
	return c.JSON(entries)
}

// ListTasks returns the caller's tasks, filtered by the status and search
// query parameters.
func (h *Handlers) ListTasks(c *fiber.Ctx) error {
	claims, ok := claimsFrom(c)
	if !ok {
		return unauthorized(c, "User not authenticated")
	}

	tasks, err := h.tasks.List(c.UserContext(), claims.UserID, task.ListFilter{
		Status: c.Query("status"),
		Search: c.Query("search"),
	})
	if err != nil {
		return taskError(c, err)
	}
	return c.JSON(tasks)
}

// CreateTask adds a task for the caller.
func (h *Handlers) CreateTask(c *fiber.Ctx) error {
	claims, ok := claimsFrom(c)
	if !ok {
		return unauthorized(c, "User not authenticated")
	}

	var req CreateTaskRequest
	if errResp := parseBody(c, &req); errResp != nil {
		return c.Status(fiber.StatusBadRequest).JSON(errResp)
	}

	created, err := h.tasks.Create(c.UserContext(), claims.UserID, task.CreateInput{
		Title:       req.Title,
		Description: req.Description,
		Status:      req.Status,
	})
	if err != nil {
		return taskError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(created)
}

// UpdateTask applies a partial update to one of the caller's tasks.
func (h *Handlers) UpdateTask(c *fiber.Ctx) error {
	claims, ok := claimsFrom(c)
	if !ok {
		return unauthorized(c, "User not authenticated")
	}

	var req UpdateTaskRequest
	if errResp := parseBody(c, &req); errResp != nil {
		return c.Status(fiber.StatusBadRequest).JSON(errResp)
	}

	updated, err := h.tasks.Update(c.UserContext(), claims.UserID, c.Params("id"), task.UpdateInput{
		Title:       req.Title,
		Description: req.Description,
		Status:      req.Status,
	})
	if err != nil {
		return taskError(c, err)
	}
	return c.JSON(updated)
}

// DeleteTask removes one of the caller's tasks.
func (h *Handlers) DeleteTask(c *fiber.Ctx) error {
	claims, ok := claimsFrom(c)
	if !ok {
		return unauthorized(c, "User not authenticated")
	}

	if err := h.tasks.Delete(c.UserContext(), claims.UserID, c.Params("id")); err != nil {
		return taskError(c, err)
	}
	return c.JSON(MessageResponse{Message: "Task removed"})
}
