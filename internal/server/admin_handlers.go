package server

import (
	"snapmatch/internal/models"

	"github.com/gofiber/fiber/v2"
)

// GetAllUsers handles GET /api/admin/users
func (s *Server) GetAllUsers(c *fiber.Ctx) error {
	users, err := s.adminService.ListUsers(c.UserContext())
	if err != nil {
		return models.RespondWithError(c, models.StatusForError(err), err)
	}

	return c.JSON(fiber.Map{
		"users": users,
	})
}

// BulkDeleteUsers handles POST /api/admin/users/bulk-delete. Each selected
// user is removed together with their posts, profile, and likes in both
// directions. IDs that do not exist are skipped silently.
func (s *Server) BulkDeleteUsers(c *fiber.Ctx) error {
	adminID := c.Locals("userID").(uint)

	var req struct {
		UserIDs []uint `json:"user_ids"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	// Admins cannot delete their own account through the bulk endpoint.
	ids := make([]uint, 0, len(req.UserIDs))
	for _, id := range req.UserIDs {
		if id != adminID {
			ids = append(ids, id)
		}
	}

	deleted, err := s.adminService.BulkDeleteUsers(c.UserContext(), ids)
	if err != nil {
		return models.RespondWithError(c, models.StatusForError(err), err)
	}

	return c.JSON(fiber.Map{
		"deleted": deleted,
	})
}
