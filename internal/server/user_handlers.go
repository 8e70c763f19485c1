package server

import (
	"snapmatch/internal/models"
	"snapmatch/internal/service"

	"github.com/gofiber/fiber/v2"
)

// GetMyProfile handles GET /api/users/me
func (s *Server) GetMyProfile(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	user, err := s.userService.Get(c.UserContext(), userID)
	if err != nil {
		return models.RespondWithError(c, models.StatusForError(err), err)
	}

	return c.JSON(user)
}

// UpdateMyProfile handles PUT /api/users/me. The edit is a full replace:
// username and every profile field must be supplied.
func (s *Server) UpdateMyProfile(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	var req struct {
		Username string `json:"username"`
		Gender   string `json:"gender"`
		Age      int    `json:"age"`
		Hobby    string `json:"hobby"`
		Contacts string `json:"contacts"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	user, err := s.userService.UpdateProfile(c.UserContext(), service.UpdateProfileInput{
		UserID:   userID,
		Username: req.Username,
		Gender:   req.Gender,
		Age:      req.Age,
		Hobby:    req.Hobby,
		Contacts: req.Contacts,
	})
	if err != nil {
		return models.RespondWithError(c, models.StatusForError(err), err)
	}

	return c.JSON(user)
}

// GetUserProfile handles GET /api/users/:id. When a user views their own
// page the response carries overlap_available so the client knows whether to
// offer the ranking.
func (s *Server) GetUserProfile(c *fiber.Ctx) error {
	viewerID := c.Locals("userID").(uint)
	userID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	user, svcErr := s.userService.Get(c.UserContext(), userID)
	if svcErr != nil {
		return models.RespondWithError(c, models.StatusForError(svcErr), svcErr)
	}

	resp := fiber.Map{
		"user": user,
	}
	if viewerID == userID {
		available, availErr := s.userService.OverlapAvailable(c.UserContext(), userID)
		if availErr != nil {
			return models.RespondWithError(c, models.StatusForError(availErr), availErr)
		}
		resp["overlap_available"] = available
	}

	return c.JSON(resp)
}

// GetUserPosts handles GET /api/users/:id/posts
func (s *Server) GetUserPosts(c *fiber.Ctx) error {
	viewerID := c.Locals("userID").(uint)
	userID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	// 404 for unknown users rather than an empty list.
	if _, svcErr := s.userService.Get(c.UserContext(), userID); svcErr != nil {
		return models.RespondWithError(c, models.StatusForError(svcErr), svcErr)
	}

	posts, svcErr := s.postService.ListByUser(c.UserContext(), userID, viewerID)
	if svcErr != nil {
		return models.RespondWithError(c, models.StatusForError(svcErr), svcErr)
	}

	return c.JSON(fiber.Map{
		"posts": posts,
	})
}
