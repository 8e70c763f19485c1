package server

import (
	"snapmatch/internal/models"

	"github.com/gofiber/fiber/v2"
)

// OverlapEntryResponse is one ranked user in the overlap response.
type OverlapEntryResponse struct {
	UserID   uint   `json:"user_id"`
	Username string `json:"username"`
	Score    int    `json:"score"`
}

// GetOverlap handles GET /api/overlap. It ranks every other user by how many
// of the requester's liked posts they also liked. Requesters with fewer than
// three likes get a 403 with code NOT_ELIGIBLE.
func (s *Server) GetOverlap(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	report, err := s.overlapService.Rank(c.UserContext(), userID)
	if err != nil {
		return models.RespondWithError(c, models.StatusForError(err), err)
	}

	entries := make([]OverlapEntryResponse, 0, len(report.Entries))
	for _, e := range report.Entries {
		entries = append(entries, OverlapEntryResponse{
			UserID:   e.UserID,
			Username: e.Username,
			Score:    e.Score,
		})
	}

	return c.JSON(fiber.Map{
		"overlaps":      entries,
		"display_count": report.DisplayCount,
	})
}
