package service

import (
	"context"
	"sort"

	"snapmatch/internal/middleware"
	"snapmatch/internal/models"
	"snapmatch/internal/observability"
	"snapmatch/internal/repository"

	"go.opentelemetry.io/otel/attribute"
)

const (
	// MinLikesForOverlap is the minimum number of likes the requesting user
	// must have before the overlap report is available.
	MinLikesForOverlap = 3
	// OverlapDisplayLimit caps how many entries callers are expected to show.
	OverlapDisplayLimit = 5
)

// OverlapEntry is one ranked row of the overlap report: how many posts the
// given user has liked in common with the requester.
type OverlapEntry struct {
	Score    int    `json:"score"`
	UserID   uint   `json:"user_id"`
	Username string `json:"username"`
}

// OverlapReport holds the full ranking plus the number of entries callers
// should display. The full list is always computed; DisplayCount is
// min(len(Entries), OverlapDisplayLimit).
type OverlapReport struct {
	Entries      []OverlapEntry `json:"entries"`
	DisplayCount int            `json:"display_count"`
}

// OverlapService ranks other users by how many posts they liked in common
// with the requesting user.
type OverlapService struct {
	likeRepo repository.LikeRepository
	userRepo repository.UserRepository
}

func NewOverlapService(likeRepo repository.LikeRepository, userRepo repository.UserRepository) *OverlapService {
	return &OverlapService{likeRepo: likeRepo, userRepo: userRepo}
}

// Eligible reports whether the user has enough likes for the overlap report.
func (s *OverlapService) Eligible(ctx context.Context, userID uint) (bool, error) {
	count, err := s.likeRepo.CountByUser(ctx, userID)
	if err != nil {
		return false, err
	}
	return count >= MinLikesForOverlap, nil
}

// Rank computes the overlap report for the requesting user. It is read-only.
//
// Every other user appears in the result, including those with score zero.
// The ordering is a single composite-descending sort over (score, user id,
// username); ties in score break toward the numerically larger id, and ties
// in id (not possible with unique ids, but kept for a defined total order)
// toward the lexicographically larger username. Callers depend on this exact
// ordering.
func (s *OverlapService) Rank(ctx context.Context, requesterID uint) (*OverlapReport, error) {
	ctx, span := observability.Tracer.Start(ctx, "overlap.rank")
	defer span.End()
	span.SetAttributes(attribute.Int64("overlap.requester_id", int64(requesterID)))

	eligible, err := s.Eligible(ctx, requesterID)
	if err != nil {
		middleware.OverlapComputations.WithLabelValues("error").Inc()
		return nil, err
	}
	if !eligible {
		middleware.OverlapComputations.WithLabelValues("refused").Inc()
		return nil, models.NewNotEligibleError("You must like at least 3 posts to get your matches")
	}

	likedIDs, err := s.likeRepo.PostIDsByUser(ctx, requesterID)
	if err != nil {
		middleware.OverlapComputations.WithLabelValues("error").Inc()
		return nil, err
	}
	liked := make(map[uint]struct{}, len(likedIDs))
	for _, id := range likedIDs {
		liked[id] = struct{}{}
	}

	others, err := s.userRepo.ListOthers(ctx, requesterID)
	if err != nil {
		middleware.OverlapComputations.WithLabelValues("error").Inc()
		return nil, err
	}

	// Each candidate's like set is fetched independently; the computation is
	// O(users x likes) and meant for small datasets only.
	entries := make([]OverlapEntry, 0, len(others))
	for _, other := range others {
		otherLiked, err := s.likeRepo.PostIDsByUser(ctx, other.ID)
		if err != nil {
			middleware.OverlapComputations.WithLabelValues("error").Inc()
			return nil, err
		}

		score := 0
		for _, postID := range otherLiked {
			if _, ok := liked[postID]; ok {
				score++
			}
		}

		entries = append(entries, OverlapEntry{
			Score:    score,
			UserID:   other.ID,
			Username: other.Username,
		})
	}

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Score != entries[j].Score {
			return entries[i].Score > entries[j].Score
		}
		if entries[i].UserID != entries[j].UserID {
			return entries[i].UserID > entries[j].UserID
		}
		return entries[i].Username > entries[j].Username
	})

	displayCount := len(entries)
	if displayCount > OverlapDisplayLimit {
		displayCount = OverlapDisplayLimit
	}

	middleware.OverlapComputations.WithLabelValues("ok").Inc()
	span.SetAttributes(attribute.Int("overlap.candidates", len(entries)))

	return &OverlapReport{
		Entries:      entries,
		DisplayCount: displayCount,
	}, nil
}
