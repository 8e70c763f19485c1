package service

import (
	"context"
	"strings"

	"snapmatch/internal/models"
	"snapmatch/internal/repository"
	"snapmatch/internal/validation"
)

// UserService covers account profiles: reads of a user together with their
// profile, and the combined username plus profile edit.
type UserService struct {
	userRepo    repository.UserRepository
	profileRepo repository.ProfileRepository
	likeRepo    repository.LikeRepository
}

func NewUserService(userRepo repository.UserRepository, profileRepo repository.ProfileRepository, likeRepo repository.LikeRepository) *UserService {
	return &UserService{
		userRepo:    userRepo,
		profileRepo: profileRepo,
		likeRepo:    likeRepo,
	}
}

// Get returns the user with their profile preloaded.
func (s *UserService) Get(ctx context.Context, id uint) (*models.User, error) {
	return s.userRepo.GetByID(ctx, id)
}

// OverlapAvailable reports whether the user has enough likes to request an
// overlap ranking.
func (s *UserService) OverlapAvailable(ctx context.Context, userID uint) (bool, error) {
	count, err := s.likeRepo.CountByUser(ctx, userID)
	if err != nil {
		return false, err
	}
	return count >= MinLikesForOverlap, nil
}

type UpdateProfileInput struct {
	UserID   uint
	Username string
	Gender   string
	Age      int
	Hobby    string
	Contacts string
}

// UpdateProfile applies a full profile edit. Every field is required; the
// username may stay the same but must not collide with another account.
func (s *UserService) UpdateProfile(ctx context.Context, in UpdateProfileInput) (*models.User, error) {
	username := strings.TrimSpace(in.Username)
	if err := validation.ValidateUsername(username); err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	if err := validation.ValidateProfileFields(in.Gender, in.Hobby, in.Contacts, in.Age); err != nil {
		return nil, models.NewValidationError(err.Error())
	}

	user, err := s.userRepo.GetByID(ctx, in.UserID)
	if err != nil {
		return nil, err
	}

	if username != user.Username {
		existing, err := s.userRepo.GetByUsername(ctx, username)
		if err != nil {
			return nil, err
		}
		if existing != nil && existing.ID != user.ID {
			return nil, models.NewConflictError("Username is already taken")
		}
		if err := s.userRepo.UpdateUsername(ctx, user.ID, username); err != nil {
			return nil, err
		}
	}

	profile, err := s.profileRepo.GetByUserID(ctx, in.UserID)
	if err != nil {
		return nil, err
	}

	profile.Gender = in.Gender
	profile.Age = in.Age
	profile.Hobby = in.Hobby
	profile.Contacts = in.Contacts
	if err := s.profileRepo.Update(ctx, profile); err != nil {
		return nil, err
	}

	return s.userRepo.GetByID(ctx, in.UserID)
}
