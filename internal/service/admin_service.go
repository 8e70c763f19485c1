package service

import (
	"context"

	"snapmatch/internal/models"
	"snapmatch/internal/repository"
)

// AdminService backs the moderation surface: listing accounts and removing
// them in bulk with everything they own.
type AdminService struct {
	userRepo  repository.UserRepository
	postRepo  repository.PostRepository
	uploadSvc *UploadService
}

func NewAdminService(userRepo repository.UserRepository, postRepo repository.PostRepository, uploadSvc *UploadService) *AdminService {
	return &AdminService{userRepo: userRepo, postRepo: postRepo, uploadSvc: uploadSvc}
}

func (s *AdminService) ListUsers(ctx context.Context) ([]models.User, error) {
	return s.userRepo.List(ctx)
}

// BulkDeleteUsers removes the selected accounts along with their posts,
// profiles, likes in both directions, and stored images. An empty selection
// deletes nothing.
func (s *AdminService) BulkDeleteUsers(ctx context.Context, ids []uint) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}

	// Filenames must be read before the cascade removes the post rows.
	filenames, err := s.postRepo.FilenamesByUsers(ctx, ids)
	if err != nil {
		return 0, err
	}

	deleted, err := s.userRepo.DeleteCascade(ctx, ids)
	if err != nil {
		return 0, err
	}

	for _, filename := range filenames {
		_ = s.uploadSvc.Remove(filename)
	}
	return deleted, nil
}
