package service

import (
	"context"
	"strings"

	"snapmatch/internal/models"
	"snapmatch/internal/repository"
)

const maxPostTitleLength = 140

// PostService owns post creation, feed reads, likes, and removal.
type PostService struct {
	postRepo  repository.PostRepository
	likeRepo  repository.LikeRepository
	uploadSvc *UploadService
}

func NewPostService(postRepo repository.PostRepository, likeRepo repository.LikeRepository, uploadSvc *UploadService) *PostService {
	return &PostService{
		postRepo:  postRepo,
		likeRepo:  likeRepo,
		uploadSvc: uploadSvc,
	}
}

type CreatePostInput struct {
	UserID   uint
	Title    string
	Filename string
	Content  []byte
}

// Create validates the title and the uploaded image, stores the file, and
// persists the post. A rejected upload leaves nothing behind.
func (s *PostService) Create(ctx context.Context, in CreatePostInput) (*models.Post, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, models.NewValidationError("Title is required")
	}
	if len(title) > maxPostTitleLength {
		return nil, models.NewValidationError("Title is too long")
	}
	if len(in.Content) == 0 {
		return nil, models.NewValidationError("An image file is required")
	}

	stored, err := s.uploadSvc.Save(in.Filename, in.Content)
	if err != nil {
		return nil, err
	}

	post := &models.Post{
		Title:    title,
		UserID:   in.UserID,
		Filename: stored,
	}
	if err := s.postRepo.Create(ctx, post); err != nil {
		// Keep the upload dir consistent with the posts table.
		_ = s.uploadSvc.Remove(stored)
		return nil, err
	}

	return s.postRepo.GetByID(ctx, post.ID, in.UserID)
}

// List returns the feed, newest first. currentUserID drives the per-post
// liked flag and may be zero for anonymous reads.
func (s *PostService) List(ctx context.Context, currentUserID uint) ([]*models.Post, error) {
	return s.postRepo.List(ctx, currentUserID)
}

func (s *PostService) Get(ctx context.Context, postID, currentUserID uint) (*models.Post, error) {
	return s.postRepo.GetByID(ctx, postID, currentUserID)
}

func (s *PostService) ListByUser(ctx context.Context, userID, currentUserID uint) ([]*models.Post, error) {
	return s.postRepo.GetByUserID(ctx, userID, currentUserID)
}

// Like records a like. Liking a post twice is a no-op, not an error.
func (s *PostService) Like(ctx context.Context, userID, postID uint) error {
	exists, err := s.postRepo.Exists(ctx, postID)
	if err != nil {
		return err
	}
	if !exists {
		return models.NewNotFoundError("Post", postID)
	}
	return s.likeRepo.Add(ctx, userID, postID)
}

// Unlike removes a like. Unliking a post that was never liked is a no-op.
func (s *PostService) Unlike(ctx context.Context, userID, postID uint) error {
	exists, err := s.postRepo.Exists(ctx, postID)
	if err != nil {
		return err
	}
	if !exists {
		return models.NewNotFoundError("Post", postID)
	}
	return s.likeRepo.Remove(ctx, userID, postID)
}

// Delete removes a post together with its likes and stored image. The caller
// is responsible for authorization.
func (s *PostService) Delete(ctx context.Context, postID uint) error {
	post, err := s.postRepo.GetByID(ctx, postID, 0)
	if err != nil {
		return err
	}
	if err := s.postRepo.DeleteWithLikes(ctx, postID); err != nil {
		return err
	}
	_ = s.uploadSvc.Remove(post.Filename)
	return nil
}
