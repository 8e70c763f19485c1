package service

import (
	"context"
	"errors"
	"testing"

	"snapmatch/internal/models"

	"github.com/stretchr/testify/require"
)

// Function-field stubs for the repository interfaces. Each constructor
// returns a stub whose methods fail loudly unless overridden, so tests only
// wire what they actually exercise.

type likeRepoStub struct {
	addFn           func(ctx context.Context, userID, postID uint) error
	removeFn        func(ctx context.Context, userID, postID uint) error
	isLikedFn       func(ctx context.Context, userID, postID uint) (bool, error)
	countByUserFn   func(ctx context.Context, userID uint) (int64, error)
	postIDsByUserFn func(ctx context.Context, userID uint) ([]uint, error)
}

func noopLikeRepo() *likeRepoStub {
	return &likeRepoStub{
		addFn:           func(context.Context, uint, uint) error { return errors.New("unexpected Add") },
		removeFn:        func(context.Context, uint, uint) error { return errors.New("unexpected Remove") },
		isLikedFn:       func(context.Context, uint, uint) (bool, error) { return false, errors.New("unexpected IsLiked") },
		countByUserFn:   func(context.Context, uint) (int64, error) { return 0, errors.New("unexpected CountByUser") },
		postIDsByUserFn: func(context.Context, uint) ([]uint, error) { return nil, errors.New("unexpected PostIDsByUser") },
	}
}

func (s *likeRepoStub) Add(ctx context.Context, userID, postID uint) error {
	return s.addFn(ctx, userID, postID)
}

func (s *likeRepoStub) Remove(ctx context.Context, userID, postID uint) error {
	return s.removeFn(ctx, userID, postID)
}

func (s *likeRepoStub) IsLiked(ctx context.Context, userID, postID uint) (bool, error) {
	return s.isLikedFn(ctx, userID, postID)
}

func (s *likeRepoStub) CountByUser(ctx context.Context, userID uint) (int64, error) {
	return s.countByUserFn(ctx, userID)
}

func (s *likeRepoStub) PostIDsByUser(ctx context.Context, userID uint) ([]uint, error) {
	return s.postIDsByUserFn(ctx, userID)
}

type userRepoStub struct {
	getByIDFn           func(ctx context.Context, id uint) (*models.User, error)
	getByUsernameFn     func(ctx context.Context, username string) (*models.User, error)
	getByEmailFn        func(ctx context.Context, email string) (*models.User, error)
	createWithProfileFn func(ctx context.Context, user *models.User, profile *models.Profile) error
	updateUsernameFn    func(ctx context.Context, id uint, username string) error
	listFn              func(ctx context.Context) ([]models.User, error)
	listOthersFn        func(ctx context.Context, excludeID uint) ([]models.User, error)
	deleteCascadeFn     func(ctx context.Context, ids []uint) (int64, error)
	isAdminFn           func(ctx context.Context, id uint) (bool, error)
}

func noopUserRepo() *userRepoStub {
	return &userRepoStub{
		getByIDFn:       func(context.Context, uint) (*models.User, error) { return nil, errors.New("unexpected GetByID") },
		getByUsernameFn: func(context.Context, string) (*models.User, error) { return nil, errors.New("unexpected GetByUsername") },
		getByEmailFn:    func(context.Context, string) (*models.User, error) { return nil, errors.New("unexpected GetByEmail") },
		createWithProfileFn: func(context.Context, *models.User, *models.Profile) error {
			return errors.New("unexpected CreateWithProfile")
		},
		updateUsernameFn: func(context.Context, uint, string) error { return errors.New("unexpected UpdateUsername") },
		listFn:           func(context.Context) ([]models.User, error) { return nil, errors.New("unexpected List") },
		listOthersFn:     func(context.Context, uint) ([]models.User, error) { return nil, errors.New("unexpected ListOthers") },
		deleteCascadeFn:  func(context.Context, []uint) (int64, error) { return 0, errors.New("unexpected DeleteCascade") },
		isAdminFn:        func(context.Context, uint) (bool, error) { return false, errors.New("unexpected IsAdmin") },
	}
}

func (s *userRepoStub) GetByID(ctx context.Context, id uint) (*models.User, error) {
	return s.getByIDFn(ctx, id)
}

func (s *userRepoStub) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	return s.getByUsernameFn(ctx, username)
}

func (s *userRepoStub) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.getByEmailFn(ctx, email)
}

func (s *userRepoStub) CreateWithProfile(ctx context.Context, user *models.User, profile *models.Profile) error {
	return s.createWithProfileFn(ctx, user, profile)
}

func (s *userRepoStub) UpdateUsername(ctx context.Context, id uint, username string) error {
	return s.updateUsernameFn(ctx, id, username)
}

func (s *userRepoStub) List(ctx context.Context) ([]models.User, error) {
	return s.listFn(ctx)
}

func (s *userRepoStub) ListOthers(ctx context.Context, excludeID uint) ([]models.User, error) {
	return s.listOthersFn(ctx, excludeID)
}

func (s *userRepoStub) DeleteCascade(ctx context.Context, ids []uint) (int64, error) {
	return s.deleteCascadeFn(ctx, ids)
}

func (s *userRepoStub) IsAdmin(ctx context.Context, id uint) (bool, error) {
	return s.isAdminFn(ctx, id)
}

type postRepoStub struct {
	createFn           func(ctx context.Context, post *models.Post) error
	getByIDFn          func(ctx context.Context, id uint, currentUserID uint) (*models.Post, error)
	getByUserIDFn      func(ctx context.Context, userID uint, currentUserID uint) ([]*models.Post, error)
	listFn             func(ctx context.Context, currentUserID uint) ([]*models.Post, error)
	existsFn           func(ctx context.Context, id uint) (bool, error)
	filenamesByUsersFn func(ctx context.Context, userIDs []uint) ([]string, error)
	deleteWithLikesFn  func(ctx context.Context, id uint) error
}

func noopPostRepo() *postRepoStub {
	return &postRepoStub{
		createFn: func(context.Context, *models.Post) error { return errors.New("unexpected Create") },
		getByIDFn: func(context.Context, uint, uint) (*models.Post, error) {
			return nil, errors.New("unexpected GetByID")
		},
		getByUserIDFn: func(context.Context, uint, uint) ([]*models.Post, error) {
			return nil, errors.New("unexpected GetByUserID")
		},
		listFn:   func(context.Context, uint) ([]*models.Post, error) { return nil, errors.New("unexpected List") },
		existsFn: func(context.Context, uint) (bool, error) { return false, errors.New("unexpected Exists") },
		filenamesByUsersFn: func(context.Context, []uint) ([]string, error) {
			return nil, errors.New("unexpected FilenamesByUsers")
		},
		deleteWithLikesFn: func(context.Context, uint) error { return errors.New("unexpected DeleteWithLikes") },
	}
}

func (s *postRepoStub) Create(ctx context.Context, post *models.Post) error {
	return s.createFn(ctx, post)
}

func (s *postRepoStub) GetByID(ctx context.Context, id uint, currentUserID uint) (*models.Post, error) {
	return s.getByIDFn(ctx, id, currentUserID)
}

func (s *postRepoStub) GetByUserID(ctx context.Context, userID uint, currentUserID uint) ([]*models.Post, error) {
	return s.getByUserIDFn(ctx, userID, currentUserID)
}

func (s *postRepoStub) List(ctx context.Context, currentUserID uint) ([]*models.Post, error) {
	return s.listFn(ctx, currentUserID)
}

func (s *postRepoStub) Exists(ctx context.Context, id uint) (bool, error) {
	return s.existsFn(ctx, id)
}

func (s *postRepoStub) FilenamesByUsers(ctx context.Context, userIDs []uint) ([]string, error) {
	return s.filenamesByUsersFn(ctx, userIDs)
}

func (s *postRepoStub) DeleteWithLikes(ctx context.Context, id uint) error {
	return s.deleteWithLikesFn(ctx, id)
}

type profileRepoStub struct {
	getByUserIDFn func(ctx context.Context, userID uint) (*models.Profile, error)
	updateFn      func(ctx context.Context, profile *models.Profile) error
}

func noopProfileRepo() *profileRepoStub {
	return &profileRepoStub{
		getByUserIDFn: func(context.Context, uint) (*models.Profile, error) {
			return nil, errors.New("unexpected GetByUserID")
		},
		updateFn: func(context.Context, *models.Profile) error { return errors.New("unexpected Update") },
	}
}

func (s *profileRepoStub) GetByUserID(ctx context.Context, userID uint) (*models.Profile, error) {
	return s.getByUserIDFn(ctx, userID)
}

func (s *profileRepoStub) Update(ctx context.Context, profile *models.Profile) error {
	return s.updateFn(ctx, profile)
}

func assertAppErrorCode(t *testing.T, err error, code string) {
	t.Helper()
	var appErr *models.AppError
	require.ErrorAs(t, err, &appErr)
	require.Equal(t, code, appErr.Code)
}
