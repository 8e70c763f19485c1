// Package seed provides helpers to create test and demo data for the
// application database. These helpers are intended for development and
// testing only.
package seed

import (
	"fmt"
	"log"
	"math/rand"
	"time"

	"snapmatch/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var hobbies = []string{
	"photography", "climbing", "chess", "cycling", "painting", "cooking",
	"hiking", "gaming", "gardening", "pottery", "running", "birdwatching",
}

// Factory builds domain entities and persists them to the database.
// It is a thin helper used by seed presets and tests.
type Factory struct {
	db   *gorm.DB
	opts Options
	// synthetic ID counter when running in DryRun mode
	nextID uint
	rng    *rand.Rand
}

// NewFactory creates a new Factory bound to the provided Gorm DB.
func NewFactory(db *gorm.DB, opts Options) *Factory {
	gofakeit.Seed(time.Now().UnixNano())
	return &Factory{
		db:     db,
		opts:   opts,
		nextID: 1000,
		rng:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// BuildUser constructs a sample user with a complete profile but does not
// persist it.
func (f *Factory) BuildUser(overrides ...func(*models.User)) *models.User {
	user := &models.User{
		Username: gofakeit.Username() + fmt.Sprintf("%d", gofakeit.Number(100, 999)),
		Email:    gofakeit.Email(),
		Profile: &models.Profile{
			Gender:   gofakeit.Gender(),
			Age:      gofakeit.Number(18, 65),
			Hobby:    hobbies[f.rng.Intn(len(hobbies))],
			Contacts: gofakeit.Email(),
		},
	}
	for _, override := range overrides {
		override(user)
	}
	return user
}

// CreateUser constructs and persists a sample user with their profile.
// Optional override functions may modify the generated user before saving.
func (f *Factory) CreateUser(overrides ...func(*models.User)) (*models.User, error) {
	user := f.BuildUser(overrides...)

	if user.Password == "" {
		hashed, err := bcrypt.GenerateFromPassword([]byte("Password123!seed"), bcrypt.DefaultCost)
		if err != nil {
			return nil, err
		}
		user.Password = string(hashed)
	}

	if f.opts.DryRun {
		f.nextID++
		user.ID = f.nextID
		if user.Profile != nil {
			user.Profile.UserID = user.ID
		}
		log.Printf("[dry-run] CreateUser: %s (no DB write)", user.Username)
		return user, nil
	}

	if err := f.db.Create(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

// BuildPost constructs a post struct but does not persist it.
func (f *Factory) BuildPost(user *models.User, overrides ...func(*models.Post)) *models.Post {
	post := &models.Post{
		Title:    gofakeit.Sentence(4),
		UserID:   user.ID,
		Filename: fmt.Sprintf("%s.jpg", gofakeit.UUID()),
	}

	// realistic created_at spread
	maxDays := f.opts.MaxDays
	if maxDays <= 0 {
		maxDays = 90
	}
	daysBack := f.rng.Intn(maxDays)
	hoursBack := f.rng.Intn(24)
	post.CreatedAt = time.Now().Add(-time.Duration(daysBack)*24*time.Hour - time.Duration(hoursBack)*time.Hour)

	for _, override := range overrides {
		override(post)
	}
	return post
}

// CreatePostsBatch persists multiple posts in a single DB call when possible.
func (f *Factory) CreatePostsBatch(posts []*models.Post) error {
	if len(posts) == 0 {
		return nil
	}
	if f.opts.DryRun {
		for _, p := range posts {
			f.nextID++
			p.ID = f.nextID
		}
		log.Printf("[dry-run] CreatePostsBatch: %d posts (no DB write)", len(posts))
		return nil
	}
	return f.db.Create(&posts).Error
}

// CreateLikesBatch persists multiple likes in a single DB call.
func (f *Factory) CreateLikesBatch(likes []*models.Like) error {
	if len(likes) == 0 {
		return nil
	}
	if f.opts.DryRun {
		log.Printf("[dry-run] CreateLikesBatch: %d likes (no DB write)", len(likes))
		return nil
	}
	return f.db.Create(&likes).Error
}
