package seed

import (
	"fmt"
	"log"

	"snapmatch/internal/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Options configuration for the seeder
type Options struct {
	NumUsers    int
	NumPosts    int
	ShouldClean bool
	DryRun      bool
	// MaxDays spreads generated timestamps over this many days back.
	MaxDays int
}

// Seed populates the database with demo users, profiles, posts, and a like
// mesh dense enough that most users pass the three-like overlap threshold.
func Seed(db *gorm.DB, opts Options) error {
	log.Printf("Starting database seeding with %d users and %d posts...", opts.NumUsers, opts.NumPosts)

	if opts.ShouldClean {
		if err := clearData(db); err != nil {
			log.Println("Warning: could not clear all existing data, continuing anyway...")
		}
	}

	f := NewFactory(db, opts)

	users := make([]*models.User, 0, opts.NumUsers+1)

	admin, err := createAdmin(db, f)
	if err != nil {
		return fmt.Errorf("failed to create admin: %w", err)
	}
	users = append(users, admin)

	for i := 0; i < opts.NumUsers; i++ {
		user, err := f.CreateUser()
		if err != nil {
			return fmt.Errorf("failed to create user: %w", err)
		}
		users = append(users, user)
	}
	log.Printf("✓ %d users created", len(users))

	posts := make([]*models.Post, 0, opts.NumPosts)
	for i := 0; i < opts.NumPosts; i++ {
		author := users[f.rng.Intn(len(users))]
		posts = append(posts, f.BuildPost(author))
	}
	if err := f.CreatePostsBatch(posts); err != nil {
		return fmt.Errorf("failed to create posts: %w", err)
	}
	log.Printf("✓ %d posts created", len(posts))

	likes, err := buildLikeMesh(f, users, posts)
	if err != nil {
		return fmt.Errorf("failed to create likes: %w", err)
	}
	log.Printf("✓ %d likes created", len(likes))

	log.Println("Seeding complete")
	return nil
}

func createAdmin(db *gorm.DB, f *Factory) (*models.User, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte("Admin123!seedpw"), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	return f.CreateUser(func(u *models.User) {
		u.Username = "admin"
		u.Email = "admin@snapmatch.local"
		u.Password = string(hashed)
		u.IsAdmin = true
	})
}

// buildLikeMesh gives each user a random slice of posts to like, skipping
// their own. Roughly 40% coverage keeps most users above the overlap
// threshold while leaving a few below it.
func buildLikeMesh(f *Factory, users []*models.User, posts []*models.Post) ([]*models.Like, error) {
	likes := make([]*models.Like, 0, len(users)*len(posts)/3)
	for _, user := range users {
		for _, post := range posts {
			if post.UserID == user.ID {
				continue
			}
			if f.rng.Intn(100) < 40 {
				likes = append(likes, &models.Like{
					UserID: user.ID,
					PostID: post.ID,
				})
			}
		}
	}
	if err := f.CreateLikesBatch(likes); err != nil {
		return nil, err
	}
	return likes, nil
}

func clearData(db *gorm.DB) error {
	// Order matters: likes reference posts and users, posts and profiles
	// reference users.
	for _, table := range []string{"likes", "posts", "profiles", "users"} {
		if err := db.Exec("DELETE FROM " + table).Error; err != nil {
			return err
		}
	}
	return nil
}
