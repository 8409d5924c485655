// Package seed provides helpers to create test and demo data for the
// application database. These helpers are intended for development and
// testing only.
package seed

import (
	"fmt"
	"log"
	"math/rand"
	"os"
	"strings"
	"time"

	"inkwell/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
	"gopkg.in/yaml.v3"
	"gorm.io/gorm"
)

// Options configuration for the seeder
type Options struct {
	NumUsers int
	NumPosts int
}

// Seeder builds domain entities and persists them to the database.
type Seeder struct {
	db *gorm.DB
	r  *rand.Rand
}

// NewSeeder creates a Seeder bound to the provided Gorm DB.
func NewSeeder(db *gorm.DB) *Seeder {
	gofakeit.Seed(time.Now().UnixNano())
	return &Seeder{
		db: db,
		//nolint:gosec // Weak random number generator is fine for seeding
		r: rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// ClearAll removes all seeded data.
func (s *Seeder) ClearAll() error {
	log.Println("Clearing existing data...")
	sql := `TRUNCATE TABLE comments, posts, users RESTART IDENTITY CASCADE;`
	return s.db.Exec(sql).Error
}

// Seed populates the database with fake users, posts, and comments.
// All seeded users share the password "password123".
func (s *Seeder) Seed(opts Options) error {
	log.Printf("Seeding %d users and %d posts...", opts.NumUsers, opts.NumPosts)

	users, err := s.createUsers(opts.NumUsers)
	if err != nil {
		return fmt.Errorf("failed to create users: %w", err)
	}
	log.Printf("%d users created", len(users))

	posts, err := s.createPosts(users, opts.NumPosts)
	if err != nil {
		return fmt.Errorf("failed to create posts: %w", err)
	}
	log.Printf("%d posts created", len(posts))

	if err := s.createComments(users, posts); err != nil {
		return fmt.Errorf("failed to create comments: %w", err)
	}

	log.Println("Seeding completed")
	return nil
}

func (s *Seeder) createUsers(n int) ([]*models.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	users := make([]*models.User, 0, n)
	for i := 0; i < n; i++ {
		first := gofakeit.FirstName()
		last := gofakeit.LastName()
		username := strings.ToLower(fmt.Sprintf("%s_%s%d", first, last, s.r.Intn(1000)))

		user := &models.User{
			Username:     username,
			Email:        fmt.Sprintf("%s@%s", username, gofakeit.DomainName()),
			PasswordHash: string(hash),
			FullName:     first + " " + last,
			Bio:          gofakeit.Sentence(8),
			Website:      gofakeit.URL(),
			ProfileImage: models.DefaultProfileImage,
		}
		if err := s.db.Create(user).Error; err != nil {
			// Username collisions happen with fake data; skip and move on.
			continue
		}
		users = append(users, user)
	}
	return users, nil
}

func (s *Seeder) createPosts(users []*models.User, n int) ([]*models.Post, error) {
	if len(users) == 0 {
		return nil, nil
	}
	posts := make([]*models.Post, 0, n)
	for i := 0; i < n; i++ {
		author := users[s.r.Intn(len(users))]
		post := &models.Post{
			Title:     gofakeit.Sentence(5),
			Content:   gofakeit.Paragraph(2, 4, 8, "\n"),
			Published: s.r.Intn(10) > 1, // roughly one draft in five
			UserID:    author.ID,
		}
		// realistic created_at spread
		daysBack := s.r.Intn(90)
		post.CreatedAt = time.Now().Add(-time.Duration(daysBack) * 24 * time.Hour)

		if err := s.db.Create(post).Error; err != nil {
			return nil, err
		}
		posts = append(posts, post)
	}
	return posts, nil
}

func (s *Seeder) createComments(users []*models.User, posts []*models.Post) error {
	for _, post := range posts {
		if !post.Published {
			continue
		}
		for i := 0; i < s.r.Intn(4); i++ {
			comment := &models.Comment{
				Content: gofakeit.Sentence(12),
				UserID:  users[s.r.Intn(len(users))].ID,
				PostID:  post.ID,
			}
			if err := s.db.Create(comment).Error; err != nil {
				return err
			}
			// occasionally a reply
			if s.r.Intn(3) == 0 {
				reply := &models.Comment{
					Content:  gofakeit.Sentence(10),
					UserID:   users[s.r.Intn(len(users))].ID,
					PostID:   post.ID,
					ParentID: &comment.ID,
				}
				if err := s.db.Create(reply).Error; err != nil {
					return err
				}
			}
		}
	}
	return nil
}

// Fixture is a YAML-declared data set for reproducible environments.
type Fixture struct {
	Users []struct {
		Username string `yaml:"username"`
		Email    string `yaml:"email"`
		Password string `yaml:"password"`
		FullName string `yaml:"full_name"`
		Bio      string `yaml:"bio"`
		Posts    []struct {
			Title     string `yaml:"title"`
			Content   string `yaml:"content"`
			Published bool   `yaml:"published"`
		} `yaml:"posts"`
	} `yaml:"users"`
}

// LoadFixture seeds the database from a YAML fixture file.
func (s *Seeder) LoadFixture(path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read fixture: %w", err)
	}

	var fx Fixture
	if err := yaml.Unmarshal(raw, &fx); err != nil {
		return fmt.Errorf("failed to parse fixture: %w", err)
	}

	for _, u := range fx.Users {
		hash, err := bcrypt.GenerateFromPassword([]byte(u.Password), bcrypt.DefaultCost)
		if err != nil {
			return err
		}
		user := &models.User{
			Username:     u.Username,
			Email:        u.Email,
			PasswordHash: string(hash),
			FullName:     u.FullName,
			Bio:          u.Bio,
			ProfileImage: models.DefaultProfileImage,
		}
		if err := s.db.Create(user).Error; err != nil {
			return fmt.Errorf("failed to create user %q: %w", u.Username, err)
		}
		for _, p := range u.Posts {
			post := &models.Post{
				Title:     p.Title,
				Content:   p.Content,
				Published: p.Published,
				UserID:    user.ID,
			}
			if err := s.db.Create(post).Error; err != nil {
				return fmt.Errorf("failed to create post %q: %w", p.Title, err)
			}
		}
	}
	return nil
}
