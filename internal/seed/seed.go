// Package seed provides helpers to create demo data for development.
// Not intended for production databases.
package seed

import (
	"fmt"
	"log"
	"math/rand"
	"time"

	"profilebook/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Options configures the seeder.
type Options struct {
	NumUsers    int
	NumPosts    int
	ShouldClean bool
}

// Seeder populates the database with generated users, profiles, posts,
// messages, reports and groups.
type Seeder struct {
	db *gorm.DB
	r  *rand.Rand
}

func NewSeeder(db *gorm.DB) *Seeder {
	gofakeit.Seed(time.Now().UnixNano())
	return &Seeder{
		db: db,
		r:  rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// ClearAll truncates every seeded table, dependents first.
func (s *Seeder) ClearAll() error {
	tables := []interface{}{
		&models.GroupMembership{},
		&models.Group{},
		&models.Report{},
		&models.Message{},
		&models.Comment{},
		&models.Post{},
		&models.Profile{},
		&models.User{},
	}
	for _, table := range tables {
		if err := s.db.Where("1 = 1").Delete(table).Error; err != nil {
			return fmt.Errorf("cleanup failed: %w", err)
		}
	}
	log.Println("Database cleared")
	return nil
}

// SeedUsers creates n users with filled profiles, plus one admin account
// (admin / password123).
func (s *Seeder) SeedUsers(n int) ([]models.User, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	admin := models.User{
		Username:     "admin",
		PasswordHash: string(hashed),
		Role:         models.RoleAdmin,
	}
	if err := s.db.Create(&admin).Error; err != nil {
		return nil, err
	}
	if err := s.db.Create(&models.Profile{
		UserID:   admin.ID,
		FullName: "Site Administrator",
		Email:    "admin@profilebook.local",
	}).Error; err != nil {
		return nil, err
	}

	users := []models.User{admin}
	for i := 0; i < n; i++ {
		user := models.User{
			Username:     gofakeit.Username() + fmt.Sprintf("%d", gofakeit.Number(100, 999)),
			PasswordHash: string(hashed),
			Role:         models.RoleUser,
		}
		if err := s.db.Create(&user).Error; err != nil {
			return nil, err
		}
		profile := models.Profile{
			UserID:   user.ID,
			FullName: gofakeit.Name(),
			Email:    gofakeit.Email(),
			Phone:    gofakeit.Phone(),
			Bio:      gofakeit.Sentence(10),
		}
		if err := s.db.Create(&profile).Error; err != nil {
			return nil, err
		}
		users = append(users, user)
	}

	log.Printf("Seeded %d users", len(users))
	return users, nil
}

// SeedPosts creates n posts spread across users. Roughly two thirds are
// approved, the rest split between pending and rejected, so the moderation
// views have content.
func (s *Seeder) SeedPosts(users []models.User, n int) ([]models.Post, error) {
	statuses := []models.PostStatus{
		models.PostApproved, models.PostApproved,
		models.PostApproved, models.PostApproved,
		models.PostPending, models.PostRejected,
	}

	var posts []models.Post
	for i := 0; i < n; i++ {
		author := users[s.r.Intn(len(users))]
		post := models.Post{
			Content:   gofakeit.Paragraph(1, 3, 8, "\n"),
			Status:    statuses[s.r.Intn(len(statuses))],
			UserID:    author.ID,
			CreatedAt: time.Now().Add(-time.Duration(s.r.Intn(90*24)) * time.Hour),
		}
		if post.Status == models.PostApproved {
			post.Likes = s.r.Intn(50)
		}
		if err := s.db.Create(&post).Error; err != nil {
			return nil, err
		}
		posts = append(posts, post)
	}

	log.Printf("Seeded %d posts", len(posts))
	return posts, nil
}

// SeedEngagement adds comments to approved posts, a mesh of direct
// messages, a few reports, and some groups with members.
func (s *Seeder) SeedEngagement(users []models.User, posts []models.Post) error {
	for _, post := range posts {
		if post.Status != models.PostApproved {
			continue
		}
		for i := 0; i < s.r.Intn(4); i++ {
			comment := models.Comment{
				Text:   gofakeit.Sentence(8),
				UserID: users[s.r.Intn(len(users))].ID,
				PostID: post.ID,
			}
			if err := s.db.Create(&comment).Error; err != nil {
				return err
			}
		}
	}

	for i := 0; i < len(users)*2; i++ {
		a := users[s.r.Intn(len(users))]
		b := users[s.r.Intn(len(users))]
		if a.ID == b.ID {
			continue
		}
		msg := models.Message{
			Content:    gofakeit.Sentence(12),
			SenderID:   a.ID,
			ReceiverID: b.ID,
		}
		if err := s.db.Create(&msg).Error; err != nil {
			return err
		}
	}

	for i := 0; i < len(users)/10+1; i++ {
		a := users[s.r.Intn(len(users))]
		b := users[s.r.Intn(len(users))]
		if a.ID == b.ID {
			continue
		}
		report := models.Report{
			Reason:          gofakeit.Sentence(6),
			ReportingUserID: a.ID,
			ReportedUserID:  b.ID,
		}
		if err := s.db.Create(&report).Error; err != nil {
			return err
		}
	}

	groupNames := []string{"Photography", "Hiking", "Book Club", "Gaming", "Cooking"}
	for _, name := range groupNames {
		group := models.Group{Name: name}
		if err := s.db.Create(&group).Error; err != nil {
			return err
		}
		seen := map[uint]bool{}
		for i := 0; i < s.r.Intn(len(users))/2+1; i++ {
			member := users[s.r.Intn(len(users))]
			if seen[member.ID] {
				continue
			}
			seen[member.ID] = true
			membership := models.GroupMembership{GroupID: group.ID, UserID: member.ID}
			if err := s.db.Create(&membership).Error; err != nil {
				return err
			}
		}
	}

	log.Println("Seeded engagement data")
	return nil
}
