package seeder

import (
	"context"
	"fmt"
	"log"

	"parlour-attendance/models"
	"parlour-attendance/pkg/password"
)

type UserStore interface {
	FindUserByEmail(ctx context.Context, email string) (*models.User, error)
	CreateUser(ctx context.Context, user *models.User) error
}

type defaultUser struct {
	name     string
	email    string
	password string
	role     string
}

var defaultUsers = []defaultUser{
	{"Super Admin", "superadmin@parlour.com", "superadmin123", models.RoleSuperAdmin},
	{"Admin", "admin@parlour.com", "admin123", models.RoleAdmin},
}

// SeedUsers creates the default dashboard accounts. Existing accounts are left
// untouched, so it is safe to run on every start.
func SeedUsers(ctx context.Context, users UserStore) error {
	log.Println("Seeding default users...")

	for _, u := range defaultUsers {
		existing, err := users.FindUserByEmail(ctx, u.email)
		if err != nil {
			return err
		}
		if existing != nil {
			log.Printf("Skipping: user %s already exists", u.email)
			continue
		}

		hashed, err := password.HashPassword(u.password)
		if err != nil {
			return fmt.Errorf("failed to hash password for %s: %w", u.email, err)
		}

		user := &models.User{
			Name:     u.name,
			Email:    u.email,
			Password: hashed,
			Role:     u.role,
		}
		if err := users.CreateUser(ctx, user); err != nil {
			return err
		}
		log.Printf("User %s (%s) created", u.email, u.role)
	}

	log.Println("Default users ready.")
	return nil
}
