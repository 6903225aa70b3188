package database

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/rentgrid/car-rental-backend/internal/models"
)

// UserRepository handles database operations for the users table
type UserRepository struct {
	db DB
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(db DB) *UserRepository {
	return &UserRepository{db: db}
}

const userColumns = `id, email, password_hash, full_name, roles, created_at, updated_at`

// Create creates a new user account
func (r *UserRepository) Create(user *models.User) error {
	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	if len(user.Roles) == 0 {
		user.Roles = pq.StringArray{models.RoleCustomer}
	}

	err := r.db.QueryRow(`
		INSERT INTO users (id, email, password_hash, full_name, roles)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at, updated_at
	`, user.ID, user.Email, user.PasswordHash, user.FullName, user.Roles,
	).Scan(&user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// GetByEmail retrieves a user by email
func (r *UserRepository) GetByEmail(email string) (*models.User, error) {
	var user models.User
	err := r.db.Get(&user, `
		SELECT `+userColumns+`
		FROM users
		WHERE email = $1
	`, email)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("user %s: %w", email, models.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &user, nil
}

// GetByID retrieves a user by ID
func (r *UserRepository) GetByID(userID string) (*models.User, error) {
	var user models.User
	err := r.db.Get(&user, `
		SELECT `+userColumns+`
		FROM users
		WHERE id = $1
	`, userID)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("user %s: %w", userID, models.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &user, nil
}
