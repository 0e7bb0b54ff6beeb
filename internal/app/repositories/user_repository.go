package repositories

import (
	"context"
	"strings"

	"github.com/yigit/eventsphere/internal/app/models"
	"github.com/yigit/eventsphere/internal/pkg/apperrors"
)

// IUserRepository defines the interface for user persistence
type IUserRepository interface {
	Create(ctx context.Context, user *models.User) error
	Update(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByRollNumber(ctx context.Context, rollNumber string) (*models.User, error)
	List(ctx context.Context) ([]models.User, error)
}

// UserRepository stores users in the users collection
type UserRepository struct {
	store RecordStore
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(store RecordStore) *UserRepository {
	return &UserRepository{store: store}
}

// Create stores a new user, rejecting an email that is already taken
func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	if existing, err := r.GetByEmail(ctx, user.Email); err == nil && existing != nil {
		return apperrors.NewDuplicateError("a user with this email already exists")
	} else if err != nil && !IsNotFound(err) {
		return err
	}
	return putRecord(ctx, r.store, models.CollectionUsers, user.ID, user)
}

// Update overwrites the stored user
func (r *UserRepository) Update(ctx context.Context, user *models.User) error {
	return putRecord(ctx, r.store, models.CollectionUsers, user.ID, user)
}

// GetByID retrieves a user by id
func (r *UserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	return getRecord[models.User](ctx, r.store, models.CollectionUsers, id)
}

// GetByEmail retrieves a user by email, compared case-insensitively
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.find(ctx, func(u *models.User) bool {
		return strings.EqualFold(u.Email, strings.TrimSpace(email))
	})
}

// GetByRollNumber retrieves the student with the roll number
func (r *UserRepository) GetByRollNumber(ctx context.Context, rollNumber string) (*models.User, error) {
	if rollNumber == "" {
		return nil, ErrRecordNotFound
	}
	return r.find(ctx, func(u *models.User) bool {
		return u.Role == models.RoleStudent && u.RollNumber == rollNumber
	})
}

// List returns all users in creation order
func (r *UserRepository) List(ctx context.Context) ([]models.User, error) {
	return listRecords[models.User](ctx, r.store, models.CollectionUsers)
}

func (r *UserRepository) find(ctx context.Context, match func(*models.User) bool) (*models.User, error) {
	users, err := r.List(ctx)
	if err != nil {
		return nil, err
	}
	for i := range users {
		if match(&users[i]) {
			return &users[i], nil
		}
	}
	return nil, ErrRecordNotFound
}
