// Package repository implements data access for the application's entities.
package repository

import (
	"context"
	"errors"
	"time"

	"kroknodes/internal/models"

	"gorm.io/gorm"
)

// UserRepository defines the interface for user data operations
type UserRepository interface {
	GetByID(ctx context.Context, id uint) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	List(ctx context.Context, skip, limit int) ([]models.User, error)
	Create(ctx context.Context, in *models.UserCreate) (*models.User, error)
	Update(ctx context.Context, id uint, in *models.UserUpdate) (*models.User, error)
	Delete(ctx context.Context, id uint) (bool, error)
	GetOrCreate(ctx context.Context, username string, email *string) (*models.User, error)
}

// userRepository implements UserRepository
type userRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) GetByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("User", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &user, nil
}

func (r *userRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where("username = ?", username).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("User", username)
		}
		return nil, models.NewInternalError(err)
	}
	return &user, nil
}

func (r *userRepository) List(ctx context.Context, skip, limit int) ([]models.User, error) {
	var users []models.User
	if err := r.db.WithContext(ctx).Order("id").Offset(skip).Limit(limit).Find(&users).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return users, nil
}

func (r *userRepository) Create(ctx context.Context, in *models.UserCreate) (*models.User, error) {
	user := models.User{
		Username: in.Username,
		Email:    in.Email,
		IsActive: true,
	}
	if in.IsActive != nil {
		user.IsActive = *in.IsActive
	}

	if err := r.db.WithContext(ctx).Create(&user).Error; err != nil {
		// The unique index is the authoritative duplicate check; handler
		// pre-checks are only a shortcut.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, models.NewConflictError("username already exists")
		}
		return nil, models.NewInternalError(err)
	}
	return &user, nil
}

func (r *userRepository) Update(ctx context.Context, id uint, in *models.UserUpdate) (*models.User, error) {
	user, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	// Only fields the caller actually set are written; omitted fields stay
	// untouched.
	updates := map[string]interface{}{}
	if in.Username != nil {
		updates["username"] = *in.Username
	}
	if in.Email != nil {
		updates["email"] = *in.Email
	}
	if in.IsActive != nil {
		updates["is_active"] = *in.IsActive
	}
	if len(updates) == 0 {
		return user, nil
	}
	updates["updated_at"] = time.Now()

	if err := r.db.WithContext(ctx).Model(user).Updates(updates).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, models.NewConflictError("username already exists")
		}
		return nil, models.NewInternalError(err)
	}
	return r.GetByID(ctx, id)
}

// Delete removes a user by ID. Deletion is rejected with a conflict while the
// user still owns flows; flows must be deleted or reassigned first.
func (r *userRepository) Delete(ctx context.Context, id uint) (bool, error) {
	var flowCount int64
	if err := r.db.WithContext(ctx).Model(&models.Flow{}).Where("user_id = ?", id).Count(&flowCount).Error; err != nil {
		return false, models.NewInternalError(err)
	}
	if flowCount > 0 {
		return false, models.NewConflictError("user still owns flows")
	}

	res := r.db.WithContext(ctx).Delete(&models.User{}, id)
	if res.Error != nil {
		if errors.Is(res.Error, gorm.ErrForeignKeyViolated) {
			return false, models.NewConflictError("user still owns flows")
		}
		return false, models.NewInternalError(res.Error)
	}
	return res.RowsAffected > 0, nil
}

// GetOrCreate returns the user with the given username, creating it with
// default settings if it does not exist. A creation that loses the race to a
// concurrent insert falls back to fetching the winner's row.
func (r *userRepository) GetOrCreate(ctx context.Context, username string, email *string) (*models.User, error) {
	user, err := r.GetByUsername(ctx, username)
	if err == nil {
		return user, nil
	}
	if !models.IsCode(err, models.CodeNotFound) {
		return nil, err
	}

	user, err = r.Create(ctx, &models.UserCreate{Username: username, Email: email})
	if err != nil {
		if models.IsCode(err, models.CodeConflict) {
			return r.GetByUsername(ctx, username)
		}
		return nil, err
	}
	return user, nil
}
