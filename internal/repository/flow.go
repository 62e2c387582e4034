package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"kroknodes/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	defaultFlowName        = "My First Flow"
	defaultFlowDescription = "Automatically created flow"

	// Generated flow IDs have a small collision chance, so creation of a
	// default flow retries with a fresh ID on a duplicate-key failure.
	defaultFlowCreateAttempts = 3
)

// FlowRepository defines the interface for flow data operations
type FlowRepository interface {
	GetByFlowID(ctx context.Context, flowID string) (*models.Flow, error)
	ListAll(ctx context.Context, skip, limit int) ([]models.Flow, error)
	ListByUser(ctx context.Context, userID uint, skip, limit int) ([]models.Flow, error)
	CountByUser(ctx context.Context, userID uint) (int64, error)
	Create(ctx context.Context, in *models.FlowCreate) (*models.Flow, error)
	Update(ctx context.Context, flowID string, in *models.FlowUpdate) (*models.Flow, error)
	Delete(ctx context.Context, flowID string) (bool, error)
	CreateDefault(ctx context.Context, userID uint) (*models.Flow, error)
}

// flowRepository implements FlowRepository
type flowRepository struct {
	db *gorm.DB
}

// NewFlowRepository creates a new flow repository
func NewFlowRepository(db *gorm.DB) FlowRepository {
	return &flowRepository{db: db}
}

func (r *flowRepository) GetByFlowID(ctx context.Context, flowID string) (*models.Flow, error) {
	var flow models.Flow
	if err := r.db.WithContext(ctx).Where("flow_id = ?", flowID).First(&flow).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Flow", flowID)
		}
		return nil, models.NewInternalError(err)
	}
	return &flow, nil
}

func (r *flowRepository) ListAll(ctx context.Context, skip, limit int) ([]models.Flow, error) {
	var flows []models.Flow
	if err := r.db.WithContext(ctx).Order("id").Offset(skip).Limit(limit).Find(&flows).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return flows, nil
}

func (r *flowRepository) ListByUser(ctx context.Context, userID uint, skip, limit int) ([]models.Flow, error) {
	var flows []models.Flow
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("id").Offset(skip).Limit(limit).Find(&flows).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return flows, nil
}

func (r *flowRepository) CountByUser(ctx context.Context, userID uint) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Flow{}).Where("user_id = ?", userID).Count(&count).Error; err != nil {
		return 0, models.NewInternalError(err)
	}
	return count, nil
}

func (r *flowRepository) Create(ctx context.Context, in *models.FlowCreate) (*models.Flow, error) {
	flow := models.Flow{
		FlowID:      in.FlowID,
		Name:        in.Name,
		Description: in.Description,
		UserID:      in.UserID,
	}

	if err := r.db.WithContext(ctx).Create(&flow).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, models.NewConflictError("flow_id already exists")
		}
		if errors.Is(err, gorm.ErrForeignKeyViolated) {
			return nil, models.NewForeignKeyError("owning user does not exist")
		}
		return nil, models.NewInternalError(err)
	}
	return &flow, nil
}

func (r *flowRepository) Update(ctx context.Context, flowID string, in *models.FlowUpdate) (*models.Flow, error) {
	flow, err := r.GetByFlowID(ctx, flowID)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if in.Name != nil {
		updates["name"] = *in.Name
	}
	if in.Description != nil {
		updates["description"] = *in.Description
	}
	if len(updates) == 0 {
		return flow, nil
	}
	updates["updated_at"] = time.Now()

	if err := r.db.WithContext(ctx).Model(flow).Updates(updates).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return r.GetByFlowID(ctx, flowID)
}

func (r *flowRepository) Delete(ctx context.Context, flowID string) (bool, error) {
	res := r.db.WithContext(ctx).Where("flow_id = ?", flowID).Delete(&models.Flow{})
	if res.Error != nil {
		return false, models.NewInternalError(res.Error)
	}
	return res.RowsAffected > 0, nil
}

// CreateDefault creates a flow with a generated external ID and fixed
// name/description for the given user.
func (r *flowRepository) CreateDefault(ctx context.Context, userID uint) (*models.Flow, error) {
	description := defaultFlowDescription

	var lastErr error
	for i := 0; i < defaultFlowCreateAttempts; i++ {
		flow, err := r.Create(ctx, &models.FlowCreate{
			FlowID:      NewFlowID(),
			Name:        defaultFlowName,
			Description: &description,
			UserID:      userID,
		})
		if err == nil {
			return flow, nil
		}
		if !models.IsCode(err, models.CodeConflict) {
			return nil, err
		}
		lastErr = err
	}
	return nil, lastErr
}

// NewFlowID generates an external flow identifier of the form
// "flow_" followed by 8 hex characters.
func NewFlowID() string {
	id := uuid.New()
	return fmt.Sprintf("flow_%x", id[:4])
}
