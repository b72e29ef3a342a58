package postgres

import (
	"context"
	"errors"

	"github.com/avelorn/orvoice/internal/models"
	"github.com/avelorn/orvoice/internal/utils"
	"gorm.io/gorm"
)

type InteractionRepo interface {
	Insert(ctx context.Context, log *models.InteractionLog) error
	ListByProcedure(ctx context.Context, procedureType string, limit int) ([]models.InteractionLog, error)
	LatestN(ctx context.Context, n int) ([]models.InteractionLog, error)
	GetByID(ctx context.Context, id string) (*models.InteractionLog, error)
}

type interactionRepo struct {
	db *gorm.DB
}

func NewInteractionRepo(db *gorm.DB) InteractionRepo {
	return &interactionRepo{db: db}
}

func (r *interactionRepo) Insert(ctx context.Context, log *models.InteractionLog) error {
	return r.db.WithContext(ctx).Create(log).Error
}

func (r *interactionRepo) ListByProcedure(ctx context.Context, procedureType string, limit int) ([]models.InteractionLog, error) {
	if limit <= 0 {
		limit = 50
	}

	var rows []models.InteractionLog
	err := r.db.WithContext(ctx).
		Where("procedure_type = ?", procedureType).
		Order("timestamp DESC").
		Limit(limit).
		Find(&rows).Error
	return rows, err
}

func (r *interactionRepo) LatestN(ctx context.Context, n int) ([]models.InteractionLog, error) {
	if n <= 0 {
		n = 5
	}
	var rows []models.InteractionLog
	err := r.db.WithContext(ctx).
		Order("timestamp DESC").
		Limit(n).
		Find(&rows).Error
	return rows, err
}

func (r *interactionRepo) GetByID(ctx context.Context, id string) (*models.InteractionLog, error) {
	var row models.InteractionLog
	err := r.db.WithContext(ctx).Where("id = ?", id).Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, utils.ErrNotFound
	}
	return &row, err
}
