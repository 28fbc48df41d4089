package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/nurpe/estate-accounting/internal/model"
)

type AgentRepository struct {
	db *gorm.DB
}

func NewAgentRepository(db *gorm.DB) *AgentRepository {
	return &AgentRepository{db: db}
}

func (r *AgentRepository) Create(ctx context.Context, agent *model.Agent) error {
	return r.db.WithContext(ctx).Create(agent).Error
}

func (r *AgentRepository) GetByID(ctx context.Context, companyID, id uuid.UUID) (*model.Agent, error) {
	var agent model.Agent
	err := r.db.WithContext(ctx).
		Where("company_id = ? AND id = ?", companyID, id).
		First(&agent).Error
	if err != nil {
		return nil, err
	}
	return &agent, nil
}

func (r *AgentRepository) List(ctx context.Context, companyID uuid.UUID) ([]model.Agent, error) {
	var agents []model.Agent
	err := r.db.WithContext(ctx).
		Where("company_id = ?", companyID).
		Order("full_name ASC").
		Find(&agents).Error
	return agents, err
}

func (r *AgentRepository) Update(ctx context.Context, agent *model.Agent) error {
	return r.db.WithContext(ctx).Save(agent).Error
}

// Credit accumulates the sale counters in place. Invoked only from
// contract creation, inside its transaction.
func (r *AgentRepository) Credit(ctx context.Context, companyID, id uuid.UUID, commission decimal.Decimal) error {
	result := r.db.WithContext(ctx).
		Model(&model.Agent{}).
		Where("company_id = ? AND id = ?", companyID, id).
		Updates(map[string]interface{}{
			"total_sales":             gorm.Expr("total_sales + 1"),
			"total_commission_earned": gorm.Expr("total_commission_earned + ?", commission),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *AgentRepository) TopPerformers(ctx context.Context, companyID uuid.UUID, limit int) ([]model.Agent, error) {
	var agents []model.Agent
	err := r.db.WithContext(ctx).
		Where("company_id = ?", companyID).
		Order("total_sales DESC, total_commission_earned DESC").
		Limit(limit).
		Find(&agents).Error
	return agents, err
}

func (r *AgentRepository) Delete(ctx context.Context, companyID, id uuid.UUID) error {
	var referenced int64
	err := r.db.WithContext(ctx).
		Model(&model.Contract{}).
		Where("company_id = ? AND agent_id = ?", companyID, id).
		Count(&referenced).Error
	if err != nil {
		return err
	}
	if referenced > 0 {
		return ErrRestricted
	}
	result := r.db.WithContext(ctx).
		Where("company_id = ? AND id = ?", companyID, id).
		Delete(&model.Agent{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
