package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jipsalddae/backend/app/models"
	"github.com/jipsalddae/backend/internal/pkg/eligibility"
	"github.com/samber/lo"
	"gorm.io/gorm"
)

type policyRepository struct {
	db *gorm.DB
}

// NewPolicyRepository creates a new policy repository instance
func NewPolicyRepository(db *gorm.DB) PolicyRepository {
	return &policyRepository{db: db}
}

func (r *policyRepository) GetAllRules(ctx context.Context) ([]models.PolicyRule, error) {
	var rules []models.PolicyRule
	err := r.db.WithContext(ctx).Order("policy_id, id").Find(&rules).Error
	return rules, err
}

// GetOutputByID returns nil, nil when the policy has no display record.
func (r *policyRepository) GetOutputByID(ctx context.Context, policyID int) (*models.PolicyOutput, error) {
	var output models.PolicyOutput
	err := r.db.WithContext(ctx).Where("policy_id = ?", policyID).First(&output).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &output, nil
}

func (r *policyRepository) GetAllOutputs(ctx context.Context) ([]models.PolicyOutput, error) {
	var outputs []models.PolicyOutput
	err := r.db.WithContext(ctx).Order("policy_id").Find(&outputs).Error
	return outputs, err
}

// GetIncomeRuleVariants returns a single variant for one row and a keyed set otherwise.
func (r *policyRepository) GetIncomeRuleVariants(ctx context.Context, policyID int) (eligibility.RuleVariants, error) {
	var rows []models.IncomeRule
	err := r.db.WithContext(ctx).Where("policy_id = ?", policyID).Order("id").Find(&rows).Error
	if err != nil {
		return eligibility.RuleVariants{}, fmt.Errorf("failed to load income rules for policy %d: %w", policyID, err)
	}
	return eligibility.NewRuleVariants(lo.Map(rows, func(row models.IncomeRule, _ int) eligibility.IncomeVariant {
		return row.ToVariant()
	})), nil
}
