package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jipsalddae/backend/app/models"
	"github.com/jipsalddae/backend/internal/pkg/eligibility"
	"gorm.io/gorm"
)

// ErrRegionNotFound is returned when a sido/sigungu pair has no legal-district code.
var ErrRegionNotFound = errors.New("region not found")

// UserRepository defines the interface for user-related database operations
type UserRepository interface {
	Create(user *models.User) error
	GetByID(id string) (*models.User, error)
	GetByUsername(username string) (*models.User, error)
	GetByProvider(provider, providerUserID string) (*models.User, error)
	Update(user *models.User) error
	Count() (int64, error)
	UpsertProviderAccount(account *models.ProviderAccount) error
}

// ProfileRepository stores the single household profile of a user.
// Get returns nil, nil when the user has not submitted one yet.
type ProfileRepository interface {
	Get(ctx context.Context, userID string) (*models.UserInfo, error)
	Upsert(ctx context.Context, info *models.UserInfo) error
	Exists(ctx context.Context, userID string) (bool, error)
}

// PolicyRepository reads the policy catalog: rule variants, display records and income caps.
type PolicyRepository interface {
	GetAllRules(ctx context.Context) ([]models.PolicyRule, error)
	GetOutputByID(ctx context.Context, policyID int) (*models.PolicyOutput, error)
	GetAllOutputs(ctx context.Context) ([]models.PolicyOutput, error)
	GetIncomeRuleVariants(ctx context.Context, policyID int) (eligibility.RuleVariants, error)
}

// IncomeStandardRepository satisfies eligibility.StandardStore.
type IncomeStandardRepository interface {
	GetStandard(ctx context.Context, householdSize int) (int64, bool, error)
	GetAll(ctx context.Context) ([]models.IncomeStandard, error)
}

// FavoriteRepository defines the interface for favorite policies of a user
type FavoriteRepository interface {
	Toggle(ctx context.Context, userID string, policyID int) (bool, error)
	ListPolicyIDs(ctx context.Context, userID string) ([]int, error)
}

// RegionRepository resolves administrative region names to LAWD codes.
type RegionRepository interface {
	GetSidoNames(ctx context.Context) ([]string, error)
	GetSigunguNames(ctx context.Context, sidoName string) ([]string, error)
	GetRegionCode(ctx context.Context, sidoName, sigunguName string) (string, error)
}

// CacheRepository inspects and clears keys in the Redis cache
type CacheRepository interface {
	FindKeysByPatterns(ctx context.Context, patterns []string) ([]string, error)
	GetTTL(ctx context.Context, key string) (time.Duration, error)
	DeleteKeys(ctx context.Context, keys []string) (int64, error)
}

// Repositories struct holds all repository instances
type Repositories struct {
	User           UserRepository
	Profile        ProfileRepository
	Policy         PolicyRepository
	IncomeStandard IncomeStandardRepository
	Favorite       FavoriteRepository
	Region         RegionRepository
	Cache          CacheRepository
}

// NewRepositories creates a new instance of all repositories
func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		User:           NewUserRepository(db),
		Profile:        NewProfileRepository(db),
		Policy:         NewPolicyRepository(db),
		IncomeStandard: NewIncomeStandardRepository(db),
		Favorite:       NewFavoriteRepository(db),
		Region:         NewRegionRepository(db),
		Cache:          NewCacheRepository(nil),
	}
}
