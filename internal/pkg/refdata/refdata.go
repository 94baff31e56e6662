// Package refdata keeps the policy catalog and income standards in memory.
// The tables only change through the seed command or the admin reload endpoint,
// both of which call Invalidate.
package refdata

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2/log"
	"github.com/jipsalddae/backend/app/models"
	"github.com/jipsalddae/backend/app/repository"
	"golang.org/x/sync/singleflight"
)

type snapshot struct {
	rules     []models.PolicyRule
	outputs   []models.PolicyOutput
	byID      map[int]*models.PolicyOutput
	standards map[int]int64
	loadedAt  time.Time
}

// Stats describes the currently loaded snapshot.
type Stats struct {
	Loaded    bool      `json:"loaded"`
	LoadedAt  time.Time `json:"loaded_at,omitempty"`
	Rules     int       `json:"rules"`
	Outputs   int       `json:"outputs"`
	Standards int       `json:"standards"`
}

type Cache struct {
	policies  repository.PolicyRepository
	standards repository.IncomeStandardRepository

	mu      sync.RWMutex
	current *snapshot
	group   singleflight.Group
}

func New(policies repository.PolicyRepository, standards repository.IncomeStandardRepository) *Cache {
	return &Cache{policies: policies, standards: standards}
}

func (c *Cache) get(ctx context.Context) (*snapshot, error) {
	c.mu.RLock()
	snap := c.current
	c.mu.RUnlock()
	if snap != nil {
		return snap, nil
	}

	v, err, _ := c.group.Do("load", func() (interface{}, error) {
		c.mu.RLock()
		existing := c.current
		c.mu.RUnlock()
		if existing != nil {
			return existing, nil
		}

		// Shared by every waiter, so the first caller's cancellation must not abort it.
		loaded, err := c.load(context.WithoutCancel(ctx))
		if err != nil {
			return nil, err
		}
		c.mu.Lock()
		c.current = loaded
		c.mu.Unlock()
		return loaded, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*snapshot), nil
}

func (c *Cache) load(ctx context.Context) (*snapshot, error) {
	rules, err := c.policies.GetAllRules(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load policy rules: %w", err)
	}
	outputs, err := c.policies.GetAllOutputs(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load policy outputs: %w", err)
	}
	standards, err := c.standards.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load income standards: %w", err)
	}

	snap := &snapshot{
		rules:     rules,
		outputs:   outputs,
		byID:      make(map[int]*models.PolicyOutput, len(outputs)),
		standards: make(map[int]int64, len(standards)),
		loadedAt:  time.Now(),
	}
	for i := range snap.outputs {
		snap.byID[snap.outputs[i].PolicyID] = &snap.outputs[i]
	}
	for _, s := range standards {
		snap.standards[s.HouseholdSize] = s.MonthlyIncome
	}

	log.Infof("[RefData] Loaded %d rules, %d outputs, %d income standards", len(rules), len(outputs), len(standards))
	return snap, nil
}

// Rules returns every policy rule variant. The slice is shared; callers must not modify it.
func (c *Cache) Rules(ctx context.Context) ([]models.PolicyRule, error) {
	snap, err := c.get(ctx)
	if err != nil {
		return nil, err
	}
	return snap.rules, nil
}

func (c *Cache) Outputs(ctx context.Context) ([]models.PolicyOutput, error) {
	snap, err := c.get(ctx)
	if err != nil {
		return nil, err
	}
	return snap.outputs, nil
}

// Output returns a copy of the display record, or nil when the policy has none.
func (c *Cache) Output(ctx context.Context, policyID int) (*models.PolicyOutput, error) {
	snap, err := c.get(ctx)
	if err != nil {
		return nil, err
	}
	out, ok := snap.byID[policyID]
	if !ok {
		return nil, nil
	}
	cp := *out
	return &cp, nil
}

// GetStandard satisfies eligibility.StandardStore.
func (c *Cache) GetStandard(ctx context.Context, householdSize int) (int64, bool, error) {
	snap, err := c.get(ctx)
	if err != nil {
		return 0, false, err
	}
	v, ok := snap.standards[householdSize]
	return v, ok, nil
}

// Invalidate drops the snapshot; the next read reloads from the database.
func (c *Cache) Invalidate() {
	c.mu.Lock()
	c.current = nil
	c.mu.Unlock()
	log.Info("[RefData] Cache invalidated")
}

func (c *Cache) Stats() Stats {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.current == nil {
		return Stats{}
	}
	return Stats{
		Loaded:    true,
		LoadedAt:  c.current.loadedAt,
		Rules:     len(c.current.rules),
		Outputs:   len(c.current.outputs),
		Standards: len(c.current.standards),
	}
}

var (
	global     *Cache
	globalOnce sync.Once
)

// Initialize sets up the process-wide cache over the global repositories.
func Initialize(repos *repository.Repositories) {
	globalOnce.Do(func() {
		global = New(repos.Policy, repos.IncomeStandard)
	})
}

// Get returns the process-wide cache set up by Initialize.
func Get() *Cache {
	if global == nil {
		panic("refdata cache not initialized. Call Initialize first.")
	}
	return global
}
