// Package recommendation answers "which policies does this user qualify for",
// optionally narrowed to an apartment's region and recent prices.
package recommendation

import (
	"context"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2/log"
	"github.com/jipsalddae/backend/app/models"
	"github.com/jipsalddae/backend/app/repository"
	"github.com/jipsalddae/backend/internal/pkg/eligibility"
	"github.com/jipsalddae/backend/internal/pkg/marketprice"
)

// ReferenceData is the read side of the policy catalog, usually refdata.Cache.
type ReferenceData interface {
	eligibility.StandardStore
	Rules(ctx context.Context) ([]models.PolicyRule, error)
	Output(ctx context.Context, policyID int) (*models.PolicyOutput, error)
}

type Result struct {
	Count    int                   `json:"count"`
	Policies []models.PolicyOutput `json:"policies"`
}

type DetailResult struct {
	MinimumObservedPrice float64               `json:"minimum_observed_price"`
	Count                int                   `json:"count"`
	Policies             []models.PolicyOutput `json:"policies"`
}

type Service struct {
	profiles repository.ProfileRepository
	regions  repository.RegionRepository
	ref      ReferenceData
	trades   marketprice.TradeProvider
	matcher  *eligibility.Matcher
	months   int
	now      func() time.Time
}

func NewService(
	profiles repository.ProfileRepository,
	regions repository.RegionRepository,
	ref ReferenceData,
	trades marketprice.TradeProvider,
	months int,
) *Service {
	if months <= 0 {
		months = 3
	}
	return &Service{
		profiles: profiles,
		regions:  regions,
		ref:      ref,
		trades:   trades,
		matcher:  eligibility.NewMatcher(eligibility.NewResolver(ref)),
		months:   months,
		now:      time.Now,
	}
}

// WithClock replaces the clock used for age and month computations.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// Recommend matches the user's stored profile against every rule variant.
func (s *Service) Recommend(ctx context.Context, userID string) (*Result, error) {
	if userID == "" {
		return nil, eligibility.ErrUnauthenticated
	}

	info, err := s.profiles.Get(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load profile: %w", err)
	}
	if info == nil {
		return nil, eligibility.ErrProfileMissing
	}

	rules, err := s.ref.Rules(ctx)
	if err != nil {
		return nil, err
	}

	ids, err := s.matcher.Match(ctx, info.ToProfile(s.now()), models.ToRules(rules))
	if err != nil {
		return nil, err
	}

	policies := make([]models.PolicyOutput, 0, len(ids))
	for _, id := range ids {
		out, err := s.ref.Output(ctx, id)
		if err != nil {
			return nil, err
		}
		if out == nil {
			log.Warnf("[Recommend] Policy %d matched but has no output record", id)
			continue
		}
		policies = append(policies, *out)
	}

	return &Result{Count: len(policies), Policies: policies}, nil
}

// RecommendForApartment narrows the recommendation to policies that apply in the
// apartment's sido and whose price cap covers its minimum recent price.
func (s *Service) RecommendForApartment(ctx context.Context, userID, sido, sigungu, apartName string) (*DetailResult, error) {
	base, err := s.Recommend(ctx, userID)
	if err != nil {
		return nil, err
	}

	code, err := s.regions.GetRegionCode(ctx, sido, sigungu)
	if err != nil {
		return nil, err
	}

	trades := marketprice.FetchRecent(ctx, s.trades, code, s.now(), s.months)
	minPrice, err := marketprice.MinimumObservedPrice(trades, apartName)
	if err != nil {
		return nil, err
	}

	refined := marketprice.RefinePolicies(base.Policies, minPrice, sido)
	log.Debugf("[Recommend] %s/%s %q min=%.0f kept %d of %d", sido, sigungu, apartName, minPrice, len(refined), base.Count)

	return &DetailResult{
		MinimumObservedPrice: minPrice,
		Count:                len(refined),
		Policies:             refined,
	}, nil
}

// ApartmentNames lists the buildings traded in the region over the recent months.
func (s *Service) ApartmentNames(ctx context.Context, sido, sigungu string) ([]string, error) {
	code, err := s.regions.GetRegionCode(ctx, sido, sigungu)
	if err != nil {
		return nil, err
	}
	return marketprice.ApartmentNames(marketprice.FetchRecent(ctx, s.trades, code, s.now(), s.months)), nil
}
