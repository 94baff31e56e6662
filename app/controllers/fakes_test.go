package controllers

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jipsalddae/backend/app/models"
	"github.com/jipsalddae/backend/app/repository"
	"github.com/jipsalddae/backend/internal/pkg/eligibility"
	"github.com/jipsalddae/backend/internal/pkg/metrics/counter"
	"github.com/jipsalddae/backend/internal/pkg/recommendation"
	"github.com/jipsalddae/backend/internal/pkg/refdata"
)

type fakeUsers struct {
	mu       sync.Mutex
	byID     map[string]*models.User
	accounts map[string]*models.ProviderAccount
}

func newFakeUsers() *fakeUsers {
	return &fakeUsers{byID: map[string]*models.User{}, accounts: map[string]*models.ProviderAccount{}}
}

func (f *fakeUsers) Create(u *models.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	cp := *u
	f.byID[u.ID] = &cp
	return nil
}

func (f *fakeUsers) GetByID(id string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if u, ok := f.byID[id]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, nil
}

func (f *fakeUsers) GetByUsername(username string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.byID {
		if u.Username == username {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeUsers) GetByProvider(provider, providerUserID string) (*models.User, error) {
	f.mu.Lock()
	acc, ok := f.accounts[provider+"/"+providerUserID]
	f.mu.Unlock()
	if !ok {
		return nil, nil
	}
	return f.GetByID(acc.UserID)
}

func (f *fakeUsers) Update(u *models.User) error {
	return f.Create(u)
}

func (f *fakeUsers) Count() (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return int64(len(f.byID)), nil
}

func (f *fakeUsers) UpsertProviderAccount(a *models.ProviderAccount) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *a
	f.accounts[a.Provider+"/"+a.ProviderUserID] = &cp
	return nil
}

type fakeProfiles struct {
	mu   sync.Mutex
	rows map[string]models.UserInfo
}

func (f *fakeProfiles) Get(_ context.Context, userID string) (*models.UserInfo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if ui, ok := f.rows[userID]; ok {
		return &ui, nil
	}
	return nil, nil
}

func (f *fakeProfiles) Upsert(_ context.Context, info *models.UserInfo) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rows[info.UserID] = *info
	return nil
}

func (f *fakeProfiles) Exists(_ context.Context, userID string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.rows[userID]
	return ok, nil
}

type fakePolicies struct {
	variants map[int][]eligibility.IncomeVariant
}

func (f *fakePolicies) GetAllRules(context.Context) ([]models.PolicyRule, error) { return nil, nil }

func (f *fakePolicies) GetOutputByID(context.Context, int) (*models.PolicyOutput, error) {
	return nil, nil
}

func (f *fakePolicies) GetAllOutputs(context.Context) ([]models.PolicyOutput, error) { return nil, nil }

func (f *fakePolicies) GetIncomeRuleVariants(_ context.Context, policyID int) (eligibility.RuleVariants, error) {
	return eligibility.NewRuleVariants(f.variants[policyID]), nil
}

type fakeFavorites struct {
	mu  sync.Mutex
	set map[string]map[int]bool
}

func (f *fakeFavorites) Toggle(_ context.Context, userID string, policyID int) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.set[userID] == nil {
		f.set[userID] = map[int]bool{}
	}
	if f.set[userID][policyID] {
		delete(f.set[userID], policyID)
		return false, nil
	}
	f.set[userID][policyID] = true
	return true, nil
}

func (f *fakeFavorites) ListPolicyIDs(_ context.Context, userID string) ([]int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	ids := make([]int, 0, len(f.set[userID]))
	for id := range f.set[userID] {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids, nil
}

type fakeRegions struct {
	codes map[string]string // "sido/sigungu" -> code
}

func (f *fakeRegions) GetSidoNames(context.Context) ([]string, error) {
	seen := map[string]bool{}
	var out []string
	for k := range f.codes {
		sido, _, _ := strings.Cut(k, "/")
		if !seen[sido] {
			seen[sido] = true
			out = append(out, sido)
		}
	}
	sort.Strings(out)
	return out, nil
}

func (f *fakeRegions) GetSigunguNames(_ context.Context, sido string) ([]string, error) {
	var out []string
	for k := range f.codes {
		s, sg, _ := strings.Cut(k, "/")
		if s == sido {
			out = append(out, sg)
		}
	}
	sort.Strings(out)
	return out, nil
}

func (f *fakeRegions) GetRegionCode(_ context.Context, sido, sigungu string) (string, error) {
	if code, ok := f.codes[sido+"/"+sigungu]; ok {
		return code, nil
	}
	return "", repository.ErrRegionNotFound
}

type fakeCacheRepo struct {
	keys map[string]time.Duration
}

func (f *fakeCacheRepo) FindKeysByPatterns(_ context.Context, patterns []string) ([]string, error) {
	var out []string
	for k := range f.keys {
		for _, p := range patterns {
			if strings.HasPrefix(k, strings.TrimSuffix(p, "*")) {
				out = append(out, k)
				break
			}
		}
	}
	sort.Strings(out)
	return out, nil
}

func (f *fakeCacheRepo) GetTTL(_ context.Context, key string) (time.Duration, error) {
	return f.keys[key], nil
}

func (f *fakeCacheRepo) DeleteKeys(_ context.Context, keys []string) (int64, error) {
	var n int64
	for _, k := range keys {
		if _, ok := f.keys[k]; ok {
			delete(f.keys, k)
			n++
		}
	}
	return n, nil
}

type fakeCatalog struct {
	outputs     []models.PolicyOutput
	standards   map[int]int64
	invalidated int
}

func (f *fakeCatalog) Rules(context.Context) ([]models.PolicyRule, error) { return nil, nil }

func (f *fakeCatalog) Outputs(context.Context) ([]models.PolicyOutput, error) {
	return f.outputs, nil
}

func (f *fakeCatalog) Output(_ context.Context, id int) (*models.PolicyOutput, error) {
	for _, o := range f.outputs {
		if o.PolicyID == id {
			cp := o
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeCatalog) GetStandard(_ context.Context, size int) (int64, bool, error) {
	v, ok := f.standards[size]
	return v, ok, nil
}

func (f *fakeCatalog) Invalidate() { f.invalidated++ }

func (f *fakeCatalog) Stats() refdata.Stats {
	return refdata.Stats{Loaded: f.invalidated == 0, Outputs: len(f.outputs)}
}

type fakeRecommender struct {
	result *recommendation.Result
	detail *recommendation.DetailResult
	names  []string
	err    error

	gotUserID string
	gotArgs   []string
}

func (f *fakeRecommender) Recommend(_ context.Context, userID string) (*recommendation.Result, error) {
	f.gotUserID = userID
	return f.result, f.err
}

func (f *fakeRecommender) RecommendForApartment(_ context.Context, userID, sido, sigungu, apart string) (*recommendation.DetailResult, error) {
	f.gotUserID = userID
	f.gotArgs = []string{sido, sigungu, apart}
	return f.detail, f.err
}

func (f *fakeRecommender) ApartmentNames(_ context.Context, sido, sigungu string) ([]string, error) {
	f.gotArgs = []string{sido, sigungu}
	return f.names, f.err
}

type fakeUsage struct {
	views     map[int]int64
	favorites map[int]int64
}

func (f *fakeUsage) AddPolicyView(_ context.Context, policyID int) error {
	f.views[policyID]++
	return nil
}

func (f *fakeUsage) AddFavorite(_ context.Context, policyID int, delta int64) error {
	f.favorites[policyID] += delta
	return nil
}

func (f *fakeUsage) TopViews(_ context.Context, limit int) ([]counter.PolicyCount, error) {
	return topCounts(f.views, limit), nil
}

func (f *fakeUsage) TopFavorites(_ context.Context, limit int) ([]counter.PolicyCount, error) {
	return topCounts(f.favorites, limit), nil
}

func topCounts(m map[int]int64, limit int) []counter.PolicyCount {
	out := []counter.PolicyCount{}
	for id, n := range m {
		if n > 0 {
			out = append(out, counter.PolicyCount{PolicyID: id, Count: n})
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].PolicyID < out[j].PolicyID
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}
