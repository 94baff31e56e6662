package models

import (
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/jipsalddae/backend/internal/pkg/eligibility"
)

const REGION_NATIONWIDE = "전국"

// PolicyRule is one eligibility variant of a policy. Several rows may share a PolicyID;
// a user qualifies for the policy when any of them passes. Nullable bounds mean "no bound".
type PolicyRule struct {
	ID                uint   `gorm:"primaryKey" json:"id"`
	PolicyID          int    `gorm:"index;not null" json:"policy_id"`
	PolicyName        string `gorm:"type:varchar(255)" json:"policy_name"`
	Income            int64  `json:"income"`
	ReqNewborn        *bool  `json:"req_newborn"`
	ReqNewlywed       *bool  `json:"req_newlywed"`
	MinChildren       *int   `json:"min_children"`
	MinAge            *int   `json:"min_age"`
	MaxAge            *int   `json:"max_age"`
	HouseOwnerAllowed *bool  `json:"house_owner_allowed"`
	AssetLimit        *int64 `json:"asset_limit"`
	IsFirst           *bool  `json:"is_first"`
}

func (PolicyRule) TableName() string {
	return "policies"
}

// ToRule maps NULL columns to the zero "no bound" values of the matcher.
// A NULL house_owner_allowed excludes house owners.
func (p *PolicyRule) ToRule() eligibility.Rule {
	return eligibility.Rule{
		PolicyID:          p.PolicyID,
		Income:            p.Income,
		ReqNewborn:        boolValue(p.ReqNewborn),
		ReqNewlywed:       boolValue(p.ReqNewlywed),
		HouseOwnerAllowed: boolValue(p.HouseOwnerAllowed),
		MinChildren:       intValue(p.MinChildren),
		MinAge:            intValue(p.MinAge),
		MaxAge:            intValue(p.MaxAge),
		AssetLimit:        int64Value(p.AssetLimit),
	}
}

// ToRules converts a whole rule set.
func ToRules(rows []PolicyRule) []eligibility.Rule {
	rules := make([]eligibility.Rule, len(rows))
	for i := range rows {
		rules[i] = rows[i].ToRule()
	}
	return rules
}

func boolValue(b *bool) bool {
	return b != nil && *b
}

func intValue(i *int) int {
	if i == nil {
		return 0
	}
	return *i
}

func int64Value(i *int64) int64 {
	if i == nil {
		return 0
	}
	return *i
}

// PolicyOutput is the display record of a policy, independent of its rule variants.
type PolicyOutput struct {
	PolicyID         int    `gorm:"primaryKey;autoIncrement:false" json:"policy_id"`
	PolicyName       string `gorm:"type:varchar(255)" json:"policy_name"`
	Category         string `gorm:"type:varchar(100)" json:"category"`
	PolicyType       string `gorm:"type:varchar(100)" json:"policy_type"`
	MaxHousePrice    string `gorm:"type:varchar(255)" json:"max_house_price"`
	Region           string `gorm:"type:varchar(100)" json:"region"`
	MaxBenefitAmount *int64 `json:"max_benefit_amount"`
	MinRate          string `gorm:"type:varchar(50)" json:"min_rate"`
	MaxRate          string `gorm:"type:varchar(50)" json:"max_rate"`
	HouseSize        string `gorm:"type:varchar(100)" json:"house_size"`
	MaxDurationYear  string `gorm:"type:varchar(100)" json:"max_duration_year"`
	PolicyURL        string `gorm:"type:text" json:"policy_url"`
	Desc             string `gorm:"column:desc;type:text" json:"desc"`
}

func (PolicyOutput) TableName() string {
	return "policies_output"
}

// IsNationwide reports whether the policy applies regardless of the sido.
func (p *PolicyOutput) IsNationwide() bool {
	r := strings.TrimSpace(p.Region)
	return r == "" || r == REGION_NATIONWIDE
}

// MaxHousePriceWon parses the free-text price cap ("6억", "9억 원", "600,000,000",
// "6억5천만원") into won. ok is false when the column holds no number.
func (p *PolicyOutput) MaxHousePriceWon() (int64, bool) {
	return ParseKoreanAmount(p.MaxHousePrice)
}

// IncomeRule is one income cap variant of a policy keyed by target type
// (for example "신혼부부" or "기본(디딤돌)").
type IncomeRule struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	PolicyID    int    `gorm:"index;not null" json:"policy_id"`
	TargetType  string `gorm:"type:varchar(100)" json:"target_type"`
	IncomeLimit int64  `json:"income_limit"`
}

func (IncomeRule) TableName() string {
	return "income_rules"
}

func (r IncomeRule) ToVariant() eligibility.IncomeVariant {
	return eligibility.IncomeVariant{TargetType: r.TargetType, IncomeLimit: r.IncomeLimit}
}

// IncomeStandard is the 100% median monthly household income for one household size.
type IncomeStandard struct {
	HouseholdSize int       `gorm:"primaryKey;autoIncrement:false" json:"household_size"`
	MonthlyIncome int64     `gorm:"not null" json:"monthly_income"`
	CreatedAt     time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (IncomeStandard) TableName() string {
	return "household_income_standard100"
}

var koreanUnits = map[rune]float64{
	'십': 10,
	'백': 100,
	'천': 1000,
}

var koreanBigUnits = map[rune]float64{
	'만': 1e4,
	'억': 1e8,
	'조': 1e12,
}

// ParseKoreanAmount converts amounts written with Korean numeric units into an integer.
func ParseKoreanAmount(s string) (int64, bool) {
	var (
		total, section float64
		num            strings.Builder
		seenDigit      bool
	)
	flushNum := func() (float64, bool) {
		if num.Len() == 0 {
			return 0, false
		}
		v, err := strconv.ParseFloat(num.String(), 64)
		num.Reset()
		if err != nil {
			return 0, false
		}
		return v, true
	}

scan:
	for _, r := range s {
		switch {
		case (r >= '0' && r <= '9') || r == '.':
			num.WriteRune(r)
			seenDigit = true
		case r == ',' || unicode.IsSpace(r) || r == '원':
			continue
		case koreanUnits[r] > 0:
			v, ok := flushNum()
			if !ok {
				v = 1
			}
			section += v * koreanUnits[r]
		case koreanBigUnits[r] > 0:
			if v, ok := flushNum(); ok {
				section += v
			}
			if section == 0 {
				section = 1
			}
			total += section * koreanBigUnits[r]
			section = 0
		default:
			// Text such as "이하" or "(수도권)" ends the amount.
			if seenDigit {
				break scan
			}
		}
	}
	if v, ok := flushNum(); ok {
		section += v
	}
	if !seenDigit {
		return 0, false
	}
	return int64(total + section), true
}
