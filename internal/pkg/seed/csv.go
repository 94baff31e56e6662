package seed

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/jipsalddae/backend/app/models"
)

// row gives header-keyed access to one CSV record. Exports from spreadsheets
// and pandas use "", "NaN" or "NULL" for missing values.
type row struct {
	line   int
	index  map[string]int
	values []string
}

func (r row) raw(col string) string {
	i, ok := r.index[col]
	if !ok || i >= len(r.values) {
		return ""
	}
	v := strings.TrimSpace(r.values[i])
	switch strings.ToLower(v) {
	case "nan", "null", "none":
		return ""
	}
	return v
}

func (r row) str(col string) string {
	return r.raw(col)
}

func (r row) errorf(col string, err error) error {
	return fmt.Errorf("line %d column %s: %w", r.line, col, err)
}

func (r row) int64p(col string) (*int64, error) {
	v := strings.ReplaceAll(r.raw(col), ",", "")
	if v == "" {
		return nil, nil
	}
	if n, err := strconv.ParseInt(v, 10, 64); err == nil {
		return &n, nil
	}
	// nullable integer columns come out of pandas as floats ("3.0")
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || f != math.Trunc(f) {
		return nil, r.errorf(col, fmt.Errorf("not an integer: %q", v))
	}
	n := int64(f)
	return &n, nil
}

func (r row) int64v(col string) (int64, error) {
	p, err := r.int64p(col)
	if err != nil || p == nil {
		return 0, err
	}
	return *p, nil
}

func (r row) intp(col string) (*int, error) {
	p, err := r.int64p(col)
	if err != nil || p == nil {
		return nil, err
	}
	n := int(*p)
	return &n, nil
}

func (r row) boolp(col string) (*bool, error) {
	v := strings.ToLower(r.raw(col))
	var b bool
	switch v {
	case "":
		return nil, nil
	case "true", "t", "1", "1.0", "y", "yes":
		b = true
	case "false", "f", "0", "0.0", "n", "no":
		b = false
	default:
		return nil, r.errorf(col, fmt.Errorf("not a boolean: %q", v))
	}
	return &b, nil
}

func readRows(rd io.Reader, required ...string) ([]row, error) {
	cr := csv.NewReader(rd)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("empty csv file")
		}
		return nil, err
	}
	index := make(map[string]int, len(header))
	for i, h := range header {
		h = strings.TrimPrefix(h, "\ufeff")
		index[strings.ToLower(strings.TrimSpace(h))] = i
	}
	for _, col := range required {
		if _, ok := index[col]; !ok {
			return nil, fmt.Errorf("missing column %q", col)
		}
	}

	var rows []row
	line := 1
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		if len(rec) == 1 && strings.TrimSpace(rec[0]) == "" {
			continue
		}
		rows = append(rows, row{line: line, index: index, values: rec})
	}
	return rows, nil
}

// ParsePolicyOutputs reads the policy display records.
func ParsePolicyOutputs(rd io.Reader) ([]models.PolicyOutput, error) {
	rows, err := readRows(rd, "policy_id", "policy_name")
	if err != nil {
		return nil, err
	}
	out := make([]models.PolicyOutput, 0, len(rows))
	for _, r := range rows {
		id, err := r.int64v("policy_id")
		if err != nil {
			return nil, err
		}
		benefit, err := r.int64p("max_benefit_amount")
		if err != nil {
			return nil, err
		}
		out = append(out, models.PolicyOutput{
			PolicyID:         int(id),
			PolicyName:       r.str("policy_name"),
			Category:         r.str("category"),
			PolicyType:       r.str("policy_type"),
			MaxHousePrice:    r.str("max_house_price"),
			Region:           r.str("region"),
			MaxBenefitAmount: benefit,
			MinRate:          r.str("min_rate"),
			MaxRate:          r.str("max_rate"),
			HouseSize:        r.str("house_size"),
			MaxDurationYear:  r.str("max_duration_year"),
			PolicyURL:        r.str("policy_url"),
			Desc:             r.str("desc"),
		})
	}
	return out, nil
}

// ParsePolicyRules reads the eligibility rule variants. Empty cells stay NULL.
func ParsePolicyRules(rd io.Reader) ([]models.PolicyRule, error) {
	rows, err := readRows(rd, "policy_id", "income")
	if err != nil {
		return nil, err
	}
	out := make([]models.PolicyRule, 0, len(rows))
	for _, r := range rows {
		var (
			rule models.PolicyRule
			id   int64
			errs []error
			err  error
		)
		id, err = r.int64v("policy_id")
		errs = append(errs, err)
		rule.PolicyID = int(id)
		rule.PolicyName = r.str("policy_name")
		rule.Income, err = r.int64v("income")
		errs = append(errs, err)
		rule.ReqNewborn, err = r.boolp("req_newborn")
		errs = append(errs, err)
		rule.ReqNewlywed, err = r.boolp("req_newlywed")
		errs = append(errs, err)
		rule.MinChildren, err = r.intp("min_children")
		errs = append(errs, err)
		rule.MinAge, err = r.intp("min_age")
		errs = append(errs, err)
		rule.MaxAge, err = r.intp("max_age")
		errs = append(errs, err)
		rule.HouseOwnerAllowed, err = r.boolp("house_owner_allowed")
		errs = append(errs, err)
		rule.AssetLimit, err = r.int64p("asset_limit")
		errs = append(errs, err)
		rule.IsFirst, err = r.boolp("is_first")
		errs = append(errs, err)

		if err := errors.Join(errs...); err != nil {
			return nil, err
		}
		out = append(out, rule)
	}
	return out, nil
}

// ParseIncomeRules reads the per-target income caps.
func ParseIncomeRules(rd io.Reader) ([]models.IncomeRule, error) {
	rows, err := readRows(rd, "policy_id", "target_type", "income_limit")
	if err != nil {
		return nil, err
	}
	out := make([]models.IncomeRule, 0, len(rows))
	for _, r := range rows {
		id, err := r.int64v("policy_id")
		if err != nil {
			return nil, err
		}
		limit, err := r.int64v("income_limit")
		if err != nil {
			return nil, err
		}
		out = append(out, models.IncomeRule{PolicyID: int(id), TargetType: r.str("target_type"), IncomeLimit: limit})
	}
	return out, nil
}

// ParseIncomeStandards reads the 100% median income per household size.
func ParseIncomeStandards(rd io.Reader) ([]models.IncomeStandard, error) {
	rows, err := readRows(rd, "household_size", "monthly_income")
	if err != nil {
		return nil, err
	}
	out := make([]models.IncomeStandard, 0, len(rows))
	for _, r := range rows {
		size, err := r.int64v("household_size")
		if err != nil {
			return nil, err
		}
		income, err := r.int64v("monthly_income")
		if err != nil {
			return nil, err
		}
		std := models.IncomeStandard{HouseholdSize: int(size), MonthlyIncome: income}
		if ts := r.str("created_at"); ts != "" {
			if t, err := time.Parse("2006-01-02 15:04:05", ts); err == nil {
				std.CreatedAt = t
			}
		}
		out = append(out, std)
	}
	return out, nil
}

// ParseRegionCodes reads an already converted region table (code, sido, sigungu).
func ParseRegionCodes(rd io.Reader) ([]models.RegionCode, error) {
	rows, err := readRows(rd, "code", "sido")
	if err != nil {
		return nil, err
	}
	out := make([]models.RegionCode, 0, len(rows))
	for _, r := range rows {
		rc := models.RegionCode{Code: r.str("code"), Sido: r.str("sido")}
		if s := r.str("sigungu"); s != "" {
			rc.Sigungu = &s
		}
		out = append(out, rc)
	}
	return out, nil
}
