// Package seed loads the policy catalog and reference tables from CSV files
// into empty tables. Tables that already hold rows are left untouched.
package seed

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/gofiber/fiber/v2/log"
	"github.com/jipsalddae/backend/app/models"
	"github.com/jipsalddae/backend/internal/pkg/regioncode"
	"gorm.io/gorm"
)

const batchSize = 200

// Config holds seed runner configuration.
type Config struct {
	Dir               string
	PolicyOutputsFile string
	PolicyRulesFile   string
	IncomeRulesFile   string
	StandardsFile     string
	RegionCodesFile   string
	// RegionDumpFile is the CP949 법정동코드 dump, used when RegionCodesFile is absent.
	RegionDumpFile string
}

// DefaultConfig returns the file names the data team exports.
func DefaultConfig() Config {
	return Config{
		Dir:               "data",
		PolicyOutputsFile: "주택공급정책_출력.csv",
		PolicyRulesFile:   "주택공급정책_조건.csv",
		IncomeRulesFile:   "income_rules.csv",
		StandardsFile:     "평균소득.csv",
		RegionCodesFile:   "지역코드.csv",
		RegionDumpFile:    "법정동코드 전체자료.txt",
	}
}

// TableResult reports what happened to one table.
type TableResult struct {
	Table    string `json:"table"`
	Inserted int    `json:"inserted"`
	Skipped  string `json:"skipped,omitempty"`
}

type loader struct {
	table string
	file  string
	model interface{}
	load  func(io.Reader) (interface{}, int, error)
}

// Run seeds every table in dependency order. It stops at the first failing table;
// earlier tables stay committed.
func Run(ctx context.Context, db *gorm.DB, cfg Config) ([]TableResult, error) {
	results := make([]TableResult, 0, 5)
	for _, l := range loaders(cfg) {
		res, err := seedTable(ctx, db, cfg.Dir, l)
		if err != nil {
			return results, fmt.Errorf("seed %s: %w", l.table, err)
		}
		if res.Skipped != "" {
			log.Infof("[Seed] %s skipped: %s", res.Table, res.Skipped)
		} else {
			log.Infof("[Seed] %s: inserted %d rows", res.Table, res.Inserted)
		}
		results = append(results, res)
	}
	return results, nil
}

func seedTable(ctx context.Context, db *gorm.DB, dir string, l loader) (TableResult, error) {
	res := TableResult{Table: l.table}

	var count int64
	if err := db.WithContext(ctx).Model(l.model).Count(&count).Error; err != nil {
		return res, err
	}
	if count > 0 {
		res.Skipped = fmt.Sprintf("table already has %d rows", count)
		return res, nil
	}

	path := l.file
	if !filepath.IsAbs(path) {
		path = filepath.Join(dir, path)
	}
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			res.Skipped = "file not found: " + path
			return res, nil
		}
		return res, err
	}
	defer f.Close()

	rows, n, err := l.load(f)
	if err != nil {
		return res, fmt.Errorf("%s: %w", path, err)
	}
	if n == 0 {
		res.Skipped = "no rows in " + path
		return res, nil
	}

	err = db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.CreateInBatches(rows, batchSize).Error
	})
	if err != nil {
		return res, err
	}
	res.Inserted = n
	return res, nil
}

func loaders(cfg Config) []loader {
	regionFile := cfg.RegionCodesFile
	loadRegions := func(r io.Reader) (interface{}, int, error) {
		rows, err := ParseRegionCodes(r)
		return rows, len(rows), err
	}
	if !fileExists(cfg.Dir, regionFile) && cfg.RegionDumpFile != "" {
		regionFile = cfg.RegionDumpFile
		loadRegions = func(r io.Reader) (interface{}, int, error) {
			rows, err := regioncode.Parse(r)
			return rows, len(rows), err
		}
	}

	return []loader{
		{
			table: "policies_output",
			file:  cfg.PolicyOutputsFile,
			model: &models.PolicyOutput{},
			load: func(r io.Reader) (interface{}, int, error) {
				rows, err := ParsePolicyOutputs(r)
				return rows, len(rows), err
			},
		},
		{
			table: "policies",
			file:  cfg.PolicyRulesFile,
			model: &models.PolicyRule{},
			load: func(r io.Reader) (interface{}, int, error) {
				rows, err := ParsePolicyRules(r)
				return rows, len(rows), err
			},
		},
		{
			table: "income_rules",
			file:  cfg.IncomeRulesFile,
			model: &models.IncomeRule{},
			load: func(r io.Reader) (interface{}, int, error) {
				rows, err := ParseIncomeRules(r)
				return rows, len(rows), err
			},
		},
		{
			table: "region_code",
			file:  regionFile,
			model: &models.RegionCode{},
			load:  loadRegions,
		},
		{
			table: "household_income_standard100",
			file:  cfg.StandardsFile,
			model: &models.IncomeStandard{},
			load: func(r io.Reader) (interface{}, int, error) {
				rows, err := ParseIncomeStandards(r)
				return rows, len(rows), err
			},
		},
	}
}

func fileExists(dir, name string) bool {
	if name == "" {
		return false
	}
	if !filepath.IsAbs(name) {
		name = filepath.Join(dir, name)
	}
	st, err := os.Stat(name)
	return err == nil && !st.IsDir()
}
