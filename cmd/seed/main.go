package main

import (
	"context"
	"flag"
	"log"
	"time"

	"github.com/jipsalddae/backend/internal/pkg/database"
	"github.com/jipsalddae/backend/internal/pkg/env"
	"github.com/jipsalddae/backend/internal/pkg/seed"
)

func main() {
	env.SetupEnvFile()

	cfg := seed.DefaultConfig()
	dir := flag.String("dir", env.GetEnv("SEED_DIR", cfg.Dir), "directory holding the CSV exports")
	regionsFile := flag.String("regions-file", "", "CP949 법정동코드 dump to load region codes from instead of the CSV")
	timeout := flag.Duration("timeout", 10*time.Minute, "overall seed timeout")
	flag.Parse()

	cfg.Dir = *dir
	if *regionsFile != "" {
		cfg.RegionCodesFile = ""
		cfg.RegionDumpFile = *regionsFile
	}

	database.SetupDatabase()

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	results, err := seed.Run(ctx, database.GetDB(), cfg)
	for _, r := range results {
		if r.Skipped != "" {
			log.Printf("%-30s skipped (%s)", r.Table, r.Skipped)
		} else {
			log.Printf("%-30s %d rows", r.Table, r.Inserted)
		}
	}
	if err != nil {
		log.Fatalf("Seeding failed: %v", err)
	}

	// A running server keeps its catalog cached; reload it with
	// POST /api/admin/reference/reload.
	log.Println("Seeding finished")
}
