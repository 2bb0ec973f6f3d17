package main

import (
	"flag"
	"log"
	"os"
	"time"

	"github.com/tegami/tegami-backend/internal/config"
	"github.com/tegami/tegami-backend/internal/database"
	"github.com/tegami/tegami-backend/internal/migration"
	"gorm.io/gorm"
)

func main() {
	configPath := flag.String("config", "configs/config.local.yaml", "config file path")
	dryRun := flag.Bool("dry-run", false, "show table status without migrating")
	verify := flag.Bool("verify", false, "run data integrity checks")
	verbose := flag.Bool("verbose", false, "verbose SQL logging")
	flag.Parse()

	if files := config.LoadDotEnv(); len(files) == 0 {
		log.Println("No .env file found, using environment variables")
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	db, err := database.Open(cfg.Database, *verbose)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		log.Fatalf("Failed to get underlying DB: %v", err)
	}
	defer sqlDB.Close()

	switch {
	case *dryRun:
		runDryRun(db)
	case *verify:
		runVerify(db)
	default:
		runMigration(db)
	}
}

func runMigration(db *gorm.DB) {
	start := time.Now()
	if err := migration.Run(db); err != nil {
		log.Printf("[migrate] FAILED: %v", err)
		os.Exit(1)
	}
	log.Printf("[migrate] Completed in %v", time.Since(start))
}

func runDryRun(db *gorm.DB) {
	plan, err := migration.Plan(db)
	if err != nil {
		log.Fatalf("[dry-run] %v", err)
	}
	for _, st := range plan {
		if st.Exists {
			log.Printf("[dry-run:%s] exists, %d rows; missing columns and indexes would be added", st.Table, st.Rows)
		} else {
			log.Printf("[dry-run:%s] would be created", st.Table)
		}
	}
}

func runVerify(db *gorm.DB) {
	findings, err := migration.Verify(db, time.Now().UTC())
	if err != nil {
		log.Fatalf("[verify] %v", err)
	}
	failed := false
	for _, f := range findings {
		status := "OK"
		if f.Count > 0 {
			status = "MISMATCH"
			failed = true
		}
		log.Printf("[verify] %-34s %6d  %s", f.Check, f.Count, status)
	}
	if failed {
		os.Exit(1)
	}
}
