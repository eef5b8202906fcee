package database

import (
	"fmt"

	"github.com/tumbluv/tumbluv-api/internal/logger"
	"gorm.io/gorm"
)

// AddIndexes adds the indexes backing the listing sort keys and the
// comment ordering. Model tags already cover foreign keys and unique slugs.
func AddIndexes(db *gorm.DB) error {
	log := logger.New("Database")

	indexes := []struct {
		table   string
		name    string
		columns string
	}{
		// Project listing filters and sort keys
		{"projects", "idx_projects_achieved_rate", "achieved_rate"},
		{"projects", "idx_projects_total_amount", "total_amount"},
		{"projects", "idx_projects_total_supporters", "total_supporters"},

		// Root comments are read newest first
		{"communities", "idx_communities_created_at", "created_at"},

		// Verification lookup by email
		{"verifications", "idx_verifications_created_at", "created_at"},
	}

	for _, idx := range indexes {
		if db.Migrator().HasIndex(idx.table, idx.name) {
			log.Debug("index already exists, skipping", "index", idx.name)
			continue
		}

		sql := fmt.Sprintf("CREATE INDEX %s ON %s (%s)", idx.name, idx.table, idx.columns)
		if err := db.Exec(sql).Error; err != nil {
			return fmt.Errorf("failed to create index %s: %w", idx.name, err)
		}

		log.Info("created index", "index", idx.name, "table", idx.table, "columns", idx.columns)
	}

	return nil
}
