// SPDX-License-Identifier: GPL-3.0-only

package migrations

import (
	"fmt"
	"locale-tracker/models"

	"github.com/go-gormigrate/gormigrate/v2"
	"gorm.io/gorm"
)

// List holds data migrations applied after AutoMigrate.
func List() []*gormigrate.Migration {
	return []*gormigrate.Migration{
		{
			ID: "001_backfill_country_source",
			Migrate: func(tx *gorm.DB) error {
				if err := tx.Model(&models.LocaleEvent{}).
					Where("category = ? AND source IS NULL", models.CountryCategory).
					Update("source", "NONE").Error; err != nil {
					return fmt.Errorf("failed to backfill country event source: %w", err)
				}
				return nil
			},
			Rollback: func(tx *gorm.DB) error { return nil },
		},
	}
}

// Run brings the schema up to date with models.AllModels, then applies
// pending data migrations.
func Run(db *gorm.DB) error {
	if err := db.AutoMigrate(models.AllModels...); err != nil {
		return err
	}
	m := gormigrate.New(db, gormigrate.DefaultOptions, List())
	return m.Migrate()
}
