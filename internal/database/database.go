package database

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/lenbersih/lenbersih-api/internal/config"
	"github.com/lenbersih/lenbersih-api/internal/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

func Connect(cfg *config.Config) error {
	var err error
	DB, err = gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := DB.DB()
	if err != nil {
		return fmt.Errorf("failed to get sql.DB: %w", err)
	}

	sqlDB.SetMaxOpenConns(50)
	sqlDB.SetMaxIdleConns(25)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)
	sqlDB.SetConnMaxIdleTime(5 * time.Minute)

	slog.Info("database connected")
	return nil
}

// Migrate runs AutoMigrate for the whole schema. Order matters: status,
// users and groups before the tables holding foreign keys into them.
func Migrate() error {
	return DB.AutoMigrate(
		&models.User{},
		&models.Group{},
		&models.UserGroup{},
		&models.Status{},
		&models.ReportEntity{},
		&models.HistoryStatus{},
		&models.Dokumen{},
		&models.SystemLog{},
	)
}

// Seed inserts the workflow statuses and role groups if absent.
func Seed() error {
	statuses := []models.Status{
		{ID: models.StatusDiterima, Name: "Validasi Laporan Tim Sekretariat DITERIMA"},
		{ID: models.StatusDitolak, Name: "Validasi Laporan Tim Sekretariat DITOLAK"},
		{ID: models.StatusDitindaklanjut, Name: "Laporan DITINDAKLANJUTI"},
	}
	for _, s := range statuses {
		if err := DB.Where(models.Status{ID: s.ID}).FirstOrCreate(&s).Error; err != nil {
			return fmt.Errorf("failed to seed status %d: %w", s.ID, err)
		}
	}

	groups := []models.Group{
		{Name: models.GroupAdmin, Description: "Administrator"},
		{Name: models.GroupMembers, Description: "General User"},
	}
	for _, g := range groups {
		if err := DB.Where(models.Group{Name: g.Name}).FirstOrCreate(&g).Error; err != nil {
			return fmt.Errorf("failed to seed group %s: %w", g.Name, err)
		}
	}

	slog.Info("reference data seeded", "statuses", len(statuses), "groups", len(groups))
	return nil
}

func Ping() error {
	sqlDB, err := DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}
