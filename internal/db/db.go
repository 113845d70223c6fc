package db

import (
	"errors"
	"fmt"
	"log"
	"regexp"
	"strings"
	"time"

	migrate "github.com/golang-migrate/migrate/v4"
	// register the postgres driver and file source for golang-migrate
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/diewo77/faculty-records/internal/config"
	"github.com/diewo77/faculty-records/internal/models"
)

var passwordRegex = regexp.MustCompile(`(password=)([^\s]+)`)

// AllModels lists every table AutoMigrate manages, in dependency order.
func AllModels() []interface{} {
	return []interface{}{
		&models.Permission{}, &models.Role{}, &models.User{},
		&models.College{}, &models.Department{}, &models.Program{},
		&models.Attachment{}, &models.LookupValue{},
		&models.Faculty{}, &models.FacultyDetails{},
		&models.WorkExperience{}, &models.TeachingActivity{},
		&models.ResearchPublication{}, &models.WorkshopSeminar{},
		&models.MDPFDP{}, &models.HonoursAward{},
		&models.ResearchConsultancy{}, &models.Activity{},
	}
}

// ConnectAndMigrate opens the database with retries, runs migrations and,
// when requested, seeds reference data.
func ConnectAndMigrate(cfg config.Config) (*gorm.DB, error) {
	dsn := NormalizeDSN(cfg.Database.DSN)
	if dsn == "" {
		return nil, errors.New("DATABASE_DSN is empty")
	}
	logLevel := logger.Silent
	if cfg.App.Dev {
		logLevel = logger.Info
	}
	gormCfg := &gorm.Config{Logger: logger.Default.LogMode(logLevel)}

	var gdb *gorm.DB
	var err error
	for i := 0; i < 10; i++ {
		gdb, err = gorm.Open(postgres.Open(dsn), gormCfg)
		if err == nil {
			break
		}
		log.Println("retrying db connection:", err)
		time.Sleep(2 * time.Second)
	}
	if err != nil {
		return nil, fmt.Errorf("connect database after retries: %w", err)
	}

	if pingErr := gdb.Exec("SELECT 1").Error; pingErr != nil {
		return nil, fmt.Errorf("db ping: %w", pingErr)
	}

	masked := dsn
	if strings.Contains(masked, "password=") {
		masked = passwordRegex.ReplaceAllString(masked, `${1}***`)
	}
	log.Println("[db] using DSN:", masked)

	if cfg.App.Migrations {
		if err := runSQLMigrations(ToURLDSN(dsn)); err != nil {
			return nil, fmt.Errorf("sql migrations: %w", err)
		}
	} else {
		for _, m := range AllModels() {
			if migErr := gdb.AutoMigrate(m); migErr != nil {
				return nil, fmt.Errorf("automigrate %T: %w", m, migErr)
			}
		}
	}

	for _, table := range []string{"roles", "users", "departments", "faculties"} {
		if !gdb.Migrator().HasTable(table) {
			return nil, errors.New("missing table after migration: " + table)
		}
	}

	if cfg.App.Seed {
		if err := Seed(gdb); err != nil {
			return nil, fmt.Errorf("seed: %w", err)
		}
	}
	return gdb, nil
}

// runSQLMigrations executes migrations in ./migrations using the
// golang-migrate file source.
func runSQLMigrations(dsn string) error {
	m, err := migrate.New("file://migrations", dsn)
	if err != nil {
		return err
	}
	if err = m.Up(); err != nil && err != migrate.ErrNoChange {
		return err
	}
	return nil
}
