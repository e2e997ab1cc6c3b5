package database

import (
	"database/sql"
	"fmt"
	"log"

	"backend_customerpro/config"
	"backend_customerpro/models"

	_ "github.com/lib/pq"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

// CreateDatabaseIfNotExists creates the postgres database if it is missing.
// No-op for the sqlite driver, the file is created on first open.
func CreateDatabaseIfNotExists(cfg *config.Config) error {
	if cfg.Database.Driver != "postgres" {
		return nil
	}

	dbCfg := cfg.Database
	// Connect to the default postgres database for the admin check.
	adminDSN := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=postgres sslmode=%s",
		dbCfg.Host, dbCfg.Port, dbCfg.User, dbCfg.Password, dbCfg.SSLMode)

	db, err := sql.Open("postgres", adminDSN)
	if err != nil {
		return fmt.Errorf("failed to connect to PostgreSQL: %w", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		return fmt.Errorf("failed to ping PostgreSQL: %w", err)
	}

	var exists bool
	query := "SELECT EXISTS(SELECT datname FROM pg_catalog.pg_database WHERE datname = $1);"
	if err := db.QueryRow(query, dbCfg.Name).Scan(&exists); err != nil {
		return fmt.Errorf("failed to check database existence: %w", err)
	}
	if exists {
		log.Printf("[DB] Database '%s' already exists", dbCfg.Name)
		return nil
	}

	if _, err := db.Exec(fmt.Sprintf("CREATE DATABASE %s;", dbCfg.Name)); err != nil {
		return fmt.Errorf("failed to create database '%s': %w", dbCfg.Name, err)
	}
	log.Printf("[DB] Database '%s' created", dbCfg.Name)
	return nil
}

// ConnectDatabase opens the configured database and runs the migrations.
func ConnectDatabase(cfg *config.Config) error {
	logLevel := logger.Silent
	if cfg.App.Debug {
		logLevel = logger.Info
	}
	gormCfg := &gorm.Config{Logger: logger.Default.LogMode(logLevel)}

	var err error
	switch cfg.Database.Driver {
	case "postgres":
		dbCfg := cfg.Database
		dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
			dbCfg.Host, dbCfg.Port, dbCfg.User, dbCfg.Password, dbCfg.Name, dbCfg.SSLMode)
		DB, err = gorm.Open(postgres.Open(dsn), gormCfg)
	default:
		DB, err = gorm.Open(sqlite.Open(cfg.Database.SQLitePath), gormCfg)
	}
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	log.Printf("[DB] Connected (%s)", cfg.Database.Driver)

	if err := AutoMigrate(DB); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}
	return nil
}

// GetDB returns the database handle.
func GetDB() *gorm.DB {
	return DB
}

// AutoMigrate creates or updates the schema for all models. Parents migrate
// before their children so the foreign keys resolve.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Customer{},
		&models.VisitProtocol{},
		&models.ConstructionSite{},
		&models.ConstructionNote{},
		&models.Document{},
		&models.Tour{},
		&models.TourStop{},
	)
}
