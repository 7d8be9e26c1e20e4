package database

import (
	"database/sql"
	"log"
	"net/url"
	"strings"

	"github.com/lib/pq"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/example/hienmauto/internal/models"
	"github.com/example/hienmauto/internal/utils"
)

var db *gorm.DB

// Connect initializes the database connection and runs migrations.
func Connect(dsn string) *gorm.DB {
	if db != nil {
		return db
	}

	if err := ensureDatabase(dsn); err != nil {
		log.Fatalf("failed to ensure database: %v", err)
	}

	conn, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	if err := conn.Exec(`CREATE EXTENSION IF NOT EXISTS "uuid-ossp"`).Error; err != nil {
		log.Printf("warning: failed to ensure uuid-ossp extension: %v", err)
	}

	if err := migrate(conn); err != nil {
		log.Fatalf("database migration failed: %v", err)
	}

	db = conn
	return db
}

// DB exposes the initialized gorm.DB instance.
func DB() *gorm.DB {
	return db
}

// SeedAdmin guarantees the root admin account exists and carries the full
// permission set.
func SeedAdmin(conn *gorm.DB, username, password string) {
	if password == "" {
		log.Println("[DB] ADMIN_PASSWORD not set, skipping admin seed")
		return
	}

	var admin models.User
	err := conn.Where("username = ?", username).First(&admin).Error
	if err == nil {
		admin.Role = "admin"
		admin.Permissions = models.AllPermissions
		admin.IsActive = true
		if err := conn.Save(&admin).Error; err != nil {
			log.Printf("[DB] failed to refresh admin account: %v", err)
		}
		return
	}
	if err != gorm.ErrRecordNotFound {
		log.Printf("[DB] failed to look up admin account: %v", err)
		return
	}

	hash, err := utils.HashPassword(password)
	if err != nil {
		log.Printf("[DB] failed to hash admin password: %v", err)
		return
	}

	admin = models.User{
		Username:     username,
		PasswordHash: hash,
		FullName:     "Hien M Auto",
		Role:         "admin",
		Permissions:  models.AllPermissions,
		IsActive:     true,
	}
	if err := conn.Create(&admin).Error; err != nil {
		log.Printf("[DB] failed to seed admin account: %v", err)
	}
}

func migrate(conn *gorm.DB) error {
	migrations := []interface{}{
		&models.User{},
		&models.AppSetting{},
		&models.SummaryRecord{},
		&models.TascoItem{},
	}

	for _, migration := range migrations {
		if err := conn.AutoMigrate(migration); err != nil {
			return err
		}
	}

	return nil
}

func ensureDatabase(dsn string) error {
	if !strings.HasPrefix(dsn, "postgres://") && !strings.HasPrefix(dsn, "postgresql://") {
		return nil
	}

	parsed, err := url.Parse(dsn)
	if err != nil {
		return err
	}

	dbName := strings.TrimPrefix(parsed.Path, "/")
	if dbName == "" {
		return nil
	}

	parsed.Path = "/postgres"
	masterDSN := parsed.String()

	sqlDB, err := sql.Open("postgres", masterDSN)
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	if err := sqlDB.Ping(); err != nil {
		return err
	}

	var exists bool
	if err := sqlDB.QueryRow("SELECT EXISTS (SELECT 1 FROM pg_database WHERE datname = $1)", dbName).Scan(&exists); err != nil {
		return err
	}

	if exists {
		return nil
	}

	_, err = sqlDB.Exec("CREATE DATABASE " + pq.QuoteIdentifier(dbName))
	return err
}
