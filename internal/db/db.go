package db

import (
	"fmt"

	"sellboard/internal/config"
	"sellboard/internal/log"
	"sellboard/internal/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const interestUniqueIndex = "idx_interest_buyer_item"

// Options 控制连接行为
type Options struct {
	// Silent 关闭 gorm 的 SQL 日志，测试中使用
	Silent bool
}

// Open connects to Postgres. Driver errors are translated so that
// duplicate keys and foreign key violations surface as gorm sentinels.
func Open(dsn string, opts Options) (*gorm.DB, error) {
	lvl := logger.Warn
	if opts.Silent {
		lvl = logger.Silent
	}
	conn, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(lvl),
	})
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	return conn, nil
}

// Init opens the configured database and runs migrations.
func Init(cfg *config.Config) (*gorm.DB, error) {
	conn, err := Open(cfg.Database.DSN(), Options{})
	if err != nil {
		return nil, err
	}
	log.Log.Info("Database connection established")

	if err := Migrate(conn, cfg.InterestUnique); err != nil {
		return nil, err
	}
	log.Log.WithField("interest_unique", cfg.InterestUnique).Info("Database migration completed")
	return conn, nil
}

// Migrate creates or updates every table. interestUnique toggles the
// (buyer, item) unique index on received interests.
func Migrate(conn *gorm.DB, interestUnique bool) error {
	err := conn.AutoMigrate(
		&models.Account{},
		&models.Profile{},
		&models.Post{},
		&models.PostPicture{},
		&models.PostLike{},
		&models.PostHide{},
		&models.ReceivedInterest{},
	)
	if err != nil {
		return fmt.Errorf("migrate database: %w", err)
	}

	stmt := "DROP INDEX IF EXISTS " + interestUniqueIndex
	if interestUnique {
		stmt = "CREATE UNIQUE INDEX IF NOT EXISTS " + interestUniqueIndex + " ON received_interests (buyer_id, item_id)"
	}
	if err := conn.Exec(stmt).Error; err != nil {
		return fmt.Errorf("configure interest uniqueness: %w", err)
	}
	return nil
}
