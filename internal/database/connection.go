package database

import (
	"fmt"
	"time"

	"github.com/mroshb/red_social/internal/config"
	"github.com/mroshb/red_social/internal/models"
	"github.com/mroshb/red_social/pkg/logger"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// GormConfig is shared by the server and the test databases so both
// translate driver errors (unique violations) the same way.
func GormConfig(logLevel gormlogger.LogLevel) *gorm.Config {
	return &gorm.Config{
		Logger: gormlogger.Default.LogMode(logLevel),
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
		SkipDefaultTransaction: true,
		PrepareStmt:            true,
		TranslateError:         true,
	}
}

func Connect(cfg *config.Config) (*gorm.DB, error) {
	logLevel := gormlogger.Error
	if cfg.AppEnv == "development" {
		logLevel = gormlogger.Info
	}

	db, err := gorm.Open(postgres.Open(cfg.GetDSN()), GormConfig(logLevel))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database instance: %w", err)
	}

	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(50)
	sqlDB.SetConnMaxLifetime(time.Hour)
	sqlDB.SetConnMaxIdleTime(10 * time.Minute)

	logger.Info("Database connected successfully", "host", cfg.DBHost, "database", cfg.DBName)
	return db, nil
}

// Close releases the pool owned by the process entry point.
func Close(db *gorm.DB) {
	sqlDB, err := db.DB()
	if err != nil {
		logger.Warn("Failed to get database instance for close", "error", err)
		return
	}
	if err := sqlDB.Close(); err != nil {
		logger.Warn("Failed to close database", "error", err)
	}
}

func AutoMigrate(db *gorm.DB) error {
	logger.Info("Running database migrations...")

	err := db.AutoMigrate(
		&models.User{},
		&models.FriendRequest{},
		&models.Friendship{},
		&models.Notification{},
	)
	if err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}

	if err := backfillCanonicalPairs(db); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}
	if err := backfillNotificationRequests(db); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}

	logger.Info("Database migrations completed successfully")
	return nil
}

// backfillCanonicalPairs fills par_menor/par_mayor on rows written before
// those columns existed. Duplicate legacy pairs make this fail loudly
// rather than silently keeping both.
func backfillCanonicalPairs(db *gorm.DB) error {
	result := db.Exec(`UPDATE solicitudes
		SET par_menor = CASE WHEN id_solicitante < id_receptor THEN id_solicitante ELSE id_receptor END,
		    par_mayor = CASE WHEN id_solicitante < id_receptor THEN id_receptor ELSE id_solicitante END
		WHERE par_menor IS NULL OR par_mayor IS NULL`)
	if result.Error != nil {
		return fmt.Errorf("failed to backfill friend request pairs: %w", result.Error)
	}
	if result.RowsAffected > 0 {
		logger.Info("Backfilled friend request pairs", "rows", result.RowsAffected)
	}
	return nil
}

// backfillNotificationRequests links legacy friend request notifications to
// their request. A notification is linked only when its user received
// exactly one request; the rest stay NULL and are reported.
func backfillNotificationRequests(db *gorm.DB) error {
	result := db.Exec(`UPDATE notificaciones
		SET id_solicitud = (SELECT MIN(s.id) FROM solicitudes s WHERE s.id_receptor = notificaciones.id_usuario)
		WHERE id_solicitud IS NULL AND tipo = ?
		  AND (SELECT COUNT(*) FROM solicitudes s WHERE s.id_receptor = notificaciones.id_usuario) = 1`,
		models.NotificationFriendRequest)
	if result.Error != nil {
		return fmt.Errorf("failed to backfill notification requests: %w", result.Error)
	}
	if result.RowsAffected > 0 {
		logger.Info("Linked legacy notifications to friend requests", "rows", result.RowsAffected)
	}

	var unlinked int64
	err := db.Model(&models.Notification{}).
		Where("id_solicitud IS NULL AND tipo = ?", models.NotificationFriendRequest).
		Count(&unlinked).Error
	if err != nil {
		return fmt.Errorf("failed to count unlinked notifications: %w", err)
	}
	if unlinked > 0 {
		logger.Warn("Friend request notifications without a request link are not listed", "rows", unlinked)
	}
	return nil
}
