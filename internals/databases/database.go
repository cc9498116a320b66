package database

import (
	"log"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"campusaxis_backend/internals/configs"
	importModel "campusaxis_backend/internals/features/admin/imports/model"
	postModel "campusaxis_backend/internals/features/community/posts/model"
	achievementModel "campusaxis_backend/internals/features/gamification/achievements/model"
	statsModel "campusaxis_backend/internals/features/gamification/stats/model"
	prefModel "campusaxis_backend/internals/features/users/preferences/model"
)

var DB *gorm.DB

func ConnectDB() {
	log.Println("[DB] connecting to PostgreSQL...")

	dsn, err := configs.DatabaseDSN()
	if err != nil {
		log.Fatalf("[DB] %v", err)
	}

	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN:                  dsn,
		PreferSimpleProtocol: true, // PgBouncer transaction pooling
	}), &gorm.Config{
		Logger: configs.NewGormLogger(),
	})
	if err != nil {
		log.Fatalf("[DB] connect failed: %v", err)
	}
	DB = db
	log.Println("[DB] connected.")
}

func TunePool() {
	sqlDB, err := DB.DB()
	if err != nil {
		log.Printf("[DB] pool tune err: %v", err)
		return
	}
	sqlDB.SetMaxOpenConns(configs.GetEnvInt("DB_MAX_OPEN_CONNS", 20))
	sqlDB.SetMaxIdleConns(configs.GetEnvInt("DB_MAX_IDLE_CONNS", 10))
	sqlDB.SetConnMaxIdleTime(60 * time.Second)
	sqlDB.SetConnMaxLifetime(10 * time.Minute)
}

func WarmUpQueries() {
	go func() {
		time.Sleep(500 * time.Millisecond)
		if err := ping(); err != nil {
			log.Printf("[DB] warm-up ping err: %v", err)
		}
	}()
}

func ping() error {
	sqlDB, err := DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}

// Models lists every table this service owns, in dependency order.
func Models() []any {
	return []any{
		&prefModel.UserPreference{},
		&postModel.Post{},
		&statsModel.UserStats{},
		&achievementModel.Achievement{},
		&achievementModel.UserAchievement{},
		&importModel.Faculty{},
		&importModel.FacultyReview{},
	}
}

// Migrate is gated by DB_AUTO_MIGRATE in main; tests call it directly.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(Models()...)
}
