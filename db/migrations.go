package db

import (
	"log"

	"gorm.io/gorm"
)

func RunMigrations(db *gorm.DB) {
	err := db.AutoMigrate(&User{}, &RefreshToken{}, &Profile{}, &Round{})
	if err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}

	err = db.Exec("CREATE UNIQUE INDEX IF NOT EXISTS profile_unique_idx ON profiles (user_id);").Error
	if err != nil {
		log.Fatalf("failed to create unique index for profiles: %v", err)
	}

	err = db.Exec("CREATE INDEX IF NOT EXISTS round_user_time_idx ON rounds (user_id, timestamp DESC);").Error
	if err != nil {
		log.Fatalf("failed to create round index: %v", err)
	}
}
