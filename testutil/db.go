package testutil

import (
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"event-marketplace-server/config"
	"event-marketplace-server/database"
)

// SetupDB wires an isolated in-memory database into the global database.DB for
// one test and restores the previous handle afterwards.
func SetupDB(t *testing.T) *gorm.DB {
	t.Helper()

	if config.AppConfig == nil {
		config.Load()
	}

	db, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	if err := database.Migrate(db); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	prev := database.DB
	database.DB = db
	t.Cleanup(func() {
		sqlDB, _ := db.DB()
		if sqlDB != nil {
			sqlDB.Close()
		}
		database.DB = prev
	})

	return db
}
