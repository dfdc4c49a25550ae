package setup

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"collaborative-whiteboard/internal/domain"
)

// MigrateDB brings the schema up to date. The rooms and boxes tables are
// created with explicit SQL so the foreign key and the reserved `left`
// column name are spelled out; AutoMigrate then reconciles columns and
// indexes on existing installations.
func MigrateDB(db *gorm.DB) error {
	if db == nil {
		return fmt.Errorf("cannot migrate database with nil DB connection")
	}

	if err := migrateRoomsTable(db); err != nil {
		return fmt.Errorf("migrate rooms table: %w", err)
	}
	if err := migrateBoxesTable(db); err != nil {
		return fmt.Errorf("migrate boxes table: %w", err)
	}

	logrus.Info("Database migration completed successfully")
	return nil
}

func migrateRoomsTable(db *gorm.DB) error {
	if db.Migrator().HasTable("rooms") {
		return db.AutoMigrate(&domain.Room{})
	}
	sql := `
	CREATE TABLE rooms (
		id BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
		name VARCHAR(80) NOT NULL,
		password VARCHAR(80) NOT NULL,
		created_at DATETIME(3),
		UNIQUE INDEX idx_room_name (name)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_general_ci;
	`
	if err := db.Exec(sql).Error; err != nil {
		return fmt.Errorf("create rooms table: %w", err)
	}
	logrus.Info("Rooms table created")
	return nil
}

func migrateBoxesTable(db *gorm.DB) error {
	if db.Migrator().HasTable("boxes") {
		return db.AutoMigrate(&domain.Box{})
	}
	sql := "CREATE TABLE boxes (" +
		"id VARCHAR(64) PRIMARY KEY, " +
		"top INT NOT NULL DEFAULT 100, " +
		"`left` INT NOT NULL DEFAULT 100, " +
		"text TEXT, " +
		"color VARCHAR(20), " +
		"room_id BIGINT UNSIGNED NOT NULL, " +
		"INDEX idx_box_room (room_id), " +
		"CONSTRAINT fk_boxes_room FOREIGN KEY (room_id) REFERENCES rooms (id)" +
		") ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_general_ci;"
	if err := db.Exec(sql).Error; err != nil {
		return fmt.Errorf("create boxes table: %w", err)
	}
	logrus.Info("Boxes table created")
	return nil
}
