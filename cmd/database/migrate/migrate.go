package migration

import (
	"StockCount-Backend/entities"
	"fmt"
	"log"

	"gorm.io/gorm"
)

func Migrate(db *gorm.DB) error {
	db.Exec("CREATE EXTENSION IF NOT EXISTS \"uuid-ossp\";")

	if err := db.AutoMigrate(&entities.User{}); err != nil {
		log.Fatalf("Error migrating user database: %v", err)
		return err
	}
	if err := db.AutoMigrate(&entities.Location{}); err != nil {
		log.Fatalf("Error migrating location database: %v", err)
		return err
	}
	if err := db.AutoMigrate(&entities.Product{}); err != nil {
		log.Fatalf("Error migrating product database: %v", err)
		return err
	}
	if err := db.AutoMigrate(&entities.InventorySession{}); err != nil {
		log.Fatalf("Error migrating inventory session database: %v", err)
		return err
	}
	if err := db.AutoMigrate(&entities.InventoryItem{}); err != nil {
		log.Fatalf("Error migrating inventory item database: %v", err)
		return err
	}
	if err := db.AutoMigrate(&entities.AuditLogEntry{}); err != nil {
		log.Fatalf("Error migrating audit log database: %v", err)
		return err
	}
	if err := db.AutoMigrate(&entities.ScanCapture{}); err != nil {
		log.Fatalf("Error migrating scan capture database: %v", err)
		return err
	}

	fmt.Println("Database migration complete")
	return nil
}
