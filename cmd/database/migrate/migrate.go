package migration

import (
	"log"
	"veronikaextra-backend/entities"

	"gorm.io/gorm"
)

func Migrate(db *gorm.DB) error {
	// uuid_generate_v4() defaults
	if err := db.Exec("CREATE EXTENSION IF NOT EXISTS \"uuid-ossp\";").Error; err != nil {
		log.Printf("Error creating uuid-ossp extension: %v", err)
		return err
	}

	models := []struct {
		name  string
		model any
	}{
		{"user", &entities.User{}},
		{"device claim", &entities.DeviceClaim{}},
		{"credit transaction", &entities.CreditTransaction{}},
		{"credit plan", &entities.CreditPlan{}},
		{"payment request", &entities.PaymentRequest{}},
		{"crypto payment transaction", &entities.CryptoPaymentTransaction{}},
		{"setting", &entities.Setting{}},
	}
	for _, m := range models {
		if err := db.AutoMigrate(m.model); err != nil {
			log.Printf("Error migrating %s database: %v", m.name, err)
			return err
		}
	}

	log.Println("Database migration complete")
	return nil
}
