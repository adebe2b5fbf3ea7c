package main

import (
	"fmt"
	"log"

	"github.com/frotamoto/patiogo/internal/config"
	"github.com/frotamoto/patiogo/internal/database"
	"github.com/frotamoto/patiogo/internal/models"
)

func main() {
	fmt.Println("🌱 patiogo Demo Data Seeder")

	// Load config
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("❌ Failed to load config: %v", err)
	}

	// Connect to database
	db, err := database.Connect(cfg.Database)
	if err != nil {
		log.Fatalf("❌ Failed to connect to database: %v", err)
	}
	defer db.Close()

	fmt.Println("✅ Connected to database")

	fmt.Println("🔨 Running database migrations...")
	err = db.AutoMigrate(
		&models.Yard{},
		&models.Zone{},
		&models.Box{},
		&models.Vehicle{},
		&models.OccupancySession{},
		&models.MovementLogEntry{},
	)
	if err != nil {
		log.Fatalf("❌ Migration failed: %v", err)
	}
	fmt.Println("✅ Migrations complete")

	// Check if data already exists
	var yardCount int64
	db.Model(&models.Yard{}).Count(&yardCount)
	if yardCount > 0 {
		fmt.Printf("⚠️  Database already has %d yards. Clear it first? (y/N): ", yardCount)
		var answer string
		fmt.Scanln(&answer)
		if answer != "y" && answer != "Y" {
			fmt.Println("❌ Aborted. Database not modified.")
			return
		}

		fmt.Println("🗑️  Clearing existing data...")
		db.Exec("TRUNCATE TABLE movement_log CASCADE")
		db.Exec("TRUNCATE TABLE occupancy_sessions CASCADE")
		db.Exec("TRUNCATE TABLE vehicles CASCADE")
		db.Exec("TRUNCATE TABLE boxes CASCADE")
		db.Exec("TRUNCATE TABLE zones CASCADE")
		db.Exec("TRUNCATE TABLE yards CASCADE")
		fmt.Println("✅ Data cleared")
	}

	fmt.Println("📦 Creating demo data...")

	yards := []models.Yard{
		{Name: "Pátio Butantã", Status: models.YardActive, Address: "Av. Vital Brasil, 1000 - São Paulo"},
		{Name: "Pátio Lapa", Status: models.YardActive, Address: "R. Guaicurus, 500 - São Paulo"},
	}
	for i := range yards {
		if err := db.Create(&yards[i]).Error; err != nil {
			log.Fatalf("❌ Failed to create yard: %v", err)
		}
		fmt.Printf("🏟️  Yard %s (id=%d)\n", yards[i].Name, yards[i].ID)
	}

	for _, yard := range yards {
		for _, zoneName := range []string{"Zona A", "Zona B"} {
			zone := models.Zone{YardID: yard.ID, Name: zoneName}
			if err := db.Create(&zone).Error; err != nil {
				log.Fatalf("❌ Failed to create zone: %v", err)
			}
		}
		for i := 1; i <= 12; i++ {
			box := models.Box{
				YardID: yard.ID,
				Name:   fmt.Sprintf("BOX-%02d", i),
				Status: models.BoxFree,
			}
			if i == 12 {
				box.Status = models.BoxMaintenance
				box.Observation = "Piso danificado"
			}
			if err := db.Create(&box).Error; err != nil {
				log.Fatalf("❌ Failed to create box: %v", err)
			}
		}
		fmt.Printf("📦 12 boxes created in %s\n", yard.Name)
	}

	vehicles := []models.Vehicle{
		{Plate: "ABC1234", Model: "Mottu Sport 110i", Manufacturer: "Mottu", YardID: &yards[0].ID},
		{Plate: "ABC1D23", Model: "Mottu-E", Manufacturer: "Mottu", YardID: &yards[0].ID},
		{Plate: "XYZ9876", Model: "Pop 110i", Manufacturer: "Honda", YardID: &yards[1].ID},
	}
	for i := range vehicles {
		if err := db.Create(&vehicles[i]).Error; err != nil {
			log.Fatalf("❌ Failed to create vehicle: %v", err)
		}
		fmt.Printf("🛵 Vehicle %s (%s)\n", vehicles[i].Plate, vehicles[i].Model)
	}

	fmt.Println("✅ Demo data ready")
}
