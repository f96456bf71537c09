package main

import (
	"log"
	"os"

	"ai-ordertaking-be/internal/model"
	"ai-ordertaking-be/pkg/database"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
)

func main() {
	// Load Environment Variables
	if err := godotenv.Load(); err != nil {
		log.Println("Info: No .env file found, using system env")
	}

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		log.Fatal("Error: DB_CONNECTION_STRING is not set")
	}

	db, err := database.NewGormDBFromDSN(dsn)
	if err != nil {
		log.Fatal("Error: Failed to connect to database:", err)
	}

	// Fixed demo tenant so seeding stays idempotent across runs
	companyId := uuid.MustParse("11111111-1111-1111-1111-111111111111")
	if raw := os.Getenv("DEMO_COMPANY_ID"); raw != "" {
		companyId = uuid.MustParse(raw)
	}

	log.Printf("Seeding Product Catalog for company %s...", companyId)

	// Typical kirana shelf, enough breadth to exercise every match rule
	products := []model.Product{
		{Sku: "MGN-070", Name: "Maggi Noodles 2-Min 70g", Category: "Instant Noodles", SubCategory: "Masala", Unit: "pack", Price: 14.00},
		{Sku: "MGN-280", Name: "Maggi Noodles 2-Min 280g Family Pack", Category: "Instant Noodles", SubCategory: "Masala", Unit: "pack", Price: 56.00},
		{Sku: "PRL-023", Name: "Parle-G Gold 100g", Category: "Biscuits", SubCategory: "Glucose", Unit: "pack", Price: 10.00},
		{Sku: "SUG-001", Name: "Sugar 1kg", Category: "Staples", SubCategory: "Sweeteners", Unit: "kg", Price: 45.00},
		{Sku: "SLT-001", Name: "Tata Salt 1kg", Category: "Staples", SubCategory: "Salt", Unit: "kg", Price: 28.00},
		{Sku: "ATA-005", Name: "Aashirvaad Atta 5kg", Category: "Staples", SubCategory: "Flour", Unit: "bag", Price: 245.00},
		{Sku: "RIC-005", Name: "India Gate Basmati Rice 5kg", Category: "Staples", SubCategory: "Rice", Unit: "bag", Price: 550.00},
		{Sku: "DAL-001", Name: "Toor Dal 1kg", Category: "Staples", SubCategory: "Pulses", Unit: "kg", Price: 160.00},
		{Sku: "OIL-001", Name: "Fortune Sunflower Oil 1L", Category: "Staples", SubCategory: "Edible Oil", Unit: "bottle", Price: 145.00},
		{Sku: "TEA-250", Name: "Red Label Tea 250g", Category: "Beverages", SubCategory: "Tea", Unit: "pack", Price: 140.00},
		{Sku: "TUP-500", Name: "Thums Up 500ml", Category: "Beverages", SubCategory: "Cola", Unit: "bottle", Price: 40.00},
		{Sku: "MLK-500", Name: "Amul Taaza Milk 500ml", Category: "Dairy", SubCategory: "Milk", Unit: "pouch", Price: 27.00},
		{Sku: "BTR-100", Name: "Amul Butter 100g", Category: "Dairy", SubCategory: "Butter", Unit: "pack", Price: 60.00},
		{Sku: "SOP-001", Name: "Lifebuoy Soap 100g", Category: "Personal Care", SubCategory: "Soap", Unit: "bar", Price: 36.00},
	}

	for _, p := range products {
		p.CompanyId = companyId
		p.IsActive = true

		// Check if product with this SKU already exists for the tenant
		var existing model.Product
		if err := db.Where("company_id = ? AND sku = ?", companyId, p.Sku).First(&existing).Error; err == nil {
			log.Printf("Product '%s' already exists, skipping...", p.Sku)
			continue
		}

		if err := db.Create(&p).Error; err != nil {
			log.Printf("Error creating product '%s': %v", p.Sku, err)
		} else {
			log.Printf("Created product: %s (%s)", p.Name, p.Sku)
		}
	}

	log.Println("Catalog seeding completed!")

	log.Println("Seeding Demo Stores...")
	SeedDemoStores(db, companyId)
}
