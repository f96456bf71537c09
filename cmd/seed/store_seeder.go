package main

import (
	"log"

	"ai-ordertaking-be/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// SeedDemoStores populates the database with registered retailer stores.
// Phone numbers here are what inbound WhatsApp senders resolve against.
func SeedDemoStores(db *gorm.DB, companyId uuid.UUID) {
	stores := []model.Store{
		{
			Name:      "Sharma Kirana Store",
			Phone:     "919876543210",
			Address:   "Shop 4, Link Road Market, Andheri West, Mumbai",
			Latitude:  19.1364,
			Longitude: 72.8296,
		},
		{
			Name:      "Gupta General Stores",
			Phone:     "919812345678",
			Address:   "12 Gandhi Chowk, Lajpat Nagar, New Delhi",
			Latitude:  28.5677,
			Longitude: 77.2433,
		},
		{
			Name:      "New Bharat Provision",
			Phone:     "918800112233",
			Address:   "45 MG Road, Indiranagar, Bengaluru",
			Latitude:  12.9719,
			Longitude: 77.6412,
		},
	}

	for _, s := range stores {
		s.CompanyId = companyId
		s.IsActive = true

		var existing model.Store
		if err := db.Where("company_id = ? AND phone = ?", companyId, s.Phone).First(&existing).Error; err == nil {
			log.Printf("Store '%s' already exists, skipping...", s.Name)
			continue
		}

		if err := db.Create(&s).Error; err != nil {
			log.Printf("Error creating store '%s': %v", s.Name, err)
		} else {
			log.Printf("Created store: %s (%s)", s.Name, s.Phone)
		}
	}

	log.Println("Store seeding completed!")
}
