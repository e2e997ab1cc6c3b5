package database

import (
	"fmt"
	"log"
	"time"

	"backend_customerpro/auth"
	"backend_customerpro/models"

	"gorm.io/gorm"
)

// SeedIfEmpty fills a fresh database with the demo fixture: an admin, two
// field reps with isolated data sets and one back-office user. Databases that
// already contain users are left untouched.
func SeedIfEmpty(db *gorm.DB) error {
	var count int64
	if err := db.Model(&models.User{}).Count(&count).Error; err != nil {
		return fmt.Errorf("failed to count users: %w", err)
	}
	if count > 0 {
		log.Printf("[DB] %d users exist, skipping seed", count)
		return nil
	}

	log.Println("[DB] Empty database, creating demo data...")

	return db.Transaction(func(tx *gorm.DB) error {
		hash := func(password string) string {
			hashed, err := auth.HashPassword(password)
			if err != nil {
				// rand failure, seed cannot proceed meaningfully
				panic(err)
			}
			return hashed
		}

		admin := models.User{Username: "admin", Password: hash("42"), Role: models.RoleField, IsAdmin: true}
		paul := models.User{Username: "paul", Password: hash("paul123"), Role: models.RoleField}
		thomas := models.User{Username: "thomas", Password: hash("thomas123"), Role: models.RoleField}
		maria := models.User{Username: "maria", Password: hash("maria123"), Role: models.RoleOffice}
		for _, user := range []*models.User{&admin, &paul, &thomas, &maria} {
			if err := tx.Create(user).Error; err != nil {
				return err
			}
		}

		if err := seedRep(tx, paul.ID, "Paul", "P", "Berlin", "Paulstraße 1, 10115 Berlin"); err != nil {
			return err
		}
		if err := seedRep(tx, thomas.ID, "Thomas", "T", "Hamburg", "Thomasstraße 10, 20095 Hamburg"); err != nil {
			return err
		}

		log.Println("[DB] Demo data created: admin/42, paul/paul123, thomas/thomas123, maria/maria123")
		return nil
	})
}

// seedRep creates the per-rep demo set: two customers, one construction site,
// one active and one archived tour.
func seedRep(tx *gorm.DB, ownerID uint, name, prefix, city, address string) error {
	first := models.Customer{
		CustomerNumber: prefix + "001",
		Name:           name + " Kunde GmbH",
		Address:        address,
		Phone:          "+49 30 111222",
		Email:          "kontakt@" + prefix + "001.example",
		CreatedBy:      ownerID,
	}
	second := models.Customer{
		CustomerNumber: prefix + "002",
		Name:           name + " Consulting AG",
		Address:        city,
		Phone:          "+49 89 333444",
		Email:          "info@" + prefix + "002.example",
		CreatedBy:      ownerID,
	}
	if err := tx.Create(&first).Error; err != nil {
		return err
	}
	if err := tx.Create(&second).Error; err != nil {
		return err
	}

	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	site := models.ConstructionSite{
		CustomerID: first.ID,
		Name:       name + " Baustelle " + city,
		Address:    address,
		Status:     "Aktiv",
		StartDate:  &start,
		CreatedBy:  ownerID,
	}
	if err := tx.Create(&site).Error; err != nil {
		return err
	}

	active := models.Tour{Title: name + " Wochentour", CreatedBy: ownerID}
	if err := tx.Create(&active).Error; err != nil {
		return err
	}
	if err := tx.Create(&models.TourStop{
		TourID: active.ID, CustomerName: first.Name, Address: address, Goal: "Beratung", Order: 1,
	}).Error; err != nil {
		return err
	}

	completed := time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC)
	archived := models.Tour{Title: name + " alte Tour", CreatedBy: ownerID, Archived: true, CompletedAt: &completed}
	if err := tx.Create(&archived).Error; err != nil {
		return err
	}
	return tx.Create(&models.TourStop{
		TourID: archived.ID, CustomerName: "Alter Kunde", Address: "Alte Str 1", Goal: "Abschluss", Order: 1,
	}).Error
}
