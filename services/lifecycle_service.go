package services

import (
	"errors"
	"fmt"
	"log"
	"time"

	"backend_customerpro/models"

	"gorm.io/gorm"
)

var (
	// ErrCustomerNumberTaken signals a duplicate customer number within the
	// same owner's data. The same number under a different owner is fine.
	ErrCustomerNumberTaken = errors.New("Kundennummer existiert bereits")
	// ErrUsernameTaken signals a globally duplicate username.
	ErrUsernameTaken = errors.New("Nutzername existiert bereits")
	// ErrProtectedUser signals a deletion attempt on the system admin (id 1).
	ErrProtectedUser = errors.New("System-Admin kann nicht gelöscht werden")
)

// LifecycleService enforces the invariants the storage layer alone cannot:
// owner-scoped uniqueness, transactional cascade deletes, ordered tour stops
// and the one-way tour archival transition.
type LifecycleService struct {
	DB *gorm.DB
}

// NewLifecycleService creates a new LifecycleService instance.
func NewLifecycleService(db *gorm.DB) *LifecycleService {
	return &LifecycleService{DB: db}
}

// CheckCustomerNumberFree validates the per-owner uniqueness of a customer
// number. excludeID skips the record being updated.
func (ls *LifecycleService) CheckCustomerNumberFree(ownerID uint, number string, excludeID uint) error {
	query := ls.DB.Model(&models.Customer{}).
		Where("customer_number = ? AND created_by = ?", number, ownerID)
	if excludeID != 0 {
		query = query.Where("id <> ?", excludeID)
	}
	var count int64
	if err := query.Count(&count).Error; err != nil {
		return fmt.Errorf("failed to check customer number: %w", err)
	}
	if count > 0 {
		return ErrCustomerNumberTaken
	}
	return nil
}

// DeleteCustomerCascade removes a customer with all protocols, documents and
// construction sites (including the sites' own notes and documents) in one
// transaction. Either the whole cascade commits or nothing does.
func (ls *LifecycleService) DeleteCustomerCascade(customer *models.Customer) error {
	return ls.DB.Transaction(func(tx *gorm.DB) error {
		var siteIDs []uint
		if err := tx.Model(&models.ConstructionSite{}).
			Where("customer_id = ?", customer.ID).
			Pluck("id", &siteIDs).Error; err != nil {
			return err
		}
		if len(siteIDs) > 0 {
			if err := tx.Where("construction_site_id IN ?", siteIDs).Delete(&models.ConstructionNote{}).Error; err != nil {
				return err
			}
			if err := tx.Where("construction_site_id IN ?", siteIDs).Delete(&models.Document{}).Error; err != nil {
				return err
			}
			if err := tx.Where("customer_id = ?", customer.ID).Delete(&models.ConstructionSite{}).Error; err != nil {
				return err
			}
		}
		if err := tx.Where("customer_id = ?", customer.ID).Delete(&models.VisitProtocol{}).Error; err != nil {
			return err
		}
		if err := tx.Where("customer_id = ?", customer.ID).Delete(&models.Document{}).Error; err != nil {
			return err
		}
		if err := tx.Delete(customer).Error; err != nil {
			return err
		}
		log.Printf("[CUSTOMER] Deleted %d with %d construction sites", customer.ID, len(siteIDs))
		return nil
	})
}

// DeleteConstructionSiteCascade removes a site with its notes and documents.
func (ls *LifecycleService) DeleteConstructionSiteCascade(site *models.ConstructionSite) error {
	return ls.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("construction_site_id = ?", site.ID).Delete(&models.ConstructionNote{}).Error; err != nil {
			return err
		}
		if err := tx.Where("construction_site_id = ?", site.ID).Delete(&models.Document{}).Error; err != nil {
			return err
		}
		return tx.Delete(site).Error
	})
}

// CreateTourWithStops inserts a tour and its stops atomically. Stops receive
// their 1-based position in the submitted list as order and are immutable
// afterwards.
func (ls *LifecycleService) CreateTourWithStops(tour *models.Tour, stops []models.TourStop) error {
	return ls.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(tour).Error; err != nil {
			return err
		}
		for i := range stops {
			stops[i].TourID = tour.ID
			stops[i].Order = i + 1
		}
		if len(stops) > 0 {
			if err := tx.Create(&stops).Error; err != nil {
				return err
			}
		}
		tour.Stops = stops
		return nil
	})
}

// CompleteTour performs the one-way Active -> Archived transition. Completing
// an already archived tour is idempotent: the original completion timestamp
// is kept.
func (ls *LifecycleService) CompleteTour(tour *models.Tour) error {
	if tour.Archived {
		return nil
	}
	now := time.Now().UTC()
	if err := ls.DB.Model(tour).Updates(map[string]interface{}{
		"archived":     true,
		"completed_at": now,
	}).Error; err != nil {
		return err
	}
	// Mutate the in-memory tour only once storage agrees.
	tour.Archived = true
	tour.CompletedAt = &now
	return nil
}

// DeleteTourCascade removes a tour together with its stops.
func (ls *LifecycleService) DeleteTourCascade(tour *models.Tour) error {
	return ls.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("tour_id = ?", tour.ID).Delete(&models.TourStop{}).Error; err != nil {
			return err
		}
		return tx.Delete(tour).Error
	})
}

// CreateUser inserts a user after the global username uniqueness check.
func (ls *LifecycleService) CreateUser(user *models.User) error {
	var count int64
	if err := ls.DB.Model(&models.User{}).Where("username = ?", user.Username).Count(&count).Error; err != nil {
		return fmt.Errorf("failed to check username: %w", err)
	}
	if count > 0 {
		return ErrUsernameTaken
	}
	return ls.DB.Create(user).Error
}

// DeleteUser removes a user. The system admin (id 1) is protected and is
// rejected before any side effect, regardless of who asks.
func (ls *LifecycleService) DeleteUser(user *models.User) error {
	if user.ID == models.SystemAdminID {
		return ErrProtectedUser
	}
	return ls.DB.Delete(user).Error
}
