package services

import (
	"log"

	"github.com/terraza-app/terraza-kiosk/config"
	"github.com/terraza-app/terraza-kiosk/models"
)

// VenueOpen reports whether the venue accepts orders. The flag is local
// kiosk state set by an admin; a store without the row counts as open.
func VenueOpen() bool {
	db := config.GetStore()
	if db == nil {
		return true
	}
	var record models.VenueRecord
	if err := db.First(&record).Error; err != nil {
		return true
	}
	return record.Open
}

// SetVenueOpen persists the venue open/closed flag.
func SetVenueOpen(open bool) error {
	db := config.GetStore()
	if db == nil {
		return nil
	}
	var record models.VenueRecord
	if err := db.First(&record).Error; err != nil {
		record = models.VenueRecord{}
	}
	record.Open = open
	if err := db.Save(&record).Error; err != nil {
		log.Printf("Failed to persist venue flag: %v", err)
		return err
	}
	return nil
}
