package config

import (
	"encoding/json"
	"fmt"
	"log"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/terraza-app/terraza-kiosk/models"
)

// CurrentSchemaVersion is the store schema this build writes. Bump it when
// a migration is added to migrateStore.
const CurrentSchemaVersion = 2

var Store *gorm.DB

// ConnectStore opens the kiosk's local SQLite store, creates the current
// tables and runs any pending schema migration. The store stands in for
// what a browser client would keep in local storage: session, cart, venue
// flag and the cached table snapshot.
func ConnectStore(path string) error {
	var err error
	Store, err = gorm.Open(sqlite.Open(path), &gorm.Config{})
	if err != nil {
		return fmt.Errorf("failed to open local store: %w", err)
	}

	if err := Store.AutoMigrate(
		&models.SchemaMeta{},
		&models.SessionRecord{},
		&models.CartRecord{},
		&models.VenueRecord{},
		&models.TableSnapshotRecord{},
	); err != nil {
		return fmt.Errorf("failed to migrate local store: %w", err)
	}

	if err := migrateStore(Store); err != nil {
		return fmt.Errorf("failed to upgrade local store schema: %w", err)
	}

	log.Println("Local store opened successfully")
	return nil
}

// GetStore returns the store instance
func GetStore() *gorm.DB {
	return Store
}

// SetStore sets the store instance (primarily for testing)
func SetStore(db *gorm.DB) {
	Store = db
}

// migrateStore brings the store up to CurrentSchemaVersion. Migrations are
// keyed by the stored version number, not by probing for legacy shapes.
func migrateStore(db *gorm.DB) error {
	var meta models.SchemaMeta
	err := db.First(&meta).Error
	switch {
	case err == gorm.ErrRecordNotFound:
		// Fresh store, or a v1 store from before versions were recorded.
		meta = models.SchemaMeta{Version: 1}
	case err != nil:
		return err
	}

	if meta.Version < 2 {
		if err := migrateV1LegacyState(db); err != nil {
			return fmt.Errorf("v1 migration: %w", err)
		}
		meta.Version = 2
	}

	meta.UpdatedAt = time.Now()
	return db.Save(&meta).Error
}

// legacySessionBlob is the v1 session shape written by early kiosk builds.
type legacySessionBlob struct {
	Usuario *models.UserProfile `json:"usuario"`
	Token   string              `json:"token"`
	Mesa    int                 `json:"mesa"`
	Cliente string              `json:"cliente"`
	Admin   bool                `json:"admin"`
	Expira  int64               `json:"expira"` // unix seconds
}

// migrateV1LegacyState normalizes the v1 key/value table into the typed v2
// records, then drops the legacy table. Unknown keys are discarded.
func migrateV1LegacyState(db *gorm.DB) error {
	if !db.Migrator().HasTable(&models.LegacyStateRecord{}) {
		return nil
	}

	var rows []models.LegacyStateRecord
	if err := db.Find(&rows).Error; err != nil {
		return err
	}

	for _, row := range rows {
		switch row.Key {
		case "auth":
			var legacy legacySessionBlob
			if err := json.Unmarshal([]byte(row.Value), &legacy); err != nil {
				log.Printf("Skipping unreadable legacy auth blob: %v", err)
				continue
			}
			session := models.Session{
				User:      legacy.Usuario,
				Token:     legacy.Token,
				TableID:   legacy.Mesa,
				ClientID:  legacy.Cliente,
				Admin:     legacy.Admin,
				Guest:     legacy.Usuario == nil,
				ExpiresAt: time.Unix(legacy.Expira, 0),
			}
			payload, err := json.Marshal(session)
			if err != nil {
				return err
			}
			if err := db.Create(&models.SessionRecord{Payload: string(payload)}).Error; err != nil {
				return err
			}
		case "carrito":
			// v1 stored the cart lines and timestamp separately; the
			// timestamp lives under "carrito_ts".
			savedAt := legacyCartTimestamp(rows)
			var lines []models.CartLine
			if err := json.Unmarshal([]byte(row.Value), &lines); err != nil {
				log.Printf("Skipping unreadable legacy cart blob: %v", err)
				continue
			}
			cart := models.Cart{Lines: lines, SavedAt: savedAt}
			payload, err := json.Marshal(cart)
			if err != nil {
				return err
			}
			if err := db.Create(&models.CartRecord{Payload: string(payload), SavedAt: savedAt}).Error; err != nil {
				return err
			}
		case "venue_open":
			if err := db.Create(&models.VenueRecord{Open: row.Value == "true"}).Error; err != nil {
				return err
			}
		}
	}

	if err := db.Migrator().DropTable(&models.LegacyStateRecord{}); err != nil {
		return err
	}
	log.Printf("Migrated %d legacy state rows to schema v2", len(rows))
	return nil
}

// legacyCartTimestamp extracts the v1 cart timestamp, defaulting to the
// zero time (always expired) when missing or unreadable.
func legacyCartTimestamp(rows []models.LegacyStateRecord) time.Time {
	for _, row := range rows {
		if row.Key != "carrito_ts" {
			continue
		}
		var unix int64
		if err := json.Unmarshal([]byte(row.Value), &unix); err == nil {
			return time.Unix(unix, 0)
		}
	}
	return time.Time{}
}
