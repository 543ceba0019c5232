package config

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/terraza-app/terraza-kiosk/models"
)

func openTestStore(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to open test store: %v", err)
	}

	if err := db.AutoMigrate(
		&models.SchemaMeta{},
		&models.SessionRecord{},
		&models.CartRecord{},
		&models.VenueRecord{},
		&models.TableSnapshotRecord{},
	); err != nil {
		t.Fatalf("Failed to migrate test store: %v", err)
	}

	return db
}

func TestGetStore(t *testing.T) {
	Store = nil
	assert.Nil(t, GetStore(), "GetStore should return nil when the store is not initialized")

	db := openTestStore(t)
	SetStore(db)
	defer SetStore(nil)
	assert.Equal(t, db, GetStore())
}

func TestMigrateStoreFreshStore(t *testing.T) {
	db := openTestStore(t)

	err := migrateStore(db)
	require.NoError(t, err)

	var meta models.SchemaMeta
	require.NoError(t, db.First(&meta).Error)
	assert.Equal(t, CurrentSchemaVersion, meta.Version)
}

func TestMigrateStoreIdempotent(t *testing.T) {
	db := openTestStore(t)

	require.NoError(t, migrateStore(db))
	require.NoError(t, migrateStore(db))

	var count int64
	db.Model(&models.SchemaMeta{}).Count(&count)
	assert.Equal(t, int64(1), count, "Repeated migration should not duplicate meta rows")
}

func TestMigrateV1LegacyState(t *testing.T) {
	db := openTestStore(t)
	require.NoError(t, db.AutoMigrate(&models.LegacyStateRecord{}))

	savedAt := time.Now().Add(-10 * time.Minute).Truncate(time.Second)
	legacyAuth := `{"usuario":{"id":3,"nombre":"Marta","email":"marta@example.com","direccion":"Calle Sol 4"},"token":"tok-123","mesa":7,"cliente":"c-9","admin":false,"expira":` + jsonUnix(savedAt.Add(12*time.Hour)) + `}`
	legacyCart := `[{"product":{"id":5,"nombre":"Pizza","precio":"1000"},"cantidad":2}]`

	require.NoError(t, db.Create(&models.LegacyStateRecord{Key: "auth", Value: legacyAuth}).Error)
	require.NoError(t, db.Create(&models.LegacyStateRecord{Key: "carrito", Value: legacyCart}).Error)
	require.NoError(t, db.Create(&models.LegacyStateRecord{Key: "carrito_ts", Value: jsonUnix(savedAt)}).Error)
	require.NoError(t, db.Create(&models.LegacyStateRecord{Key: "venue_open", Value: "true"}).Error)

	require.NoError(t, migrateStore(db))

	// Session normalized into the v2 shape
	var sessionRow models.SessionRecord
	require.NoError(t, db.First(&sessionRow).Error)
	var session models.Session
	require.NoError(t, json.Unmarshal([]byte(sessionRow.Payload), &session))
	assert.Equal(t, "tok-123", session.Token)
	assert.Equal(t, 7, session.TableID)
	assert.Equal(t, "c-9", session.ClientID)
	assert.False(t, session.Guest, "A legacy blob with a user is not a guest session")
	require.NotNil(t, session.User)
	assert.Equal(t, "Marta", session.User.Nombre)

	// Cart lines and timestamp stitched back together
	var cartRow models.CartRecord
	require.NoError(t, db.First(&cartRow).Error)
	var cart models.Cart
	require.NoError(t, json.Unmarshal([]byte(cartRow.Payload), &cart))
	require.Len(t, cart.Lines, 1)
	assert.Equal(t, 5, cart.Lines[0].Product.ID)
	assert.Equal(t, 2, cart.Lines[0].Cantidad)
	assert.Equal(t, savedAt.Unix(), cartRow.SavedAt.Unix())

	// Venue flag carried over
	var venue models.VenueRecord
	require.NoError(t, db.First(&venue).Error)
	assert.True(t, venue.Open)

	// Legacy table dropped
	assert.False(t, db.Migrator().HasTable(&models.LegacyStateRecord{}))

	// Version recorded
	var meta models.SchemaMeta
	require.NoError(t, db.First(&meta).Error)
	assert.Equal(t, CurrentSchemaVersion, meta.Version)
}

func TestMigrateV1SkipsUnreadableBlobs(t *testing.T) {
	db := openTestStore(t)
	require.NoError(t, db.AutoMigrate(&models.LegacyStateRecord{}))
	require.NoError(t, db.Create(&models.LegacyStateRecord{Key: "auth", Value: "{not json"}).Error)

	require.NoError(t, migrateStore(db))

	var count int64
	db.Model(&models.SessionRecord{}).Count(&count)
	assert.Equal(t, int64(0), count, "An unreadable blob is discarded, not migrated")
	assert.False(t, db.Migrator().HasTable(&models.LegacyStateRecord{}))
}

func jsonUnix(t time.Time) string {
	b, _ := json.Marshal(t.Unix())
	return string(b)
}
