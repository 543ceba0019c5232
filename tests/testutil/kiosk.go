package testutil

import (
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/terraza-app/terraza-kiosk/config"
	"github.com/terraza-app/terraza-kiosk/models"
	"github.com/terraza-app/terraza-kiosk/services"
)

// NewTestStore opens a fresh in-memory local store with the current schema.
func NewTestStore(t *testing.T) *gorm.DB {
	t.Helper()

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

// SetupKiosk wires the full service stack against a stubbed remote API and
// a fresh in-memory store. The previous singletons are cleared when the
// test finishes.
func SetupKiosk(t *testing.T, remote *RemoteStub) *config.Config {
	t.Helper()

	cfg := &config.Config{
		RemoteAPIBaseURL: remote.Server.URL,
		GoEnv:            "test",
		PollInterval:     10 * time.Millisecond,
		CartExpiry:       30 * time.Minute,
		SessionExpiry:    12 * time.Hour,
	}
	config.SetConfig(cfg)
	config.SetStore(NewTestStore(t))
	services.ResetQueryCache()

	sessions := services.InitSessionService(cfg)
	client := services.InitAPIClient(cfg, sessions.Token)
	client.OnAuthFailure(sessions.Invalidate)
	services.InitMenuService(client)
	services.InitOrderService(client)
	services.InitTableService(client)
	services.InitWaiterService(client)
	services.InitUserService(client)
	services.InitCartService(cfg)
	services.InitCheckoutService()
	services.InitPollService(cfg)

	t.Cleanup(func() {
		config.SetStore(nil)
		config.SetConfig(nil)
		services.ResetQueryCache()
	})

	return cfg
}
