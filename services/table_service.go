package services

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"gorm.io/gorm"

	"github.com/terraza-app/terraza-kiosk/config"
	"github.com/terraza-app/terraza-kiosk/models"
)

const cacheKeyTables = "tables"

// TableServiceInterface defines the operations on tables.
type TableServiceInterface interface {
	AllTables(ctx context.Context) ([]models.Table, error)
	// CachedTables returns the last known table list without a network
	// call: the freshest of the query cache and the persisted snapshot.
	CachedTables() []models.Table
	UpdateNote(ctx context.Context, tableID int, note string) error
	UpdateStatus(ctx context.Context, tableID int, status models.TableStatus) error
	AssignWaiter(ctx context.Context, tableID, waiterID int) error
}

// TableService implements TableServiceInterface against the remote API. On
// every successful fetch it persists a snapshot of the table list to the
// local store so staff views have data before the first poll after a
// restart.
type TableService struct {
	client APIClientInterface
	cache  *QueryCache
}

var tableServiceInstance TableServiceInterface

// InitTableService initializes the table service
func InitTableService(client APIClientInterface) TableServiceInterface {
	tableServiceInstance = &TableService{client: client, cache: GetQueryCache()}
	return tableServiceInstance
}

// GetTableService returns the initialized table service instance
func GetTableService() TableServiceInterface {
	return tableServiceInstance
}

// SetTableService sets the table service instance (primarily for testing)
func SetTableService(service TableServiceInterface) {
	tableServiceInstance = service
}

// AllTables fetches the current table list, replaces the cached value and
// persists the snapshot.
func (s *TableService) AllTables(ctx context.Context) ([]models.Table, error) {
	var tables []models.Table
	if err := s.client.Get(ctx, "/table", &tables); err != nil {
		return nil, err
	}
	s.cache.Put(cacheKeyTables, tables, 0)
	s.persistSnapshot(tables)
	return tables, nil
}

// CachedTables returns the last table list this kiosk has seen, preferring
// the in-memory cache over the persisted snapshot. Returns nil when the
// kiosk has never fetched tables.
func (s *TableService) CachedTables() []models.Table {
	if value, ok := s.cache.Peek(cacheKeyTables); ok {
		return value.([]models.Table)
	}

	db := config.GetStore()
	if db == nil {
		return nil
	}
	var record models.TableSnapshotRecord
	if err := db.First(&record).Error; err != nil {
		return nil
	}
	var tables []models.Table
	if err := json.Unmarshal([]byte(record.Payload), &tables); err != nil {
		log.Printf("Discarding unreadable table snapshot: %v", err)
		return nil
	}
	return tables
}

// persistSnapshot replaces the stored table snapshot. A write failure only
// costs the warm start, so it is logged and not propagated.
func (s *TableService) persistSnapshot(tables []models.Table) {
	db := config.GetStore()
	if db == nil {
		return
	}
	payload, err := json.Marshal(tables)
	if err != nil {
		log.Printf("Failed to encode table snapshot: %v", err)
		return
	}
	err = db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("1 = 1").Delete(&models.TableSnapshotRecord{}).Error; err != nil {
			return err
		}
		return tx.Create(&models.TableSnapshotRecord{Payload: string(payload), FetchedAt: time.Now()}).Error
	})
	if err != nil {
		log.Printf("Failed to persist table snapshot: %v", err)
	}
}

// UpdateNote sets the free-form note on a table.
func (s *TableService) UpdateNote(ctx context.Context, tableID int, note string) error {
	body := map[string]interface{}{"id_mesa": tableID, "nota": note}
	return s.client.Put(ctx, "/table/update/note", body, nil)
}

// UpdateStatus changes a table's occupancy state.
func (s *TableService) UpdateStatus(ctx context.Context, tableID int, status models.TableStatus) error {
	body := map[string]interface{}{"id_mesa": tableID, "estado": string(status)}
	return s.client.Put(ctx, "/table/update/status", body, nil)
}

// AssignWaiter assigns a waiter to a table.
func (s *TableService) AssignWaiter(ctx context.Context, tableID, waiterID int) error {
	body := map[string]interface{}{"id_mesa": tableID, "id_camarero": waiterID}
	return s.client.Put(ctx, "/table/update/waiter", body, nil)
}
