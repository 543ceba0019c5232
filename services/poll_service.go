package services

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/terraza-app/terraza-kiosk/config"
	"github.com/terraza-app/terraza-kiosk/models"
)

// PollServiceInterface keeps kiosk views approximately current with server
// state. There is no push channel; fixed-interval re-fetches fully replace
// the cached value each tick. A failed tick is logged and silently retried
// on the next one, with no backoff.
type PollServiceInterface interface {
	// WatchTable polls the active order of one table until ctx is done.
	WatchTable(ctx context.Context, tableID int)
	// WatchTables polls the full table list until ctx is done.
	WatchTables(ctx context.Context)
	// WatchOrders polls all orders until ctx is done.
	WatchOrders(ctx context.Context)
	// OnNewLines registers the hook fired when a poll sees lines an order
	// did not have on the previous tick. Purely a UI concern (the staff
	// chime); order state correctness never depends on it.
	OnNewLines(fn func(orderID int, lines []models.OrderLine))
}

// PollService implements PollServiceInterface on top of the order and
// table services.
type PollService struct {
	interval time.Duration

	mu         sync.Mutex
	snapshots  map[int]*models.Order // previous tick per order id
	onNewLines func(orderID int, lines []models.OrderLine)
}

var pollServiceInstance PollServiceInterface

// InitPollService initializes the poll service
func InitPollService(cfg *config.Config) PollServiceInterface {
	pollServiceInstance = &PollService{
		interval:  cfg.PollInterval,
		snapshots: make(map[int]*models.Order),
	}
	return pollServiceInstance
}

// GetPollService returns the initialized poll service instance
func GetPollService() PollServiceInterface {
	return pollServiceInstance
}

// SetPollService sets the poll service instance (primarily for testing)
func SetPollService(service PollServiceInterface) {
	pollServiceInstance = service
}

// OnNewLines registers the new-line notification hook.
func (s *PollService) OnNewLines(fn func(orderID int, lines []models.OrderLine)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onNewLines = fn
}

// WatchTable polls the order of one table at the configured interval.
func (s *PollService) WatchTable(ctx context.Context, tableID int) {
	s.loop(ctx, func() {
		order, err := GetOrderService().OrderByTable(ctx, tableID)
		if err != nil {
			log.Printf("Poll for table %d failed: %v", tableID, err)
			return
		}
		GetQueryCache().Put(fmt.Sprintf("order/table/%d", tableID), order, 0)
		if order != nil {
			s.compareAndNotify(order)
		}
	})
}

// WatchTables polls the full table list at the configured interval. The
// table service already replaces the cache and persisted snapshot on each
// successful fetch.
func (s *PollService) WatchTables(ctx context.Context) {
	s.loop(ctx, func() {
		if _, err := GetTableService().AllTables(ctx); err != nil {
			log.Printf("Poll for tables failed: %v", err)
		}
	})
}

// WatchOrders polls every order at the configured interval, for the staff
// view.
func (s *PollService) WatchOrders(ctx context.Context) {
	s.loop(ctx, func() {
		orders, err := GetOrderService().AllOrders(ctx)
		if err != nil {
			log.Printf("Poll for orders failed: %v", err)
			return
		}
		GetQueryCache().Put("orders", orders, 0)
		for i := range orders {
			s.compareAndNotify(&orders[i])
		}
		s.forgetMissing(orders)
	})
}

// forgetMissing drops the snapshots of orders the server no longer
// returns, so finished orders do not pile up over the daemon's life.
func (s *PollService) forgetMissing(current []models.Order) {
	seen := make(map[int]struct{}, len(current))
	for i := range current {
		seen[current[i].ID] = struct{}{}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for id := range s.snapshots {
		if _, ok := seen[id]; !ok {
			delete(s.snapshots, id)
		}
	}
}

// loop runs tick immediately and then on every interval until ctx is done.
func (s *PollService) loop(ctx context.Context, tick func()) {
	tick()
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			tick()
		}
	}
}

// compareAndNotify diffs an order against its previous snapshot and fires
// the new-line hook for lines that appeared or grew since the last tick.
func (s *PollService) compareAndNotify(order *models.Order) {
	s.mu.Lock()
	previous := s.snapshots[order.ID]
	copied := *order
	copied.Lineas = append([]models.OrderLine(nil), order.Lineas...)
	s.snapshots[order.ID] = &copied
	hook := s.onNewLines
	s.mu.Unlock()

	if hook == nil {
		return
	}

	fresh := NewLinesSince(previous, order)
	if len(fresh) > 0 {
		hook(order.ID, fresh)
	}
}

// NewLinesSince returns the lines of current that previous did not have,
// or had at a lower quantity. A nil previous means every line is new.
func NewLinesSince(previous, current *models.Order) []models.OrderLine {
	var fresh []models.OrderLine
	for _, line := range current.Lineas {
		if previous == nil {
			fresh = append(fresh, line)
			continue
		}
		before := previous.LineFor(line.IDProducto)
		if before == nil || line.Cantidad > before.Cantidad {
			fresh = append(fresh, line)
		}
	}
	return fresh
}
