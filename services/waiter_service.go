package services

import (
	"context"

	"github.com/terraza-app/terraza-kiosk/models"
)

// WaiterServiceInterface defines waiter-related operations: the two
// customer-facing notifications and staff management.
type WaiterServiceInterface interface {
	CallWaiter(ctx context.Context, tableID int) (string, error)
	RequestBill(ctx context.Context, tableID int) (string, error)
	AllWaiters(ctx context.Context) ([]models.Waiter, error)
	CreateWaiter(ctx context.Context, name string) error
	SetActive(ctx context.Context, waiterID int, active bool) error
}

// WaiterService implements WaiterServiceInterface against the remote API.
type WaiterService struct {
	client APIClientInterface
}

var waiterServiceInstance WaiterServiceInterface

// InitWaiterService initializes the waiter service
func InitWaiterService(client APIClientInterface) WaiterServiceInterface {
	waiterServiceInstance = &WaiterService{client: client}
	return waiterServiceInstance
}

// GetWaiterService returns the initialized waiter service instance
func GetWaiterService() WaiterServiceInterface {
	return waiterServiceInstance
}

// SetWaiterService sets the waiter service instance (primarily for testing)
func SetWaiterService(service WaiterServiceInterface) {
	waiterServiceInstance = service
}

// CallWaiter raises the waiter-called flag on a table and returns the
// server's confirmation message.
func (s *WaiterService) CallWaiter(ctx context.Context, tableID int) (string, error) {
	body := map[string]interface{}{"id_mesa": tableID}
	var resp struct {
		Message string `json:"message"`
	}
	if err := s.client.Put(ctx, "/waiter/call", body, &resp); err != nil {
		return "", err
	}
	return resp.Message, nil
}

// RequestBill raises the bill-requested flag on a table and returns the
// server's confirmation message.
func (s *WaiterService) RequestBill(ctx context.Context, tableID int) (string, error) {
	body := map[string]interface{}{"id_mesa": tableID}
	var resp struct {
		Message string `json:"message"`
	}
	if err := s.client.Put(ctx, "/waiter/requestBill", body, &resp); err != nil {
		return "", err
	}
	return resp.Message, nil
}

// AllWaiters returns the staff roster.
func (s *WaiterService) AllWaiters(ctx context.Context) ([]models.Waiter, error) {
	var waiters []models.Waiter
	if err := s.client.Get(ctx, "/waiter", &waiters); err != nil {
		return nil, err
	}
	return waiters, nil
}

// CreateWaiter adds a waiter to the roster.
func (s *WaiterService) CreateWaiter(ctx context.Context, name string) error {
	body := map[string]interface{}{"nombre": name}
	return s.client.Post(ctx, "/waiter/create", body, nil)
}

// SetActive marks a waiter as on or off shift.
func (s *WaiterService) SetActive(ctx context.Context, waiterID int, active bool) error {
	body := map[string]interface{}{"id": waiterID, "activo": active}
	return s.client.Put(ctx, "/waiter/update", body, nil)
}
