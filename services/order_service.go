package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/terraza-app/terraza-kiosk/models"
)

// AddLineRequest is the wire body for adding a product line to an order.
type AddLineRequest struct {
	OrderID    int    `json:"orderId"`
	IDProducto int    `json:"id_producto"`
	Cantidad   int    `json:"cantidad"`
	Precio     string `json:"precio,omitempty"`
	Nota       string `json:"nota,omitempty"`
	Nuevo      bool   `json:"nuevo"`
}

// OrderServiceInterface defines the operations on server-side orders.
type OrderServiceInterface interface {
	// OrderByTable returns the table's active order, or nil when the
	// server reports the table as not occupied.
	OrderByTable(ctx context.Context, tableID int) (*models.Order, error)
	CreateOrder(ctx context.Context, clientID string, tableID int, orderType models.OrderType) (int, error)
	AddProduct(ctx context.Context, line AddLineRequest) error
	UpdateStatus(ctx context.Context, orderID int, status models.OrderStatus) error
	AllOrders(ctx context.Context) ([]models.Order, error)
}

// OrderService implements OrderServiceInterface against the remote API.
type OrderService struct {
	client APIClientInterface
}

var orderServiceInstance OrderServiceInterface

// InitOrderService initializes the order service
func InitOrderService(client APIClientInterface) OrderServiceInterface {
	orderServiceInstance = &OrderService{client: client}
	return orderServiceInstance
}

// GetOrderService returns the initialized order service instance
func GetOrderService() OrderServiceInterface {
	return orderServiceInstance
}

// SetOrderService sets the order service instance (primarily for testing)
func SetOrderService(service OrderServiceInterface) {
	orderServiceInstance = service
}

// orderRow is one row of the flattened order view the remote API returns
// for GET /cart/table/{id}: order fields repeated on every line.
type orderRow struct {
	IDPedido   int                `json:"id_pedido"`
	IDMesa     int                `json:"id_mesa"`
	IDCliente  string             `json:"id_cliente"`
	TipoPedido models.OrderType   `json:"tipo_pedido"`
	Estado     models.OrderStatus `json:"estado"`
	IDProducto int                `json:"id_producto"`
	Nombre     string             `json:"nombre"`
	Cantidad   int                `json:"cantidad"`
	Precio     string             `json:"precio"`
	Nota       string             `json:"nota"`
	Nuevo      bool               `json:"nuevo"`
}

// sentinelMessage is the response shape the remote API uses instead of an
// error when a table has no active order.
type sentinelMessage struct {
	Message string `json:"message"`
}

// OrderByTable fetches the active order for a table. The remote API does
// not 404 an empty table; it answers with a "table not occupied" message,
// which this method maps to (nil, nil).
func (s *OrderService) OrderByTable(ctx context.Context, tableID int) (*models.Order, error) {
	var raw json.RawMessage
	if err := s.client.Get(ctx, fmt.Sprintf("/cart/table/%d", tableID), &raw); err != nil {
		return nil, err
	}

	trimmed := strings.TrimSpace(string(raw))
	if strings.HasPrefix(trimmed, "{") {
		var sentinel sentinelMessage
		if err := json.Unmarshal(raw, &sentinel); err == nil && isNotOccupiedMessage(sentinel.Message) {
			return nil, nil
		}
		return nil, &models.APIError{
			Code:    models.ErrUnknown,
			Message: fmt.Sprintf("unexpected response for table %d: %s", tableID, trimmed),
		}
	}

	var rows []orderRow
	if err := json.Unmarshal(raw, &rows); err != nil {
		return nil, &models.APIError{
			Code:    models.ErrUnknown,
			Message: fmt.Sprintf("failed to decode order rows for table %d: %v", tableID, err),
		}
	}
	if len(rows) == 0 {
		return nil, nil
	}

	order := &models.Order{
		ID:        rows[0].IDPedido,
		IDMesa:    rows[0].IDMesa,
		IDCliente: rows[0].IDCliente,
		Tipo:      rows[0].TipoPedido,
		Estado:    rows[0].Estado,
	}
	for _, row := range rows {
		order.Lineas = append(order.Lineas, models.OrderLine{
			IDPedido:   row.IDPedido,
			IDProducto: row.IDProducto,
			Nombre:     row.Nombre,
			Cantidad:   row.Cantidad,
			Precio:     row.Precio,
			Nota:       row.Nota,
			Nuevo:      row.Nuevo,
		})
	}
	return order, nil
}

// isNotOccupiedMessage recognizes the sentinel in either language the
// backend has shipped with.
func isNotOccupiedMessage(message string) bool {
	lower := strings.ToLower(message)
	return strings.Contains(lower, "no ocupada") || strings.Contains(lower, "not occupied")
}

// CreateOrder opens a new order for a table and returns its id.
func (s *OrderService) CreateOrder(ctx context.Context, clientID string, tableID int, orderType models.OrderType) (int, error) {
	body := map[string]interface{}{
		"id_cliente":  clientID,
		"id_mesa":     tableID,
		"tipo_pedido": int(orderType),
	}
	var resp struct {
		OrderID int `json:"orderId"`
	}
	if err := s.client.Post(ctx, "/cart/create", body, &resp); err != nil {
		return 0, err
	}
	return resp.OrderID, nil
}

// AddProduct appends a product line to an existing order.
func (s *OrderService) AddProduct(ctx context.Context, line AddLineRequest) error {
	return s.client.Post(ctx, "/cart/add", line, nil)
}

// UpdateStatus moves an order to a new lifecycle status.
func (s *OrderService) UpdateStatus(ctx context.Context, orderID int, status models.OrderStatus) error {
	body := map[string]interface{}{
		"id_pedido": orderID,
		"estado":    string(status),
	}
	return s.client.Put(ctx, "/cart/update/order", body, nil)
}

// AllOrders returns every order the server currently tracks. Staff views
// poll this.
func (s *OrderService) AllOrders(ctx context.Context) ([]models.Order, error) {
	var orders []models.Order
	if err := s.client.Get(ctx, "/cart/orders", &orders); err != nil {
		return nil, err
	}
	return orders, nil
}
