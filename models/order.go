package models

// OrderStatus is the lifecycle status of a server-side order.
type OrderStatus string

// Order lifecycle statuses as the remote API spells them.
const (
	StatusIniciado    OrderStatus = "Iniciado"
	StatusActualizado OrderStatus = "Actualizado"
	StatusRecibido    OrderStatus = "Recibido"
	StatusEnProceso   OrderStatus = "En Proceso"
	StatusFinalizado  OrderStatus = "Finalizado"
)

// Active reports whether an order in this status still belongs to the
// table. A table carries at most one non-finished order at a time.
func (s OrderStatus) Active() bool {
	return s != StatusFinalizado && s != ""
}

// OrderType is the numeric order-type code used by the remote API.
type OrderType int

const (
	// OrderTypeDineIn routes the order to a physical table.
	OrderTypeDineIn OrderType = 0
	// OrderTypeDelivery routes the order to the delivery virtual table.
	OrderTypeDelivery OrderType = 1
	// OrderTypeTakeaway routes the order to the takeaway virtual table.
	OrderTypeTakeaway OrderType = 2
)

// Virtual table identifiers for the non-dine-in order types. Delivery and
// takeaway orders flow through the same order API as dine-in, pinned to a
// synthetic table.
const (
	VirtualTableDelivery = 1000
	VirtualTableTakeaway = 2000
)

// ResolveTable returns the table id an order of this type should target.
// Dine-in orders use the caller's real table; the other types map to a
// fixed virtual table.
func (t OrderType) ResolveTable(tableID int) int {
	switch t {
	case OrderTypeDelivery:
		return VirtualTableDelivery
	case OrderTypeTakeaway:
		return VirtualTableTakeaway
	default:
		return tableID
	}
}

// OrderLine represents one product line of a server-side order.
type OrderLine struct {
	IDPedido   int    `json:"id_pedido,omitempty"`
	IDProducto int    `json:"id_producto"`
	Nombre     string `json:"nombre,omitempty"`
	Cantidad   int    `json:"cantidad"`
	Precio     string `json:"precio,omitempty"`
	Nota       string `json:"nota,omitempty"`
	Nuevo      bool   `json:"nuevo"`
}

// Order represents a server-side order: a set of product lines tied to a
// table (or virtual table) with a lifecycle status. The server owns this
// record; the kiosk only reads and mutates it through the API.
type Order struct {
	ID        int         `json:"id"`
	IDMesa    int         `json:"id_mesa"`
	IDCliente string      `json:"id_cliente"`
	Tipo      OrderType   `json:"tipo_pedido"`
	Estado    OrderStatus `json:"estado"`
	Lineas    []OrderLine `json:"lineas"`
}

// LineFor returns the order line matching a product id, or nil when the
// product does not appear in the order yet.
func (o *Order) LineFor(productID int) *OrderLine {
	for i := range o.Lineas {
		if o.Lineas[i].IDProducto == productID {
			return &o.Lineas[i]
		}
	}
	return nil
}
