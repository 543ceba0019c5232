package models

// TableStatus is the occupancy state of a table.
type TableStatus string

// Table occupancy states as the remote API spells them.
const (
	TableLibre     TableStatus = "libre"
	TableOcupada   TableStatus = "ocupada"
	TableBloqueada TableStatus = "bloqueada"
)

// Table represents a physical or virtual ordering context. The server owns
// this record; the kiosk polls it and mutates it through dedicated calls.
type Table struct {
	ID              int         `json:"id"`
	Capacidad       int         `json:"capacidad"`
	IDCamarero      *int        `json:"id_camarero"`
	Estado          TableStatus `json:"estado"`
	LlamadaCamarero bool        `json:"llamada_camarero"`
	CuentaPedida    bool        `json:"cuenta_pedida"`
	Nota            string      `json:"nota,omitempty"`
}

// Orderable reports whether the table can accept a new order.
func (t Table) Orderable() bool {
	return t.Estado != TableBloqueada
}

// Waiter represents a staff member who can be assigned to tables.
type Waiter struct {
	ID     int    `json:"id"`
	Nombre string `json:"nombre"`
	Activo bool   `json:"activo"`
}
