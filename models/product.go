package models

import "strconv"

// Product represents a menu product as served by the remote restaurant API.
// Field names follow the wire contract, which is Spanish throughout.
type Product struct {
	ID             int    `json:"id"`
	Nombre         string `json:"nombre"`
	Descripcion    string `json:"descripcion"`
	Precio         string `json:"precio"` // NUMERIC on the server, sent as string
	Stock          bool   `json:"stock"`
	IDCategoria    int    `json:"id_categoria"`
	IDSubcategoria int    `json:"id_subcategoria"`
	Vegetariano    bool   `json:"vegetariano"`
	Vegano         bool   `json:"vegano"`
	SinGluten      bool   `json:"sin_gluten"`
	PlatoDelDia    bool   `json:"plato_del_dia"`
	ImagenURL      string `json:"imagen_url,omitempty"`
}

// PrecioFloat parses the wire price into a float. Returns 0 for an
// unparseable price rather than failing, matching how the menu views
// render missing prices.
func (p Product) PrecioFloat() float64 {
	v, err := strconv.ParseFloat(p.Precio, 64)
	if err != nil {
		return 0
	}
	return v
}

// Category represents a top-level menu category.
type Category struct {
	ID     int    `json:"id"`
	Nombre string `json:"nombre"`
}

// Subcategory represents a menu subcategory within a category.
type Subcategory struct {
	ID          int    `json:"id"`
	Nombre      string `json:"nombre"`
	IDCategoria int    `json:"id_categoria"`
}
