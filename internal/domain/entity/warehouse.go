package entity

// Warehouse almacén físico de la farmacia (referencia de solo lectura).
type Warehouse struct {
	ID          int64
	Designation string
}

// Supplier proveedor de medicamentos (referencia de solo lectura).
type Supplier struct {
	ID    int64
	Name  string
	NIF   string
	Phone string
}
