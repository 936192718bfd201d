package entity

import "time"

// Center representa un centro de acopio de la empresa (multi-centro).
// El motor solo usa el ID; el nombre es para presentación (reportes, columnas de tablas).
type Center struct {
	ID        string
	CompanyID string
	Name      string
	Address   string
	CreatedAt time.Time
	UpdatedAt time.Time
}
