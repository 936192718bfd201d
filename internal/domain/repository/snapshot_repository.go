package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/acopio-api/internal/domain/entity"
)

// SnapshotQuery filtro de lectura para el proveedor de snapshots.
// From/To inclusivos (fechas de calendario); vacíos = sin límite. CenterID vacío = todos los centros.
type SnapshotQuery struct {
	CompanyID string
	From      *time.Time
	To        *time.Time
	CenterID  string
}

// SnapshotRepository define el puerto de persistencia para snapshots de inventario (DIP).
// Los métodos de lectura devuelven copias: el motor de agregación asume entradas inmutables.
type SnapshotRepository interface {
	// Create guarda el snapshot junto con sus líneas.
	Create(ctx context.Context, snapshot *entity.InventorySnapshot) error
	GetByID(ctx context.Context, id string) (*entity.InventorySnapshot, error)
	List(ctx context.Context, q SnapshotQuery) ([]entity.InventorySnapshot, error)
	// UpdateItemQuantity corrige la cantidad de una línea y actualiza updated_at del snapshot.
	UpdateItemQuantity(ctx context.Context, snapshotID, itemID string, qty decimal.Decimal, now time.Time) error
	// Delete borra el snapshot y sus líneas.
	Delete(ctx context.Context, id string) error
}
