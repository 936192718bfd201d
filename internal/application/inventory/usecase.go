package inventory

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/acopio-api/internal/application/dto"
	"github.com/jhoicas/acopio-api/internal/domain"
	"github.com/jhoicas/acopio-api/internal/domain/entity"
	"github.com/jhoicas/acopio-api/internal/domain/repository"
	"github.com/jhoicas/acopio-api/pkg/logger"
)

// SnapshotUseCase registra, corrige y borra snapshots de inventario. Cada cambio invalida las
// liquidaciones que dependen del snapshot: la del mismo día (ingresos/salidas del día) y la del
// día anterior (su variación de inventario se mide contra este snapshot), tanto del centro como
// del consolidado.
type SnapshotUseCase struct {
	txRunner    TxRunner
	snapshots   repository.SnapshotRepository
	centers     repository.CenterRepository
	invalidator SettlementInvalidator
	log         *logger.Logger
	now         func() time.Time
}

// NewSnapshotUseCase construye el caso de uso. invalidator puede ser nil.
func NewSnapshotUseCase(
	txRunner TxRunner,
	snapshots repository.SnapshotRepository,
	centers repository.CenterRepository,
	invalidator SettlementInvalidator,
	log *logger.Logger,
) *SnapshotUseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &SnapshotUseCase{
		txRunner:    txRunner,
		snapshots:   snapshots,
		centers:     centers,
		invalidator: invalidator,
		log:         log.Component("snapshot_usecase"),
		now:         time.Now,
	}
}

// Ingest valida y guarda un snapshot con sus líneas en una sola transacción.
// El centro debe pertenecer a la empresa.
func (uc *SnapshotUseCase) Ingest(ctx context.Context, companyID, userID string, in dto.IngestSnapshotRequest) (*dto.SnapshotResponse, error) {
	date, err := entity.ParseDate("date", in.Date)
	if err != nil {
		return nil, err
	}
	centerID := strings.TrimSpace(in.CenterID)
	if err := uc.checkCenter(ctx, companyID, centerID); err != nil {
		return nil, err
	}

	now := uc.now().UTC()
	snap := &entity.InventorySnapshot{
		ID:        uuid.New().String(),
		Date:      entity.NormalizeDate(date),
		CenterID:  centerID,
		CompanyID: companyID,
		Items:     make([]entity.InventoryItem, 0, len(in.Items)),
		CreatedAt: now,
		UpdatedAt: now,
	}
	for i, it := range in.Items {
		grade, err := entity.ParseQualityGrade(it.QualityGrade)
		if err != nil {
			return nil, domain.NewValidationError(fmt.Sprintf("items[%d].quality_grade", i), "calidad desconocida %q", it.QualityGrade)
		}
		snap.Items = append(snap.Items, entity.InventoryItem{
			ID:           uuid.New().String(),
			SnapshotID:   snap.ID,
			CropName:     strings.TrimSpace(it.CropName),
			QualityGrade: grade,
			Quantity:     it.Quantity,
			CreatedAt:    now,
		})
	}
	if err := snap.Validate(); err != nil {
		return nil, err
	}

	if err := uc.txRunner.Run(ctx, func(snapshots repository.SnapshotRepository) error {
		return snapshots.Create(ctx, snap)
	}); err != nil {
		return nil, err
	}

	uc.log.Info().
		Str("company_id", companyID).
		Str("user_id", userID).
		Str("snapshot_id", snap.ID).
		Str("center_id", centerID).
		Str("date", entity.DateKey(snap.Date)).
		Int("items", len(snap.Items)).
		Msg("snapshot registrado")
	uc.invalidate(ctx, companyID, snap.Date, centerID)
	return toSnapshotResponse(snap), nil
}

// Get devuelve un snapshot de la empresa. Un snapshot de otra empresa se reporta como no encontrado.
func (uc *SnapshotUseCase) Get(ctx context.Context, companyID, id string) (*dto.SnapshotResponse, error) {
	snap, err := uc.load(ctx, companyID, id)
	if err != nil {
		return nil, err
	}
	return toSnapshotResponse(snap), nil
}

// CorrectItem reemplaza la cantidad de una línea (corrección explícita) y actualiza updated_at.
func (uc *SnapshotUseCase) CorrectItem(ctx context.Context, companyID, snapshotID, itemID string, in dto.CorrectItemRequest) (*dto.SnapshotResponse, error) {
	snap, err := uc.load(ctx, companyID, snapshotID)
	if err != nil {
		return nil, err
	}
	now := uc.now().UTC()
	if err := snap.Correct(itemID, in.Quantity, now); err != nil {
		return nil, err
	}
	err = uc.txRunner.Run(ctx, func(snapshots repository.SnapshotRepository) error {
		return snapshots.UpdateItemQuantity(ctx, snapshotID, itemID, in.Quantity, now)
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().
		Str("company_id", companyID).
		Str("snapshot_id", snapshotID).
		Str("item_id", itemID).
		Str("quantity", in.Quantity.String()).
		Msg("línea de snapshot corregida")
	uc.invalidate(ctx, companyID, snap.Date, snap.CenterID)
	return toSnapshotResponse(snap), nil
}

// Delete borra un snapshot y sus líneas.
func (uc *SnapshotUseCase) Delete(ctx context.Context, companyID, id string) error {
	snap, err := uc.load(ctx, companyID, id)
	if err != nil {
		return err
	}
	if err := uc.snapshots.Delete(ctx, id); err != nil {
		return err
	}
	uc.log.Info().Str("company_id", companyID).Str("snapshot_id", id).Msg("snapshot eliminado")
	uc.invalidate(ctx, companyID, snap.Date, snap.CenterID)
	return nil
}

func (uc *SnapshotUseCase) load(ctx context.Context, companyID, id string) (*entity.InventorySnapshot, error) {
	snap, err := uc.snapshots.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if snap == nil || snap.CompanyID != companyID {
		return nil, domain.ErrNotFound
	}
	return snap, nil
}

func (uc *SnapshotUseCase) checkCenter(ctx context.Context, companyID, centerID string) error {
	if centerID == "" {
		return domain.NewValidationError("center_id", "requerido")
	}
	if uc.centers == nil {
		return nil
	}
	c, err := uc.centers.GetByID(ctx, centerID)
	if err != nil {
		return err
	}
	if c == nil || c.CompanyID != companyID {
		return fmt.Errorf("centro %s: %w", centerID, domain.ErrNotFound)
	}
	return nil
}

// invalidate descarta las liquidaciones afectadas. Un fallo no revierte el cambio del snapshot:
// la liquidación guardada conserva su huella y se recalcula en el próximo Compute.
func (uc *SnapshotUseCase) invalidate(ctx context.Context, companyID string, date time.Time, centerID string) {
	if uc.invalidator == nil {
		return
	}
	prev := date.AddDate(0, 0, -1)
	for _, k := range []struct {
		date   time.Time
		center string
	}{
		{date, centerID}, {date, ""}, {prev, centerID}, {prev, ""},
	} {
		if err := uc.invalidator.Invalidate(ctx, companyID, k.date, k.center); err != nil {
			uc.log.Warn().Err(err).
				Str("company_id", companyID).
				Str("date", entity.DateKey(k.date)).
				Str("center_id", k.center).
				Msg("no se pudo invalidar la liquidación")
		}
	}
}
