package settlement

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/acopio-api/internal/application/dto"
	"github.com/jhoicas/acopio-api/internal/domain"
	"github.com/jhoicas/acopio-api/internal/domain/entity"
	"github.com/jhoicas/acopio-api/internal/domain/inventory"
	"github.com/jhoicas/acopio-api/internal/domain/repository"
	"github.com/jhoicas/acopio-api/internal/domain/settlement"
	"github.com/jhoicas/acopio-api/pkg/logger"
)

// maxRangeDays límite del listado por rango.
const maxRangeDays = 366

// Deps dependencias del caso de uso. Centers, Locker, PDF y Recorder son opcionales.
type Deps struct {
	Snapshots    repository.SnapshotRepository
	Transactions repository.TransactionRepository
	Store        repository.SettlementRepository
	Centers      repository.CenterRepository
	Engine       *inventory.Engine
	Locker       Locker
	PDF          PDFGenerator
	Recorder     Recorder
	Log          *logger.Logger
}

// SettlementUseCase calcula, guarda y consulta liquidaciones diarias. El almacén se trata como
// caché de una función pura: un registro guardado cuya huella coincide con las entradas actuales
// se devuelve tal cual.
type SettlementUseCase struct {
	snapshots    repository.SnapshotRepository
	transactions repository.TransactionRepository
	store        repository.SettlementRepository
	centers      repository.CenterRepository
	engine       *inventory.Engine
	locker       Locker
	pdf          PDFGenerator
	recorder     Recorder
	log          *logger.Logger
	now          func() time.Time
}

// NewSettlementUseCase construye el caso de uso.
func NewSettlementUseCase(d Deps) *SettlementUseCase {
	if d.Recorder == nil {
		d.Recorder = nopRecorder{}
	}
	if d.Log == nil {
		d.Log = logger.Nop()
	}
	return &SettlementUseCase{
		snapshots:    d.Snapshots,
		transactions: d.Transactions,
		store:        d.Store,
		centers:      d.Centers,
		engine:       d.Engine,
		locker:       d.Locker,
		pdf:          d.PDF,
		recorder:     d.Recorder,
		log:          d.Log.Component("settlement_usecase"),
		now:          time.Now,
	}
}

// Compute calcula la liquidación de (fecha, centro) a partir de los snapshots de la fecha y del
// día siguiente y de los movimientos valorizados de la fecha. centerID vacío = consolidado.
// Si la liquidación guardada tiene la misma huella se devuelve sin reescribirla; si no, se
// reemplaza conservando ID y created_at.
func (uc *SettlementUseCase) Compute(ctx context.Context, companyID, dateStr, centerID string) (*dto.DailySettlementResponse, error) {
	s, err := uc.compute(ctx, companyID, dateStr, strings.TrimSpace(centerID))
	if err != nil {
		return nil, err
	}
	return toSettlementResponse(s), nil
}

func (uc *SettlementUseCase) compute(ctx context.Context, companyID, dateStr, centerID string) (*entity.DailySettlement, error) {
	s, err := uc.doCompute(ctx, companyID, dateStr, centerID)
	if err != nil {
		if _, ok := domain.IsValidation(err); !ok {
			uc.recorder.ObserveSettlementError()
			uc.log.Error().Err(err).
				Str("company_id", companyID).
				Str("date", dateStr).
				Str("center_id", centerID).
				Msg("error calculando liquidación")
		}
		return nil, err
	}
	return s, nil
}

func (uc *SettlementUseCase) doCompute(ctx context.Context, companyID, dateStr, centerID string) (*entity.DailySettlement, error) {
	date, err := entity.ParseDate("date", dateStr)
	if err != nil {
		return nil, err
	}
	if err := uc.checkCenter(ctx, companyID, centerID); err != nil {
		return nil, err
	}

	if uc.locker != nil {
		release, err := uc.locker.Acquire(ctx, "settlement:"+entity.SettlementKey(companyID, date, centerID))
		if err != nil {
			return nil, fmt.Errorf("candado de liquidación: %w", err)
		}
		defer release()
	}

	in, err := uc.buildInput(ctx, companyID, date, centerID)
	if err != nil {
		return nil, err
	}
	digest := settlement.Digest(in)

	stored, err := uc.store.Get(ctx, companyID, date, centerID)
	if err != nil {
		return nil, err
	}
	if stored != nil && stored.InputsDigest == digest {
		uc.recorder.ObserveSettlement(stored, true)
		return stored, nil
	}

	s, err := settlement.Reconcile(in)
	if err != nil {
		return nil, err
	}
	now := uc.now().UTC()
	if stored != nil {
		s.ID = stored.ID
		s.CreatedAt = stored.CreatedAt
	} else {
		s.ID = uuid.New().String()
		s.CreatedAt = now
	}
	s.UpdatedAt = now
	if err := uc.store.Upsert(ctx, s); err != nil {
		return nil, err
	}

	uc.recorder.ObserveSettlement(s, false)
	uc.log.Info().
		Str("company_id", companyID).
		Str("date", entity.DateKey(date)).
		Str("center_id", centerID).
		Str("discrepancy_in_kg", s.DiscrepancyInKg.String()).
		Str("discrepancy_out_kg", s.DiscrepancyOutKg.String()).
		Bool("replaced", stored != nil).
		Msg("liquidación calculada")
	return s, nil
}

// buildInput arma la entrada del motor: flujos valorizados del día y variación de inventario
// entre el snapshot del día y el del día siguiente. Sin snapshot del día siguiente la variación
// no se puede medir y el cálculo se rechaza con ErrConflict.
func (uc *SettlementUseCase) buildInput(ctx context.Context, companyID string, date time.Time, centerID string) (settlement.Input, error) {
	in := settlement.Input{Date: date, CompanyID: companyID, CenterID: centerID}

	next := date.AddDate(0, 0, 1)
	snaps, err := uc.snapshots.List(ctx, repository.SnapshotQuery{CompanyID: companyID, From: &date, To: &next, CenterID: centerID})
	if err != nil {
		return in, err
	}
	after := inventory.Filter(snaps, inventory.FilterCriteria{Date: &next})
	if len(after) == 0 {
		return in, fmt.Errorf("sin snapshot del %s para medir la variación: %w", entity.DateKey(next), domain.ErrConflict)
	}
	beforeRollup, err := uc.engine.RollupByCropGrade(inventory.Filter(snaps, inventory.FilterCriteria{Date: &date}))
	if err != nil {
		return in, err
	}
	afterRollup, err := uc.engine.RollupByCropGrade(after)
	if err != nil {
		return in, err
	}
	in.InventoryIncreaseKg, in.InventoryDecreaseKg = settlement.InventoryDelta(beforeRollup, afterRollup)

	lines, err := uc.transactions.ListByDay(ctx, companyID, centerID, date)
	if err != nil {
		return in, err
	}
	flows, err := settlement.SumTransactions(lines)
	if err != nil {
		return in, err
	}
	flows.Apply(&in)
	return in, nil
}

// Get devuelve la liquidación guardada. ErrNotFound significa "aún no calculada".
func (uc *SettlementUseCase) Get(ctx context.Context, companyID, dateStr, centerID string) (*dto.DailySettlementResponse, error) {
	date, err := entity.ParseDate("date", dateStr)
	if err != nil {
		return nil, err
	}
	s, err := uc.store.Get(ctx, companyID, date, strings.TrimSpace(centerID))
	if err != nil {
		return nil, err
	}
	if s == nil {
		return nil, domain.ErrNotFound
	}
	return toSettlementResponse(s), nil
}

// Reconcile concilia totales entregados por el llamador sin leer ni guardar nada.
func (uc *SettlementUseCase) Reconcile(_ context.Context, companyID string, req dto.ReconcileRequest) (*dto.DailySettlementResponse, error) {
	date, err := entity.ParseDate("date", req.Date)
	if err != nil {
		return nil, err
	}
	in := settlement.Input{
		Date:                date,
		CompanyID:           companyID,
		CenterID:            strings.TrimSpace(req.CenterID),
		WholesaleIn:         settlement.Totals{Quantity: req.WholesaleIn.TotalQuantity, Price: req.WholesaleIn.TotalPrice},
		RetailOut:           settlement.Totals{Quantity: req.RetailOut.TotalQuantity, Price: req.RetailOut.TotalPrice},
		OtherInKg:           req.OtherInKg,
		OtherOutKg:          req.OtherOutKg,
		InventoryIncreaseKg: req.InventoryIncreaseKg,
		InventoryDecreaseKg: req.InventoryDecreaseKg,
	}
	s, err := settlement.Reconcile(in)
	if err != nil {
		return nil, err
	}
	uc.recorder.ObserveSettlement(s, false)
	return toSettlementResponse(s), nil
}

// ListRange liquidaciones guardadas entre from y to (inclusivos). centerID vacío = todas.
func (uc *SettlementUseCase) ListRange(ctx context.Context, companyID, fromStr, toStr, centerID string) (*dto.SettlementListResponse, error) {
	from, err := entity.ParseDate("from", fromStr)
	if err != nil {
		return nil, err
	}
	to, err := entity.ParseDate("to", toStr)
	if err != nil {
		return nil, err
	}
	if from.After(to) {
		return nil, domain.NewValidationError("from", "posterior a to")
	}
	if days := int(to.Sub(from)/(24*time.Hour)) + 1; days > maxRangeDays {
		return nil, domain.NewValidationError("to", "el rango no puede superar %d días", maxRangeDays)
	}
	list, err := uc.store.ListRange(ctx, companyID, from, to, strings.TrimSpace(centerID))
	if err != nil {
		return nil, err
	}
	out := &dto.SettlementListResponse{Items: make([]dto.DailySettlementResponse, 0, len(list)), Total: len(list)}
	for i := range list {
		out.Items = append(out.Items, *toSettlementResponse(&list[i]))
	}
	return out, nil
}

// PDF genera el reporte de la liquidación vigente (la recalcula si las entradas cambiaron).
func (uc *SettlementUseCase) PDF(ctx context.Context, companyID, dateStr, centerID string) ([]byte, error) {
	if uc.pdf == nil {
		return nil, errors.New("generador de PDF no configurado")
	}
	centerID = strings.TrimSpace(centerID)
	s, err := uc.compute(ctx, companyID, dateStr, centerID)
	if err != nil {
		return nil, err
	}
	name := ""
	if centerID != "" {
		name = centerID
		if uc.centers != nil {
			if c, err := uc.centers.GetByID(ctx, centerID); err == nil && c != nil && c.Name != "" {
				name = c.Name
			}
		}
	}
	return uc.pdf.SettlementPDF(s, name)
}

// Invalidate descarta la liquidación guardada de (fecha, centro).
func (uc *SettlementUseCase) Invalidate(ctx context.Context, companyID string, date time.Time, centerID string) error {
	return uc.store.Delete(ctx, companyID, date, centerID)
}

func (uc *SettlementUseCase) checkCenter(ctx context.Context, companyID, centerID string) error {
	if centerID == "" || uc.centers == nil {
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

func toSettlementResponse(s *entity.DailySettlement) *dto.DailySettlementResponse {
	out := &dto.DailySettlementResponse{
		ID:                    s.ID,
		Date:                  entity.DateKey(s.Date),
		CompanyID:             s.CompanyID,
		CenterID:              entity.CenterPtr(s.CenterKey()),
		TotalWholesaleInKg:    s.TotalWholesaleInKg,
		TotalWholesaleInPrice: s.TotalWholesaleInPrice,
		TotalRetailOutKg:      s.TotalRetailOutKg,
		TotalRetailOutPrice:   s.TotalRetailOutPrice,
		DiscrepancyInKg:       s.DiscrepancyInKg,
		DiscrepancyOutKg:      s.DiscrepancyOutKg,
		TotalInKg:             s.TotalInKg,
		TotalOutKg:            s.TotalOutKg,
		InputsDigest:          s.InputsDigest,
	}
	if !s.CreatedAt.IsZero() {
		created, updated := s.CreatedAt, s.UpdatedAt
		out.CreatedAt, out.UpdatedAt = &created, &updated
	}
	return out
}
