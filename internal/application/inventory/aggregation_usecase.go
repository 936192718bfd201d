package inventory

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/jhoicas/acopio-api/internal/application/dto"
	"github.com/jhoicas/acopio-api/internal/domain"
	"github.com/jhoicas/acopio-api/internal/domain/entity"
	"github.com/jhoicas/acopio-api/internal/domain/inventory"
	"github.com/jhoicas/acopio-api/internal/domain/repository"
	"github.com/jhoicas/acopio-api/pkg/logger"
)

// AggregationUseCase carga snapshots del proveedor y los pasa por el motor de agregación.
type AggregationUseCase struct {
	snapshots repository.SnapshotRepository
	centers   repository.CenterRepository
	engine    *inventory.Engine
	exporter  RollupExporter
	recorder  Recorder
	log       *logger.Logger
}

// NewAggregationUseCase construye el caso de uso. centers, exporter y recorder pueden ser nil.
func NewAggregationUseCase(
	snapshots repository.SnapshotRepository,
	centers repository.CenterRepository,
	engine *inventory.Engine,
	exporter RollupExporter,
	recorder Recorder,
	log *logger.Logger,
) *AggregationUseCase {
	if recorder == nil {
		recorder = nopRecorder{}
	}
	if log == nil {
		log = logger.Nop()
	}
	return &AggregationUseCase{
		snapshots: snapshots,
		centers:   centers,
		engine:    engine,
		exporter:  exporter,
		recorder:  recorder,
		log:       log.Component("aggregation_usecase"),
	}
}

// Aggregate agrupa el inventario de la empresa según req.GroupBy aplicando los filtros de igualdad.
// From/To (inclusivos) acotan los snapshots que se leen; si solo viene Date se lee ese día.
func (uc *AggregationUseCase) Aggregate(ctx context.Context, companyID string, req dto.AggregateRequest) (*dto.AggregationResponse, error) {
	groupBy, err := inventory.ParseGroupBy(splitList(req.GroupBy))
	if err != nil {
		return nil, err
	}
	criteria, err := criteriaFrom(req)
	if err != nil {
		return nil, err
	}
	q, err := queryFrom(companyID, req, criteria)
	if err != nil {
		return nil, err
	}

	snaps, err := uc.snapshots.List(ctx, q)
	if err != nil {
		return nil, err
	}
	start := time.Now()
	buckets, err := uc.engine.Aggregate(snaps, groupBy, criteria)
	if err != nil {
		return nil, err
	}
	elapsed := time.Since(start)
	uc.recorder.ObserveAggregation("aggregate", len(buckets), elapsed)
	uc.log.Debug().
		Str("company_id", companyID).
		Str("group_by", groupBy.String()).
		Int("snapshots", len(snaps)).
		Int("buckets", len(buckets)).
		Dur("elapsed", elapsed).
		Msg("agregación")

	centers := uc.engine.BucketCenterIDs(buckets)
	withBreakdown := len(centers) > 1
	out := &dto.AggregationResponse{
		GroupBy:       groupByNames(groupBy),
		TotalQuantity: inventory.SumTotals(buckets),
		Centers:       centers,
		Buckets:       make([]dto.BucketDTO, 0, len(buckets)),
	}
	for _, b := range buckets {
		out.Buckets = append(out.Buckets, toBucketDTO(b, withBreakdown))
	}
	return out, nil
}

// Rollup tabla consolidada por (cultivo, calidad) de una fecha con una columna por centro.
func (uc *AggregationUseCase) Rollup(ctx context.Context, companyID, dateStr string) (*dto.RollupResponse, error) {
	date, err := entity.ParseDate("date", dateStr)
	if err != nil {
		return nil, err
	}
	snaps, err := uc.snapshots.List(ctx, repository.SnapshotQuery{CompanyID: companyID, From: &date, To: &date})
	if err != nil {
		return nil, err
	}
	start := time.Now()
	buckets, err := uc.engine.RollupByCropGrade(snaps)
	if err != nil {
		return nil, err
	}
	uc.recorder.ObserveAggregation("rollup", len(buckets), time.Since(start))

	names, err := uc.centerNames(ctx, companyID)
	if err != nil {
		return nil, err
	}
	out := &dto.RollupResponse{
		Date:          entity.DateKey(date),
		Centers:       []dto.CenterColumnDTO{},
		Rows:          make([]dto.BucketDTO, 0, len(buckets)),
		TotalQuantity: inventory.SumTotals(buckets),
	}
	for _, id := range uc.engine.CenterIDs(snaps) {
		name := names[id]
		if name == "" {
			name = id
		}
		out.Centers = append(out.Centers, dto.CenterColumnDTO{ID: id, Name: name})
	}
	for _, b := range buckets {
		out.Rows = append(out.Rows, toBucketDTO(b, true))
	}
	return out, nil
}

// ExportRollup devuelve el consolidado de la fecha como planilla .xlsx.
func (uc *AggregationUseCase) ExportRollup(ctx context.Context, companyID, dateStr string) ([]byte, error) {
	if uc.exporter == nil {
		return nil, errors.New("exportador de planillas no configurado")
	}
	rollup, err := uc.Rollup(ctx, companyID, dateStr)
	if err != nil {
		return nil, err
	}
	return uc.exporter.RollupXLSX(rollup)
}

func (uc *AggregationUseCase) centerNames(ctx context.Context, companyID string) (map[string]string, error) {
	names := map[string]string{}
	if uc.centers == nil {
		return names, nil
	}
	list, err := uc.centers.ListByCompany(ctx, companyID)
	if err != nil {
		return nil, err
	}
	for _, c := range list {
		names[c.ID] = c.Name
	}
	return names, nil
}

func criteriaFrom(req dto.AggregateRequest) (inventory.FilterCriteria, error) {
	c := inventory.FilterCriteria{
		CenterID: strings.TrimSpace(req.CenterID),
		CropName: strings.TrimSpace(req.CropName),
	}
	if req.Date != "" {
		d, err := entity.ParseDate("date", req.Date)
		if err != nil {
			return c, err
		}
		c.Date = &d
	}
	if req.QualityGrade != "" {
		g, err := entity.ParseQualityGrade(req.QualityGrade)
		if err != nil {
			return c, err
		}
		c.QualityGrade = g
	}
	return c, nil
}

func queryFrom(companyID string, req dto.AggregateRequest, c inventory.FilterCriteria) (repository.SnapshotQuery, error) {
	q := repository.SnapshotQuery{CompanyID: companyID, CenterID: c.CenterID}
	if req.From != "" {
		from, err := entity.ParseDate("from", req.From)
		if err != nil {
			return q, err
		}
		q.From = &from
	}
	if req.To != "" {
		to, err := entity.ParseDate("to", req.To)
		if err != nil {
			return q, err
		}
		q.To = &to
	}
	if q.From != nil && q.To != nil && q.From.After(*q.To) {
		return q, domain.NewValidationError("from", "posterior a to")
	}
	if c.Date != nil && q.From == nil && q.To == nil {
		q.From, q.To = c.Date, c.Date
	}
	return q, nil
}

func splitList(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return strings.Split(s, ",")
}

func groupByNames(g inventory.GroupBy) []string {
	dims := g.Dimensions()
	out := make([]string, 0, len(dims))
	for _, d := range dims {
		out = append(out, d.String())
	}
	return out
}
