package http

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/acopio-api/internal/application/dto"
	appinv "github.com/jhoicas/acopio-api/internal/application/inventory"
	"github.com/jhoicas/acopio-api/internal/domain"
	"github.com/jhoicas/acopio-api/pkg/jwt"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// InventoryHandler snapshots de inventario y vistas agregadas (protegido).
type InventoryHandler struct {
	snapshots   *appinv.SnapshotUseCase
	aggregation *appinv.AggregationUseCase
}

// NewInventoryHandler construye el handler.
func NewInventoryHandler(snapshots *appinv.SnapshotUseCase, aggregation *appinv.AggregationUseCase) *InventoryHandler {
	return &InventoryHandler{snapshots: snapshots, aggregation: aggregation}
}

// Ingest godoc
// @Summary      Registrar snapshot de inventario de un centro
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.IngestSnapshotRequest  true  "Snapshot"
// @Success      201   {object}  dto.SnapshotResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Router       /api/inventory/snapshots [post]
func (h *InventoryHandler) Ingest(c *fiber.Ctx) error {
	var in dto.IngestSnapshotRequest
	if ok, err := parseBody(c, &in); !ok {
		return err
	}
	if !canWriteCenter(c, in.CenterID) {
		return writeError(c, fmt.Errorf("%w: el operador solo registra inventario de su centro", domain.ErrForbidden))
	}
	out, err := h.snapshots.Ingest(c.UserContext(), GetCompanyID(c), GetUserID(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetSnapshot godoc
// @Summary      Obtener snapshot por ID
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del snapshot"
// @Success      200  {object}  dto.SnapshotResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/inventory/snapshots/{id} [get]
func (h *InventoryHandler) GetSnapshot(c *fiber.Ctx) error {
	out, err := h.snapshots.Get(c.UserContext(), GetCompanyID(c), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// CorrectItem godoc
// @Summary      Corregir la cantidad de una línea del snapshot
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id      path  string  true  "ID del snapshot"
// @Param        itemId  path  string  true  "ID de la línea"
// @Param        body    body  dto.CorrectItemRequest  true  "Nueva cantidad"
// @Success      200     {object}  dto.SnapshotResponse
// @Failure      400     {object}  dto.ErrorResponse
// @Failure      404     {object}  dto.ErrorResponse
// @Router       /api/inventory/snapshots/{id}/items/{itemId} [patch]
func (h *InventoryHandler) CorrectItem(c *fiber.Ctx) error {
	var in dto.CorrectItemRequest
	if ok, err := parseBody(c, &in); !ok {
		return err
	}
	companyID, id := GetCompanyID(c), c.Params("id")
	if GetRole(c) == jwt.RoleOperador {
		snap, err := h.snapshots.Get(c.UserContext(), companyID, id)
		if err != nil {
			return writeError(c, err)
		}
		if !canWriteCenter(c, snap.CenterID) {
			return writeError(c, fmt.Errorf("%w: el operador solo corrige inventario de su centro", domain.ErrForbidden))
		}
	}
	out, err := h.snapshots.CorrectItem(c.UserContext(), companyID, id, c.Params("itemId"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// DeleteSnapshot godoc
// @Summary      Eliminar snapshot
// @Tags         inventory
// @Security     Bearer
// @Param        id   path  string  true  "ID del snapshot"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/inventory/snapshots/{id} [delete]
func (h *InventoryHandler) DeleteSnapshot(c *fiber.Ctx) error {
	if err := h.snapshots.Delete(c.UserContext(), GetCompanyID(c), c.Params("id")); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Aggregate godoc
// @Summary      Agregar inventario por dimensiones
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        group_by       query  string  false  "crop_name,quality_grade,center_id,date"
// @Param        date           query  string  false  "YYYY-MM-DD"
// @Param        center_id      query  string  false  "Centro"
// @Param        crop_name      query  string  false  "Cultivo"
// @Param        quality_grade  query  string  false  "Calidad"
// @Param        from           query  string  false  "Desde (YYYY-MM-DD)"
// @Param        to             query  string  false  "Hasta (YYYY-MM-DD)"
// @Success      200  {object}  dto.AggregationResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/inventory/aggregate [get]
func (h *InventoryHandler) Aggregate(c *fiber.Ctx) error {
	var in dto.AggregateRequest
	if err := c.QueryParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "parámetros inválidos"})
	}
	if err := getValidator().Struct(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: validationMessage(err)})
	}
	out, err := h.aggregation.Aggregate(c.UserContext(), GetCompanyID(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Rollup godoc
// @Summary      Consolidado de todos los centros para una fecha
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        date  query  string  true  "YYYY-MM-DD"
// @Success      200   {object}  dto.RollupResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/inventory/rollup [get]
func (h *InventoryHandler) Rollup(c *fiber.Ctx) error {
	out, err := h.aggregation.Rollup(c.UserContext(), GetCompanyID(c), c.Query("date"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// RollupXLSX godoc
// @Summary      Consolidado en Excel
// @Tags         inventory
// @Security     Bearer
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param        date  query  string  true  "YYYY-MM-DD"
// @Success      200   {file}  binary
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/inventory/rollup.xlsx [get]
func (h *InventoryHandler) RollupXLSX(c *fiber.Ctx) error {
	date := c.Query("date")
	b, err := h.aggregation.ExportRollup(c.UserContext(), GetCompanyID(c), date)
	if err != nil {
		return writeError(c, err)
	}
	c.Set(fiber.HeaderContentType, xlsxContentType)
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="consolidado-`+date+`.xlsx"`)
	return c.Send(b)
}
