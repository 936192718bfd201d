package http

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/acopio-api/internal/application/dto"
	appsettlement "github.com/jhoicas/acopio-api/internal/application/settlement"
	"github.com/jhoicas/acopio-api/internal/domain"
)

// SettlementHandler liquidaciones diarias (protegido).
type SettlementHandler struct {
	uc *appsettlement.SettlementUseCase
}

// NewSettlementHandler construye el handler.
func NewSettlementHandler(uc *appsettlement.SettlementUseCase) *SettlementHandler {
	return &SettlementHandler{uc: uc}
}

// Reconcile godoc
// @Summary      Conciliar totales sin persistir
// @Tags         settlements
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ReconcileRequest  true  "Totales del día"
// @Success      200   {object}  dto.DailySettlementResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/settlements/reconcile [post]
func (h *SettlementHandler) Reconcile(c *fiber.Ctx) error {
	var in dto.ReconcileRequest
	if ok, err := parseBody(c, &in); !ok {
		return err
	}
	out, err := h.uc.Reconcile(c.UserContext(), GetCompanyID(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Compute godoc
// @Summary      Calcular (o recalcular) la liquidación de un día
// @Tags         settlements
// @Security     Bearer
// @Produce      json
// @Param        date       path   string  true   "YYYY-MM-DD"
// @Param        center_id  query  string  false  "Centro (vacío = consolidado)"
// @Success      200  {object}  dto.DailySettlementResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/settlements/{date}/compute [post]
func (h *SettlementHandler) Compute(c *fiber.Ctx) error {
	centerID := c.Query("center_id")
	if !canWriteCenter(c, centerID) {
		return writeError(c, fmt.Errorf("%w: el operador solo liquida su centro", domain.ErrForbidden))
	}
	out, err := h.uc.Compute(c.UserContext(), GetCompanyID(c), c.Params("date"), centerID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Get godoc
// @Summary      Obtener la liquidación guardada de un día
// @Tags         settlements
// @Security     Bearer
// @Produce      json
// @Param        date       path   string  true   "YYYY-MM-DD"
// @Param        center_id  query  string  false  "Centro (vacío = consolidado)"
// @Success      200  {object}  dto.DailySettlementResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/settlements/{date} [get]
func (h *SettlementHandler) Get(c *fiber.Ctx) error {
	out, err := h.uc.Get(c.UserContext(), GetCompanyID(c), c.Params("date"), c.Query("center_id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// List godoc
// @Summary      Listar liquidaciones de un rango
// @Tags         settlements
// @Security     Bearer
// @Produce      json
// @Param        from       query  string  true   "YYYY-MM-DD"
// @Param        to         query  string  true   "YYYY-MM-DD"
// @Param        center_id  query  string  false  "Centro"
// @Success      200  {object}  dto.SettlementListResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/settlements [get]
func (h *SettlementHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.ListRange(c.UserContext(), GetCompanyID(c), c.Query("from"), c.Query("to"), c.Query("center_id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// PDF godoc
// @Summary      Reporte PDF de la liquidación
// @Tags         settlements
// @Security     Bearer
// @Produce      application/pdf
// @Param        date       path   string  true   "YYYY-MM-DD"
// @Param        center_id  query  string  false  "Centro"
// @Success      200  {file}  binary
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/settlements/{date}/pdf [get]
func (h *SettlementHandler) PDF(c *fiber.Ctx) error {
	date := c.Params("date")
	b, err := h.uc.PDF(c.UserContext(), GetCompanyID(c), date, c.Query("center_id"))
	if err != nil {
		return writeError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `inline; filename="liquidacion-`+date+`.pdf"`)
	return c.Send(b)
}
