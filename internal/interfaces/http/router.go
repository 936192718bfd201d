package http

import (
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"

	appinv "github.com/jhoicas/acopio-api/internal/application/inventory"
	appsettlement "github.com/jhoicas/acopio-api/internal/application/settlement"
	"github.com/jhoicas/acopio-api/pkg/jwt"
	"github.com/jhoicas/acopio-api/pkg/logger"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	SnapshotUC    *appinv.SnapshotUseCase
	AggregationUC *appinv.AggregationUseCase
	SettlementUC  *appsettlement.SettlementUseCase
	JWTSecret     string
	ServiceName   string
	Metrics       http.Handler // nil = sin /metrics
	Log           *logger.Logger
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	if deps.Log != nil {
		app.Use(RequestLogger(deps.Log))
	}

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": deps.ServiceName})
	})
	if deps.Metrics != nil {
		app.Get("/metrics", adaptor.HTTPHandler(deps.Metrics))
	}

	api := app.Group("/api")

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))
	anyRole := RequireRole(jwt.RoleAdmin, jwt.RoleOperador, jwt.RoleAuditor)
	writers := RequireRole(jwt.RoleAdmin, jwt.RoleOperador)
	adminOnly := RequireRole(jwt.RoleAdmin)

	// Inventario
	inv := protected.Group("/inventory")
	invHandler := NewInventoryHandler(deps.SnapshotUC, deps.AggregationUC)
	inv.Post("/snapshots", writers, invHandler.Ingest)
	inv.Get("/snapshots/:id", anyRole, invHandler.GetSnapshot)
	inv.Patch("/snapshots/:id/items/:itemId", writers, invHandler.CorrectItem)
	inv.Delete("/snapshots/:id", adminOnly, invHandler.DeleteSnapshot)
	inv.Get("/aggregate", anyRole, invHandler.Aggregate)
	inv.Get("/rollup.xlsx", anyRole, invHandler.RollupXLSX)
	inv.Get("/rollup", anyRole, invHandler.Rollup)

	// Liquidaciones
	st := protected.Group("/settlements")
	stHandler := NewSettlementHandler(deps.SettlementUC)
	st.Post("/reconcile", anyRole, stHandler.Reconcile)
	st.Get("/", anyRole, stHandler.List)
	st.Post("/:date/compute", writers, stHandler.Compute)
	st.Get("/:date/pdf", anyRole, stHandler.PDF)
	st.Get("/:date", anyRole, stHandler.Get)
}

// RequestLogger registra método, ruta, status y duración de cada petición.
func RequestLogger(log *logger.Logger) fiber.Handler {
	l := log.Component("http")
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()
		status := c.Response().StatusCode()
		ev := l.Debug()
		if status >= fiber.StatusInternalServerError {
			ev = l.Error()
		}
		ev.Str("method", c.Method()).
			Str("path", c.Path()).
			Int("status", status).
			Dur("elapsed", time.Since(start)).
			Str("company_id", GetCompanyID(c)).
			Err(err).
			Msg("request")
		return err
	}
}
