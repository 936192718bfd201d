package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/text/language"

	appinv "github.com/jhoicas/acopio-api/internal/application/inventory"
	appsettlement "github.com/jhoicas/acopio-api/internal/application/settlement"
	"github.com/jhoicas/acopio-api/internal/domain/entity"
	"github.com/jhoicas/acopio-api/internal/domain/inventory"
	"github.com/jhoicas/acopio-api/internal/domain/repository"
	"github.com/jhoicas/acopio-api/internal/infrastructure/excel"
	"github.com/jhoicas/acopio-api/internal/infrastructure/memory"
	"github.com/jhoicas/acopio-api/internal/infrastructure/metrics"
	infrapdf "github.com/jhoicas/acopio-api/internal/infrastructure/pdf"
	"github.com/jhoicas/acopio-api/internal/infrastructure/postgres"
	"github.com/jhoicas/acopio-api/internal/infrastructure/rediscache"
	httpRouter "github.com/jhoicas/acopio-api/internal/interfaces/http"
	"github.com/jhoicas/acopio-api/pkg/config"
	"github.com/jhoicas/acopio-api/pkg/logger"
)

const swaggerFile = "./docs/swagger.json"

// storage repositorios según el entorno (PostgreSQL o memoria en demo).
type storage struct {
	snapshots    repository.SnapshotRepository
	transactions repository.TransactionRepository
	settlements  repository.SettlementRepository
	centers      repository.CenterRepository
	txRunner     appinv.TxRunner
	close        func()
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("locale", cfg.App.Locale).
		Msg("iniciando aplicación")

	ctx := context.Background()
	st, err := openStorage(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("inicializar almacenamiento")
	}
	defer st.close()

	// Redis: caché de liquidaciones y candado de recálculo entre réplicas.
	var locker appsettlement.Locker = memory.NewLocker()
	settlementStore := st.settlements
	if cfg.Redis.Enabled() {
		rdb, err := rediscache.NewClient(ctx, cfg.Redis)
		if err != nil {
			log.Fatal().Err(err).Str("address", cfg.Redis.Address).Msg("conexión a Redis")
		}
		defer rdb.Close()
		settlementStore = rediscache.NewSettlementCache(st.settlements, rdb, cfg.Redis.CacheTTL, log)
		locker = rediscache.NewLocker(rdb, cfg.Redis.LockTTL, log)
		log.Info().Str("address", cfg.Redis.Address).Msg("caché Redis activa")
	}

	// Métricas Prometheus
	var (
		invRecorder        appinv.Recorder
		settlementRecorder appsettlement.Recorder
		metricsHandler     http.Handler
	)
	if cfg.Metrics.Enabled {
		reg, m := metrics.NewRegistry()
		invRecorder, settlementRecorder = m, m
		metricsHandler = promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
	}

	engine := inventory.NewEngine(language.Make(cfg.App.Locale))

	settlementUC := appsettlement.NewSettlementUseCase(appsettlement.Deps{
		Snapshots:    st.snapshots,
		Transactions: st.transactions,
		Store:        settlementStore,
		Centers:      st.centers,
		Engine:       engine,
		Locker:       locker,
		PDF:          infrapdf.NewMarotoPDFGenerator(),
		Recorder:     settlementRecorder,
		Log:          log,
	})
	snapshotUC := appinv.NewSnapshotUseCase(st.txRunner, st.snapshots, st.centers, settlementUC, log)
	aggregationUC := appinv.NewAggregationUseCase(st.snapshots, st.centers, engine, excel.NewRollupExporter(), invRecorder, log)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 30,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	if _, err := os.Stat(swaggerFile); err == nil {
		app.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: swaggerFile,
			Path:     "docs",
			Title:    "Acopio API",
		}))
	}

	httpRouter.Router(app, httpRouter.RouterDeps{
		SnapshotUC:    snapshotUC,
		AggregationUC: aggregationUC,
		SettlementUC:  settlementUC,
		JWTSecret:     cfg.JWT.Secret,
		ServiceName:   cfg.App.Name,
		Metrics:       metricsHandler,
		Log:           log,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}

// openStorage PostgreSQL (con migraciones goose si DB_MIGRATE) o memoria cuando APP_ENV=demo.
func openStorage(ctx context.Context, cfg *config.Config, log *logger.Logger) (*storage, error) {
	if cfg.App.Env == "demo" {
		snapshots := memory.NewSnapshotRepository()
		log.Warn().Msg("modo demo: repositorios en memoria, los datos se pierden al reiniciar")
		return &storage{
			snapshots:    snapshots,
			transactions: memory.NewTransactionRepository(),
			settlements:  memory.NewSettlementRepository(),
			centers: memory.NewCenterRepository(
				entity.Center{ID: "centro-norte", CompanyID: "demo", Name: "Centro Norte"},
				entity.Center{ID: "centro-sur", CompanyID: "demo", Name: "Centro Sur"},
			),
			txRunner: memory.NewTxRunner(snapshots),
			close:    func() {},
		}, nil
	}

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		return nil, err
	}
	if cfg.DB.Migrate {
		if err := postgres.Migrate(ctx, pool); err != nil {
			pool.Close()
			return nil, err
		}
		log.Info().Msg("migraciones aplicadas")
	}
	return &storage{
		snapshots:    postgres.NewSnapshotRepository(pool),
		transactions: postgres.NewTransactionRepository(pool),
		settlements:  postgres.NewSettlementRepository(pool),
		centers:      postgres.NewCenterRepository(pool),
		txRunner:     postgres.NewTxRunner(pool),
		close:        pool.Close,
	}, nil
}
