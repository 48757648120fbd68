package router

import (
	"time"

	"github.com/FranklinPereira2309/fast-delivery-estavel-sub000/internal/config"
	"github.com/FranklinPereira2309/fast-delivery-estavel-sub000/internal/handler"
	"github.com/FranklinPereira2309/fast-delivery-estavel-sub000/internal/middleware"
	"github.com/FranklinPereira2309/fast-delivery-estavel-sub000/internal/repository"
	"github.com/FranklinPereira2309/fast-delivery-estavel-sub000/internal/service"
	"github.com/FranklinPereira2309/fast-delivery-estavel-sub000/internal/worker"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Repository ← DB/Redis
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client, dispatcher *worker.Dispatcher) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware chain (order matters)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS())
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.RateLimiter(1000, time.Minute)) // 1000 req/min per IP

	// ── Repositories ─────────────────────────────────────────────────────────
	caixaRepo := repository.NewCaixaRepository(db)
	pedidoRepo := repository.NewPedidoRepository(db)
	fiadoRepo := repository.NewFiadoRepository(db)

	// ── Services ─────────────────────────────────────────────────────────────
	caixaSvc := service.NewCaixaService(db, caixaRepo, pedidoRepo, dispatcher)
	pedidoSvc := service.NewPedidoService(pedidoRepo)
	fiadoSvc := service.NewFiadoService(db, fiadoRepo, caixaSvc, dispatcher)

	// ── Handlers ─────────────────────────────────────────────────────────────
	caixaH := handler.NewCaixaHandler(caixaSvc)
	pedidosH := handler.NewPedidosHandler(pedidoSvc)
	fiadoH := handler.NewFiadoHandler(fiadoSvc)

	// ── Routes ───────────────────────────────────────────────────────────────

	r.GET("/health", handler.Health(db, rdb))

	jwtMW := middleware.JWTAuth(cfg.JWTSecret)
	v1 := r.Group("/v1", jwtMW)
	{
		caixa := v1.Group("/caixa")
		{
			caixa.POST("/abrir", middleware.RequireRole(middleware.RoleAtendente, middleware.RoleGerente), caixaH.Abrir)
			caixa.POST("/fechar", middleware.RequireRole(middleware.RoleAtendente, middleware.RoleGerente), caixaH.Fechar)
			// Reopening a closed drawer is a privileged transition.
			caixa.POST("/:id/reabrir", middleware.RequireRole(middleware.RoleGerente), caixaH.Reabrir)
			caixa.GET("/ativa", middleware.RequireRole(middleware.RoleAtendente, middleware.RoleGerente), caixaH.Ativa)
			caixa.GET("/historico", middleware.RequireRole(middleware.RoleGerente), caixaH.Historico)
		}

		pedidos := v1.Group("/pedidos", middleware.RequireRole(middleware.RoleAtendente, middleware.RoleGerente))
		{
			pedidos.POST("", pedidosH.Criar)
			pedidos.GET("", pedidosH.Listar)
			pedidos.PATCH("/:id/status", pedidosH.AtualizarStatus)
		}

		fiado := v1.Group("/fiado", middleware.RequireRole(middleware.RoleAtendente, middleware.RoleGerente))
		{
			fiado.POST("", fiadoH.Criar)
			fiado.GET("", fiadoH.Listar)
			fiado.POST("/:id/quitar", fiadoH.Quitar)
		}
	}

	// Swagger UI — only enabled outside production
	if cfg.Env != "production" {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return r
}
