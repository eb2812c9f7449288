package router

import (
	"time"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/hercules830/nexa-control-app-sub000/internal/config"
	"github.com/hercules830/nexa-control-app-sub000/internal/handler"
	"github.com/hercules830/nexa-control-app-sub000/internal/infra"
	"github.com/hercules830/nexa-control-app-sub000/internal/middleware"
	"github.com/hercules830/nexa-control-app-sub000/internal/model"
	"github.com/hercules830/nexa-control-app-sub000/internal/repository"
	"github.com/hercules830/nexa-control-app-sub000/internal/service"
	"github.com/hercules830/nexa-control-app-sub000/internal/worker"
)

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler <- Service <- Repository <- DB/Redis
// The mailer is shared with the worker pool so the health endpoint sees
// the same breaker the alert jobs go through.
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client, mailer *infra.Mailer) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware chain (order matters)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS(cfg.CORSOrigin))
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.RateLimiter(1000, time.Minute)) // 1000 req/min per IP

	// Infrastructure
	notifier := infra.NewNotifier(rdb)
	dispatcher := worker.NewDispatcher(rdb)

	// Repositories
	usuarioRepo := repository.NewUsuarioRepository(db)
	insumoRepo := repository.NewInsumoRepository(db)
	productoRepo := repository.NewProductoRepository(db)
	ventaRepo := repository.NewVentaRepository(db)

	// Services
	store := service.NewTicketStore()
	authSvc := service.NewAuthService(usuarioRepo, cfg)
	insumoSvc := service.NewInsumoService(insumoRepo, notifier)
	productoSvc := service.NewProductoService(productoRepo, insumoRepo, notifier)
	ticketSvc := service.NewTicketService(store, productoRepo, insumoRepo)
	ventaSvc := service.NewVentaService(ventaRepo, insumoRepo, store, dispatcher)
	reporteSvc := service.NewReporteService(ventaRepo, insumoRepo, rdb)

	// Handlers
	authH := handler.NewAuthHandler(authSvc)
	insumosH := handler.NewInsumosHandler(insumoSvc)
	productosH := handler.NewProductosHandler(productoSvc)
	ticketH := handler.NewTicketHandler(ticketSvc, ventaSvc)
	ventasH := handler.NewVentasHandler(ventaSvc)
	reportesH := handler.NewReportesHandler(reporteSvc)

	// Public
	r.GET("/health", handler.Health(db, rdb, mailer))

	auth := r.Group("/v1/auth")
	{
		auth.POST("/login", middleware.LoginRateLimiter(), authH.Login)
		auth.POST("/refresh", authH.Refresh)
	}

	// Protected routes. Both roles operate the POS; user management is
	// admin only.
	jwtMW := middleware.JWTAuth(cfg.JWTSecret)
	v1 := r.Group("/v1", jwtMW)
	{
		insumos := v1.Group("/insumos")
		{
			insumos.POST("", insumosH.Crear)
			insumos.GET("", insumosH.Listar)
			insumos.GET("/:id", insumosH.Obtener)
			insumos.POST("/:id/ajustar", insumosH.AjustarStock)
			insumos.POST("/:id/reabastecer", insumosH.Reabastecer)
			insumos.DELETE("/:id", middleware.RequireRole(model.RolAdministrador), insumosH.Eliminar)
			insumos.GET("/:id/movimientos", insumosH.Movimientos)
			insumos.GET("/:id/historial-costos", insumosH.HistorialCosto)
		}

		productos := v1.Group("/productos")
		{
			productos.POST("/directo", productosH.CrearDirecto)
			productos.POST("/receta", productosH.CrearReceta)
			productos.GET("", productosH.Listar)
			productos.GET("/:id", productosH.Obtener)
			productos.PUT("/:id", productosH.Actualizar)
			productos.DELETE("/:id", middleware.RequireRole(model.RolAdministrador), productosH.Eliminar)
		}

		ticket := v1.Group("/ticket")
		{
			ticket.GET("", ticketH.Obtener)
			ticket.POST("/lineas", ticketH.AgregarLinea)
			ticket.POST("/lineas/quitar", ticketH.QuitarLinea)
			ticket.DELETE("", ticketH.Limpiar)
			ticket.POST("/finalizar", ticketH.Finalizar)
		}

		ventas := v1.Group("/ventas")
		{
			ventas.GET("", ventasH.Listar)
			ventas.GET("/:ticket_id", ventasH.ObtenerTicket)
			ventas.GET("/:ticket_id/pdf", ventasH.DescargarTicketPDF)
		}

		reportes := v1.Group("/reportes")
		{
			reportes.GET("/resumen", reportesH.Resumen)
			reportes.GET("/serie-productos", reportesH.SeriePorProducto)
		}

		usuarios := v1.Group("/usuarios", middleware.RequireRole(model.RolAdministrador))
		{
			usuarios.POST("", authH.CrearUsuario)
			usuarios.GET("", authH.ListarUsuarios)
			usuarios.DELETE("/:id", authH.DesactivarUsuario)
		}
	}

	// Swagger UI, only enabled outside production
	if cfg.Env != "production" {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return r
}
