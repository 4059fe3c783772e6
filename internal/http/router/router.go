package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ignatzorin/sinistros-backend/internal/config"
	"github.com/ignatzorin/sinistros-backend/internal/http/handlers"
	"github.com/ignatzorin/sinistros-backend/internal/http/middleware"
)

// Handlers набор handlers, подключаемых к маршрутам.
type Handlers struct {
	Health    *handlers.HealthHandler
	Claims    *handlers.ClaimHandler
	Actions   *handlers.ActionHandler
	Portal    *handlers.PortalHandler
	Sinistros *handlers.SinistroHandler
	Reports   *handlers.ReportHandler
	WS        *handlers.WSHandler
}

func SetupRouter(cfg *config.Config, h Handlers, registry *prometheus.Registry) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.Default()
	r.MaxMultipartMemory = cfg.MaxUploadSizeMB << 20
	r.Use(middleware.RequestID())
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.CORSMiddleware(cfg.AllowedOrigins))

	r.GET("/health", h.Health.Health)
	if registry != nil {
		r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))
	}
	r.StaticFS(handlers.MediaPrefix, http.Dir(cfg.MediaStoragePath))

	api := r.Group("/api")

	// Панель и карточка синистра
	api.GET("/dashboard", h.Claims.Dashboard)
	api.POST("/claims", h.Claims.CreateClaim)
	api.GET("/claims/:id", middleware.UUIDValidator("id"), h.Claims.GetClaim)
	api.POST("/claims/:id/arquivos", middleware.UUIDValidator("id"), h.Claims.UploadFiles)
	api.GET("/oficinas", h.Claims.ListShops)
	api.GET("/relatorios", h.Reports.Monthly)
	api.GET("/ws", h.WS.Handle)

	// Действия через диспетчер
	api.POST("/actions/:action", h.Actions.Invoke)

	// Портал третьего лица: публичный, с ограничением частоты
	portal := api.Group("/terceiros/portal")
	portal.Use(middleware.RateLimitMiddleware(cfg.RateLimitLimit, cfg.RateLimitPeriod))
	{
		portal.GET("/:token", h.Portal.Resolve)
		portal.POST("/:token/dados", h.Portal.SubmitData)
		portal.POST("/:token/arquivos", h.Portal.UploadFiles)
	}

	// Старый поток регистрации
	api.GET("/sinistros", h.Sinistros.ListSinistros)
	api.POST("/sinistros", h.Sinistros.CreateSinistro)
	api.GET("/sinistros/:id", middleware.UUIDValidator("id"), h.Sinistros.GetSinistro)
	api.PATCH("/sinistros/:id/status", middleware.UUIDValidator("id"), h.Sinistros.UpdateStatus)
	api.PATCH("/sinistros/:id/protocol", middleware.UUIDValidator("id"), h.Sinistros.UpdateProtocol)

	api.GET("/documentos/:sinistroId", middleware.UUIDValidator("sinistroId"), h.Sinistros.ListDocumentos)
	api.POST("/documentos", h.Sinistros.CreateDocumento)
	api.GET("/pendencias/:sinistroId", middleware.UUIDValidator("sinistroId"), h.Sinistros.ListPendencias)
	api.POST("/pendencias", h.Sinistros.CreatePendencia)
	api.GET("/andamentos/:sinistroId", middleware.UUIDValidator("sinistroId"), h.Sinistros.ListAndamentos)
	api.POST("/andamentos", h.Sinistros.CreateAndamento)

	return r
}
