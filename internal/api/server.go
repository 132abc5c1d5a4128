package api

import (
	"fmt"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerfiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"

	"github.com/vietanh2810/canteen-qr-api/docs"
	v1 "github.com/vietanh2810/canteen-qr-api/internal/api/handler/v1"
	"github.com/vietanh2810/canteen-qr-api/internal/api/middleware"
	"github.com/vietanh2810/canteen-qr-api/internal/config"
	"github.com/vietanh2810/canteen-qr-api/internal/metrics"
	"github.com/vietanh2810/canteen-qr-api/internal/repository"
	"github.com/vietanh2810/canteen-qr-api/internal/service"
)

const basePath = "/api/v1"

type Server struct {
	Config  *config.AppConfig
	Router  *gin.Engine
	Metrics *metrics.Metrics

	registry *prometheus.Registry
}

type handlers struct {
	health    *v1.HealthHandler
	auth      *v1.AuthHandler
	user      *v1.UserHandler
	scan      *v1.ScanHandler
	menu      *v1.MenuHandler
	allowlist *v1.AllowlistHandler
}

// NewServer wires every handler on top of db. sessions is optional; pass nil
// to keep refresh tokens stateless.
func NewServer(conf *config.AppConfig, db *gorm.DB, sessions service.RefreshSessionStore) (*Server, error) {
	gin.SetMode(conf.Gin.Mode)
	engine := gin.New()

	s := &Server{
		Config: conf,
		Router: engine,
	}

	if conf.Metrics.Enabled {
		s.registry = prometheus.NewRegistry()
		s.registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
		s.Metrics = metrics.New(s.registry)
	} else {
		s.Metrics = metrics.New(nil)
	}

	s.MountMiddlewares()

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("db.DB -> %w", err)
	}

	stores := repository.NewStores(db)
	userSvc := service.NewUserService(stores.Users, stores.Statuses)

	h := handlers{
		health:    v1.NewHealthHandler(sqlDB),
		auth:      s.initAuthHandler(stores, sessions),
		user:      s.initUserHandler(stores, userSvc),
		scan:      s.initScanHandler(db),
		menu:      v1.NewMenuHandler(service.NewMenuService(stores.Menus)),
		allowlist: v1.NewAllowlistHandler(service.NewAllowlistService(stores.Allowlist)),
	}
	s.MountHandlers(h, userSvc)

	return s, nil
}

func (s *Server) initAuthHandler(stores repository.Stores, sessions service.RefreshSessionStore) *v1.AuthHandler {
	svc := service.NewAuthService(stores.Users, stores.Allowlist, service.TokenConfig{
		SigningKey: []byte(s.Config.API.JWTSigningKey),
		AccessTTL:  s.Config.API.AccessTokenTTL,
		RefreshTTL: s.Config.API.RefreshTokenTTL,
	}, sessions)

	return v1.NewAuthHandler(svc)
}

func (s *Server) initUserHandler(stores repository.Stores, userSvc *service.UserService) *v1.UserHandler {
	qrSvc := service.NewQRService(stores.QRTokens, s.Config.QR)

	return v1.NewUserHandler(userSvc, qrSvc, s.Metrics)
}

func (s *Server) initScanHandler(db *gorm.DB) *v1.ScanHandler {
	svc := service.NewScanService(repository.NewUnitOfWork(db))

	return v1.NewScanHandler(svc, s.Metrics)
}

func (s *Server) MountMiddlewares() {
	s.Router.Use(gin.Recovery())
	s.Router.Use(requestid.New())
	s.Router.Use(middleware.RequestLogger())
	s.Router.Use(middleware.Metrics(s.Metrics))
	s.Router.Use(middleware.ConfigCORS(s.Config.API.AllowedCORSDomains))
}

func (s *Server) MountHandlers(h handlers, userLookup middleware.UserLookup) {
	authenticator := middleware.NewAuthenticator(s.Config.API.JWTSigningKey)
	requireAuth := authenticator.VerifyJWT()
	requireAdmin := middleware.RequireAdmin(userLookup)

	menuRead := authenticator.OptionalJWT()
	if !s.Config.API.MenuPublicRead {
		menuRead = requireAuth
	}

	auth := s.Router.Group(basePath)
	{
		auth.POST("/auth/register", h.auth.HandleRegister)
		auth.POST("/auth/login", h.auth.HandleLogin)
		auth.POST("/auth/refresh", h.auth.HandleRefresh)
	}

	users := s.Router.Group(basePath, requireAuth)
	{
		users.GET("/user/me", h.user.HandleGetMe)
		users.GET("/user/statuses", h.user.HandleGetStatuses)
		users.GET("/user/qr/", h.user.HandleIssueQR)
		users.POST("/user/qr/", h.user.HandleIssueQR)
		users.GET("/user/qr.png", h.user.HandleQRImage)
	}

	admin := s.Router.Group(basePath, requireAuth, requireAdmin)
	{
		admin.POST("/admin/scan/resolve/", h.scan.HandleResolve)
		admin.POST("/admin/scan/action/", h.scan.HandleAction)
		admin.GET("/admin/allowed-emails/", h.allowlist.HandleListAllowedEmails)
		admin.POST("/admin/allowed-emails/", h.allowlist.HandleAddAllowedEmail)
		admin.DELETE("/admin/allowed-emails/:entryID/", h.allowlist.HandleRemoveAllowedEmail)
	}

	menuReads := s.Router.Group(basePath, menuRead)
	{
		menuReads.GET("/menu/", h.menu.HandleListMenus)
		menuReads.GET("/menu/:menuID/", h.menu.HandleGetMenu)
	}

	menuWrites := s.Router.Group(basePath, requireAuth, requireAdmin)
	{
		menuWrites.POST("/menu/", h.menu.HandleCreateMenu)
		menuWrites.PUT("/menu/:menuID/", h.menu.HandleReplaceMenu)
		menuWrites.PATCH("/menu/:menuID/", h.menu.HandlePatchMenu)
		menuWrites.DELETE("/menu/:menuID/", h.menu.HandleDeleteMenu)
	}

	s.Router.GET("/", h.health.HandleHealthcheck)

	if s.registry != nil {
		s.Router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{})))
	}

	// Setup Swagger UI.
	docs.SwaggerInfo.Host = s.Config.API.BaseURL
	docs.SwaggerInfo.BasePath = basePath
	docs.SwaggerInfo.Title = "Canteen QR API"
	docs.SwaggerInfo.Description = "Allow-listed registration, QR tokens and admin scanning for the canteen."
	docs.SwaggerInfo.Version = "1.0"
	s.Router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerfiles.Handler))
}
