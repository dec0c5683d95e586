package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"
	"go.uber.org/zap"

	md "github.com/Astemirdum/lending-service/pkg/middleware"
	"github.com/Astemirdum/lending-service/pkg/validate"
	_ "github.com/Astemirdum/lending-service/swagger"
)

type Handler struct {
	svc         LendingService
	log         *zap.Logger
	development bool
}

// New builds the HTTP layer. In development mode 500 responses expose the error and its stack.
func New(svc LendingService, log *zap.Logger, development bool) *Handler {
	return &Handler{
		svc:         svc,
		log:         log.Named("handler"),
		development: development,
	}
}

func (h *Handler) NewRouter() *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	const (
		baseRPS = 10
		apiRPS  = 100
	)
	e.HTTPErrorHandler = h.errorHandler
	e.Validator = validate.NewCustomValidator()

	e.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{
		StackSize: 4 << 10, // 4 KB
	}))
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{http.MethodGet, http.MethodOptions, http.MethodHead, http.MethodPut, http.MethodPatch, http.MethodPost, http.MethodDelete},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
	}))

	base := e.Group("", md.NewRateLimiter(baseRPS))
	base.GET("/manage/health", h.Health)
	base.GET("/swagger/*", echoSwagger.WrapHandler)

	api := e.Group("/api",
		middleware.RequestLoggerWithConfig(md.RequestLoggerConfig(h.log)),
		middleware.RequestID(),
		md.NewRateLimiter(apiRPS),
	)

	authAPI := api.Group("/auth")
	authAPI.POST("/register", h.Register)
	authAPI.POST("/login", h.Login)
	authAPI.GET("/profile", h.Profile, h.Protect)

	books := api.Group("/books")
	books.GET("", h.ListBooks)
	books.GET("/:id", h.GetBook)
	books.POST("", h.CreateBook, h.Protect)
	books.PUT("/:id", h.UpdateBook, h.Protect)
	books.DELETE("/:id", h.DeleteBook, h.Protect)
	books.POST("/:id/borrow", h.Borrow, h.Protect)
	books.POST("/:id/return", h.Return, h.Protect)

	api.GET("/stats", h.GetStats, h.Protect)

	return e
}

func (h *Handler) Health(c echo.Context) error {
	return c.String(http.StatusOK, "OK")
}
