package router

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"healthaxis/internal/interfaces/api/handler"
	"healthaxis/internal/pkg/logger"
)

// Config holds the dependencies for the router.
type Config struct {
	ReminderHandler  *handler.ReminderHandler
	CompanionHandler *handler.CompanionHandler
	LineHandler      *handler.LineHandler
	Logger           logger.Logger
}

// NewRouter creates and configures a new Echo router.
func NewRouter(cfg *Config) *echo.Echo {
	e := echo.New()

	// Middleware
	e.Use(middleware.RequestID())
	// Use custom logger that integrates with our logger interface
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogURI:       true,
		LogStatus:    true,
		LogMethod:    true,
		LogHost:      true,
		LogLatency:   true,
		LogRequestID: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			cfg.Logger.Info(fmt.Sprintf("REQUEST: method=%s, uri=%s, status=%d, latency=%s, req_id=%s",
				v.Method, v.URI, v.Status, v.Latency, v.RequestID,
			))
			return nil
		},
	}))
	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowHeaders:     []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization, "X-Line-Signature"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	e.GET("/", func(c echo.Context) error {
		return c.String(http.StatusOK, "HealthAxis reminder service")
	})

	// Reminder scheduling service
	e.GET("/reminders/", cfg.ReminderHandler.List)
	e.GET("/reminders/next", cfg.ReminderHandler.NextTime)
	e.GET("/reminders/:id", cfg.ReminderHandler.Get)
	e.POST("/reminders/", cfg.ReminderHandler.Create)
	e.PUT("/reminders/:id", cfg.ReminderHandler.Update)
	e.DELETE("/reminders/:id", cfg.ReminderHandler.Delete)
	e.POST("/reminders/:id/toggle", cfg.ReminderHandler.Toggle)

	// Notification permission surface
	e.GET("/notifications/permission", cfg.ReminderHandler.Permission)
	e.POST("/notifications/permission", cfg.ReminderHandler.RequestPermission)

	// Health companion data
	e.GET("/medicines/", cfg.CompanionHandler.Medicines)
	e.GET("/medicines/:id/doses", cfg.CompanionHandler.DoseLogs)
	e.GET("/doses/", cfg.CompanionHandler.RecentDoses)
	e.GET("/appointments/", cfg.CompanionHandler.Appointments)
	e.GET("/records/", cfg.CompanionHandler.Records)
	e.POST("/records/:id/unlock", cfg.CompanionHandler.UnlockRecord)
	e.GET("/points/", cfg.CompanionHandler.Points)

	// LINE webhook for notification actions
	e.POST("/callback", cfg.LineHandler.HandleWebhook)

	cfg.Logger.Info("Router initialized with routes.")
	return e
}
