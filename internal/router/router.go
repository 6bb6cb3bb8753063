package router

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"focusboard/backend/internal/handler"
	"focusboard/backend/internal/middleware"
)

func New(
	taskHandler *handler.TaskHandler,
	parserHandler *handler.ParserHandler,
	prefsHandler *handler.PrefsHandler,
	quranHandler *handler.QuranHandler,
	adhkarHandler *handler.AdhkarHandler,
	eventsHandler *handler.EventsHandler,
	corsOrigins []string,
) *gin.Engine {
	engine := gin.New()
	engine.Use(gin.Logger(), gin.Recovery(), middleware.CORS(corsOrigins))

	engine.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := engine.Group("/api")

	tasks := api.Group("/tasks")
	tasks.GET("", taskHandler.List)
	tasks.POST("", taskHandler.Add)
	tasks.GET("/views", taskHandler.Views)
	tasks.POST("/:id/toggle", taskHandler.Toggle)
	tasks.POST("/:id/waiting", taskHandler.ToggleWaiting)
	tasks.POST("/:id/pin", taskHandler.Pin)
	tasks.PUT("/:id/due-date", taskHandler.UpdateDueDate)
	tasks.PATCH("/:id", taskHandler.Update)
	tasks.DELETE("/:id", taskHandler.Delete)
	tasks.POST("/:id/timer/start", taskHandler.StartTimer)
	tasks.POST("/:id/timer/pause", taskHandler.PauseTimer)
	tasks.POST("/:id/timer/stop", taskHandler.StopTimer)
	tasks.GET("/:id/timer", taskHandler.TimerState)

	api.GET("/timelogs", taskHandler.TimeLogs)
	api.POST("/parse", parserHandler.Parse)
	api.GET("/events", eventsHandler.Stream)

	prefsGroup := api.Group("/prefs")
	prefsGroup.GET("", prefsHandler.Keys)
	prefsGroup.GET("/:key", prefsHandler.Get)
	prefsGroup.PUT("/:key", prefsHandler.Set)
	prefsGroup.DELETE("/:key", prefsHandler.Delete)

	quranGroup := api.Group("/quran")
	quranGroup.GET("/sessions", quranHandler.List)
	quranGroup.POST("/sessions", quranHandler.Add)
	quranGroup.GET("/stats", quranHandler.Stats)

	adhkarGroup := api.Group("/adhkar")
	adhkarGroup.GET("", adhkarHandler.List)
	adhkarGroup.POST("", adhkarHandler.Add)
	adhkarGroup.PUT("/:id", adhkarHandler.Update)
	adhkarGroup.DELETE("/:id", adhkarHandler.Delete)

	return engine
}
