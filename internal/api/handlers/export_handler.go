package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/lumenworks/studio-portal-backend/internal/export"
	"github.com/lumenworks/studio-portal-backend/internal/service"
)

// ============================================
// Export Handler
// ============================================

type ExportHandler struct {
	projectService service.ProjectService
	messageService service.MessageService
	statsService   service.StatsService
}

// Projects - GET /export/projects.csv
func (h *ExportHandler) Projects(c *gin.Context) {
	projects, err := h.projectService.List(c.Request.Context())
	if err != nil {
		handleServiceError(c, err)
		return
	}

	data, err := export.ProjectsCSV(projects)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to build export"})
		return
	}
	serveCSV(c, "projects", data)
}

// Messages - GET /export/messages.csv
func (h *ExportHandler) Messages(c *gin.Context) {
	messages, err := h.messageService.ListAll(c.Request.Context())
	if err != nil {
		handleServiceError(c, err)
		return
	}

	data, err := export.MessagesCSV(messages)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to build export"})
		return
	}
	serveCSV(c, "messages", data)
}

// Forecast - GET /export/forecast.csv
func (h *ExportHandler) Forecast(c *gin.Context) {
	forecast, err := h.statsService.Forecast(c.Request.Context())
	if err != nil {
		handleServiceError(c, err)
		return
	}

	data, err := export.ForecastCSV(*forecast)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to build export"})
		return
	}
	serveCSV(c, "forecast", data)
}

func serveCSV(c *gin.Context, name string, data []byte) {
	filename := fmt.Sprintf("%s-%s.csv", name, time.Now().Format("2006-01-02"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "text/csv; charset=utf-8", data)
}
