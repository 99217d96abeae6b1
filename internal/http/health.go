package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/folio/internal/database"
)

type HealthResponse struct {
	Status  string            `json:"status"`
	Time    string            `json:"time"`
	Version string            `json:"version,omitempty"`
	Checks  map[string]string `json:"checks"`
	Stats   *database.Stats   `json:"stats,omitempty"`
}

type HealthController struct {
	db      *database.Database
	sweep   SweepStatus
	version string
}

func NewHealthController(db *database.Database, sweep SweepStatus, version string) *HealthController {
	return &HealthController{
		db:      db,
		sweep:   sweep,
		version: version,
	}
}

func (h *HealthController) Status(c *gin.Context) {
	checks := make(map[string]string)
	status := "healthy"
	var stats *database.Stats

	// Check database connectivity
	if h.db != nil {
		if err := h.db.Ping(); err != nil {
			checks["database"] = "error: " + err.Error()
			status = "unhealthy"
		} else {
			checks["database"] = "ok"
			if s, err := h.db.Stats(); err == nil {
				stats = &s
			}
		}
	} else {
		checks["database"] = "not configured"
	}

	if h.sweep != nil {
		if h.sweep.IsRunning() {
			checks["migration_sweep"] = "running"
			if next := h.sweep.NextRunTime(); next != nil {
				checks["migration_sweep_next_run"] = next.Format(time.RFC3339)
			}
		} else {
			checks["migration_sweep"] = "stopped"
		}
	}

	health := HealthResponse{
		Status:  status,
		Time:    time.Now().Format(time.RFC3339),
		Version: h.version,
		Checks:  checks,
		Stats:   stats,
	}

	statusCode := http.StatusOK
	if status != "healthy" {
		statusCode = http.StatusServiceUnavailable
	}

	c.IndentedJSON(statusCode, health)
}
