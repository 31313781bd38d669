// Health HTTP handler.
//
// GET /health reports the API's own status plus the state of its two
// dependencies: the completion provider (probed with a tiny live request) and
// the database. Overall status is "healthy" only when both are reachable,
// otherwise "degraded". The endpoint itself always answers 200 so load
// balancers can read the body instead of guessing from the status code.
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/arpusjateng/docchat-backend/internal/groq"
	"github.com/arpusjateng/docchat-backend/internal/http/middleware"
	"github.com/arpusjateng/docchat-backend/internal/repo"
)

// HealthResponse is the health report for the API and its dependencies.
type HealthResponse struct {
	Status   string         `json:"status"`
	GroqAPI  string         `json:"groq_api"`
	Database string         `json:"database"`
	AIInfo   map[string]any `json:"ai_info,omitempty"`
}

// Health godoc
// @ID          health
// @Summary     System health
// @Description Probes the completion provider and the database; reports healthy or degraded.
// @Tags        System
// @Produce     json
//
// @Success     200  {object}  handlers.HealthResponse
// @Router      /health [get]
func (h *Handlers) Health(c *gin.Context) {
	ctx := c.Request.Context()
	lg := middleware.LoggerFrom(c)

	resp := HealthResponse{
		GroqAPI:  "disconnected",
		Database: "disconnected",
	}

	aiInfo := map[string]any{
		"provider": "GROQ",
		"model":    h.aiModel,
	}
	if h.ai != nil {
		if err := h.ai.Ping(ctx); err != nil {
			// "error" means the probe ran and failed; "disconnected" is
			// reserved for no provider being configured at all.
			if errors.Is(err, groq.ErrNoAPIKey) {
				resp.GroqAPI = "disconnected"
			} else {
				resp.GroqAPI = "error"
			}
			aiInfo["status"] = "non-operasional"
			aiInfo["error"] = err.Error()
			lg.Warn().Err(err).Msg("completion provider health probe failed")
		} else {
			resp.GroqAPI = "connected"
			aiInfo["status"] = "operasional"
		}
	} else {
		aiInfo["status"] = "non-operasional"
	}
	resp.AIInfo = aiInfo

	if h.db != nil {
		if err := repo.Ping(h.db); err != nil {
			lg.Warn().Err(err).Msg("database health probe failed")
		} else {
			resp.Database = "connected"
		}
	}

	if resp.GroqAPI == "connected" && resp.Database == "connected" {
		resp.Status = "healthy"
	} else {
		resp.Status = "degraded"
	}

	ok(c, http.StatusOK, resp)
}
