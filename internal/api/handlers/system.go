package handlers

import (
	"net/http"

	"github.com/ndewijer/Fund-Visualization-Backend/internal/api/response"
	"github.com/ndewijer/Fund-Visualization-Backend/internal/apperrors"
	"github.com/ndewijer/Fund-Visualization-Backend/internal/service"
)

// SystemHandler handles system-related HTTP requests
type SystemHandler struct {
	systemService *service.SystemService
}

// NewSystemHandler creates a new SystemHandler
func NewSystemHandler(systemService *service.SystemService) *SystemHandler {
	return &SystemHandler{
		systemService: systemService,
	}
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status     string `json:"status"`
	Database   string `json:"database"`
	DataSource string `json:"data_source"`
	Error      string `json:"error,omitempty"`
}

// Health checks the health of the system and database connectivity.
// In mock mode there is no database and the database field reports "not used".
func (h *SystemHandler) Health(w http.ResponseWriter, _ *http.Request) {
	source := h.systemService.DataSource()

	database := "connected"
	if source == service.DataSourceMock {
		database = "not used"
	}

	if err := h.systemService.CheckHealth(); err != nil {
		response.RespondJSON(w, http.StatusServiceUnavailable, HealthResponse{
			Status:     "unhealthy",
			Database:   "disconnected",
			DataSource: source,
			Error:      err.Error(),
		})
		return
	}

	response.RespondJSON(w, http.StatusOK, HealthResponse{
		Status:     "healthy",
		Database:   database,
		DataSource: source,
	})
}

// Version handles GET requests to retrieve version information.
// Returns the application version, the applied schema version and the data source.
//
// Endpoint: GET /api/system/version
// Response: 200 OK with VersionInfo
// Error: 500 Internal Server Error if version check fails
func (h *SystemHandler) Version(w http.ResponseWriter, r *http.Request) {
	version, err := h.systemService.CheckVersion(r.Context())
	if err != nil {
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToGetVersionInfo.Error(), err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, version)
}
