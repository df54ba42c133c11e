package service

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"

	"github.com/ndewijer/Fund-Visualization-Backend/internal/apperrors"
	"github.com/ndewijer/Fund-Visualization-Backend/internal/database"
	"github.com/ndewijer/Fund-Visualization-Backend/internal/model"
	"github.com/ndewijer/Fund-Visualization-Backend/internal/version"
)

// Data source names reported by the version endpoint.
const (
	DataSourceSQLite = "sqlite"
	DataSourceMock   = "mock"
)

// SystemService handles system-related operations
type SystemService struct {
	db *sql.DB
}

// NewSystemService creates a new SystemService. db is nil when serving mock data.
func NewSystemService(db *sql.DB) *SystemService {
	return &SystemService{
		db: db,
	}
}

// CheckHealth checks the health of the system
func (s *SystemService) CheckHealth() error {
	if s.db == nil {
		return nil
	}
	return database.HealthCheck(s.db)
}

// CheckVersion reports the application version, the applied schema version and
// where the dashboard reads its data from.
func (s *SystemService) CheckVersion(ctx context.Context) (model.VersionInfo, error) {
	info := model.VersionInfo{
		AppVersion: version.Version,
		DataSource: DataSourceMock,
	}
	if s.db == nil {
		return info, nil
	}

	v, err := database.Version(ctx, s.db)
	if err != nil {
		return model.VersionInfo{}, fmt.Errorf("%w: %w", apperrors.ErrFailedToGetVersionInfo, err)
	}
	info.DbVersion = strconv.FormatInt(v, 10)
	info.DataSource = DataSourceSQLite
	return info, nil
}

// DataSource reports where the dashboard reads its data from.
func (s *SystemService) DataSource() string {
	if s.db == nil {
		return DataSourceMock
	}
	return DataSourceSQLite
}
