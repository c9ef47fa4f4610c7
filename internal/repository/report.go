package repository

import (
	"time"

	"profilebook/internal/models"

	"gorm.io/gorm"
)

// ReportRow flattens a report with both participant usernames for the
// admin review list.
type ReportRow struct {
	ID            uint      `json:"id"`
	Reason        string    `json:"reason"`
	ReportingUser string    `json:"reporting_user"`
	ReportedUser  string    `json:"reported_user"`
	CreatedAt     time.Time `json:"created_at"`
}

// ReportRepository provides access to user reports.
type ReportRepository interface {
	Create(report *models.Report) error
	ListDetailed() ([]ReportRow, error)
}

type reportRepository struct {
	db *gorm.DB
}

func NewReportRepository(db *gorm.DB) ReportRepository {
	return &reportRepository{db: db}
}

func (r *reportRepository) Create(report *models.Report) error {
	if err := r.db.Create(report).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *reportRepository) ListDetailed() ([]ReportRow, error) {
	var rows []ReportRow
	err := r.db.Table("reports").
		Select("reports.id, reports.reason, "+
			"rg.username AS reporting_user, rd.username AS reported_user, "+
			"reports.created_at").
		Joins("JOIN users rg ON rg.id = reports.reporting_user_id").
		Joins("JOIN users rd ON rd.id = reports.reported_user_id").
		Order("reports.created_at DESC").
		Scan(&rows).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	if rows == nil {
		rows = []ReportRow{}
	}
	return rows, nil
}
