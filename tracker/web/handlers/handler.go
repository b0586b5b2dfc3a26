package handlers

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	tracker "presensi.app/presensi/tracker/core"
	"presensi.app/presensi/tracker/model"
	"presensi.app/presensi/tracker/store"
	"presensi.app/presensi/utils"
	"presensi.app/presensi/web/common"
)

// Store is everything the handlers need from storage. GormStore implements
// it against MySQL, MemoryStore implements it for tests and local runs.
type Store interface {
	tracker.Store

	SearchLogs(ctx context.Context, q store.LogQuery) ([]model.AttendanceLog, int64, error)
	LogsForRange(ctx context.Context, from, to string) ([]model.AttendanceLog, error)
	ListStudents(ctx context.Context, classID uint) ([]model.Student, error)
	UpdateStudentPhoto(ctx context.Context, studentID uint, url string) error
	SaveOperatingHours(ctx context.Context, rules []model.OperatingHoursRule) error
	ReplaceHolidays(ctx context.Context, holidays []model.Holiday) error
	ReplaceEarlyDismissals(ctx context.Context, dismissals []model.EarlyDismissal) error
}

type ScanDTO struct {
	RfidUID string `json:"rfid_uid"`
	NIS     string `json:"nis"`
}

// ScanHandler is the kiosk endpoint. A rejected scan is still HTTP 200;
// the kiosk shows the message either way.
func ScanHandler(svc *tracker.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var dto ScanDTO
		if err := c.ShouldBindJSON(&dto); err != nil {
			c.JSON(http.StatusBadRequest, common.NewErrorResponse(common.FormatBindingError(err)))
			return
		}

		result, err := svc.RecordScan(c.Request.Context(), tracker.ScanRequest{
			RfidUID: strings.TrimSpace(dto.RfidUID),
			NIS:     strings.TrimSpace(dto.NIS),
		})
		if err != nil {
			c.JSON(http.StatusInternalServerError, common.NewErrorResponse(err.Error()))
			return
		}

		c.JSON(http.StatusOK, common.NewSuccessResponse(result))
	}
}

type ImportStats struct {
	Rows     int      `json:"rows"`
	Accepted int      `json:"accepted"`
	Rejected int      `json:"rejected"`
	Errors   []string `json:"errors,omitempty"`
}

// ImportScansHandler replays a kiosk's offline CSV export. Each row is
// "identifier,timestamp"; the identifier is an RFID UID or an NIS, the
// timestamp is RFC3339 or local "2006-01-02 15:04:05". Rows are evaluated
// with the recorded timestamp, so a morning scan imported in the afternoon
// still lands in the check-in window.
func ImportScansHandler(svc *tracker.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		file, _, err := c.Request.FormFile("file")
		if err != nil {
			c.JSON(http.StatusBadRequest, common.NewErrorResponse("file is required"))
			return
		}
		defer file.Close()

		rows, err := utils.ParseCSV(file)
		if err != nil {
			c.JSON(http.StatusBadRequest, common.NewErrorResponse(fmt.Sprintf("parse csv: %v", err)))
			return
		}

		var stats ImportStats
		for i, row := range rows {
			if len(row) == 0 || (len(row) == 1 && strings.TrimSpace(row[0]) == "") {
				continue
			}
			stats.Rows++
			if len(row) < 2 {
				stats.Rejected++
				stats.Errors = append(stats.Errors, fmt.Sprintf("row %d: expected identifier,timestamp", i+1))
				continue
			}

			at, err := utils.ParseISOTime(strings.TrimSpace(row[1]))
			if err != nil {
				stats.Rejected++
				stats.Errors = append(stats.Errors, fmt.Sprintf("row %d: %v", i+1, err))
				continue
			}

			// The export does not say whether the column is an RFID UID
			// or an NIS; the service tries the UID first, then the NIS.
			id := strings.TrimSpace(row[0])
			req := tracker.ScanRequest{RfidUID: id, NIS: id, At: at}

			result, err := svc.RecordScan(c.Request.Context(), req)
			if err != nil {
				c.JSON(http.StatusInternalServerError, common.NewErrorResponse(err.Error()))
				return
			}
			if result.Success {
				stats.Accepted++
			} else {
				stats.Rejected++
				stats.Errors = append(stats.Errors, fmt.Sprintf("row %d: %s", i+1, result.Message))
			}
		}

		c.JSON(http.StatusOK, common.NewSuccessResponse(stats))
	}
}
