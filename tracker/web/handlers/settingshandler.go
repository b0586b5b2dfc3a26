package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	tracker "presensi.app/presensi/tracker/core"
	"presensi.app/presensi/tracker/model"
	"presensi.app/presensi/utils"
	"presensi.app/presensi/web/common"
)

// GetSettingsHandler returns the full configuration. The first call on a
// fresh database seeds the default operating hours.
func GetSettingsHandler(st Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		settings, err := st.Settings(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusInternalServerError, common.NewErrorResponse(err.Error()))
			return
		}
		c.JSON(http.StatusOK, common.NewSuccessResponse(gin.H{
			"operating_hours":  settings.OperatingHours,
			"holidays":         settings.Holidays,
			"early_dismissals": settings.EarlyDismissals,
		}))
	}
}

type OperatingHoursDTO struct {
	DayGroup       string `json:"day_group" binding:"required,oneof=mon-thu fri sat"`
	CheckInTime    string `json:"check_in_time" binding:"required"`
	CheckOutTime   string `json:"check_out_time" binding:"required"`
	LateTolerance  int    `json:"late_tolerance" binding:"min=0"`
	ScanInBefore   int    `json:"scan_in_before" binding:"min=0"`
	ScanOutBefore  int    `json:"scan_out_before" binding:"min=0"`
	ScanOutEndTime string `json:"scan_out_end_time" binding:"required"`
	Enabled        bool   `json:"enabled"`
}

// SaveOperatingHoursHandler updates the rules for the posted day groups.
// Window geometry is validated before anything is written; a bad rule
// rejects the whole request.
func SaveOperatingHoursHandler(st Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		var dtos []OperatingHoursDTO
		if err := c.ShouldBindJSON(&dtos); err != nil {
			c.JSON(http.StatusBadRequest, common.NewErrorResponse(common.FormatBindingError(err)))
			return
		}

		rules := utils.Map(dtos, func(d OperatingHoursDTO) model.OperatingHoursRule {
			return model.OperatingHoursRule{
				DayGroup:       d.DayGroup,
				CheckInTime:    d.CheckInTime,
				CheckOutTime:   d.CheckOutTime,
				LateTolerance:  d.LateTolerance,
				ScanInBefore:   d.ScanInBefore,
				ScanOutBefore:  d.ScanOutBefore,
				ScanOutEndTime: d.ScanOutEndTime,
				Enabled:        d.Enabled,
			}
		})
		for _, r := range rules {
			if err := tracker.ValidateRule(r); err != nil {
				c.JSON(http.StatusBadRequest, common.NewErrorResponse(err.Error()))
				return
			}
		}

		if err := st.SaveOperatingHours(c.Request.Context(), rules); err != nil {
			c.JSON(http.StatusInternalServerError, common.NewErrorResponse(err.Error()))
			return
		}
		c.JSON(http.StatusOK, common.NewSuccessResponse(gin.H{}))
	}
}

type HolidayDTO struct {
	Date string `json:"date" binding:"required,datetime=2006-01-02"`
	Name string `json:"name"`
}

func ReplaceHolidaysHandler(st Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		var dtos []HolidayDTO
		if err := c.ShouldBindJSON(&dtos); err != nil {
			c.JSON(http.StatusBadRequest, common.NewErrorResponse(common.FormatBindingError(err)))
			return
		}
		holidays := utils.Map(dtos, func(d HolidayDTO) model.Holiday {
			return model.Holiday{Date: d.Date, Name: d.Name}
		})
		if err := st.ReplaceHolidays(c.Request.Context(), holidays); err != nil {
			c.JSON(http.StatusInternalServerError, common.NewErrorResponse(err.Error()))
			return
		}
		c.JSON(http.StatusOK, common.NewSuccessResponse(gin.H{"count": len(holidays)}))
	}
}

type EarlyDismissalDTO struct {
	Date string `json:"date" binding:"required,datetime=2006-01-02"`
	Time string `json:"time" binding:"required,datetime=15:04"`
}

// ReplaceEarlyDismissalsHandler swaps the dismissal list. Each dismissal
// is checked against its day group's rule before anything is written; one
// bad entry rejects the whole request.
func ReplaceEarlyDismissalsHandler(st Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		var dtos []EarlyDismissalDTO
		if err := c.ShouldBindJSON(&dtos); err != nil {
			c.JSON(http.StatusBadRequest, common.NewErrorResponse(common.FormatBindingError(err)))
			return
		}
		dismissals := utils.Map(dtos, func(d EarlyDismissalDTO) model.EarlyDismissal {
			return model.EarlyDismissal{Date: d.Date, Time: d.Time}
		})

		settings, err := st.Settings(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusInternalServerError, common.NewErrorResponse(err.Error()))
			return
		}
		for _, d := range dismissals {
			if err := tracker.ValidateDismissal(d, settings); err != nil {
				c.JSON(http.StatusBadRequest, common.NewErrorResponse(err.Error()))
				return
			}
		}

		if err := st.ReplaceEarlyDismissals(c.Request.Context(), dismissals); err != nil {
			c.JSON(http.StatusInternalServerError, common.NewErrorResponse(err.Error()))
			return
		}
		c.JSON(http.StatusOK, common.NewSuccessResponse(gin.H{"count": len(dismissals)}))
	}
}

type ManualStatusDTO struct {
	Date   string `json:"date" binding:"required,datetime=2006-01-02"`
	Status string `json:"status" binding:"required,oneof=absent sick permit"`
}

// ManualStatusHandler records an administrator-entered absent/sick/permit
// status. URL param :id is the student id.
func ManualStatusHandler(svc *tracker.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := paramUint(c, "id")
		if !ok {
			return
		}

		var dto ManualStatusDTO
		if err := c.ShouldBindJSON(&dto); err != nil {
			c.JSON(http.StatusBadRequest, common.NewErrorResponse(common.FormatBindingError(err)))
			return
		}

		result, err := svc.RecordManualStatus(c.Request.Context(), id, dto.Date, dto.Status)
		if err != nil {
			c.JSON(http.StatusInternalServerError, common.NewErrorResponse(err.Error()))
			return
		}
		c.JSON(http.StatusOK, common.NewSuccessResponse(result))
	}
}
