package handlers

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"presensi.app/presensi/infrastructure/filesystem"
	"presensi.app/presensi/tracker/report"
	"presensi.app/presensi/utils"
	"presensi.app/presensi/web/common"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// MonthlyReportHandler renders the month's recap workbook and streams it
// back. With ?archive=true the workbook is also written to the report
// bucket under reports/.
func MonthlyReportHandler(st Store, reportBucket string) gin.HandlerFunc {
	return func(c *gin.Context) {
		year := queryInt(c, "year")
		month := queryInt(c, "month")
		if year < 2000 || month < 1 || month > 12 {
			c.JSON(http.StatusBadRequest, common.NewErrorResponse("year and month query params are required"))
			return
		}

		from := fmt.Sprintf("%04d-%02d-01", year, month)
		to := fmt.Sprintf("%04d-%02d-31", year, month)
		logs, err := st.LogsForRange(c.Request.Context(), from, to)
		if err != nil {
			c.JSON(http.StatusInternalServerError, common.NewErrorResponse(err.Error()))
			return
		}
		students, err := st.ListStudents(c.Request.Context(), 0)
		if err != nil {
			c.JSON(http.StatusInternalServerError, common.NewErrorResponse(err.Error()))
			return
		}

		buf, err := report.BuildMonthly(year, time.Month(month), students, logs)
		if err != nil {
			c.JSON(http.StatusInternalServerError, common.NewErrorResponse(err.Error()))
			return
		}

		filename := report.Filename(year, time.Month(month))
		c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
		if c.Query("archive") == "true" {
			if reportBucket == "" {
				c.JSON(http.StatusServiceUnavailable, common.NewErrorResponse("report storage is not configured"))
				return
			}
			data := buf.Bytes()
			if err := filesystem.WriteFile(reportBucket, "reports/"+filename, xlsxContentType, c.Request.Context(), buf); err != nil {
				c.JSON(http.StatusInternalServerError, common.NewErrorResponse(err.Error()))
				return
			}
			c.Data(http.StatusOK, xlsxContentType, data)
			return
		}

		c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
	}
}

// ListArchivedReportsHandler lists the workbooks previously archived to
// the report bucket with ?archive=true.
func ListArchivedReportsHandler(reportBucket string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if reportBucket == "" {
			c.JSON(http.StatusServiceUnavailable, common.NewErrorResponse("report storage is not configured"))
			return
		}

		keys, err := filesystem.ListFiles(reportBucket, "reports/", c.Request.Context())
		if err != nil {
			c.JSON(http.StatusInternalServerError, common.NewErrorResponse(err.Error()))
			return
		}

		workbooks := utils.Filter(keys, func(k string) bool { return strings.HasSuffix(k, ".xlsx") })
		names := utils.Map(workbooks, func(k string) string { return strings.TrimPrefix(k, "reports/") })
		c.JSON(http.StatusOK, common.NewSuccessResponse(gin.H{"reports": names}))
	}
}

// DownloadArchivedReportHandler streams one archived workbook back.
// URL param :name is the filename as returned by the archive listing.
func DownloadArchivedReportHandler(reportBucket string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if reportBucket == "" {
			c.JSON(http.StatusServiceUnavailable, common.NewErrorResponse("report storage is not configured"))
			return
		}

		name := c.Param("name")
		if name == "" || strings.Contains(name, "/") || !strings.HasSuffix(name, ".xlsx") {
			c.JSON(http.StatusBadRequest, common.NewErrorResponse("invalid report name"))
			return
		}

		c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
		c.Header("Content-Type", xlsxContentType)
		if err := filesystem.ReadFile(reportBucket, "reports/"+name, c.Request.Context(), c.Writer); err != nil {
			c.JSON(http.StatusInternalServerError, common.NewErrorResponse(err.Error()))
		}
	}
}
