package handlers

import (
	"fmt"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"presensi.app/presensi/infrastructure/filesystem"
	"presensi.app/presensi/tracker/store"
	"presensi.app/presensi/utils"
	"presensi.app/presensi/web/common"
)

func paramUint(c *gin.Context, name string) (uint, bool) {
	v, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, common.NewErrorResponse(fmt.Sprintf("invalid %s", name)))
		return 0, false
	}
	return uint(v), true
}

func queryUint(c *gin.Context, name string) uint {
	v, _ := strconv.ParseUint(c.Query(name), 10, 32)
	return uint(v)
}

func queryInt(c *gin.Context, name string) int {
	v, _ := strconv.Atoi(c.Query(name))
	return v
}

func ListStudentsHandler(st Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		students, err := st.ListStudents(c.Request.Context(), queryUint(c, "class_id"))
		if err != nil {
			c.JSON(http.StatusInternalServerError, common.NewErrorResponse(err.Error()))
			return
		}
		c.JSON(http.StatusOK, common.NewSuccessResponse(students))
	}
}

// UploadPhotoHandler stores a student photo in S3 and saves its URL on the
// student record. New attendance logs denormalize the URL from then on;
// existing logs keep the photo they were written with.
func UploadPhotoHandler(st Store, bucket string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if bucket == "" {
			c.JSON(http.StatusServiceUnavailable, common.NewErrorResponse("photo storage is not configured"))
			return
		}

		id, ok := paramUint(c, "id")
		if !ok {
			return
		}

		student, err := st.FindStudentByID(c.Request.Context(), id)
		if err != nil {
			c.JSON(http.StatusInternalServerError, common.NewErrorResponse(err.Error()))
			return
		}
		if student == nil {
			c.JSON(http.StatusNotFound, common.NewErrorResponse("student not found"))
			return
		}

		file, header, err := c.Request.FormFile("photo")
		if err != nil {
			c.JSON(http.StatusBadRequest, common.NewErrorResponse("photo is required"))
			return
		}
		defer file.Close()

		ext := strings.ToLower(filepath.Ext(header.Filename))
		contentType := "image/jpeg"
		if ext == ".png" {
			contentType = "image/png"
		}

		key := fmt.Sprintf("photos/%s%s", student.NIS, ext)
		if err := filesystem.WriteFile(bucket, key, contentType, c.Request.Context(), file); err != nil {
			c.JSON(http.StatusInternalServerError, common.NewErrorResponse(err.Error()))
			return
		}

		url := fmt.Sprintf("https://%s.s3.amazonaws.com/%s", bucket, key)
		if err := st.UpdateStudentPhoto(c.Request.Context(), id, url); err != nil {
			c.JSON(http.StatusInternalServerError, common.NewErrorResponse(err.Error()))
			return
		}

		c.JSON(http.StatusOK, common.NewSuccessResponse(gin.H{"photo_url": url}))
	}
}

// SearchLogsHandler is the admin log browser. All filters are optional
// query params; results are newest first.
func SearchLogsHandler(st Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		q := store.LogQuery{
			From:      c.Query("from"),
			To:        c.Query("to"),
			ClassName: c.Query("class_name"),
			Status:    c.Query("status"),
			Type:      c.Query("type"),
			StudentID: queryUint(c, "student_id"),
			Limit:     queryInt(c, "limit"),
			Offset:    queryInt(c, "offset"),
		}

		logs, total, err := st.SearchLogs(c.Request.Context(), q)
		if err != nil {
			c.JSON(http.StatusInternalServerError, common.NewErrorResponse(err.Error()))
			return
		}
		c.JSON(http.StatusOK, common.NewSearchResponse(logs, total))
	}
}

// TodayLogsHandler feeds the live dashboard at the school gate.
func TodayLogsHandler(st Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		date := c.Query("date")
		if date == "" {
			date = utils.CivilDate(utils.JakartaNow())
		}
		logs, err := st.LogsForDate(c.Request.Context(), date)
		if err != nil {
			c.JSON(http.StatusInternalServerError, common.NewErrorResponse(err.Error()))
			return
		}
		c.JSON(http.StatusOK, common.NewSuccessResponse(gin.H{
			"date": date,
			"logs": logs,
		}))
	}
}
