package main

import (
	"context"
	"encoding/base64"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"presensi.app/presensi/core"
	"presensi.app/presensi/infrastructure/communication"
	"presensi.app/presensi/infrastructure/devops"
	tracker "presensi.app/presensi/tracker/core"
	"presensi.app/presensi/tracker/store"
	"presensi.app/presensi/tracker/web/handlers"
	"presensi.app/presensi/web/middlewares"
)

const sweepInterval = 15 * time.Minute

func main() {
	godotenv.Load()
	ctx := context.Background()

	cfg, err := devops.LoadConfig(ctx)
	if err != nil {
		log.Fatal(err)
	}

	dm, err := core.New(cfg.Database.GetDSN(), 10)
	if err != nil {
		log.Fatal(err)
	}
	defer dm.Close()

	st := store.NewGormStore(dm.DB())
	if err := st.AutoMigrate(); err != nil {
		log.Fatal(err)
	}
	svc := tracker.NewService(st)

	jwtSecret, err := base64.StdEncoding.DecodeString(cfg.JWTSecret)
	if err != nil {
		log.Fatal("Failed to decode JWT secret:", err)
	}

	go runSweeper(ctx, svc)

	r := gin.Default()

	if os.Getenv("GIN_MODE") != "release" {
		r.Use(cors.New(cors.Config{
			AllowOrigins:     []string{"http://localhost:5173"},
			AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
			AllowCredentials: true,
		}))
	}

	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"message": "pong",
		})
	})

	protected := r.Group("/api/presensi/v1.0")
	protected.Use(middlewares.Authentication(jwtSecret))
	{
		protected.POST("/scan", handlers.ScanHandler(svc))
		protected.POST("/scan/import", handlers.ImportScansHandler(svc))

		protected.GET("/students", handlers.ListStudentsHandler(st))
		protected.GET("/logs", handlers.SearchLogsHandler(st))
		protected.GET("/logs/today", handlers.TodayLogsHandler(st))

		admin := protected.Group("")
		admin.Use(middlewares.RequireRole("admin"))
		{
			admin.GET("/settings", handlers.GetSettingsHandler(st))
			admin.PUT("/settings/hours", handlers.SaveOperatingHoursHandler(st))
			admin.PUT("/settings/holidays", handlers.ReplaceHolidaysHandler(st))
			admin.PUT("/settings/dismissals", handlers.ReplaceEarlyDismissalsHandler(st))

			admin.POST("/students/:id/status", handlers.ManualStatusHandler(svc))
			admin.POST("/students/:id/photo", handlers.UploadPhotoHandler(st, cfg.PhotoBucket))
			admin.GET("/reports/monthly", handlers.MonthlyReportHandler(st, cfg.ReportBucket))
			admin.GET("/reports/archive", handlers.ListArchivedReportsHandler(cfg.ReportBucket))
			admin.GET("/reports/archive/:name", handlers.DownloadArchivedReportHandler(cfg.ReportBucket))
		}
	}

	r.Run("0.0.0.0:8090")
}

// runSweeper backfills missing checkouts every tick. The sweep re-derives
// its work from stored logs, so overlapping runs with the scheduled lambda
// are harmless.
func runSweeper(ctx context.Context, svc *tracker.Service) {
	var slack *communication.Slack
	if os.Getenv("SLACK_BOT_TOKEN") != "" {
		slack = communication.ConnectSlack()
	}

	ticker := time.NewTicker(sweepInterval)
	defer ticker.Stop()

	for range ticker.C {
		stats, err := svc.Sweep(ctx)
		if err != nil {
			fmt.Printf("[ERROR] sweep failed: %v\n", err)
			if slack != nil {
				slack.Error(fmt.Sprintf("Presensi sweep failed: %v", err))
			}
			continue
		}
		if stats.Created > 0 {
			fmt.Printf("[INFO] sweep %s: recorded %d missing checkout(s)\n", stats.Date, stats.Created)
			if slack != nil {
				slack.SweepSummary(stats.Date, stats.Created, stats.Students)
			}
		}
	}
}
