package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/aws/aws-lambda-go/lambda"
	"presensi.app/presensi/core"
	"presensi.app/presensi/infrastructure/communication"
	"presensi.app/presensi/infrastructure/devops"
	tracker "presensi.app/presensi/tracker/core"
	"presensi.app/presensi/tracker/store"
	"presensi.app/presensi/utils"
)

// ReconcileEvent is the EventBridge payload. The schedule fires every 15
// minutes during school hours; DryRun reports what would be written without
// touching the database, Email additionally mails the summary when entries
// were created.
type ReconcileEvent struct {
	DryRun bool `json:"dryRun"`
	Email  bool `json:"email"`
}

func Reconcile(ctx context.Context, cfg *devops.AppConfig, event ReconcileEvent) (tracker.SweepStats, error) {
	dm, err := core.New(cfg.Database.GetDSN(), 2)
	if err != nil {
		return tracker.SweepStats{}, fmt.Errorf("failed to create database manager: %w", err)
	}
	dm.LogLevel = core.LogLevelError
	defer dm.Close()

	st := store.NewGormStore(dm.DB())

	if event.DryRun {
		now := utils.JakartaNow()
		stats := tracker.SweepStats{Date: utils.CivilDate(now)}

		settings, err := st.Settings(ctx)
		if err != nil {
			return stats, fmt.Errorf("load settings: %w", err)
		}
		todays, err := st.LogsForDate(ctx, stats.Date)
		if err != nil {
			return stats, fmt.Errorf("load logs: %w", err)
		}

		missing := tracker.MissingCheckouts(now, settings, todays)
		stats.Created = len(missing)
		for _, l := range missing {
			stats.Students = append(stats.Students, l.StudentName)
		}
		fmt.Printf("[INFO] Dry run: %d missing checkout(s) would be recorded\n", stats.Created)
		return stats, nil
	}

	stats, err := tracker.NewService(st).Sweep(ctx)
	if err != nil {
		return stats, err
	}
	fmt.Printf("[INFO] Sweep %s: recorded %d missing checkout(s)\n", stats.Date, stats.Created)
	return stats, nil
}

func notify(ctx context.Context, cfg *devops.AppConfig, event ReconcileEvent, stats tracker.SweepStats) {
	if os.Getenv("SLACK_BOT_TOKEN") != "" {
		slack := communication.ConnectSlack()
		if err := slack.SweepSummary(stats.Date, stats.Created, stats.Students); err != nil {
			fmt.Printf("[ERROR] slack notification failed: %v\n", err)
		}
	}

	if !event.Email || stats.Created == 0 || cfg.ReportEmail == "" {
		return
	}
	body := fmt.Sprintf("Sweep for %s recorded %d missing checkout(s):\n\n%s\n",
		stats.Date, stats.Created, strings.Join(stats.Students, "\n"))
	err := communication.SendEmail(ctx, &communication.EmailInfo{
		From:    cfg.SenderEmail,
		To:      []string{cfg.ReportEmail},
		Subject: fmt.Sprintf("Presensi: missing checkouts for %s", stats.Date),
		Text:    body,
	})
	if err != nil {
		fmt.Printf("[ERROR] email notification failed: %v\n", err)
	}
}

func HandleRequest(ctx context.Context, event ReconcileEvent) (tracker.SweepStats, error) {
	eventJson, _ := json.Marshal(event)
	fmt.Printf("[INFO] Event: %s\n", string(eventJson))

	cfg, err := devops.LoadConfig(ctx)
	if err != nil {
		return tracker.SweepStats{}, fmt.Errorf("failed to load config: %w", err)
	}

	stats, err := Reconcile(ctx, cfg, event)
	if err != nil {
		return stats, err
	}

	if !event.DryRun {
		notify(ctx, cfg, event, stats)
	}
	return stats, nil
}

func main() {
	if os.Getenv("AWS_LAMBDA_FUNCTION_NAME") != "" {
		lambda.Start(HandleRequest)
	} else {
		ctx := context.Background()
		cfg, err := devops.LoadConfig(ctx)
		if err != nil {
			fmt.Printf("[ERROR] %v\n", err)
			os.Exit(1)
		}

		stats, err := Reconcile(ctx, cfg, ReconcileEvent{DryRun: true})
		if err != nil {
			fmt.Printf("[ERROR] %v\n", err)
			os.Exit(1)
		}
		resJson, _ := json.MarshalIndent(stats, "", "  ")
		fmt.Printf("[SUCCESS] Results:\n%s\n", string(resJson))
	}
}
