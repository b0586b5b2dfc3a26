package devops

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
)

type DatabaseEntry struct {
	Name     string `yaml:"name"`
	Host     string `yaml:"host"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
}

func (db DatabaseEntry) GetDSN() string {
	// username:password@tcp(host:3306)/name?parseTime=true
	host := db.Host
	if !strings.Contains(host, ":") {
		host = host + ":3306"
	}
	return fmt.Sprintf("%s:%s@tcp(%s)/%s?parseTime=true", db.Username, db.Password, host, db.Name)
}

// AppConfig is stored as yaml in the SSM parameter "presensi-config".
// For local development every field can come from the environment instead,
// so a laptop never needs AWS credentials just to run the server.
type AppConfig struct {
	Database     DatabaseEntry `yaml:"database"`
	JWTSecret    string        `yaml:"jwt_secret"`
	PhotoBucket  string        `yaml:"photo_bucket"`
	ReportBucket string        `yaml:"report_bucket"`
	ReportEmail  string        `yaml:"report_email"`
	SenderEmail  string        `yaml:"sender_email"`
}

var (
	once    sync.Once
	appCfg  *AppConfig
	loadErr error
)

func LoadConfig(ctx context.Context) (*AppConfig, error) {
	once.Do(func() {
		if os.Getenv("DB_HOST") != "" {
			appCfg = configFromEnv()
			return
		}

		paramName := "presensi-config"

		cfg, err := config.LoadDefaultConfig(ctx)
		if err != nil {
			loadErr = fmt.Errorf("load aws config: %w", err)
			return
		}

		client := ssm.NewFromConfig(cfg)

		out, err := client.GetParameter(ctx, &ssm.GetParameterInput{
			Name:           aws.String(paramName),
			WithDecryption: aws.Bool(true),
		})
		if err != nil {
			loadErr = fmt.Errorf("get parameter %s: %w", paramName, err)
			return
		}
		if out.Parameter == nil || out.Parameter.Value == nil {
			loadErr = fmt.Errorf("parameter %s is empty", paramName)
			return
		}

		var parsed AppConfig
		if err := yaml.Unmarshal([]byte(*out.Parameter.Value), &parsed); err != nil {
			loadErr = fmt.Errorf("unmarshal yaml: %w", err)
			return
		}

		appCfg = &parsed
	})

	return appCfg, loadErr
}

func configFromEnv() *AppConfig {
	return &AppConfig{
		Database: DatabaseEntry{
			Name:     os.Getenv("DB_NAME"),
			Host:     os.Getenv("DB_HOST"),
			Username: os.Getenv("DB_USERNAME"),
			Password: os.Getenv("DB_PASSWORD"),
		},
		JWTSecret:    os.Getenv("JWT_SECRET"),
		PhotoBucket:  os.Getenv("PHOTO_BUCKET"),
		ReportBucket: os.Getenv("REPORT_BUCKET"),
		ReportEmail:  os.Getenv("REPORT_EMAIL"),
		SenderEmail:  os.Getenv("SENDER_EMAIL"),
	}
}
