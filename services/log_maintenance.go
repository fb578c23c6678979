package services

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awscfg "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"classtrack_go/config"
	"classtrack_go/database"
	"classtrack_go/middleware"
	"classtrack_go/models"
)

// LogMaintenanceService flushes Redis-queued activity logs to the database
// and archives expired rows to S3 before pruning them.
type LogMaintenanceService struct {
	cron      *cron.Cron
	awsConfig aws.Config
}

func NewLogMaintenanceService() *LogMaintenanceService {
	cfg, err := awscfg.LoadDefaultConfig(context.Background(),
		awscfg.WithRegion(config.AppConfig.AWSRegion))
	if err != nil {
		logrus.WithError(err).Warn("Failed to load AWS config; log archiving disabled until configured")
	}

	return &LogMaintenanceService{
		cron:      cron.New(),
		awsConfig: cfg,
	}
}

// Start schedules hourly maintenance and runs one pass immediately.
func (s *LogMaintenanceService) Start() error {
	if _, err := s.cron.AddFunc("@hourly", s.runMaintenance); err != nil {
		return fmt.Errorf("failed to schedule log maintenance: %w", err)
	}
	s.cron.Start()

	go s.runMaintenance()
	logrus.Info("Log maintenance started")
	return nil
}

func (s *LogMaintenanceService) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
}

func (s *LogMaintenanceService) runMaintenance() {
	if n, err := middleware.FlushQueuedLogs(); err != nil {
		logrus.WithError(err).Warn("Failed to flush queued activity logs")
	} else if n > 0 {
		logrus.Infof("Flushed %d queued activity logs", n)
	}

	if err := s.ArchiveOldLogs(config.AppConfig.LogRetentionDays); err != nil {
		logrus.WithError(err).Warn("Failed to archive old activity logs")
	}
}

// ArchiveOldLogs uploads logs older than daysOld to S3 as a zip, then
// deletes them from the database. The rows are only pruned after a
// successful upload.
func (s *LogMaintenanceService) ArchiveOldLogs(daysOld int) error {
	if daysOld < 7 {
		return fmt.Errorf("minimum archive age is 7 days")
	}

	cutoff := time.Now().AddDate(0, 0, -daysOld)

	var logs []models.ActivityLog
	batchSize := 1000
	for offset := 0; ; offset += batchSize {
		var batch []models.ActivityLog
		err := database.DB.
			Where("created_at < ?", cutoff).
			Limit(batchSize).
			Offset(offset).
			Find(&batch).Error
		if err != nil {
			return fmt.Errorf("failed to fetch logs for archiving: %w", err)
		}
		if len(batch) == 0 {
			break
		}
		logs = append(logs, batch...)
	}

	if len(logs) == 0 {
		return nil
	}

	fileName := fmt.Sprintf("activity_logs_%s.zip", cutoff.Format("2006-01-02"))
	buf, err := buildLogArchive(logs, fileName)
	if err != nil {
		return fmt.Errorf("failed to build log archive: %w", err)
	}

	key := fmt.Sprintf("logs/archived/%d/%02d/%s", cutoff.Year(), cutoff.Month(), fileName)
	if err := s.uploadArchive(key, buf); err != nil {
		return fmt.Errorf("failed to upload log archive: %w", err)
	}

	result := database.DB.Where("created_at < ?", cutoff).Delete(&models.ActivityLog{})
	if result.Error != nil {
		return fmt.Errorf("failed to prune archived logs: %w", result.Error)
	}

	logrus.Infof("Archived %d activity logs to %s, pruned %d rows", len(logs), key, result.RowsAffected)
	return nil
}

func buildLogArchive(logs []models.ActivityLog, fileName string) (*bytes.Buffer, error) {
	buf := new(bytes.Buffer)
	zw := zip.NewWriter(buf)

	logsFile, err := zw.Create("activity_logs.json")
	if err != nil {
		return nil, err
	}
	encoder := json.NewEncoder(logsFile)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(map[string]interface{}{
		"export_date":  time.Now().UTC(),
		"record_count": len(logs),
		"logs":         logs,
	}); err != nil {
		return nil, err
	}

	metaFile, err := zw.Create("metadata.json")
	if err != nil {
		return nil, err
	}
	if err := json.NewEncoder(metaFile).Encode(map[string]interface{}{
		"file_name":    fileName,
		"created_at":   time.Now().UTC(),
		"record_count": len(logs),
		"date_range": map[string]interface{}{
			"start": logs[0].CreatedAt,
			"end":   logs[len(logs)-1].CreatedAt,
		},
	}); err != nil {
		return nil, err
	}

	if err := zw.Close(); err != nil {
		return nil, err
	}
	return buf, nil
}

func (s *LogMaintenanceService) uploadArchive(key string, data *bytes.Buffer) error {
	if s.awsConfig.Region == "" {
		return fmt.Errorf("AWS not configured")
	}

	client := s3.NewFromConfig(s.awsConfig)
	bucket := config.AppConfig.S3BucketName

	_, err := client.PutObject(context.Background(), &s3.PutObjectInput{
		Bucket:      &bucket,
		Key:         &key,
		Body:        bytes.NewReader(data.Bytes()),
		ContentType: aws.String("application/zip"),
	})
	return err
}
