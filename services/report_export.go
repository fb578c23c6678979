package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awscfg "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/sirupsen/logrus"
	"github.com/xuri/excelize/v2"

	"classtrack_go/config"
	"classtrack_go/database"
	"classtrack_go/models"
)

// ReportExportService renders a generated report into an xlsx workbook and
// uploads it to S3.
type ReportExportService struct {
	awsConfig aws.Config
}

func NewReportExportService() *ReportExportService {
	cfg, err := awscfg.LoadDefaultConfig(context.Background(),
		awscfg.WithRegion(config.AppConfig.AWSRegion))
	if err != nil {
		logrus.WithError(err).Warn("Failed to load AWS config; report uploads disabled until configured")
	}
	return &ReportExportService{awsConfig: cfg}
}

// BuildWorkbook renders the report's stored data into xlsx bytes. The
// report must already be generated.
func (res *ReportExportService) BuildWorkbook(report *models.Report) ([]byte, error) {
	if !report.Generated || len(report.Data) == 0 {
		return nil, fmt.Errorf("report has not been generated")
	}

	f := excelize.NewFile()
	defer f.Close()

	switch report.Type {
	case "attendance":
		var data AttendanceReport
		if err := json.Unmarshal(report.Data, &data); err != nil {
			return nil, fmt.Errorf("failed to decode report data: %w", err)
		}
		if err := writeAttendanceSheet(f, "Sheet1", data); err != nil {
			return nil, err
		}
	case "grades":
		var data GradesReport
		if err := json.Unmarshal(report.Data, &data); err != nil {
			return nil, fmt.Errorf("failed to decode report data: %w", err)
		}
		if err := writeGradesSheet(f, "Sheet1", data); err != nil {
			return nil, err
		}
	case "behavior":
		var data BehaviorReport
		if err := json.Unmarshal(report.Data, &data); err != nil {
			return nil, fmt.Errorf("failed to decode report data: %w", err)
		}
		if err := writeBehaviorSheet(f, "Sheet1", data); err != nil {
			return nil, err
		}
	case "comprehensive":
		var data ComprehensiveReport
		if err := json.Unmarshal(report.Data, &data); err != nil {
			return nil, fmt.Errorf("failed to decode report data: %w", err)
		}
		if err := writeAttendanceSheet(f, "Sheet1", data.Attendance); err != nil {
			return nil, err
		}
		f.SetSheetName("Sheet1", "Attendance")
		if _, err := f.NewSheet("Grades"); err != nil {
			return nil, err
		}
		if err := writeGradesSheet(f, "Grades", data.Grades); err != nil {
			return nil, err
		}
		if _, err := f.NewSheet("Behavior"); err != nil {
			return nil, err
		}
		if err := writeBehaviorSheet(f, "Behavior", data.Behavior); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("unsupported report type: %s", report.Type)
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

// ExportAndUpload builds the workbook, uploads it to S3 and stamps the
// report's file URL. The workbook bytes are returned either way so callers
// can stream the file even when the upload is not configured.
func (res *ReportExportService) ExportAndUpload(report *models.Report) ([]byte, string, error) {
	content, err := res.BuildWorkbook(report)
	if err != nil {
		return nil, "", err
	}

	fileName := fmt.Sprintf("report_%d_%s_%s.xlsx", report.ID, report.Type, time.Now().Format("20060102_150405"))

	key := fmt.Sprintf("reports/%d/%s", report.TeacherID, fileName)
	url, err := res.upload(key, content)
	if err != nil {
		logrus.WithError(err).WithField("report_id", report.ID).
			Warn("Report upload failed; serving workbook without file URL")
		return content, fileName, nil
	}

	if err := database.DB.Model(&models.Report{}).
		Where("id = ?", report.ID).
		Update("file_url", url).Error; err != nil {
		logrus.WithError(err).WithField("report_id", report.ID).
			Warn("Failed to stamp report file URL")
	}
	report.FileURL = url

	return content, fileName, nil
}

func (res *ReportExportService) upload(key string, content []byte) (string, error) {
	if res.awsConfig.Region == "" {
		return "", fmt.Errorf("AWS not configured")
	}

	client := s3.NewFromConfig(res.awsConfig)
	bucket := config.AppConfig.S3BucketName

	_, err := client.PutObject(context.Background(), &s3.PutObjectInput{
		Bucket:      &bucket,
		Key:         &key,
		Body:        bytes.NewReader(content),
		ContentType: aws.String("application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"),
	})
	if err != nil {
		return "", err
	}

	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", bucket, config.AppConfig.AWSRegion, key), nil
}

func writeAttendanceSheet(f *excelize.File, sheet string, data AttendanceReport) error {
	headers := []interface{}{"Student ID", "Student", "Total Days", "Present", "Absent", "Late", "Excused", "Attendance Rate (%)"}
	if err := f.SetSheetRow(sheet, "A1", &headers); err != nil {
		return err
	}
	for i, row := range data.Rows {
		cell := fmt.Sprintf("A%d", i+2)
		values := []interface{}{row.StudentID, row.StudentName, row.TotalDays, row.PresentDays,
			row.AbsentDays, row.LateDays, row.ExcusedDays, row.AttendanceRate}
		if err := f.SetSheetRow(sheet, cell, &values); err != nil {
			return err
		}
	}
	return writeSummaryRows(f, sheet, len(data.Rows), [][2]interface{}{
		{"Total Students", data.Summary.TotalStudents},
		{"Average Attendance Rate", data.Summary.AverageAttendanceRate},
	})
}

func writeGradesSheet(f *excelize.File, sheet string, data GradesReport) error {
	headers := []interface{}{"Student ID", "Student", "Average Grade (%)", "Total Assignments", "Completed", "Completion Rate (%)"}
	if err := f.SetSheetRow(sheet, "A1", &headers); err != nil {
		return err
	}
	for i, row := range data.Rows {
		cell := fmt.Sprintf("A%d", i+2)
		values := []interface{}{row.StudentID, row.StudentName, row.AverageGrade,
			row.TotalAssignments, row.CompletedAssignments, row.CompletionRate}
		if err := f.SetSheetRow(sheet, cell, &values); err != nil {
			return err
		}
	}
	return writeSummaryRows(f, sheet, len(data.Rows), [][2]interface{}{
		{"Total Students", data.Summary.TotalStudents},
		{"Average Grade", data.Summary.AverageGrade},
	})
}

func writeBehaviorSheet(f *excelize.File, sheet string, data BehaviorReport) error {
	headers := []interface{}{"Student ID", "Student", "Positive", "Negative", "Total Points", "Behavior Score"}
	if err := f.SetSheetRow(sheet, "A1", &headers); err != nil {
		return err
	}
	for i, row := range data.Rows {
		cell := fmt.Sprintf("A%d", i+2)
		values := []interface{}{row.StudentID, row.StudentName, row.PositiveBehaviors,
			row.NegativeBehaviors, row.TotalPoints, row.BehaviorScore}
		if err := f.SetSheetRow(sheet, cell, &values); err != nil {
			return err
		}
	}
	return writeSummaryRows(f, sheet, len(data.Rows), [][2]interface{}{
		{"Total Students", data.Summary.TotalStudents},
		{"Average Behavior Score", data.Summary.AverageBehaviorScore},
	})
}

// writeSummaryRows appends labeled summary pairs one blank row below the data.
func writeSummaryRows(f *excelize.File, sheet string, dataRows int, pairs [][2]interface{}) error {
	start := dataRows + 3
	for i, pair := range pairs {
		cell := fmt.Sprintf("A%d", start+i)
		values := []interface{}{pair[0], pair[1]}
		if err := f.SetSheetRow(sheet, cell, &values); err != nil {
			return err
		}
	}
	return nil
}
