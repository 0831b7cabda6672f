package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/dmitrijs2005/todolists/internal/common"
	sc "github.com/dmitrijs2005/todolists/internal/server/config"
	"github.com/dmitrijs2005/todolists/internal/server/models"
	"github.com/google/uuid"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

const exportURLValidity = 15 * time.Minute

var (
	loadDefaultAWSConfig = config.LoadDefaultConfig

	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return s3.NewFromConfig(cfg, optFns...)
	}

	newS3PresignClient = func(c *s3.Client) *s3.PresignClient {
		return s3.NewPresignClient(c)
	}

	putObject = func(c *s3.Client, ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
		return c.PutObject(ctx, in, optFns...)
	}

	presignGetObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return pc.PresignGetObject(ctx, in, optFns...)
	}
)

// ListSnapshot is the JSON document written for an exported list.
type ListSnapshot struct {
	ID          string         `json:"id"`
	Title       string         `json:"title"`
	Description string         `json:"description"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	ExportedAt  time.Time      `json:"exported_at"`
	Tasks       []TaskSnapshot `json:"tasks"`
}

type TaskSnapshot struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	DueDate     string     `json:"due_date"`
	Status      string     `json:"status"`
	Priority    string     `json:"priority"`
	Completed   bool       `json:"completed"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

func NewListSnapshot(list *models.List, tasks []*models.Task, at time.Time) *ListSnapshot {
	snap := &ListSnapshot{
		ID:          list.ID,
		Title:       list.Title,
		Description: list.Description,
		CreatedAt:   list.CreatedAt,
		UpdatedAt:   list.UpdatedAt,
		ExportedAt:  at,
		Tasks:       make([]TaskSnapshot, 0, len(tasks)),
	}
	for _, t := range tasks {
		snap.Tasks = append(snap.Tasks, TaskSnapshot{
			ID:          t.ID,
			Title:       t.Title,
			Description: t.Description,
			DueDate:     t.DueDate.Format("2006-01-02"),
			Status:      string(t.Status),
			Priority:    string(t.Priority),
			Completed:   t.Completed,
			CompletedAt: t.CompletedAt,
			CreatedAt:   t.CreatedAt,
		})
	}
	return snap
}

// ExportService writes list snapshots to S3-compatible storage and hands
// out short-lived download links.
type ExportService struct {
	tasks  *TaskService
	config *sc.Config
	now    func() time.Time
}

func NewExportService(tasks *TaskService, config *sc.Config) *ExportService {
	return &ExportService{tasks: tasks, config: config, now: time.Now}
}

func (s *ExportService) Enabled() bool { return s.config.S3Bucket != "" }

func exportKey(userID string, d time.Time) string {
	return fmt.Sprintf("exports/%s/%d/%d/%d/%v.json", userID, d.Year(), d.Month(), d.Day(), uuid.New())
}

func (s *ExportService) getClient(ctx context.Context) (*s3.Client, error) {
	cfg, err := loadDefaultAWSConfig(ctx,
		config.WithRegion(s.config.S3Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			s.config.S3RootUser,
			s.config.S3RootPassword,
			"",
		)))
	if err != nil {
		return nil, err
	}

	return newS3ClientFromConfig(cfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(s.config.S3BaseEndpoint)
		o.UsePathStyle = true
	}), nil
}

// ExportList uploads a JSON snapshot of an owned list and returns a
// presigned GET URL for it.
func (s *ExportService) ExportList(ctx context.Context, userID, listID string) (string, error) {
	if !s.Enabled() {
		return "", common.ErrExportDisabled
	}

	list, tasks, err := s.tasks.ListForList(ctx, userID, listID)
	if err != nil {
		return "", err
	}

	now := s.now()
	body, err := json.MarshalIndent(NewListSnapshot(list, tasks, now), "", "  ")
	if err != nil {
		return "", fmt.Errorf("error encoding snapshot: %w", err)
	}

	client, err := s.getClient(ctx)
	if err != nil {
		return "", err
	}

	bucket := s.config.S3Bucket
	key := exportKey(userID, now)

	_, err = putObject(client, ctx, &s3.PutObjectInput{
		Bucket:      &bucket,
		Key:         &key,
		Body:        bytes.NewReader(body),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return "", fmt.Errorf("error uploading snapshot: %w", err)
	}

	req, err := presignGetObject(newS3PresignClient(client), ctx, &s3.GetObjectInput{
		Bucket: &bucket,
		Key:    &key,
	}, s3.WithPresignExpires(exportURLValidity))
	if err != nil {
		return "", fmt.Errorf("error presigning snapshot: %w", err)
	}

	return req.URL, nil
}
