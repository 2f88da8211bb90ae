package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"todo-gether/internal/storage"
)

// ErrExportDisabled is returned when no snapshot bucket is configured.
var ErrExportDisabled = errors.New("dashboard export is not configured")

// ExportService stores dashboard snapshots in object storage.
type ExportService interface {
	Enabled() bool
	Export(ctx context.Context, snapshot []byte) (string, error)
	List(ctx context.Context) ([]storage.ObjectInfo, error)
}

type exportService struct {
	storage storage.Service
	opts    storage.UploadOptions
	now     func() time.Time
}

// NewExportService returns a disabled service when store is nil or the
// bucket is empty.
func NewExportService(store storage.Service, bucket, keyPrefix string) ExportService {
	return &exportService{
		storage: store,
		opts: storage.UploadOptions{
			Bucket:      bucket,
			KeyPrefix:   keyPrefix,
			ContentType: "application/json",
		},
		now: time.Now,
	}
}

func (s *exportService) Enabled() bool {
	return s.storage != nil && s.opts.Bucket != ""
}

// Export uploads snapshot as <prefix>/YYYY/MM/DD/dashboard-<unix>-<uuid>.json.
func (s *exportService) Export(ctx context.Context, snapshot []byte) (string, error) {
	if !s.Enabled() {
		return "", ErrExportDisabled
	}
	now := s.now().UTC()
	name := fmt.Sprintf("%s/dashboard-%d-%s.json", now.Format("2006/01/02"), now.Unix(), uuid.NewString())

	location, err := s.storage.Upload(ctx, name, bytes.NewReader(snapshot), s.opts)
	if err != nil {
		return "", fmt.Errorf("export dashboard: %w", err)
	}
	return location, nil
}

func (s *exportService) List(ctx context.Context) ([]storage.ObjectInfo, error) {
	if !s.Enabled() {
		return nil, ErrExportDisabled
	}
	return s.storage.ListObjects(ctx, s.opts.Bucket, storage.ObjectKey(s.opts.KeyPrefix, ""))
}
