// Package backup exports snapshots of the local slot store, either to
// S3-compatible object storage or to a local directory.
package backup

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/eurisssow03/wc-helper-sub001/internal/client/slots"
	"github.com/eurisssow03/wc-helper-sub001/internal/filex"
	"github.com/eurisssow03/wc-helper-sub001/internal/logging"
)

// Test seams.
var (
	loadDefaultAWSConfig  = config.LoadDefaultConfig
	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return s3.NewFromConfig(cfg, optFns...)
	}
)

// ExportedKeys are the slots included in a snapshot. The active session is
// deliberately left out.
var ExportedKeys = []string{slots.KeyUsers, slots.KeySettings, slots.KeyFAQs, slots.KeyHomestays, slots.KeyLogs}

// ErrNotConfigured is returned when no bucket or directory is set.
var ErrNotConfigured = errors.New("backup bucket not configured")

// ObjectPutter is the subset of *s3.Client the exporter uses.
type ObjectPutter interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Options locates the object store.
type S3Options struct {
	Endpoint  string
	Region    string
	AccessKey string
	SecretKey string
}

// NewS3Client builds a path-style client with static credentials, suitable
// for MinIO and other S3-compatible stores.
func NewS3Client(ctx context.Context, o S3Options) (*s3.Client, error) {
	cfg, err := loadDefaultAWSConfig(ctx,
		config.WithRegion(o.Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(o.AccessKey, o.SecretKey, "")),
	)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	return newS3ClientFromConfig(cfg, func(so *s3.Options) {
		if o.Endpoint != "" {
			so.BaseEndpoint = aws.String(o.Endpoint)
		}
		so.UsePathStyle = true
	}), nil
}

// Snapshot is the uploaded document.
type Snapshot struct {
	ExportedAt time.Time                  `json:"exportedAt"`
	Slots      map[string]json.RawMessage `json:"slots"`
}

type S3Exporter struct {
	store  slots.Store
	client ObjectPutter
	bucket string
	log    logging.Logger
	now    func() time.Time
}

func NewS3Exporter(store slots.Store, client ObjectPutter, bucket string, log logging.Logger) *S3Exporter {
	if log == nil {
		log = logging.Nop()
	}
	return &S3Exporter{store: store, client: client, bucket: bucket, log: log, now: time.Now}
}

// Export uploads a snapshot and returns its object key.
func (e *S3Exporter) Export(ctx context.Context) (string, error) {
	if e.bucket == "" || e.client == nil {
		return "", ErrNotConfigured
	}

	snap, body, err := buildSnapshot(ctx, e.store, e.log, e.now)
	if err != nil {
		return "", err
	}

	objectKey := fmt.Sprintf("snapshots/%s.json", snap.ExportedAt.Format(time.RFC3339))
	_, err = e.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(e.bucket),
		Key:         aws.String(objectKey),
		Body:        bytes.NewReader(body),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return "", fmt.Errorf("upload snapshot: %w", err)
	}

	e.log.Info(ctx, "snapshot uploaded", "bucket", e.bucket, "key", objectKey, "slots", len(snap.Slots))
	return objectKey, nil
}

// DirExporter writes snapshots as files into a local directory.
type DirExporter struct {
	store slots.Store
	dir   string
	log   logging.Logger
	now   func() time.Time
}

func NewDirExporter(store slots.Store, dir string, log logging.Logger) *DirExporter {
	if log == nil {
		log = logging.Nop()
	}
	return &DirExporter{store: store, dir: dir, log: log, now: time.Now}
}

// Export writes a snapshot file and returns its path.
func (e *DirExporter) Export(ctx context.Context) (string, error) {
	if e.dir == "" {
		return "", ErrNotConfigured
	}

	dir, err := filex.EnsureDir(e.dir)
	if err != nil {
		return "", err
	}

	snap, body, err := buildSnapshot(ctx, e.store, e.log, e.now)
	if err != nil {
		return "", err
	}

	path := filepath.Join(dir, fmt.Sprintf("snapshot-%s.json", snap.ExportedAt.Format("20060102T150405Z")))
	if err := filex.WriteFileAtomic(path, body, 0o600); err != nil {
		return "", fmt.Errorf("write snapshot: %w", err)
	}

	e.log.Info(ctx, "snapshot written", "path", path, "slots", len(snap.Slots))
	return path, nil
}

// buildSnapshot reads ExportedKeys. Absent slots are omitted; slots that are
// not valid JSON are skipped with a warning.
func buildSnapshot(ctx context.Context, store slots.Store, log logging.Logger, now func() time.Time) (Snapshot, []byte, error) {
	snap := Snapshot{ExportedAt: now().UTC(), Slots: make(map[string]json.RawMessage, len(ExportedKeys))}
	for _, key := range ExportedKeys {
		raw, err := store.Get(ctx, key)
		if err != nil {
			return Snapshot{}, nil, fmt.Errorf("read slot %s: %w", key, err)
		}
		if raw == nil {
			continue
		}
		if !json.Valid(raw) {
			log.Warn(ctx, "skipping slot with invalid JSON", "key", key)
			continue
		}
		snap.Slots[key] = raw
	}

	body, err := json.Marshal(snap)
	if err != nil {
		return Snapshot{}, nil, err
	}
	return snap, body, nil
}
