package media

import (
	"context"
	"fmt"
	"log"
	"mime"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	"github.com/streamhub/backend/internal/config"
)

// S3Store implements Store against an S3-compatible object service.
type S3Store struct {
	client   *s3.Client
	uploader *manager.Uploader
	bucket   string
	baseURL  string
	prober   DurationProber
}

// NewS3Store configures an uploader targeting the provided object store.
func NewS3Store(ctx context.Context, cfg config.ObjectStoreConfig) (*S3Store, error) {
	if strings.TrimSpace(cfg.Bucket) == "" {
		return nil, fmt.Errorf("s3 store: bucket is required")
	}

	loadOpts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.Region),
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if strings.TrimSpace(cfg.Endpoint) != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
		o.UsePathStyle = true
	})

	uploader := manager.NewUploader(client, func(u *manager.Uploader) {
		u.PartSize = 5 * 1024 * 1024
		u.LeavePartsOnError = false
	})

	return &S3Store{
		client:   client,
		uploader: uploader,
		bucket:   cfg.Bucket,
		baseURL:  strings.TrimSuffix(cfg.PublicBaseURL, "/"),
		prober:   ProbeDuration,
	}, nil
}

// Upload pushes the spooled file to the bucket under a fresh key and removes
// the local copy, mirroring the original ingest flow where the temp file is
// unlinked on success and failure alike.
func (s *S3Store) Upload(ctx context.Context, localPath string) (*UploadResult, error) {
	defer os.Remove(localPath)

	f, err := os.Open(localPath)
	if err != nil {
		return nil, fmt.Errorf("s3 store: open %s: %w", localPath, err)
	}
	defer f.Close()

	stat, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("s3 store: stat %s: %w", localPath, err)
	}

	ext := strings.ToLower(filepath.Ext(localPath))
	contentType := mime.TypeByExtension(ext)
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	key := uuid.New().String() + ext
	_, err = s.uploader.Upload(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        f,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return nil, fmt.Errorf("s3 store: upload %s: %w", key, err)
	}

	result := &UploadResult{
		URL: key,
		Info: UploadInfo{
			FileName:    filepath.Base(localPath),
			ContentType: contentType,
			Size:        stat.Size(),
		},
	}
	if s.baseURL != "" {
		result.URL = fmt.Sprintf("%s/%s", s.baseURL, key)
	}
	if s.prober != nil && strings.HasPrefix(contentType, "video/") {
		result.Duration = s.prober(ctx, localPath)
	}
	return result, nil
}

// Delete is best-effort: a bad URL or extension is an error, a remote failure
// is logged and swallowed.
func (s *S3Store) Delete(ctx context.Context, rawURL string, kind Kind) error {
	id, err := ObjectID(rawURL, kind)
	if err != nil {
		return err
	}

	u, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("s3 store: parse url %q: %w", rawURL, err)
	}
	key := strings.TrimPrefix(u.Path, "/")
	if key == "" {
		key = path.Base(u.Path)
	}

	_, err = s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		log.Printf("ERROR [media.Delete] failed to delete object %s (%s): %v", id, kind, err)
	}
	return nil
}
