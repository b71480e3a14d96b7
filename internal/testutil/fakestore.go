package testutil

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/google/uuid"

	"github.com/streamhub/backend/internal/media"
)

// FakeStore is an in-memory media.Store. It hands out stable fake URLs and
// records deletions so tests can assert on best-effort cleanup.
type FakeStore struct {
	mu       sync.Mutex
	uploads  map[string]media.UploadInfo
	deleted  []string
	Duration float64
	FailNext bool
}

func NewFakeStore() *FakeStore {
	return &FakeStore{uploads: make(map[string]media.UploadInfo)}
}

func (s *FakeStore) Upload(ctx context.Context, localPath string) (*media.UploadResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	defer os.Remove(localPath)

	if s.FailNext {
		s.FailNext = false
		return nil, errors.New("fake store: upload failed")
	}

	ext := filepath.Ext(localPath)
	if ext == "" {
		ext = ".png"
	}
	url := fmt.Sprintf("https://media.test/%s%s", uuid.New().String(), ext)
	info := media.UploadInfo{FileName: filepath.Base(localPath), ContentType: "application/octet-stream"}
	s.uploads[url] = info

	return &media.UploadResult{URL: url, Duration: s.Duration, Info: info}, nil
}

func (s *FakeStore) Delete(ctx context.Context, rawURL string, kind media.Kind) error {
	if _, err := media.ObjectID(rawURL, kind); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.uploads, rawURL)
	s.deleted = append(s.deleted, rawURL)
	return nil
}

// Deleted returns the URLs Delete was called with, in order.
func (s *FakeStore) Deleted() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.deleted...)
}
