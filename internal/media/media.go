// Package media is the ingest adapter boundary: it turns local files into
// durable public URLs and handles best-effort deletion of replaced objects.
package media

import (
	"context"
	"fmt"
	"net/url"
	"path"
	"strings"
)

type Kind string

const (
	KindImage Kind = "image"
	KindVideo Kind = "video"
)

// UploadInfo is the ingest metadata persisted alongside a video record.
type UploadInfo struct {
	FileName    string `json:"fileName"`
	ContentType string `json:"contentType"`
	Size        int64  `json:"size"`
}

type UploadResult struct {
	URL      string
	Duration float64
	Info     UploadInfo
}

type Store interface {
	// Upload pushes the file at localPath to the object store and returns its
	// public URL. The local file is removed whether or not the upload succeeds.
	Upload(ctx context.Context, localPath string) (*UploadResult, error)
	// Delete removes the object behind url. Remote failures are logged and
	// swallowed; an unrecognized URL or extension is reported as an error.
	Delete(ctx context.Context, rawURL string, kind Kind) error
}

var extensionsByKind = map[Kind]map[string]bool{
	KindImage: {
		"jpg": true, "jpeg": true, "png": true, "gif": true, "webp": true,
	},
	KindVideo: {
		"mp4": true, "mov": true, "webm": true, "mkv": true, "avi": true,
	},
}

// ObjectID derives the opaque object identifier from a stored URL: the last
// path segment with its extension stripped. The extension must be one the
// given kind recognizes.
func ObjectID(rawURL string, kind Kind) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("media: parse url %q: %w", rawURL, err)
	}

	segment := path.Base(u.Path)
	dot := strings.LastIndex(segment, ".")
	if dot <= 0 || dot == len(segment)-1 {
		return "", fmt.Errorf("media: no file extension in %q", segment)
	}

	ext := strings.ToLower(segment[dot+1:])
	allowed, ok := extensionsByKind[kind]
	if !ok {
		return "", fmt.Errorf("media: unknown kind %q", kind)
	}
	if !allowed[ext] {
		return "", fmt.Errorf("media: unrecognized %s extension %q", kind, ext)
	}

	return segment[:dot], nil
}
