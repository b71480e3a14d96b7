package media_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/streamhub/backend/internal/media"
)

func TestObjectID(t *testing.T) {
	tests := []struct {
		name    string
		url     string
		kind    media.Kind
		want    string
		wantErr string
	}{
		{
			name: "image url",
			url:  "https://media.example.com/assets/abc123.png",
			kind: media.KindImage,
			want: "abc123",
		},
		{
			name: "video url",
			url:  "https://media.example.com/v/clip-42.mp4",
			kind: media.KindVideo,
			want: "clip-42",
		},
		{
			name: "uppercase extension is normalized",
			url:  "https://media.example.com/photo.JPG",
			kind: media.KindImage,
			want: "photo",
		},
		{
			name: "id keeps dots before the last one",
			url:  "https://media.example.com/archive.tar.mp4",
			kind: media.KindVideo,
			want: "archive.tar",
		},
		{
			name:    "unrecognized extension rejected",
			url:     "https://media.example.com/notes.txt",
			kind:    media.KindImage,
			wantErr: "unrecognized image extension",
		},
		{
			name:    "video extension rejected for image kind",
			url:     "https://media.example.com/clip.mp4",
			kind:    media.KindImage,
			wantErr: "unrecognized image extension",
		},
		{
			name:    "no extension rejected",
			url:     "https://media.example.com/noext",
			kind:    media.KindVideo,
			wantErr: "no file extension",
		},
		{
			name:    "trailing dot rejected",
			url:     "https://media.example.com/weird.",
			kind:    media.KindVideo,
			wantErr: "no file extension",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, err := media.ObjectID(tt.url, tt.kind)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, id)
		})
	}
}
