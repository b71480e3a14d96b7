package media

import (
	"context"
	"log"
	"os/exec"
	"strconv"
	"strings"
	"time"
)

// DurationProber reports a media file's duration in seconds, 0 when unknown.
type DurationProber func(ctx context.Context, localPath string) float64

const probeTimeout = 15 * time.Second

// ProbeDuration shells out to ffprobe. Duration is advisory metadata, so any
// failure degrades to 0 rather than failing the ingest.
func ProbeDuration(ctx context.Context, localPath string) float64 {
	execCtx, cancel := context.WithTimeout(ctx, probeTimeout)
	defer cancel()

	out, err := exec.CommandContext(execCtx, "ffprobe",
		"-v", "error",
		"-show_entries", "format=duration",
		"-of", "default=noprint_wrappers=1:nokey=1",
		localPath,
	).Output()
	if err != nil {
		log.Printf("ERROR [media.ProbeDuration] ffprobe failed for %s: %v", localPath, err)
		return 0
	}

	duration, err := strconv.ParseFloat(strings.TrimSpace(string(out)), 64)
	if err != nil {
		log.Printf("ERROR [media.ProbeDuration] unparseable ffprobe output for %s: %v", localPath, err)
		return 0
	}
	return duration
}
