// Package media extracts audio tracks from video captures so they can be
// transcribed. The work is delegated to the ffmpeg binary through temp
// files; ffmpeg must be on PATH.
package media

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// ExtractAudio converts the audio track of the given video bytes to MP3.
func ExtractAudio(ctx context.Context, video []byte, format string) ([]byte, error) {
	tmpDir, err := os.MkdirTemp("", "capture-media-")
	if err != nil {
		return nil, fmt.Errorf("media: temp dir: %w", err)
	}
	defer os.RemoveAll(tmpDir)

	in := filepath.Join(tmpDir, "input."+format)
	out := filepath.Join(tmpDir, "audio.mp3")
	if err := os.WriteFile(in, video, 0o600); err != nil {
		return nil, fmt.Errorf("media: write input: %w", err)
	}

	cmd := exec.CommandContext(ctx, "ffmpeg", "-y", "-i", in, "-vn", "-acodec", "libmp3lame", out)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("media: ffmpeg: %w: %s", err, lastLine(stderr.String()))
	}

	mp3, err := os.ReadFile(out)
	if err != nil {
		return nil, fmt.Errorf("media: read output: %w", err)
	}
	return mp3, nil
}

// lastLine returns the final non-empty line of ffmpeg's stderr, which is
// where it reports the actual failure.
func lastLine(s string) string {
	lines := strings.Split(strings.TrimSpace(s), "\n")
	if len(lines) == 0 {
		return ""
	}
	return strings.TrimSpace(lines[len(lines)-1])
}
