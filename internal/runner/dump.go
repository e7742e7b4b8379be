package runner

import (
	"context"
	"log"
	"os"
)

// WatchDumps prints the scoreboard every time trigger fires, until the
// context ends. The signal handler only sends on the channel; all
// formatting and I/O happens here. With a path the dump replaces the
// file's contents, otherwise it goes to the logger.
func WatchDumps(ctx context.Context, trigger <-chan struct{}, sb *Scoreboard, path string, logger *log.Logger) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-trigger:
			text := sb.Snapshot().Format()
			if path == "" {
				logger.Printf("scoreboard:\n%s", text)
				continue
			}
			if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
				logger.Printf("scoreboard dump: %v", err)
			}
		}
	}
}
