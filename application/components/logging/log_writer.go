package logging

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

const (
	dailyTagLayout = "20060102"
	fineTagLayout  = "20060102150405"
)

// intervalRotatingWriter opens <base>.log.<tag> and switches files every
// RotateInterval. Tag is a date for intervals >= 24h, else a timestamp.
type intervalRotatingWriter struct {
	mu        sync.Mutex
	dir       string
	baseName  string
	rotateCfg *RotateConfig
	now       func() time.Time

	currentFile *os.File
	openedAt    time.Time
}

func newIntervalRotatingWriter(dir, baseName string, rc *RotateConfig) (*intervalRotatingWriter, error) {
	if rc == nil || rc.RotateInterval <= 0 {
		return nil, fmt.Errorf("invalid rotate interval: %v", rc)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create log dir: %w", err)
	}
	w := &intervalRotatingWriter{dir: dir, baseName: baseName, rotateCfg: rc, now: time.Now}
	if err := w.rotateIfNeededLocked(w.now()); err != nil {
		return nil, err
	}
	return w, nil
}

func (w *intervalRotatingWriter) layout() string {
	if w.rotateCfg.RotateInterval >= 24*time.Hour {
		return dailyTagLayout
	}
	return fineTagLayout
}

func (w *intervalRotatingWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if err := w.rotateIfNeededLocked(w.now()); err != nil {
		return 0, err
	}
	return w.currentFile.Write(p)
}

func (w *intervalRotatingWriter) Sync() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.currentFile != nil {
		return w.currentFile.Sync()
	}
	return nil
}

func (w *intervalRotatingWriter) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.currentFile == nil {
		return nil
	}
	err := w.currentFile.Close()
	w.currentFile = nil
	return err
}

func (w *intervalRotatingWriter) rotateIfNeededLocked(now time.Time) error {
	if w.currentFile != nil {
		if now.Sub(w.openedAt) < w.rotateCfg.RotateInterval {
			return nil
		}
		_ = w.currentFile.Sync()
		_ = w.currentFile.Close()
	}
	path := filepath.Join(w.dir, fmt.Sprintf("%s.log.%s", w.baseName, now.Format(w.layout())))
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("open rotated log file: %w", err)
	}
	w.currentFile = f
	w.openedAt = now

	if w.rotateCfg.CleanupEnabled && w.rotateCfg.MaxAge > 0 {
		w.cleanupOldLocked(now)
	}
	return nil
}

// cleanupOldLocked removes rotated files whose tag is older than MaxAge.
func (w *intervalRotatingWriter) cleanupOldLocked(now time.Time) {
	entries, err := os.ReadDir(w.dir)
	if err != nil {
		return
	}
	cutoff := now.Add(-w.rotateCfg.MaxAge)
	prefix := w.baseName + ".log."
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasPrefix(name, prefix) {
			continue
		}
		tag := strings.TrimPrefix(name, prefix)
		var layout string
		switch len(tag) {
		case len(dailyTagLayout):
			layout = dailyTagLayout
		case len(fineTagLayout):
			layout = fineTagLayout
		default:
			continue
		}
		stamp, err := time.ParseInLocation(layout, tag, now.Location())
		if err != nil {
			continue
		}
		if stamp.Before(cutoff) {
			_ = os.Remove(filepath.Join(w.dir, name))
		}
	}
}
