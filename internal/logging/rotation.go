package logging

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

const logFilePrefix = "btrbk-restore_"

// rotate deletes the oldest "btrbk-restore_*.log" files in dir until at most
// maxFiles remain. Other files are never touched. Age is the modification time.
func rotate(dir string, maxFiles int) error {
	if maxFiles <= 0 {
		return nil
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return err
	}
	type logEntry struct {
		path    string
		modTime time.Time
	}
	var logs []logEntry
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasPrefix(name, logFilePrefix) || !strings.HasSuffix(name, ".log") {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		logs = append(logs, logEntry{path: filepath.Join(dir, name), modTime: info.ModTime()})
	}
	if len(logs) <= maxFiles {
		return nil
	}
	sort.Slice(logs, func(i, j int) bool {
		if logs[i].modTime.Equal(logs[j].modTime) {
			return logs[i].path < logs[j].path
		}
		return logs[i].modTime.Before(logs[j].modTime)
	})
	for _, l := range logs[:len(logs)-maxFiles] {
		_ = os.Remove(l.path)
	}
	return nil
}
