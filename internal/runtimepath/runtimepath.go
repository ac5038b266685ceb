// Package runtimepath locates per-user runtime files: the inspection socket
// and the default log file.
package runtimepath

import (
	"fmt"
	"os"
	"path/filepath"
)

const appName = "idealdisplay"

// Dir returns the per-user runtime directory. It prefers XDG_RUNTIME_DIR,
// then /run/user/<uid>, and finally creates /tmp/idealdisplay-<uid>.
func Dir() (string, error) {
	if dir := os.Getenv("XDG_RUNTIME_DIR"); dir != "" {
		return dir, nil
	}

	uid := os.Getuid()
	runUser := fmt.Sprintf("/run/user/%d", uid)
	if info, err := os.Stat(runUser); err == nil && info.IsDir() {
		return runUser, nil
	}

	tmp := fmt.Sprintf("/tmp/%s-%d", appName, uid)
	if err := os.MkdirAll(tmp, 0o700); err != nil {
		return "", fmt.Errorf("create runtime dir: %w", err)
	}
	return tmp, nil
}

// SocketPath returns the inspection socket path.
func SocketPath() (string, error) {
	return join(appName + ".sock")
}

// LogPath is where the terminal backend logs when no log_file is set.
func LogPath() (string, error) {
	return join(appName + ".log")
}

func join(name string) (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, name), nil
}
