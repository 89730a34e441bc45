package store

import (
	"os"
	"path/filepath"
	"runtime"
)

// DefaultDataDir picks where plan.md, the save history database, and the
// log file live when PLANCANVAS_DIR is not set: a plancanvas folder inside
// the platform's per-user data directory.
func DefaultDataDir() string {
	return defaultDataDirForOS(runtime.GOOS)
}

func defaultDataDirForOS(goos string) string {
	home, _ := os.UserHomeDir()

	switch goos {
	case "darwin":
		return filepath.Join(home, "Library", "Application Support", "plancanvas")
	case "windows":
		// Prefer the local profile; roam only when that is all there is
		if dir := os.Getenv("LOCALAPPDATA"); dir != "" {
			return filepath.Join(dir, "plancanvas")
		}
		if dir := os.Getenv("APPDATA"); dir != "" {
			return filepath.Join(dir, "plancanvas")
		}
		return filepath.Join(home, "plancanvas")
	default:
		// linux and the BSDs follow the XDG base directory spec
		if dir := os.Getenv("XDG_DATA_HOME"); dir != "" {
			return filepath.Join(dir, "plancanvas")
		}
		return filepath.Join(home, ".local", "share", "plancanvas")
	}
}
