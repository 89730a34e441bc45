package store

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultDataDirPerOS(t *testing.T) {
	home, _ := os.UserHomeDir()

	tests := []struct {
		name string
		goos string
		env  map[string]string
		want string
	}{
		{
			name: "macos",
			goos: "darwin",
			want: filepath.Join(home, "Library", "Application Support", "plancanvas"),
		},
		{
			name: "linux without xdg",
			goos: "linux",
			env:  map[string]string{"XDG_DATA_HOME": ""},
			want: filepath.Join(home, ".local", "share", "plancanvas"),
		},
		{
			name: "linux with xdg",
			goos: "linux",
			env:  map[string]string{"XDG_DATA_HOME": "/srv/data"},
			want: filepath.Join("/srv/data", "plancanvas"),
		},
		{
			name: "windows local profile",
			goos: "windows",
			env:  map[string]string{"LOCALAPPDATA": `C:\Users\ada\AppData\Local`},
			want: filepath.Join(`C:\Users\ada\AppData\Local`, "plancanvas"),
		},
		{
			name: "windows roaming fallback",
			goos: "windows",
			env: map[string]string{
				"LOCALAPPDATA": "",
				"APPDATA":      `C:\Users\ada\AppData\Roaming`,
			},
			want: filepath.Join(`C:\Users\ada\AppData\Roaming`, "plancanvas"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			assert.Equal(t, tt.want, defaultDataDirForOS(tt.goos))
		})
	}
}
