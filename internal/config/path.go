// Package config resolves configuration values that reference the user's
// environment, such as database paths containing ~ or $HOME.
package config

import (
	"os"
	"path/filepath"
	"strings"
)

// ExpandPath resolves ~ and environment variable references in a path.
// A bare "~" or a "~/" prefix maps to the current user's home directory;
// $VAR references are substituted afterwards. If the home directory cannot
// be determined the ~ is left literal rather than erroring, since the
// caller will surface the unusable path anyway.
func ExpandPath(path string) string {
	switch {
	case path == "":
		return path
	case path == "~":
		if home, err := os.UserHomeDir(); err == nil {
			path = home
		}
	case strings.HasPrefix(path, "~/"):
		if home, err := os.UserHomeDir(); err == nil {
			path = filepath.Join(home, strings.TrimPrefix(path, "~/"))
		}
	}
	return os.ExpandEnv(path)
}
