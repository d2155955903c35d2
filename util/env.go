package util

import (
	"os"
	"path/filepath"
	"strings"
)

func GetenvDefault(key, defaultValue string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return defaultValue
}

// ExpandHomeDir replaces a leading "~/" with the home directory of the
// current user. The filename is returned unchanged when home is unknown.
func ExpandHomeDir(filename string) string {
	if !strings.HasPrefix(filename, "~/") {
		return filename
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filename
	}
	return filepath.Join(home, filename[2:])
}
