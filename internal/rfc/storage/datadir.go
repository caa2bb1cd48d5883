package storage

import (
	"path/filepath"

	"github.com/adrg/xdg"
)

const (
	// appDirName is the subdirectory within the user's cache directory owned by the bot
	appDirName = "vuebot"
	// cacheFileName is the file the RFC generation is persisted to
	cacheFileName = "rfcs.yaml"
)

// CacheDir returns the directory the bot keeps its cache files in
func CacheDir() string {
	return filepath.Join(xdg.CacheHome, appDirName)
}

// DefaultPath returns the default location of the persisted RFC generation
func DefaultPath() string {
	return filepath.Join(CacheDir(), cacheFileName)
}
