package storage

import (
	"path/filepath"

	"github.com/google/uuid"
)

// GenerateFileName generates a new file name based on the file extension
// It creates a UUID-based filename with the provided extension
func GenerateFileName(extension string) string {
	newUUID := uuid.New().String()
	// Ensure extension starts with a dot if it doesn't already
	if extension != "" && extension[0] != '.' {
		return newUUID + "." + extension
	}
	return newUUID + extension
}

// GenerateFileNameFrom generates a new file name preserving the extension of
// the original client-supplied filename
func GenerateFileNameFrom(originalName string) string {
	return GenerateFileName(filepath.Ext(originalName))
}
