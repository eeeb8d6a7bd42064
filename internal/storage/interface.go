package storage

import (
	"context"
)

// StorageClient defines the operations used to persist rendered figures
type StorageClient interface {
	// Close releases any connection held by the client
	Close() error

	// StoreFile writes fileData at filePath, creating parent directories
	StoreFile(ctx context.Context, filePath string, fileData []byte) error

	// GetFile retrieves a file from the specified path
	GetFile(ctx context.Context, filePath string) ([]byte, error)

	// FileExists checks if a file exists at the specified path
	FileExists(ctx context.Context, filePath string) (bool, error)

	// ListDir lists the files directly under dirPath, sorted by name
	ListDir(ctx context.Context, dirPath string) ([]string, error)
}
