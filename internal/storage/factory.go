package storage

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"

	"easyplot/internal/config"
)

// DeploymentMode represents where figures are stored
type DeploymentMode string

const (
	DeploymentLocal DeploymentMode = "local"
	DeploymentGCS   DeploymentMode = "gcs"
)

// NewStorageClient creates a storage client based on deployment mode and configuration
func NewStorageClient(ctx context.Context, deploymentMode DeploymentMode, cfg *config.Config) (StorageClient, error) {
	if cfg == nil {
		return nil, errors.New("storage: nil config")
	}
	switch deploymentMode {
	case DeploymentLocal:
		localClient, err := NewLocalStorageClient(cfg.OutputDir)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize local storage client: %w", err)
		}
		return localClient, nil

	case DeploymentGCS:
		gcsClient, err := NewGCSClient(ctx, cfg.GCSBucket)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize GCS client: %w", err)
		}
		return gcsClient, nil

	default:
		return nil, fmt.Errorf("unsupported deployment mode: %s", deploymentMode)
	}
}

// Router sends gs:// paths to Cloud Storage and everything else to the local
// file system. When a default bucket is configured, relative paths are
// object names in that bucket. The GCS client is created on first use so
// that local-only runs never need credentials.
type Router struct {
	local StorageClient
	// relativeRemote sends relative paths to the default bucket.
	relativeRemote bool

	mu        sync.Mutex
	remote    StorageClient
	newRemote func(ctx context.Context) (StorageClient, error)
}

// NewRouter creates a Router from configuration
func NewRouter(ctx context.Context, cfg *config.Config) (*Router, error) {
	local, err := NewStorageClient(ctx, DeploymentLocal, cfg)
	if err != nil {
		return nil, err
	}
	return &Router{
		local:          local,
		relativeRemote: cfg.GCSBucket != "",
		newRemote: func(ctx context.Context) (StorageClient, error) {
			return NewStorageClient(ctx, DeploymentGCS, cfg)
		},
	}, nil
}

func (r *Router) client(ctx context.Context, path string) (StorageClient, error) {
	if !r.isRemote(path) {
		return r.local, nil
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.remote == nil {
		c, err := r.newRemote(ctx)
		if err != nil {
			return nil, err
		}
		r.remote = c
	}
	return r.remote, nil
}

func (r *Router) isRemote(path string) bool {
	if IsGCSPath(path) {
		return true
	}
	return r.relativeRemote && !filepath.IsAbs(path)
}

// Close closes both clients
func (r *Router) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	err := r.local.Close()
	if r.remote != nil {
		err = errors.Join(err, r.remote.Close())
	}
	return err
}

func (r *Router) StoreFile(ctx context.Context, filePath string, fileData []byte) error {
	c, err := r.client(ctx, filePath)
	if err != nil {
		return err
	}
	return c.StoreFile(ctx, filePath, fileData)
}

func (r *Router) GetFile(ctx context.Context, filePath string) ([]byte, error) {
	c, err := r.client(ctx, filePath)
	if err != nil {
		return nil, err
	}
	return c.GetFile(ctx, filePath)
}

func (r *Router) FileExists(ctx context.Context, filePath string) (bool, error) {
	c, err := r.client(ctx, filePath)
	if err != nil {
		return false, err
	}
	return c.FileExists(ctx, filePath)
}

func (r *Router) ListDir(ctx context.Context, dirPath string) ([]string, error) {
	c, err := r.client(ctx, dirPath)
	if err != nil {
		return nil, err
	}
	return c.ListDir(ctx, dirPath)
}
