package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"sort"
	"strings"
	"time"

	"cloud.google.com/go/storage"
	"google.golang.org/api/iterator"

	"easyplot/internal/logger"
)

// GCSClient handles Google Cloud Storage operations. Paths are either
// gs://bucket/object or object names in the default bucket.
type GCSClient struct {
	client *storage.Client
	bucket string
	log    *logger.Logger
}

// NewGCSClient creates a new GCS client using application default credentials
func NewGCSClient(ctx context.Context, bucketName string) (*GCSClient, error) {
	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCS client: %w", err)
	}
	return &GCSClient{
		client: client,
		bucket: bucketName,
		log:    logger.GetGlobalLogger().WithComponent("gcs"),
	}, nil
}

// Close closes the GCS client
func (g *GCSClient) Close() error {
	return g.client.Close()
}

func (g *GCSClient) object(filePath string) (*storage.ObjectHandle, string, error) {
	bucket, name := g.bucket, filePath
	if IsGCSPath(filePath) {
		var err error
		if bucket, name, err = ParseGCSPath(filePath); err != nil {
			return nil, "", err
		}
	}
	if bucket == "" {
		return nil, "", fmt.Errorf("no bucket for %q: set GCS_BUCKET or use a %s path", filePath, GCSScheme)
	}
	if name == "" {
		return nil, "", fmt.Errorf("missing object name in %q", filePath)
	}
	return g.client.Bucket(bucket).Object(name), GCSScheme + bucket + "/" + name, nil
}

// StoreFile uploads fileData. Object stores have no directories to create.
func (g *GCSClient) StoreFile(ctx context.Context, filePath string, fileData []byte) error {
	obj, url, err := g.object(filePath)
	if err != nil {
		return err
	}
	g.log.Debug("Storing file to GCS", map[string]interface{}{"url": url, "bytes": len(fileData)})

	writer := obj.NewWriter(ctx)
	writer.ContentType = GetContentType(filePath)
	writer.CacheControl = "public, max-age=3600"
	writer.Metadata = map[string]string{
		"generated-at": time.Now().UTC().Format(time.RFC3339),
		"filename":     path.Base(url),
	}

	if _, err := writer.Write(fileData); err != nil {
		writer.Close()
		return fmt.Errorf("failed to write file to GCS: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to finalize GCS file upload: %w", err)
	}
	return nil
}

// GetFile retrieves a file from GCS
func (g *GCSClient) GetFile(ctx context.Context, filePath string) ([]byte, error) {
	obj, url, err := g.object(filePath)
	if err != nil {
		return nil, err
	}
	reader, err := obj.NewReader(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create reader for %s: %w", url, err)
	}
	defer reader.Close()

	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", url, err)
	}
	return data, nil
}

// FileExists checks whether the object exists
func (g *GCSClient) FileExists(ctx context.Context, filePath string) (bool, error) {
	obj, url, err := g.object(filePath)
	if err != nil {
		return false, err
	}
	if _, err := obj.Attrs(ctx); err != nil {
		if errors.Is(err, storage.ErrObjectNotExist) {
			return false, nil
		}
		return false, fmt.Errorf("failed to stat %s: %w", url, err)
	}
	return true, nil
}

// ListDir lists objects directly under the dirPath prefix
func (g *GCSClient) ListDir(ctx context.Context, dirPath string) ([]string, error) {
	bucket, prefix := g.bucket, dirPath
	if IsGCSPath(dirPath) {
		var err error
		if bucket, prefix, err = ParseGCSPath(dirPath); err != nil {
			return nil, err
		}
	}
	if bucket == "" {
		return nil, fmt.Errorf("no bucket for %q", dirPath)
	}
	if prefix != "" && !strings.HasSuffix(prefix, "/") {
		prefix += "/"
	}

	it := g.client.Bucket(bucket).Objects(ctx, &storage.Query{Prefix: prefix, Delimiter: "/"})
	var names []string
	for {
		attrs, err := it.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to list objects: %w", err)
		}
		// entries with only Prefix set are sub-directories
		if attrs.Name != "" {
			names = append(names, strings.TrimPrefix(attrs.Name, prefix))
		}
	}
	sort.Strings(names)
	return names, nil
}
