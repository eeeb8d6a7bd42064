package storage

import (
	"fmt"
	"path/filepath"
	"strings"
)

// GCSScheme prefixes object paths stored in Google Cloud Storage
const GCSScheme = "gs://"

var contentTypes = map[string]string{
	".png":  "image/png",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".svg":  "image/svg+xml",
	".pdf":  "application/pdf",
	".html": "text/html",
	".htm":  "text/html",
	".json": "application/json",
	".yaml": "application/yaml",
	".yml":  "application/yaml",
	".md":   "text/markdown",
	".txt":  "text/plain",
}

// GetContentType determines the MIME content type based on file extension
func GetContentType(filename string) string {
	if ct, ok := contentTypes[strings.ToLower(filepath.Ext(filename))]; ok {
		return ct
	}
	return "application/octet-stream"
}

// IsGCSPath reports whether path names a Cloud Storage object
func IsGCSPath(path string) bool {
	return strings.HasPrefix(path, GCSScheme)
}

// ParseGCSPath splits gs://bucket/object into its parts
func ParseGCSPath(path string) (bucket, object string, err error) {
	if !IsGCSPath(path) {
		return "", "", fmt.Errorf("not a %s path: %q", GCSScheme, path)
	}
	bucket, object, _ = strings.Cut(strings.TrimPrefix(path, GCSScheme), "/")
	if bucket == "" {
		return "", "", fmt.Errorf("missing bucket in %q", path)
	}
	return bucket, object, nil
}
