package tablewriter

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"cloud.google.com/go/storage"
	"google.golang.org/api/option"
)

const uploadTimeout = 2 * time.Minute

// GCSWriter uploads each table to gs://<bucket>/<prefix>/<table>.sql.
// It assumes Application Default Credentials unless a credentials file is given.
type GCSWriter struct {
	client *storage.Client
	bucket string
	prefix string
}

// NewGCSWriter creates a storage client and returns a writer for bucket.
func NewGCSWriter(ctx context.Context, bucket, prefix, credentialsFile string) (*GCSWriter, error) {
	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}

	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("NewGCSWriter: create storage client: %w", err)
	}

	return &GCSWriter{
		client: client,
		bucket: bucket,
		prefix: prefix,
	}, nil
}

// Close closes the storage client.
func (w *GCSWriter) Close() error {
	if w.client != nil {
		return w.client.Close()
	}
	return nil
}

// ObjectName is the object path a table is stored under.
func (w *GCSWriter) ObjectName(tableName string) string {
	return objectName(w.prefix, tableName)
}

// URI is the gs:// address of a table.
func (w *GCSWriter) URI(tableName string) string {
	return fmt.Sprintf("gs://%s/%s", w.bucket, w.ObjectName(tableName))
}

// Write implements TableWriter. Uploading to an existing object replaces it.
func (w *GCSWriter) Write(ctx context.Context, tableName, sqlText string) error {
	ctx, cancel := context.WithTimeout(ctx, uploadTimeout)
	defer cancel()

	obj := w.client.Bucket(w.bucket).Object(w.ObjectName(tableName))

	ow := obj.NewWriter(ctx)
	ow.ContentType = "application/sql"

	if _, err := io.Copy(ow, strings.NewReader(sqlText)); err != nil {
		_ = ow.Close()
		return fmt.Errorf("GCSWriter.Write: copy %s: %w", w.URI(tableName), err)
	}

	// Close finalizes the upload
	if err := ow.Close(); err != nil {
		return fmt.Errorf("GCSWriter.Write: finalize %s: %w", w.URI(tableName), err)
	}

	return nil
}

func objectName(prefix, tableName string) string {
	prefix = strings.Trim(prefix, "/")
	if prefix == "" {
		return FileName(tableName)
	}
	return path.Join(prefix, FileName(tableName))
}

var _ TableWriter = (*GCSWriter)(nil)
