package company

import (
	"context"
	"fmt"
	"io"

	"cloud.google.com/go/storage"
	"google.golang.org/api/iterator"
)

// StorageClient abstracts the blob store holding company logos. A nil client
// means remote storage is disabled for this deployment.
type StorageClient interface {
	UploadFile(objectName string, fileData io.Reader) error
	DeleteWithPrefix(prefix string) error
	PublicURL(objectName string) string
}

// CloudStorageClient stores objects in a Google Cloud Storage bucket.
type CloudStorageClient struct {
	BucketName string
	Ctx        context.Context
	Client     *storage.Client
}

// NewCloudStorageClient connects to GCS using ambient application credentials.
func NewCloudStorageClient(bucketName string) (*CloudStorageClient, error) {
	ctx := context.Background()
	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create cloud storage client: %v", err)
	}
	return &CloudStorageClient{
		BucketName: bucketName,
		Ctx:        ctx,
		Client:     client,
	}, nil
}

// UploadFile writes fileData to the named object, overwriting any previous content.
func (c *CloudStorageClient) UploadFile(objectName string, fileData io.Reader) error {
	bucket := c.Client.Bucket(c.BucketName)
	obj := bucket.Object(objectName)
	wc := obj.NewWriter(c.Ctx)
	if _, err := io.Copy(wc, fileData); err != nil {
		return fmt.Errorf("failed to write data to object: %v", err)
	}
	if err := wc.Close(); err != nil {
		return fmt.Errorf("failed to close object writer: %v", err)
	}
	return nil
}

// DeleteWithPrefix removes every object under the given prefix. Used to drop
// superseded logos after a new one is uploaded.
func (c *CloudStorageClient) DeleteWithPrefix(prefix string) error {
	bucket := c.Client.Bucket(c.BucketName)
	it := bucket.Objects(c.Ctx, &storage.Query{Prefix: prefix})
	for {
		attrs, err := it.Next()
		if err == iterator.Done {
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to list objects with prefix %q: %v", prefix, err)
		}
		if err := bucket.Object(attrs.Name).Delete(c.Ctx); err != nil {
			return fmt.Errorf("failed to delete object %q: %v", attrs.Name, err)
		}
	}
}

// PublicURL returns the canonical public URL of an object in the bucket.
func (c *CloudStorageClient) PublicURL(objectName string) string {
	return fmt.Sprintf("https://storage.googleapis.com/%s/%s", c.BucketName, objectName)
}
