package mongo

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/gridfs"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/sitebooks-ledger/internal/domain/blob"
)

// GridFSStore implements blob.Store on a GridFS bucket. Refs are the hex
// ObjectIDs of the stored files.
type GridFSStore struct {
	db      *mongo.Database
	bucket  string
	timeout time.Duration
	logger  *slog.Logger
}

// NewGridFSStore creates a blob store on the named bucket. timeout bounds
// each GridFS operation when the caller's context has no deadline.
func NewGridFSStore(logger *slog.Logger, db *mongo.Database, bucket string, timeout time.Duration) blob.Store {
	return &GridFSStore{
		db:      db,
		bucket:  bucket,
		timeout: timeout,
		logger:  logger,
	}
}

// openBucket returns a bucket whose deadlines follow ctx
func (s *GridFSStore) openBucket(ctx context.Context) (*gridfs.Bucket, error) {
	bucket, err := gridfs.NewBucket(s.db, options.GridFSBucket().SetName(s.bucket))
	if err != nil {
		return nil, fmt.Errorf("failed to open gridfs bucket: %w", err)
	}

	deadline, ok := ctx.Deadline()
	if !ok {
		deadline = time.Now().Add(s.timeout)
	}
	if err := bucket.SetReadDeadline(deadline); err != nil {
		return nil, err
	}
	if err := bucket.SetWriteDeadline(deadline); err != nil {
		return nil, err
	}
	return bucket, nil
}

// Store uploads the content and returns its ref
func (s *GridFSStore) Store(ctx context.Context, content []byte, contentType, filename string) (blob.Object, error) {
	bucket, err := s.openBucket(ctx)
	if err != nil {
		return blob.Object{}, err
	}

	opts := options.GridFSUpload().SetMetadata(bson.D{{Key: "content_type", Value: contentType}})
	id, err := bucket.UploadFromStream(filename, bytes.NewReader(content), opts)
	if err != nil {
		s.logger.Error("Failed to store blob", "filename", filename, "error", err)
		return blob.Object{}, fmt.Errorf("failed to store blob: %w", err)
	}

	return blob.Object{
		Ref:         id.Hex(),
		ContentType: contentType,
		Filename:    filename,
		Size:        int64(len(content)),
	}, nil
}

// Fetch downloads the content of a ref
func (s *GridFSStore) Fetch(ctx context.Context, ref string) ([]byte, blob.Object, error) {
	id, err := primitive.ObjectIDFromHex(ref)
	if err != nil {
		return nil, blob.Object{}, blob.ErrBlobNotFound{Ref: ref}
	}

	bucket, err := s.openBucket(ctx)
	if err != nil {
		return nil, blob.Object{}, err
	}

	stream, err := bucket.OpenDownloadStream(id)
	if err != nil {
		if errors.Is(err, gridfs.ErrFileNotFound) {
			return nil, blob.Object{}, blob.ErrBlobNotFound{Ref: ref}
		}
		s.logger.Error("Failed to open blob", "ref", ref, "error", err)
		return nil, blob.Object{}, fmt.Errorf("failed to open blob: %w", err)
	}
	defer stream.Close()

	content, err := io.ReadAll(stream)
	if err != nil {
		s.logger.Error("Failed to read blob", "ref", ref, "error", err)
		return nil, blob.Object{}, fmt.Errorf("failed to read blob: %w", err)
	}

	file := stream.GetFile()
	obj := blob.Object{
		Ref:      ref,
		Filename: file.Name,
		Size:     file.Length,
	}
	if file.Metadata != nil {
		if ct, ok := file.Metadata.Lookup("content_type").StringValueOK(); ok {
			obj.ContentType = ct
		}
	}

	return content, obj, nil
}

// Delete removes the blob. Unknown refs are ignored.
func (s *GridFSStore) Delete(ctx context.Context, ref string) error {
	id, err := primitive.ObjectIDFromHex(ref)
	if err != nil {
		s.logger.Warn("Ignoring delete of malformed blob ref", "ref", ref)
		return nil
	}

	bucket, err := s.openBucket(ctx)
	if err != nil {
		return err
	}

	if err := bucket.Delete(id); err != nil {
		if errors.Is(err, gridfs.ErrFileNotFound) {
			return nil
		}
		s.logger.Error("Failed to delete blob", "ref", ref, "error", err)
		return fmt.Errorf("failed to delete blob: %w", err)
	}

	return nil
}
