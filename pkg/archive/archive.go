// pkg/archive/archive.go

// Package archive keeps copies of rendered bills in object storage.
package archive

import (
	"bytes"
	"context"
	"fmt"
	"path"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/request"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3/s3manager"
)

// Archiver stores a rendered document under name.
type Archiver interface {
	Archive(ctx context.Context, name string, body []byte) error
}

// Nop discards documents.
type Nop struct{}

// Archive implements Archiver.
func (Nop) Archive(context.Context, string, []byte) error { return nil }

type uploader interface {
	UploadWithContext(ctx aws.Context, input *s3manager.UploadInput, opts ...func(*s3manager.Uploader)) (*s3manager.UploadOutput, error)
}

// S3 uploads documents to a bucket under a key prefix.
type S3 struct {
	uploader uploader
	bucket   string
	prefix   string
}

// NewS3 builds an S3 archiver using the default credential chain.
func NewS3(region, bucket, prefix string) (*S3, error) {
	sess, err := session.NewSession(&aws.Config{Region: aws.String(region)})
	if err != nil {
		return nil, fmt.Errorf("s3: session: %w", err)
	}
	return &S3{uploader: s3manager.NewUploader(sess), bucket: bucket, prefix: prefix}, nil
}

// Key returns the object key used for name.
func (s *S3) Key(name string) string {
	return path.Join(s.prefix, path.Base(name))
}

// Archive implements Archiver.
func (s *S3) Archive(ctx context.Context, name string, body []byte) error {
	_, err := s.uploader.UploadWithContext(ctx, &s3manager.UploadInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(s.Key(name)),
		Body:        bytes.NewReader(body),
		ContentType: aws.String("application/pdf"),
	}, func(u *s3manager.Uploader) {
		u.RequestOptions = append(u.RequestOptions, request.WithAppendUserAgent("bill-generator"))
	})
	if err != nil {
		return fmt.Errorf("s3: upload %s: %w", name, err)
	}
	return nil
}
