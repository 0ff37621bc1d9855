package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/yeisme/soundboard/pkg/configs"
	s3c "github.com/yeisme/soundboard/pkg/internal/storage/s3"
	"github.com/yeisme/soundboard/pkg/tracing"
)

// objectReader S3Source 需要的最小能力.
type objectReader interface {
	ReadObject(ctx context.Context, name string) ([]byte, error)
}

// S3Source 从 MinIO/S3 存储桶读取清单.
type S3Source struct {
	client objectReader
	desc   string
}

// NewS3Source 创建对象存储来源.
func NewS3Source(client objectReader, desc string) *S3Source {
	return &S3Source{client: client, desc: desc}
}

// Describe 实现 Source.
func (s *S3Source) Describe() string {
	return s.desc
}

// Fetch 实现 Source.
func (s *S3Source) Fetch(ctx context.Context, name string) ([]byte, error) {
	ctx, span := tracing.StartSpan(ctx, "catalog.s3.fetch")
	defer span.End()

	data, err := s.client.ReadObject(ctx, name)
	if errors.Is(err, s3c.ErrObjectNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
	}

	if err != nil {
		tracing.RecordError(span, err)

		return nil, fmt.Errorf("read object %s: %w", name, err)
	}

	return data, nil
}

func init() {
	RegisterSourceFactory(configs.CatalogSourceS3, func(ctx context.Context, cfg *configs.AppConfig) (Source, error) {
		client, err := s3c.New(ctx, &cfg.S3)
		if err != nil {
			return nil, err
		}

		return NewS3Source(client, fmt.Sprintf("s3://%s/%s", client.Bucket(), cfg.S3.Prefix)), nil
	})
}
