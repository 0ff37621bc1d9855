// Package s3 处理S3存储操作，曲库清单可以直接托管在存储桶里.
package s3

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"path"

	minio "github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/yeisme/soundboard/pkg/configs"
	nlog "github.com/yeisme/soundboard/pkg/log"
)

// ErrObjectNotFound 对象不存在.
var ErrObjectNotFound = errors.New("s3: object not found")

// Client 包装 MinIO 客户端，只读访问一个存储桶.
type Client struct {
	*minio.Client
	bucket string
	prefix string
}

// New 初始化 MinIO 客户端并确认存储桶存在. 曲库是只读的，不会创建存储桶.
func New(ctx context.Context, cfg *configs.S3Config) (*Client, error) {
	endpoint := cfg.Endpoint
	secure := cfg.UseSSL
	// 允许用户传完整 schema endpoint（http:// 或 https://）
	if u, err := url.Parse(endpoint); err == nil && u.Host != "" {
		endpoint = u.Host
		secure = u.Scheme == "https"
	}

	cli, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		Secure: secure,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("create minio client: %w", err)
	}

	cli.SetAppInfo("soundboard", configs.AppVersion)

	exists, err := cli.BucketExists(ctx, cfg.BucketName)
	if err != nil {
		return nil, fmt.Errorf("check bucket %s: %w", cfg.BucketName, err)
	}

	if !exists {
		return nil, fmt.Errorf("bucket %s does not exist", cfg.BucketName)
	}

	nlog.Logger().Debug().Str("endpoint", cfg.Endpoint).Str("bucket", cfg.BucketName).Msg("s3 connected")

	return &Client{Client: cli, bucket: cfg.BucketName, prefix: cfg.Prefix}, nil
}

// Key 返回带前缀的对象键.
func (c *Client) Key(name string) string {
	return path.Join(c.prefix, name)
}

// ReadObject 读取整个对象. 对象不存在时返回 ErrObjectNotFound.
func (c *Client) ReadObject(ctx context.Context, name string) ([]byte, error) {
	obj, err := c.GetObject(ctx, c.bucket, c.Key(name), minio.GetObjectOptions{})
	if err != nil {
		return nil, wrapNotFound(err)
	}
	defer obj.Close()

	data, err := io.ReadAll(obj)
	if err != nil {
		return nil, wrapNotFound(err)
	}

	return data, nil
}

func wrapNotFound(err error) error {
	if minio.ToErrorResponse(err).Code == "NoSuchKey" {
		return fmt.Errorf("%w: %v", ErrObjectNotFound, err)
	}

	return err
}

// HealthCheck 简单的健康检查.
func (c *Client) HealthCheck(ctx context.Context) error {
	_, err := c.BucketExists(ctx, c.bucket)

	return err
}

// Bucket 返回存储桶名.
func (c *Client) Bucket() string {
	return c.bucket
}
