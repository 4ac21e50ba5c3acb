package s3

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"fedorabatch/pkg/core"
	"fedorabatch/pkg/storage"
	"fedorabatch/pkg/types"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
)

// keyPrefix 让快照与桶里的其他对象隔离
const keyPrefix = "snapshots/"

// Adapter 是放在 S3 / MinIO 上的快照库
type Adapter struct {
	client *s3.Client
	bucket string
}

// Config 来自 backup.s3.*
type Config struct {
	Endpoint        string
	Region          string
	Bucket          string
	AccessKeyID     string
	SecretAccessKey string
}

// NewAdapter 连接快照桶，桶不存在时创建
func NewAdapter(ctx context.Context, cfg Config) (*Adapter, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("s3 bucket is required")
	}

	client, err := newClient(ctx, cfg)
	if err != nil {
		return nil, err
	}

	a := &Adapter{client: client, bucket: cfg.Bucket}
	if err := a.ensureBucket(ctx); err != nil {
		return nil, err
	}
	return a, nil
}

func newClient(ctx context.Context, cfg Config) (*s3.Client, error) {
	creds := credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, "")
	awsCfg, err := config.LoadDefaultConfig(ctx,
		config.WithRegion(cfg.Region),
		config.WithCredentialsProvider(creds),
	)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	return s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
		// 自建 MinIO 没有桶子域名，只能走 host/bucket/key
		o.UsePathStyle = true
	}), nil
}

func (a *Adapter) ensureBucket(ctx context.Context) error {
	_, err := a.client.HeadBucket(ctx, &s3.HeadBucketInput{Bucket: aws.String(a.bucket)})
	if err == nil {
		return nil
	}
	_, err = a.client.CreateBucket(ctx, &s3.CreateBucketInput{Bucket: aws.String(a.bucket)})
	if err == nil || bucketTaken(err) {
		return nil
	}
	return fmt.Errorf("s3 bucket %s unavailable: %w", a.bucket, err)
}

// bucketTaken: 另一个进程抢先建好了桶
func bucketTaken(err error) bool {
	var owned *s3types.BucketAlreadyOwnedByYou
	var exists *s3types.BucketAlreadyExists
	return errors.As(err, &owned) || errors.As(err, &exists)
}

// isNotFound 统一 HeadObject / GetObject 的"对象不存在"
func isNotFound(err error) bool {
	var notFound *s3types.NotFound
	var noKey *s3types.NoSuchKey
	if errors.As(err, &notFound) || errors.As(err, &noKey) {
		return true
	}
	// 部分兼容实现的 HEAD 响应没有错误码，只剩状态码
	return strings.Contains(err.Error(), "StatusCode: 404")
}

// objectKey 按哈希前两位分目录: "aabbcc" -> "snapshots/aa/bbcc"
func objectKey(hash types.Hash) string {
	h := string(hash)
	if len(h) < 2 {
		return keyPrefix + h
	}
	return keyPrefix + h[:2] + "/" + h[2:]
}

// Put 内容寻址，同一个快照只上传一次
func (a *Adapter) Put(ctx context.Context, obj core.Object) error {
	ok, err := a.Has(ctx, obj.ID())
	if err != nil {
		return fmt.Errorf("s3 put %s: %w", obj.ID(), err)
	}
	if ok {
		return nil
	}

	data := obj.Bytes()
	_, err = a.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(a.bucket),
		Key:           aws.String(objectKey(obj.ID())),
		Body:          bytes.NewReader(data),
		ContentLength: aws.Int64(int64(len(data))),
		ContentType:   aws.String("application/cbor"),
	})
	if err != nil {
		return fmt.Errorf("s3 put %s: %w", obj.ID(), err)
	}
	return nil
}

func (a *Adapter) Get(ctx context.Context, hash types.Hash) (io.ReadCloser, error) {
	out, err := a.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(a.bucket),
		Key:    aws.String(objectKey(hash)),
	})
	switch {
	case err == nil:
		return out.Body, nil
	case isNotFound(err):
		return nil, storage.ErrNotFound
	default:
		return nil, fmt.Errorf("s3 get %s: %w", hash, err)
	}
}

func (a *Adapter) Has(ctx context.Context, hash types.Hash) (bool, error) {
	_, err := a.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(a.bucket),
		Key:    aws.String(objectKey(hash)),
	})
	switch {
	case err == nil:
		return true, nil
	case isNotFound(err):
		return false, nil
	default:
		return false, fmt.Errorf("s3 head %s: %w", hash, err)
	}
}
