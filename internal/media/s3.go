// Package media реализует работу с S3-совместимым хранилищем файлов:
// загрузку подтверждений оплаты, афиш и конкурсных работ, удаление объектов
// и выдачу короткоживущих подписанных ссылок на приватные файлы.
package media

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"

	"github.com/magabrotheeeer/competition-registration/internal/config"
)

// Базовые каталоги объектов в бакете.
const (
	FolderPaymentProofs = "payment-proofs"
	FolderSubmissions   = "submissions"
	FolderPosters       = "posters"
)

// Client клиент хранилища файлов, привязанный к одному бакету.
type Client struct {
	svc    *s3.S3
	bucket string
}

// New создаёт клиента S3 по настройкам из конфига.
func New(cfg config.MediaStorage) (*Client, error) {
	const op = "media.New"

	awsCfg := &aws.Config{
		Region:      aws.String(cfg.S3Region),
		Credentials: credentials.NewStaticCredentials(cfg.S3AccessKey, cfg.S3SecretKey, ""),
	}
	// Пустой endpoint означает AWS; непустой — совместимое хранилище (minio и т.п.).
	if cfg.S3Endpoint != "" {
		awsCfg.Endpoint = aws.String(cfg.S3Endpoint)
		awsCfg.S3ForcePathStyle = aws.Bool(true)
	}

	sess, err := session.NewSession(awsCfg)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &Client{
		svc:    s3.New(sess),
		bucket: cfg.S3Bucket,
	}, nil
}

// Upload загружает объект с переданным ключом и типом содержимого.
func (c *Client) Upload(ctx context.Context, key string, body io.ReadSeeker, contentType string) error {
	const op = "media.Upload"

	_, err := c.svc.PutObjectWithContext(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(c.bucket),
		Key:         aws.String(key),
		Body:        body,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// Delete удаляет объект по ключу.
func (c *Client) Delete(ctx context.Context, key string) error {
	const op = "media.Delete"

	_, err := c.svc.DeleteObjectWithContext(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(c.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// SignedURL возвращает подписанную ссылку на чтение объекта со сроком жизни ttl.
func (c *Client) SignedURL(key string, ttl time.Duration) (string, error) {
	const op = "media.SignedURL"

	req, _ := c.svc.GetObjectRequest(&s3.GetObjectInput{
		Bucket: aws.String(c.bucket),
		Key:    aws.String(key),
	})
	url, err := req.Presign(ttl)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return url, nil
}
