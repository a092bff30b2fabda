package s3client

import (
	"bytes"
	"context"
	"fmt"

	"budget-portal-backend/config"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

var Client Provider

type Provider interface {
	MakeBucket(ctx context.Context) error
	Put(ctx context.Context, objectName string, body []byte, contentType string) error
	PublicURL(objectName string) string
}

type s3client struct {
	minioClient *minio.Client
}

func NewClient() (Provider, error) {
	minioClient, err := minio.New(config.Conf.S3.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(config.Conf.S3.AccessKeyID, config.Conf.S3.SecretAccessKey, ""),
		Secure: *config.Conf.S3.UseSSL,
	})
	if err != nil {
		return nil, err
	}
	return &s3client{minioClient: minioClient}, nil
}

func (s s3client) MakeBucket(ctx context.Context) error {
	bucketName := config.Conf.S3.BucketName
	location := "us-east-1"
	exists, err := s.minioClient.BucketExists(ctx, bucketName)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}
	return s.minioClient.MakeBucket(ctx, bucketName, minio.MakeBucketOptions{Region: location})
}

func (s s3client) Put(ctx context.Context, objectName string, body []byte, contentType string) error {
	_, err := s.minioClient.PutObject(ctx, config.Conf.S3.BucketName, objectName,
		bytes.NewReader(body), int64(len(body)),
		minio.PutObjectOptions{ContentType: contentType})
	return err
}

func (s s3client) PublicURL(objectName string) string {
	if config.Conf.S3.PublicBaseURL != "" {
		return fmt.Sprintf("%v/%v/%v", config.Conf.S3.PublicBaseURL, config.Conf.S3.BucketName, objectName)
	}
	scheme := "http"
	if *config.Conf.S3.UseSSL {
		scheme = "https"
	}
	return fmt.Sprintf("%v://%v/%v/%v", scheme, config.Conf.S3.Endpoint, config.Conf.S3.BucketName, objectName)
}
