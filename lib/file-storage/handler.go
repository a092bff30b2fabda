package filestorage

import (
	"context"
	"fmt"

	s3client "budget-portal-backend/s3"

	"github.com/pkg/errors"
)

type Provider interface {
	// UploadThumbnail stores a dashboard thumbnail and returns its
	// token-free public URL
	UploadThumbnail(ctx context.Context, dashboardUUID string, data []byte, contentType string) (url string, err error)
	// UploadExport archives a generated report
	UploadExport(ctx context.Context, name string, data []byte, contentType string) (url string, err error)
}

var Instance Provider

func NewHandler() {
	Instance = impl{
		client: s3client.Client,
	}
}

type impl struct {
	client s3client.Provider
}

func (i impl) UploadThumbnail(ctx context.Context, dashboardUUID string, data []byte, contentType string) (string, error) {
	if i.client == nil {
		return "", errors.New("object storage is not initialized")
	}
	objectName := fmt.Sprintf("thumbnails/%v.png", dashboardUUID)
	if err := i.client.Put(ctx, objectName, data, contentType); err != nil {
		return "", errors.Wrap(err, "failed to upload thumbnail")
	}
	return i.client.PublicURL(objectName), nil
}

func (i impl) UploadExport(ctx context.Context, name string, data []byte, contentType string) (string, error) {
	if i.client == nil {
		return "", errors.New("object storage is not initialized")
	}
	objectName := fmt.Sprintf("exports/%v", name)
	if err := i.client.Put(ctx, objectName, data, contentType); err != nil {
		return "", errors.Wrap(err, "failed to upload export")
	}
	return i.client.PublicURL(objectName), nil
}
