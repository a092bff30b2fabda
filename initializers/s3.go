package initializers

import (
	"context"

	s3client "budget-portal-backend/s3"

	log "github.com/sirupsen/logrus"
)

// InitS3 is best effort, the portal works without thumbnails and export
// archiving when object storage is down
func InitS3(ctx context.Context) {
	client, err := s3client.NewClient()
	if err != nil {
		log.WithError(err).Error("failed to init object storage client")
		return
	}
	if err = client.MakeBucket(ctx); err != nil {
		log.WithError(err).Error("failed to create bucket")
		return
	}
	s3client.Client = client
}
