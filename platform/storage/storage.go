package storage

import (
	"bytes"
	"context"
	"fmt"

	"paperqa_backend/config"
	"paperqa_backend/pkg/logging"
	"paperqa_backend/utils"

	"github.com/minio/minio-go/v7"
)

type Service struct {
	Client           *minio.Client
	Config           *minio.Options
	Bucket           string
	StorageType      string
	FileKeyGenerator *utils.FileKeyGenerator
}

func InitStorageService(cfg *config.Config) (*Service, error) {
	var minioClient *minio.Client
	var err error

	// local minio vs s3
	switch cfg.StorageType {
	case "minio":
		minioClient, err = utils.CreateMinIOClient(cfg)
	case "s3":
		minioClient, err = utils.CreateS3Client(cfg)
	default:
		return nil, fmt.Errorf("unknown storage type %q", cfg.StorageType)
	}
	if err != nil {
		logging.Logger.Error("fail InitStorageService", "error", err)
		return nil, err
	}

	keyGenerator := utils.NewFileKeyGenerator("pdfs")
	ss := &Service{
		Client:           minioClient,
		Config:           &minio.Options{Region: cfg.BucketRegion},
		Bucket:           cfg.BucketName,
		StorageType:      cfg.StorageType,
		FileKeyGenerator: keyGenerator,
	}
	if err := ss.EnsureBucketExists(); err != nil {
		logging.Logger.Error("fail InitStorageService", "error", err)
		return nil, err
	}
	logging.Logger.Info("storage service initialized",
		"type", cfg.StorageType,
		"bucket", cfg.BucketName,
		"region", cfg.BucketRegion,
	)

	return ss, nil
}
func (ss *Service) EnsureBucketExists() error {
	ctx := context.Background()
	exists, err := ss.Client.BucketExists(ctx, ss.Bucket)
	if err != nil {
		logging.Logger.Error("fail EnsureBucketExists", "error", err)
		return err
	}
	if exists {
		return nil
	}
	err = ss.Client.MakeBucket(ctx, ss.Bucket, minio.MakeBucketOptions{
		Region: ss.Config.Region,
	})
	if err != nil {
		if ss.StorageType == "s3" {
			logging.Logger.Warn("could not create S3 bucket (might exist or no permission)",
				"bucket", ss.Bucket, "error", err)
			return nil
		}
		logging.Logger.Error("fail EnsureBucketExists", "error", err)
		return err
	}
	logging.Logger.Info("bucket created", "bucket", ss.Bucket)
	return nil
}

// StorePDF archives the original upload and returns the object key it was
// written under.
func (ss *Service) StorePDF(ctx context.Context, filename string, content []byte) (string, error) {
	fileKey := ss.FileKeyGenerator.GenerateFileKey(filename)

	_, err := ss.Client.PutObject(ctx, ss.Bucket, fileKey,
		bytes.NewReader(content), int64(len(content)),
		minio.PutObjectOptions{ContentType: "application/pdf"},
	)
	if err != nil {
		logging.Logger.Error("fail StorePDF", "error", err, "file_key", fileKey)
		return "", fmt.Errorf("failed to archive pdf: %w", err)
	}
	return fileKey, nil
}

func (ss *Service) Remove(ctx context.Context, fileKey string) error {
	if fileKey == "" {
		return nil
	}
	err := ss.Client.RemoveObject(ctx, ss.Bucket, fileKey, minio.RemoveObjectOptions{})
	if err != nil {
		logging.Logger.Error("fail Remove", "error", err, "file_key", fileKey)
		return err
	}
	return nil
}

func (ss *Service) FileExists(fileKey string) (bool, error) {
	_, err := ss.Client.StatObject(context.Background(), ss.Bucket, fileKey, minio.StatObjectOptions{})
	if err != nil {
		if minio.ToErrorResponse(err).Code == "NoSuchKey" {
			return false, nil
		}
		return false, err
	}
	return true, nil
}
