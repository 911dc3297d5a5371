package service

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/h2non/filetype"
	"github.com/h2non/filetype/types"

	cfg "github.com/MathengeNewton/socialCommerce-sub000/configs"
	"github.com/MathengeNewton/socialCommerce-sub000/internal/models"
)

const mediaURLExpiry = 24 * time.Hour

// MediaService turns stored media references into URLs the platforms can
// pull from.
type MediaService interface {
	ResolveURL(ctx context.Context, asset *models.MediaAsset) (string, string, error)
}

type mediaService struct {
	config cfg.Config
}

func NewMediaService(cfg cfg.Config) MediaService {
	return &mediaService{config: cfg}
}

func (s *mediaService) r2Client() *s3.Client {
	awsCfg, err := config.LoadDefaultConfig(context.TODO(),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(s.config.R2.AccessKey, s.config.R2.SecretKey, "")),
		config.WithRegion("auto"),
	)
	if err != nil {
		slog.Info(err.Error())
		log.Fatal(err)
	}

	return s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(fmt.Sprintf("https://%s.r2.cloudflarestorage.com", s.config.R2.AccountID))
	})
}

// ResolveURL presigns a GET for the asset's object and returns the URL with
// the asset's MIME type. The expiry outlasts the queue's last retry attempt.
func (s *mediaService) ResolveURL(ctx context.Context, asset *models.MediaAsset) (string, string, error) {
	presigner := s3.NewPresignClient(s.r2Client())

	req, err := presigner.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.config.R2.BucketName),
		Key:    aws.String(asset.FileName),
	}, s3.WithPresignExpires(mediaURLExpiry))
	if err != nil {
		slog.Info(err.Error())
		return "", "", err
	}

	return req.URL, mimeTypeFor(asset), nil
}

func mimeTypeFor(asset *models.MediaAsset) string {
	if asset.FileType != "" {
		return asset.FileType
	}

	ext := strings.TrimPrefix(filepath.Ext(asset.FileName), ".")
	if t := filetype.GetType(ext); t != types.Unknown {
		return t.MIME.Value
	}

	return "application/octet-stream"
}
