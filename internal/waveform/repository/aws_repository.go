package repository

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/amankumarsingh77/waveform-service/internal/models"
	"github.com/amankumarsingh77/waveform-service/internal/waveform"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

const peaksContentType = "application/json"

type awsRepository struct {
	client        *s3.Client
	preSignClient *s3.PresignClient
}

func NewAwsRepository(awsClient *s3.Client, preSignClient *s3.PresignClient) waveform.AWSRepository {
	return &awsRepository{
		preSignClient: preSignClient,
		client:        awsClient,
	}
}

func archiveKey(videoID string, quality models.Quality) string {
	return fmt.Sprintf("peaks/%s/%s.json", videoID, quality)
}

func (a *awsRepository) ArchivePeaks(ctx context.Context, bucket string, result *models.PeaksResult) error {
	body, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("failed to marshal peaks for archive: %w", err)
	}
	key := archiveKey(result.VideoID, result.Quality)
	contentType := peaksContentType
	contentLength := int64(len(body))
	_, err = a.client.PutObject(
		ctx,
		&s3.PutObjectInput{
			Bucket:        &bucket,
			Key:           &key,
			ContentType:   &contentType,
			ContentLength: &contentLength,
			Body:          bytes.NewReader(body),
		},
	)
	if err != nil {
		return fmt.Errorf("failed to archive peaks : %w", err)
	}
	return nil
}

func (a *awsRepository) GetArchivedPeaks(ctx context.Context, bucket, videoID string, quality models.Quality) (*models.PeaksResult, error) {
	key := archiveKey(videoID, quality)
	res, err := a.client.GetObject(
		ctx,
		&s3.GetObjectInput{
			Bucket: &bucket,
			Key:    &key,
		},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch archived peaks : %w", err)
	}
	defer res.Body.Close()
	body, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read archived peaks : %w", err)
	}
	result := &models.PeaksResult{}
	if err = json.Unmarshal(body, result); err != nil {
		return nil, fmt.Errorf("failed to unmarshal archived peaks : %w", err)
	}
	return result, nil
}

func (a *awsRepository) RemoveArchivedPeaks(ctx context.Context, bucket, videoID string, quality models.Quality) error {
	key := archiveKey(videoID, quality)
	_, err := a.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: &bucket,
		Key:    &key,
	})
	if err != nil {
		return fmt.Errorf("failed to remove archived peaks : %w", err)
	}
	return nil
}

// GetPresignedAssetURL presigns a GET for an asset that lives in one of
// our buckets (s3-style "bucket/key" locations only).
func (a *awsRepository) GetPresignedAssetURL(ctx context.Context, assetLocation string) (string, error) {
	bucket, key, err := splitS3Location(assetLocation)
	if err != nil {
		return "", err
	}
	getObjectReq, err := a.preSignClient.PresignGetObject(
		ctx,
		&s3.GetObjectInput{
			Bucket: &bucket,
			Key:    &key,
		},
		s3.WithPresignExpires(60*time.Minute),
	)
	if err != nil {
		return "", fmt.Errorf("failed to presign get object : %w", err)
	}
	return getObjectReq.URL, nil
}

func splitS3Location(location string) (bucket, key string, err error) {
	for i := 0; i < len(location); i++ {
		if location[i] == '/' {
			if i == 0 || i == len(location)-1 {
				break
			}
			return location[:i], location[i+1:], nil
		}
	}
	return "", "", fmt.Errorf("invalid s3 location: %s", location)
}
