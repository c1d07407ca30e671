// server/internal/s3/uploader.go
package s3

import (
	"context"
	"fmt"
	"io"

	"reeutil-tradein-api-server/config"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

type Uploader struct {
	Client           *s3.Client
	Bucket           string
	Region           string
	CloudFrontDomain string
}

func NewUploader(cfg config.S3Config) (*Uploader, error) {
	sdkConfig, err := awsconfig.LoadDefaultConfig(context.TODO(),
		awsconfig.WithRegion(cfg.Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, "")),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	return &Uploader{
		Client:           s3.NewFromConfig(sdkConfig),
		Bucket:           cfg.Bucket,
		Region:           cfg.Region,
		CloudFrontDomain: cfg.CloudFrontDomain,
	}, nil
}

// UploadFile puts an object into the bucket and returns its public URL,
// preferring the CloudFront domain when one is configured.
func (u *Uploader) UploadFile(ctx context.Context, file io.Reader, objectKey, contentType string) (string, error) {
	if contentType == "" {
		contentType = "image/jpeg"
	}
	_, err := u.Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(u.Bucket),
		Key:         aws.String(objectKey),
		Body:        file,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload file to S3: %w", err)
	}

	if u.CloudFrontDomain != "" {
		return fmt.Sprintf("https://%s/%s", u.CloudFrontDomain, objectKey), nil
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", u.Bucket, u.Region, objectKey), nil
}
