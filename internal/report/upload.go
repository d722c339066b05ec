package report

import (
	"fmt"
	"os"
	"strings"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3/s3manager"
	"github.com/hashicorp/go-hclog"
)

const defaultRegion = "us-east-1"

// ParseS3URI splits an s3://bucket/key URI into bucket and key.
func ParseS3URI(uri string) (string, string, error) {
	trimmed := strings.TrimPrefix(uri, "s3://")
	if trimmed == uri {
		return "", "", fmt.Errorf("destination %q is not an s3:// URI", uri)
	}
	bucket, key, found := strings.Cut(trimmed, "/")
	if !found || bucket == "" || key == "" {
		return "", "", fmt.Errorf("destination %q must be s3://bucket/key", uri)
	}
	return bucket, key, nil
}

// Upload pushes a written report file to S3. Credentials come from the
// standard AWS environment and shared config.
func Upload(logger hclog.Logger, localPath, destination string) error {
	bucket, key, err := ParseS3URI(destination)
	if err != nil {
		return err
	}

	region := os.Getenv("AWS_DEFAULT_REGION")
	if region == "" {
		region = defaultRegion
	}

	sess := session.Must(session.NewSession(&aws.Config{
		Region: aws.String(region),
	}))
	uploader := s3manager.NewUploader(sess)

	file, err := os.Open(localPath)
	if err != nil {
		return fmt.Errorf("failed to open report file %q: %w", localPath, err)
	}
	defer file.Close()

	result, err := uploader.Upload(&s3manager.UploadInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
		Body:   file,
	})
	if err != nil {
		return fmt.Errorf("failed to upload report to s3://%s/%s: %w", bucket, key, err)
	}

	logger.Info("uploaded report", "bucket", bucket, "key", key, "location", aws.StringValue(&result.Location))
	return nil
}
