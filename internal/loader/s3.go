package loader

import (
	"context"
	"fmt"
	"io"
	"path"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// ObjectGetter is the part of the S3 client the loader needs
type ObjectGetter interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// NewS3Source reads s3://bucket/prefix/<table>.csv for each table
func NewS3Source(client ObjectGetter, bucket, prefix string) Source {
	return NewCSVSource("s3://"+path.Join(bucket, prefix), func(ctx context.Context, table string) (io.ReadCloser, error) {
		key := path.Join(prefix, table+".csv")
		result, err := client.GetObject(ctx, &s3.GetObjectInput{
			Bucket: aws.String(bucket),
			Key:    aws.String(key),
		})
		if err != nil {
			return nil, fmt.Errorf("getting object %s from S3 bucket %s: %w", key, bucket, err)
		}
		return result.Body, nil
	})
}

// NewS3Client builds an S3 client from the default AWS credential chain
func NewS3Client(ctx context.Context, region string) (*s3.Client, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("loading AWS config: %w", err)
	}
	return s3.NewFromConfig(cfg), nil
}
