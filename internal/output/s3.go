package output

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"git.home.luguber.info/inful/sitegraph/internal/config"
	"git.home.luguber.info/inful/sitegraph/internal/foundation/errors"
)

// PutObjectAPI is the part of the S3 client the sink needs.
type PutObjectAPI interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Sink uploads artifacts to a bucket. The manifest is uploaded last so a
// consumer polling it only sees a new build once both tables are in place.
type S3Sink struct {
	client PutObjectAPI
	bucket string
	prefix string
	format config.OutputFormat
}

func NewS3Sink(client PutObjectAPI, bucket, prefix string, format config.OutputFormat) *S3Sink {
	return &S3Sink{client: client, bucket: bucket, prefix: prefix, format: format}
}

// NewS3Client builds a client from the output.s3 section. Credentials come
// from AWS_ACCESS_KEY_ID, AWS_SECRET_ACCESS_KEY and AWS_SESSION_TOKEN.
func NewS3Client(cfg *config.S3Config) *s3.Client {
	region := cfg.Region
	if region == "" {
		region = os.Getenv("AWS_REGION")
	}
	if region == "" {
		region = "us-east-1"
	}
	opts := s3.Options{
		Region:       region,
		Credentials:  aws.NewCredentialsCache(envCredentials()),
		UsePathStyle: cfg.PathStyle,
	}
	if cfg.Endpoint != "" {
		opts.BaseEndpoint = aws.String(cfg.Endpoint)
	}
	return s3.New(opts)
}

func envCredentials() aws.CredentialsProvider {
	return aws.CredentialsProviderFunc(func(context.Context) (aws.Credentials, error) {
		creds := aws.Credentials{
			AccessKeyID:     os.Getenv("AWS_ACCESS_KEY_ID"),
			SecretAccessKey: os.Getenv("AWS_SECRET_ACCESS_KEY"),
			SessionToken:    os.Getenv("AWS_SESSION_TOKEN"),
			Source:          "environment",
		}
		if creds.AccessKeyID == "" || creds.SecretAccessKey == "" {
			return aws.Credentials{}, errors.ConfigError("AWS_ACCESS_KEY_ID and AWS_SECRET_ACCESS_KEY must be set for S3 output").Build()
		}
		return creds, nil
	})
}

func (s *S3Sink) Describe() string { return "s3://" + path.Join(s.bucket, s.prefix) }

func (s *S3Sink) Write(ctx context.Context, res *Result) error {
	artifacts, _, err := Render(res, s.format)
	if err != nil {
		return err
	}
	for _, a := range artifacts {
		key := path.Join(s.prefix, a.Name)
		_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
			Bucket:      aws.String(s.bucket),
			Key:         aws.String(key),
			Body:        bytes.NewReader(a.Data),
			ContentType: aws.String(a.ContentType),
			Metadata:    map[string]string{"build-id": res.BuildID},
		})
		if err != nil {
			return errors.WrapError(err, errors.CategoryOutput, "failed to upload artifact").
				WithContext("bucket", s.bucket).
				WithContext("key", key).
				Build()
		}
		slog.Debug("Uploaded artifact", slog.String("bucket", s.bucket), slog.String("key", key))
	}
	return nil
}
