package repositories

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// Profile photos live in an R2 bucket; the client uploads directly against a
// presigned URL and we only ever store the resulting public link.
var (
	R2Client        *s3.Client
	R2BucketName    string
	R2PublicBaseURL string
)

// InitR2 initializes the R2 client using static credentials and custom endpoint.
func InitR2(accessKey, secretKey, accountID, bucketName, region, publicBaseURL string) error {
	R2BucketName = bucketName
	R2PublicBaseURL = strings.TrimSuffix(publicBaseURL, "/")
	endpoint := fmt.Sprintf("https://%s.r2.cloudflarestorage.com", accountID)

	cfg := aws.Config{
		Credentials: credentials.NewStaticCredentialsProvider(accessKey, secretKey, ""),
		Region:      region,
	}

	R2Client = s3.NewFromConfig(cfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(endpoint)
		o.UsePathStyle = true
	})

	log.Println("Successfully initialized R2 client")

	return nil
}

// PresignPhotoUpload creates a presigned URL for uploading a profile photo.
func PresignPhotoUpload(ctx context.Context, key string, expires time.Duration) (string, error) {
	presigner := s3.NewPresignClient(R2Client)
	req, err := presigner.PresignPutObject(ctx, &s3.PutObjectInput{
		Bucket: aws.String(R2BucketName),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(expires))
	if err != nil {
		return "", err
	}
	return req.URL, nil
}

// PhotoPublicURL is the stable link stored on the profile once the upload
// behind the presigned URL completes.
func PhotoPublicURL(key string) string {
	return fmt.Sprintf("%s/%s", R2PublicBaseURL, key)
}
