package accounts

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awshttp "github.com/aws/aws-sdk-go-v2/aws/transport/http"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/smithy-go"
	"github.com/dmitrijs2005/gophauth/internal/common"
	"github.com/dmitrijs2005/gophauth/internal/server/models"
)

// S3API is the part of *s3.Client the repository needs.
type S3API interface {
	HeadObject(ctx context.Context, in *s3.HeadObjectInput, optFns ...func(*s3.Options)) (*s3.HeadObjectOutput, error)
	GetObject(ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Repository stores each account as a JSON object under
// <prefix>/<escaped username>.json. Create is a conditional PUT with
// If-None-Match: *, so the object store itself rejects the second writer.
type S3Repository struct {
	api    S3API
	bucket string
	prefix string
}

func NewS3Repository(api S3API, bucket, prefix string) *S3Repository {
	return &S3Repository{api: api, bucket: bucket, prefix: strings.Trim(prefix, "/")}
}

func (r *S3Repository) key(username string) string {
	name := url.PathEscape(username) + ".json"
	if r.prefix == "" {
		return name
	}
	return r.prefix + "/" + name
}

func (r *S3Repository) Exists(ctx context.Context, username string) (bool, error) {
	_, err := r.api.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(r.bucket),
		Key:    aws.String(r.key(username)),
	})
	if err != nil {
		if httpStatus(err) == http.StatusNotFound {
			return false, nil
		}
		return false, fmt.Errorf("s3 error: %w", err)
	}
	return true, nil
}

func (r *S3Repository) Create(ctx context.Context, username, passwordHash string) (*models.Account, error) {
	acc := newAccount(username, passwordHash)

	data, err := json.Marshal(acc)
	if err != nil {
		return nil, fmt.Errorf("marshal account: %w", err)
	}

	_, err = r.api.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(r.bucket),
		Key:         aws.String(r.key(username)),
		Body:        bytes.NewReader(data),
		ContentType: aws.String("application/json"),
		IfNoneMatch: aws.String("*"),
	})
	if err != nil {
		if isConditionFailure(err) {
			return nil, common.ErrDuplicateUsername
		}
		return nil, fmt.Errorf("s3 error: %w", err)
	}
	return acc, nil
}

func (r *S3Repository) Find(ctx context.Context, username string) (*models.Account, error) {
	out, err := r.api.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(r.bucket),
		Key:    aws.String(r.key(username)),
	})
	if err != nil {
		if httpStatus(err) == http.StatusNotFound {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("s3 error: %w", err)
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, fmt.Errorf("read account %q: %w", username, err)
	}

	acc := &models.Account{}
	if err := json.Unmarshal(data, acc); err != nil {
		return nil, fmt.Errorf("unmarshal account %q: %w", username, err)
	}
	return acc, nil
}

func (r *S3Repository) Close() error { return nil }

func httpStatus(err error) int {
	var re *awshttp.ResponseError
	if errors.As(err, &re) {
		return re.HTTPStatusCode()
	}
	return 0
}

// isConditionFailure covers 412 PreconditionFailed and the 409 AWS returns
// when two conditional writes race.
func isConditionFailure(err error) bool {
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "PreconditionFailed", "ConditionalRequestConflict":
			return true
		}
	}
	return httpStatus(err) == http.StatusPreconditionFailed
}
