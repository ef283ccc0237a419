package storage

import (
	"errors"
	"fmt"
	"net/http"

	gcs "cloud.google.com/go/storage"
	"github.com/aws/smithy-go"
	"github.com/minio/minio-go/v7"
	"google.golang.org/api/googleapi"
)

// Sentinel errors for storage operations.
var (
	ErrInvalidConfig = errors.New("storage: invalid configuration")

	ErrNotFound      = errors.New("storage: not found")
	ErrAccessDenied  = errors.New("storage: access denied")
	ErrRequestFailed = errors.New("storage: request failed")
	ErrPresignFailed = errors.New("storage: presign failed")
)

// statusCoder is satisfied by the HTTP response errors of the AWS SDK. HEAD
// requests carry no body, so for HeadBucket and HeadObject the status code is
// often the only signal available.
type statusCoder interface {
	HTTPStatusCode() int
}

// wrap annotates err with sentinel, keeping the original message. The
// original is formatted with %v so that callers match on sentinels rather
// than on SDK types.
func wrap(sentinel, err error) error {
	return fmt.Errorf("%w: %v", sentinel, err)
}

// classifyS3Error maps an AWS SDK error onto the package sentinels.
func classifyS3Error(err error, fallback error) error {
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "NotFound", "NoSuchBucket", "NoSuchKey":
			return wrap(ErrNotFound, err)
		case "AccessDenied", "Forbidden", "AllAccessDisabled":
			return wrap(ErrAccessDenied, err)
		}
	}

	var sc statusCoder
	if errors.As(err, &sc) {
		if sentinel := sentinelForStatus(sc.HTTPStatusCode()); sentinel != nil {
			return wrap(sentinel, err)
		}
	}

	return wrap(fallback, err)
}

// classifyMinIOError maps a minio-go error onto the package sentinels.
func classifyMinIOError(err error, fallback error) error {
	var resp minio.ErrorResponse
	if errors.As(err, &resp) {
		switch resp.Code {
		case "NoSuchBucket", "NoSuchKey", "NotFound":
			return wrap(ErrNotFound, err)
		case "AccessDenied", "Forbidden":
			return wrap(ErrAccessDenied, err)
		}
		if sentinel := sentinelForStatus(resp.StatusCode); sentinel != nil {
			return wrap(sentinel, err)
		}
	}
	return wrap(fallback, err)
}

// classifyGCSError maps a Cloud Storage error onto the package sentinels.
func classifyGCSError(err error, fallback error) error {
	if errors.Is(err, gcs.ErrBucketNotExist) || errors.Is(err, gcs.ErrObjectNotExist) {
		return wrap(ErrNotFound, err)
	}

	var gErr *googleapi.Error
	if errors.As(err, &gErr) {
		if sentinel := sentinelForStatus(gErr.Code); sentinel != nil {
			return wrap(sentinel, err)
		}
	}
	return wrap(fallback, err)
}

func sentinelForStatus(code int) error {
	switch code {
	case http.StatusNotFound:
		return ErrNotFound
	case http.StatusForbidden, http.StatusUnauthorized:
		return ErrAccessDenied
	}
	return nil
}
