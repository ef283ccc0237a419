package presign

import (
	"errors"
	"fmt"

	"github.com/tomasbasham/presign/internal/storage"
)

// Access is the outcome of an existence and permission check.
type Access int

const (
	Accessible Access = iota
	NotFound
	Forbidden
	OtherError
)

func (a Access) String() string {
	switch a {
	case Accessible:
		return "accessible"
	case NotFound:
		return "not found"
	case Forbidden:
		return "forbidden"
	default:
		return "error"
	}
}

// Entity identifies which probe a Decision relates to.
type Entity string

const (
	EntityBucket Entity = "bucket"
	EntityObject Entity = "object"
)

// Decision is the result of a check. When Access is not Accessible, Entity
// and Name identify the first probe that failed.
type Decision struct {
	Access Access
	Entity Entity
	Name   string

	cause error
}

// Accessible reports whether every probe succeeded.
func (d Decision) Accessible() bool {
	return d.Access == Accessible
}

// Err returns nil for an accessible decision and an *AccessError otherwise.
func (d Decision) Err() error {
	if d.Accessible() {
		return nil
	}
	return &AccessError{Access: d.Access, Entity: d.Entity, Name: d.Name, cause: d.cause}
}

// decide classifies the error returned by a probe of entity name.
func decide(entity Entity, name string, err error) Decision {
	d := Decision{Access: Accessible, Entity: entity, Name: name, cause: err}

	switch {
	case err == nil:
	case errors.Is(err, storage.ErrNotFound):
		d.Access = NotFound
	case errors.Is(err, storage.ErrAccessDenied):
		d.Access = Forbidden
	default:
		d.Access = OtherError
	}
	return d
}

// AccessError is the diagnostic for a failed check. Its message names the
// entity but never includes the provider's raw error; the provider error is
// available through errors.Unwrap.
type AccessError struct {
	Access Access
	Entity Entity
	Name   string

	cause error
}

func (e *AccessError) Error() string {
	switch e.Access {
	case NotFound:
		return fmt.Sprintf("%s %s does not exist", e.Entity, e.Name)
	case Forbidden:
		return fmt.Sprintf("you do not have permission to access %s %s", e.Entity, e.Name)
	default:
		return fmt.Sprintf("an error occurred while checking %s %s", e.Entity, e.Name)
	}
}

func (e *AccessError) Unwrap() error {
	return e.cause
}

// SigningError is returned when the provider could not sign a URL.
type SigningError struct {
	Bucket string
	Object string

	cause error
}

func (e *SigningError) Error() string {
	return fmt.Sprintf("failed to sign URL for object %s in bucket %s", e.Object, e.Bucket)
}

func (e *SigningError) Unwrap() error {
	return e.cause
}
