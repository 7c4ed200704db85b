package gazelle

import (
	"errors"
	"fmt"
)

// Sentinel targets for errors.Is checks.
var (
	// ErrAuthentication matches any *AuthError.
	ErrAuthentication = errors.New("authentication failed")

	// ErrRequest matches any *RequestError.
	ErrRequest = errors.New("request failed")

	// ErrNoFormSubmitter is returned by Upload and Set24Bit when the
	// client was built without a form-submission collaborator.
	ErrNoFormSubmitter = errors.New("no form submitter configured")
)

// Authentication stages, recorded on AuthError for diagnostics.
const (
	StageCookie      = "session-cookie"
	StageCredentials = "credentials"
	StageTwoFactor   = "two-factor"
	StageAccountInfo = "account-info"
)

// AuthError indicates an irrecoverable failure during login or the
// account-info fetch. The cookie strategy is the only one that recovers
// from it (by falling back to credentials).
type AuthError struct {
	Stage string
	Err   error
}

func (e *AuthError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("gazelle: %s authentication failed: %v", e.Stage, e.Err)
	}
	return fmt.Sprintf("gazelle: %s authentication failed", e.Stage)
}

func (e *AuthError) Unwrap() error { return e.Err }

// Is lets errors.Is(err, ErrAuthentication) match.
func (e *AuthError) Is(target error) bool { return target == ErrAuthentication }

// RequestError indicates a malformed or unsuccessful JSON-API response.
// Status carries the envelope status when the body parsed but the API
// reported failure.
type RequestError struct {
	Action string
	Status string
	Err    error
}

func (e *RequestError) Error() string {
	switch {
	case e.Status != "":
		return fmt.Sprintf("gazelle: request %q failed: status %q", e.Action, e.Status)
	case e.Err != nil:
		return fmt.Sprintf("gazelle: request %q failed: %v", e.Action, e.Err)
	default:
		return fmt.Sprintf("gazelle: request %q failed", e.Action)
	}
}

func (e *RequestError) Unwrap() error { return e.Err }

// Is lets errors.Is(err, ErrRequest) match.
func (e *RequestError) Is(target error) bool { return target == ErrRequest }
