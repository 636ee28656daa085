package errors

import (
	"errors"
)

const (
	CodeConfigNotFound      = "CONFIG_NOT_FOUND"
	CodeDeviceQueryFailed   = "DEVICE_QUERY_FAILED"
	CodeManifestIncomplete  = "MANIFEST_INCOMPLETE"
	CodeIncompatiblePairing = "INCOMPATIBLE_PAIRING"
	CodeAppNotFound         = "APP_NOT_FOUND"
)

// Types ////////////////////////////////////////

type CodedError interface {
	error
	Code() string
}

type codedError struct {
	code string
	msg  string
	err  error
}

func (e *codedError) Error() string {
	if e.err != nil {
		return e.msg + ": " + e.err.Error()
	}
	return e.msg
}

func (e *codedError) Code() string {
	return e.code
}

func (e *codedError) Unwrap() error {
	return e.err
}

// Error Creators ///////////////////////////////

// The portablesource.yaml config was not found
func ConfigNotFound(msg string) error {
	return &codedError{code: CodeConfigNotFound, msg: msg}
}

// The host could not list its display adapters
func DeviceQueryFailed(msg string, err error) error {
	return &codedError{code: CodeDeviceQueryFailed, msg: msg, err: err}
}

// A manifest has no entry for the requested hardware class
func ManifestIncomplete(msg string) error {
	return &codedError{code: CodeManifestIncomplete, msg: msg}
}

// A plan step targets a different accelerator family than the plan itself
func IncompatiblePairing(msg string) error {
	return &codedError{code: CodeIncompatiblePairing, msg: msg}
}

// The requested application is not in the catalog
func AppNotFound(msg string) error {
	return &codedError{code: CodeAppNotFound, msg: msg}
}

// Helpers //////////////////////////////////////

func IsConfigNotFound(err error) bool {
	return Code(err) == CodeConfigNotFound
}

func IsDeviceQueryFailed(err error) bool {
	return Code(err) == CodeDeviceQueryFailed
}

func IsManifestIncomplete(err error) bool {
	return Code(err) == CodeManifestIncomplete
}

func IsIncompatiblePairing(err error) bool {
	return Code(err) == CodeIncompatiblePairing
}

func IsAppNotFound(err error) bool {
	return Code(err) == CodeAppNotFound
}

// Return the error code of the first coded error in the chain, or the empty string
func Code(err error) string {
	var cerr CodedError
	if errors.As(err, &cerr) {
		return cerr.Code()
	}
	return ""
}
