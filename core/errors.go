// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package core

import (
	stderrors "errors"

	"github.com/pkg/errors"
)

// Bootstrap failures. Every error returned by NewBootstrap matches
// exactly one of these with errors.Is. None of them is retried.
var (
	ErrUnavailableCapability      = stderrors.New("requested layer or extension is unavailable")
	ErrContextCreationFailed      = stderrors.New("context creation failed")
	ErrSurfaceCreationFailed      = stderrors.New("surface creation failed")
	ErrNoAdaptersFound            = stderrors.New("no adapters found")
	ErrNoSuitableAdapter          = stderrors.New("no suitable adapter")
	ErrDeviceCreationFailed       = stderrors.New("logical device creation failed")
	ErrPresentChainCreationFailed = stderrors.New("present chain creation failed")
	ErrImageViewCreationFailed    = stderrors.New("image view creation failed")
)

// stageError ties a failure kind to the driver error that caused it.
type stageError struct {
	kind   error
	detail string
	cause  error
}

func (e *stageError) Error() string {
	msg := e.kind.Error()
	if e.detail != "" {
		msg += ": " + e.detail
	}
	if e.cause != nil {
		msg += ": " + e.cause.Error()
	}
	return msg
}

func (e *stageError) Is(target error) bool {
	return target == e.kind
}

func (e *stageError) Unwrap() error {
	return e.cause
}

func failure(kind error, cause error, detail string) error {
	return errors.WithStack(&stageError{
		kind:   kind,
		detail: detail,
		cause:  cause,
	})
}
