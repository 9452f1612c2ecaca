// Copyright (c) 2026 Javier Podavini (YindSoft)
// Licensed under the MIT License. See LICENSE file in the project root.

package framebridge

import (
	"errors"
	"fmt"
)

var (
	// ErrOwnerClosed is returned by GetOrCreate after the owner was closed.
	ErrOwnerClosed = errors.New("render context owner closed")
	// ErrStopped is returned by bridge operations after Stop.
	ErrStopped = errors.New("bridge stopped")
)

// ConfigurationError reports an unusable cache or resource path.
type ConfigurationError struct {
	Field string
	Path  string
	Err   error
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("invalid %s %q: %v", e.Field, e.Path, e.Err)
}

func (e *ConfigurationError) Unwrap() error { return e.Err }

// MissingTargetError is returned by Start when no drawable image target exists.
type MissingTargetError struct {
	Reason string
}

func (e *MissingTargetError) Error() string {
	if e.Reason == "" {
		return "no drawable image target found"
	}
	return "no drawable image target found: " + e.Reason
}

// ScriptEvaluationError carries the exception text of a failed script.
type ScriptEvaluationError struct {
	Script    string
	Exception string
}

func (e *ScriptEvaluationError) Error() string {
	return fmt.Sprintf("script evaluation failed: %s", e.Exception)
}

// FrameCopyError reports a failed bitmap lock or copy. The frame is skipped.
type FrameCopyError struct {
	Err error
}

func (e *FrameCopyError) Error() string {
	return fmt.Sprintf("frame copy: %v", e.Err)
}

func (e *FrameCopyError) Unwrap() error { return e.Err }
