// SPDX-License-Identifier: EPL-2.0

package hrir

import "errors"

var (
	// ErrBadFormat marks malformed or unreadable source data.
	ErrBadFormat = errors.New("malformed dataset")
	// ErrBadConfig marks an invalid configuration, including a dataset
	// root with no discoverable measurements.
	ErrBadConfig = errors.New("invalid dataset configuration")
	// ErrUnknownKey marks a lookup for a measurement the index does not hold.
	ErrUnknownKey = errors.New("unknown measurement key")
	// ErrInvalidRate marks a non-positive sample rate.
	ErrInvalidRate = errors.New("sample rate must be positive")
)
