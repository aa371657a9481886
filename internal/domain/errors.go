package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors shared across the pipeline stages.
var (
	ErrResourceInit = errors.New("resource init failed")
	ErrNavigation   = errors.New("navigation failed")
	ErrExtraction   = errors.New("content extraction failed")
	ErrServiceCall  = errors.New("service call failed")
	ErrConfig       = errors.New("configuration error")

	// ErrSchema and ErrTransport both satisfy errors.Is(err, ErrServiceCall).
	ErrSchema    = fmt.Errorf("%w: response does not match schema", ErrServiceCall)
	ErrTransport = fmt.Errorf("%w: transport", ErrServiceCall)
)
