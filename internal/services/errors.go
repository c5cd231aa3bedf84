// Package services defines the error taxonomy shared by pipeline components.
//
// Every per-item or per-logo failure is wrapped with one of the sentinel
// markers below so callers can classify outcomes with errors.Is without
// parsing message text.
package services

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrUpstream marks failures of the directory service fetch.
	ErrUpstream = errors.New("upstream unavailable")
	// ErrNoStream marks items that carry no resolvable stream URL.
	ErrNoStream = errors.New("no stream url")
	// ErrDecode marks logo bytes that could not be decoded as an image.
	ErrDecode = errors.New("decode failed")
	// ErrVectorUnavailable marks vector logos skipped because no
	// rasterization backend is available.
	ErrVectorUnavailable = errors.New("vector backend unavailable")
	// ErrVectorRasterize marks vector logos the backend failed to render.
	ErrVectorRasterize = errors.New("vector rasterize failed")
	// ErrTimeout marks guarded work that exceeded its budget.
	ErrTimeout = errors.New("timeout")
	// ErrPersistence marks playlist, dataset, or archive write failures.
	ErrPersistence = errors.New("persistence failed")
)

// Wrap builds an error message that includes phase context while tagging it
// with the provided marker for later classification. The marker should be
// one of the exported sentinel errors above.
func Wrap(marker error, phase, operation, message string, err error) error {
	detail := buildDetail(phase, operation, message)
	if marker == nil {
		marker = ErrPersistence
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

func buildDetail(phase, operation, message string) string {
	parts := make([]string, 0, 3)
	if phase = strings.TrimSpace(phase); phase != "" {
		parts = append(parts, phase)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "service failure"
	}
	return strings.Join(parts, ": ")
}
