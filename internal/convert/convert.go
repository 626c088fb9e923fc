// Package convert rewrites legacy workbook formats into files the
// extractors can open. Conversion is injected into the loading pipeline as
// a Converter; deployments that never see legacy files keep the failing
// default and never pull in the BIFF reader.
package convert

import (
	"context"
	"errors"
)

// ErrUnsupported reports that no converter for the file's format is wired.
var ErrUnsupported = errors.New("legacy workbook conversion not supported")

// Converter rewrites a legacy workbook into a temporary .xlsx file and
// returns its path. The caller owns the temporary file and must remove it
// once done.
type Converter interface {
	Convert(ctx context.Context, path string) (string, error)
}

// Unsupported is the default Converter. It refuses every file with
// ErrUnsupported; callers treat the source workbook as unreadable.
type Unsupported struct{}

func (Unsupported) Convert(context.Context, string) (string, error) {
	return "", ErrUnsupported
}
