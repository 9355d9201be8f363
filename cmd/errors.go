package cmd

import "fmt"

// ReviewNotFoundError indicates a saved-review lookup failure.
type ReviewNotFoundError struct {
	ID string
}

func (e *ReviewNotFoundError) Error() string {
	return fmt.Sprintf("review %s not found", e.ID)
}

// UnsupportedFormatError signals that an output format is not recognized.
type UnsupportedFormatError struct {
	Format    string
	Supported []string
}

func (e *UnsupportedFormatError) Error() string {
	if len(e.Supported) > 0 {
		return fmt.Sprintf("unsupported format %q (supported: %v)", e.Format, e.Supported)
	}
	return fmt.Sprintf("unsupported format %q", e.Format)
}
