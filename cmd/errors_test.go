package cmd

import "testing"

func TestReviewNotFoundError(t *testing.T) {
	err := &ReviewNotFoundError{ID: "rev_123"}
	if err.Error() != "review rev_123 not found" {
		t.Fatalf("unexpected error string: %s", err.Error())
	}
}

func TestUnsupportedFormatError(t *testing.T) {
	err := &UnsupportedFormatError{Format: "yaml", Supported: []string{"table", "json", "csv"}}
	want := `unsupported format "yaml" (supported: [table json csv])`
	if err.Error() != want {
		t.Fatalf("expected %s, got %s", want, err.Error())
	}

	err = &UnsupportedFormatError{Format: "yaml"}
	want = `unsupported format "yaml"`
	if err.Error() != want {
		t.Fatalf("expected %s, got %s", want, err.Error())
	}
}
