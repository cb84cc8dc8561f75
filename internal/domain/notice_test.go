package domain_test

import (
	"errors"
	"strings"
	"testing"

	"vn.io.arda/notice/internal/domain"
)

func TestStoredFileName(t *testing.T) {
	name, err := domain.StoredFileName("weekly report.pdf", 12)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.HasPrefix(name, "12_") {
		t.Fatalf("stored name %q must start with the notice uid", name)
	}
	if !strings.HasSuffix(name, ".pdf") {
		t.Fatalf("stored name %q must keep the original extension", name)
	}

	other, err := domain.StoredFileName("weekly report.pdf", 12)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if name == other {
		t.Fatal("two stored names for the same file must differ")
	}
}

func TestStoredFileName_Invalid(t *testing.T) {
	for _, bad := range []string{"", "README", "trailingdot."} {
		if _, err := domain.StoredFileName(bad, 1); !errors.Is(err, domain.ErrInvalidFilename) {
			t.Fatalf("%q: expected ErrInvalidFilename, got %v", bad, err)
		}
	}
}
