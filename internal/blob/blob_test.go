package blob

import (
	"context"
	"errors"
	"strings"
	"testing"
)

func TestParseDriver(t *testing.T) {
	cases := []struct {
		in      string
		want    Driver
		wantErr bool
	}{
		{"", DriverFilesystem, false},
		{"fs", DriverFilesystem, false},
		{"s3", DriverS3, false},
		{"memory", DriverMemory, false},
		{"ftp", "", true},
	}
	for _, tc := range cases {
		got, err := ParseDriver(tc.in)
		if (err != nil) != tc.wantErr {
			t.Fatalf("ParseDriver(%q) error = %v, wantErr %v", tc.in, err, tc.wantErr)
		}
		if got != tc.want {
			t.Fatalf("ParseDriver(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestOpenDrivers(t *testing.T) {
	ctx := context.Background()
	fsStore, err := Open(ctx, Config{FSRoot: t.TempDir(), PublicBaseURL: "http://localhost:8080/exports"})
	if err != nil {
		t.Fatalf("open fs: %v", err)
	}
	if fsStore.Driver() != DriverFilesystem {
		t.Fatalf("expected fs driver, got %s", fsStore.Driver())
	}
	info, err := fsStore.Put(ctx, "reports/a.csv", strings.NewReader("a,b\n"), PutOptions{ContentType: "text/csv"})
	if err != nil {
		t.Fatalf("put: %v", err)
	}
	if info.URL != "http://localhost:8080/exports/reports/a.csv" {
		t.Fatalf("unexpected url %q", info.URL)
	}

	mem, err := Open(ctx, Config{Driver: DriverMemory})
	if err != nil || mem.Driver() != DriverMemory {
		t.Fatalf("open memory: %v", err)
	}
	if _, err := mem.PresignURL(ctx, "x", SignedURLOptions{}); !errors.Is(err, ErrUnsupported) {
		t.Fatalf("expected unsupported presign, got %v", err)
	}

	if _, err := Open(ctx, Config{Driver: DriverS3}); err == nil {
		t.Fatalf("expected missing bucket error")
	}
	if _, err := Open(ctx, Config{Driver: "bogus"}); err == nil {
		t.Fatalf("expected unknown driver error")
	}
}
