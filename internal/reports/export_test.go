package reports

import (
	"context"
	"encoding/csv"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"farmcore/internal/blob"
	fsstore "farmcore/internal/infra/blob/fs"
	s3store "farmcore/internal/infra/blob/s3"
)

var exportTime = time.Date(2024, 6, 1, 8, 0, 0, 0, time.UTC)

func readCSV(t *testing.T, store blob.Store, key string) [][]string {
	t.Helper()
	_, rc, err := store.Get(context.Background(), key)
	if err != nil {
		t.Fatalf("get export: %v", err)
	}
	defer func() { _ = rc.Close() }()
	records, err := csv.NewReader(rc).ReadAll()
	if err != nil {
		t.Fatalf("parse csv: %v", err)
	}
	return records
}

func TestExportWritesEveryPage(t *testing.T) {
	f := newFarm(t)
	store := blob.NewMemory()
	exp := NewExporter(f.provider(), store, WithExportClock(func() time.Time { return exportTime }), WithExportPageSize(5))

	res, err := exp.Export(context.Background(), LandPlantList, map[string]any{"land_id": f.north.ID}, PageRequest{OrderByColumnName: "some_int_val"})
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	if res.Rows != 12 || res.Report != LandPlantList {
		t.Fatalf("unexpected result %+v", res)
	}
	if !strings.HasPrefix(res.Blob.Key, "reports/land_plant_list/20240601T080000Z-") || !strings.HasSuffix(res.Blob.Key, ".csv") {
		t.Fatalf("unexpected key %q", res.Blob.Key)
	}
	if res.Blob.ContentType != "text/csv" || res.Blob.Metadata["rows"] != "12" {
		t.Fatalf("unexpected blob info %+v", res.Blob)
	}
	if res.URL != "" {
		t.Fatalf("memory driver has no url, got %q", res.URL)
	}

	records := readCSV(t, store, res.Blob.Key)
	if len(records) != 13 {
		t.Fatalf("expected header + 12 rows, got %d", len(records))
	}
	if records[0][0] != "plant_id" || records[0][1] != "some_int_val" {
		t.Fatalf("unexpected header %v", records[0])
	}
	for i, rec := range records[1:] {
		if want := FormatValue(int64(i + 1)); rec[1] != want {
			t.Fatalf("row %d: some_int_val = %s, want %s", i, rec[1], want)
		}
	}
}

func TestExportToFilesystemAndS3(t *testing.T) {
	f := newFarm(t)
	ctx := context.Background()
	params := map[string]any{"pac_id": f.pac.ID}

	fs, err := fsstore.New(t.TempDir(), fsstore.WithBaseURL("https://farm.example/exports"))
	if err != nil {
		t.Fatalf("fs store: %v", err)
	}
	res, err := NewExporter(f.provider(), fs).Export(ctx, PacUserLandList, params, PageRequest{})
	if err != nil {
		t.Fatalf("fs export: %v", err)
	}
	if res.Rows != 2 || !strings.HasPrefix(res.URL, "https://farm.example/exports/reports/pac_user_land_list/") {
		t.Fatalf("unexpected fs export %+v", res)
	}

	s3, fake, err := s3store.NewMock(ctx, "exports")
	if err != nil {
		t.Fatalf("s3 mock: %v", err)
	}
	res, err = NewExporter(f.provider(), s3, WithURLExpiry(time.Minute)).Export(ctx, PacUserLandList, params, PageRequest{})
	if err != nil {
		t.Fatalf("s3 export: %v", err)
	}
	if !strings.Contains(res.URL, "X-Amz-Signature=") || !strings.Contains(res.URL, "X-Amz-Expires=60") {
		t.Fatalf("expected presigned url, got %q", res.URL)
	}
	body, ok := fake.Object(res.Blob.Key)
	if !ok {
		t.Fatalf("expected object in bucket")
	}
	records, err := csv.NewReader(strings.NewReader(string(body))).ReadAll()
	if err != nil || len(records) != 3 {
		t.Fatalf("unexpected s3 csv %q err=%v", body, err)
	}
}

func TestExportPropagatesErrors(t *testing.T) {
	f := newFarm(t)
	exp := NewExporter(f.provider(), failingStore{blob.NewMemory()})
	if _, err := exp.Export(context.Background(), "missing", nil, PageRequest{}); !errors.Is(err, ErrReportNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	if _, err := exp.Export(context.Background(), PacUserTacList, map[string]any{"pac_id": f.pac.ID}, PageRequest{}); err == nil {
		t.Fatalf("expected store error")
	}
}

type failingStore struct{ blob.Store }

func (failingStore) Put(context.Context, string, io.Reader, blob.PutOptions) (blob.Info, error) {
	return blob.Info{}, errors.New("disk full")
}

func TestFormatValue(t *testing.T) {
	cases := []struct {
		in   any
		want string
	}{
		{nil, ""},
		{"x", "x"},
		{true, "true"},
		{int64(42), "42"},
		{7, "7"},
		{1.5, "1.5"},
		{float32(0.25), "0.25"},
		{time.Date(2024, 1, 2, 3, 4, 5, 0, time.FixedZone("x", 3600)), "2024-01-02T02:04:05Z"},
		{[]int{1}, "[1]"},
	}
	for _, tc := range cases {
		if got := FormatValue(tc.in); got != tc.want {
			t.Fatalf("FormatValue(%v) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
