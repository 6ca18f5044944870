package gcsuploader

import (
	"testing"
	"time"
)

func TestParseGCSURI(t *testing.T) {
	tests := []struct {
		name       string
		uri        string
		wantBucket string
		wantObject string
		wantErr    bool
	}{
		{name: "simple", uri: "gs://bucket/file.csv", wantBucket: "bucket", wantObject: "file.csv"},
		{name: "nested", uri: "gs://bucket/a/b/transacciones_sucias.csv", wantBucket: "bucket", wantObject: "a/b/transacciones_sucias.csv"},
		{name: "wrong scheme", uri: "s3://bucket/file.csv", wantErr: true},
		{name: "no object", uri: "gs://bucket", wantErr: true},
		{name: "trailing slash only", uri: "gs://bucket/", wantErr: true},
		{name: "no bucket", uri: "gs:///file.csv", wantErr: true},
		{name: "local path", uri: "data/transacciones_sucias.csv", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bucket, object, err := ParseGCSURI(tt.uri)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseGCSURI() error = %v, wantErr %v", err, tt.wantErr)
			}
			if bucket != tt.wantBucket || object != tt.wantObject {
				t.Errorf("ParseGCSURI() = (%q, %q), want (%q, %q)", bucket, object, tt.wantBucket, tt.wantObject)
			}
		})
	}
}

func TestGCSURIRoundTrip(t *testing.T) {
	uri := GCSURI("finanzas-demo", "transacciones/2025-03-14/transacciones_sucias.csv")
	bucket, object, err := ParseGCSURI(uri)
	if err != nil {
		t.Fatalf("ParseGCSURI(%q) error = %v", uri, err)
	}
	if bucket != "finanzas-demo" || object != "transacciones/2025-03-14/transacciones_sucias.csv" {
		t.Errorf("got (%q, %q)", bucket, object)
	}
}

func TestDefaultObjectName(t *testing.T) {
	now := time.Date(2025, time.March, 14, 9, 30, 0, 0, time.UTC)
	got := DefaultObjectName("data/transacciones_sucias.csv", now)
	if got != "transacciones/2025-03-14/transacciones_sucias.csv" {
		t.Errorf("DefaultObjectName() = %q", got)
	}
}

func TestContentType(t *testing.T) {
	tests := map[string]string{
		"a.csv":  "text/csv",
		"b.CSV":  "text/csv",
		"c.xlsx": "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		"d":      "application/octet-stream",
	}
	for file, want := range tests {
		if got := contentType(file); got != want {
			t.Errorf("contentType(%q) = %q, want %q", file, got, want)
		}
	}
}
