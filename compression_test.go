package mediabase

import (
	"bytes"
	"compress/gzip"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const sampleCSV = "transcript_id,fold_change\nENST001,1.5\nENST002,0.8\n"

func TestDetectCompression(t *testing.T) {
	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	zw.Write([]byte(sampleCSV))
	zw.Close()

	c, err := DetectCompression(bytes.NewReader(buf.Bytes()))
	if err != nil {
		t.Fatal(err)
	}
	if c != CompressionGzip {
		t.Errorf("compression = %v, want gzip", c)
	}

	c, err = DetectCompression(strings.NewReader(sampleCSV))
	if err != nil {
		t.Fatal(err)
	}
	if c != CompressionNone {
		t.Errorf("compression = %v, want none", c)
	}
}

func TestDecompressUpload(t *testing.T) {
	dir := t.TempDir()

	plain := filepath.Join(dir, "upload.csv")
	if err := os.WriteFile(plain, []byte(sampleCSV), 0o644); err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	zw.Write([]byte(sampleCSV))
	zw.Close()
	gzipped := filepath.Join(dir, "upload.csv.gz")
	if err := os.WriteFile(gzipped, buf.Bytes(), 0o644); err != nil {
		t.Fatal(err)
	}

	for _, path := range []string{plain, gzipped} {
		f, err := os.Open(path)
		if err != nil {
			t.Fatal(err)
		}

		rc, err := DecompressUpload(f)
		if err != nil {
			t.Fatalf("%s: %v", path, err)
		}

		got, err := io.ReadAll(rc)
		if err != nil {
			t.Fatalf("%s: %v", path, err)
		}
		if string(got) != sampleCSV {
			t.Errorf("%s: content mismatch: %q", path, got)
		}

		rc.Close()
		f.Close()
	}
}

func TestDecompressUploadRejectsUnixCompress(t *testing.T) {
	// compress(1) magic bytes followed by arbitrary payload.
	data := append([]byte{0x1f, 0x9d}, []byte("payload")...)

	c, err := DetectCompression(bytes.NewReader(data))
	if err != nil {
		t.Fatal(err)
	}
	if c != CompressionZ {
		t.Fatalf("compression = %v, want CompressionZ", c)
	}

	path := filepath.Join(t.TempDir(), "upload.csv.Z")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	if _, err := DecompressUpload(f); err == nil {
		t.Error("expected an unsupported-compression error for .Z input")
	} else if !strings.Contains(err.Error(), "not supported") {
		t.Errorf("err = %v; should name the unsupported format, not a decoder header failure", err)
	}
}

func TestDetectDelimiter(t *testing.T) {
	tsv := "transcript_id\tfold_change\nENST001\t1.5\nENST002\t0.8\n"
	if d := DetectDelimiter(strings.NewReader(tsv)); d != '\t' {
		t.Errorf("delimiter = %q, want tab", d)
	}

	if d := DetectDelimiter(strings.NewReader(sampleCSV)); d != ',' {
		t.Errorf("delimiter = %q, want comma", d)
	}
}
