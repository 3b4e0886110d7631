package chunk

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestSplitChunks(t *testing.T) {
	tests := []struct {
		name      string
		content   string
		wantCount int
	}{
		{name: "empty file", content: "", wantCount: 0},
		{name: "shorter than one chunk", content: "hello", wantCount: 1},
		{name: "exactly one chunk", content: strings.Repeat("a", ChunkChars), wantCount: 1},
		{name: "one chunk plus one char", content: strings.Repeat("a", ChunkChars+1), wantCount: 2},
		{name: "three full chunks", content: strings.Repeat("a", ChunkChars*3), wantCount: 3},
		{name: "multi-byte runes count as characters", content: strings.Repeat("日", ChunkChars+10), wantCount: 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			chunks := SplitChunks([]byte(tt.content))
			if len(chunks) != tt.wantCount {
				t.Fatalf("got %d chunks, want %d", len(chunks), tt.wantCount)
			}

			var rebuilt strings.Builder
			for _, c := range chunks {
				rebuilt.Write(c)
			}
			if rebuilt.String() != tt.content {
				t.Fatalf("chunks did not reassemble to original content")
			}
		})
	}
}

func TestEncodeFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "in.txt")
	content := strings.Repeat("x", 1200)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	records, err := EncodeFile("doc", path)
	if err != nil {
		t.Fatal(err)
	}

	// 1200 chars / 500 per chunk = 3 chunks, plus one total record.
	if len(records) != 4 {
		t.Fatalf("got %d records, want 4", len(records))
	}

	wantKeys := []string{"doc_0_3", "doc_1_3", "doc_2_3", "doc_total"}
	for i, want := range wantKeys {
		if records[i].Key != want {
			t.Errorf("record %d: got key %q, want %q", i, records[i].Key, want)
		}
	}
	if string(records[3].Value) != "3" {
		t.Errorf("total record value = %q, want %q", records[3].Value, "3")
	}
}

func TestEncodeFileEmpty(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "empty.txt")
	if err := os.WriteFile(path, nil, 0o600); err != nil {
		t.Fatal(err)
	}

	records, err := EncodeFile("doc", path)
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 1 {
		t.Fatalf("got %d records, want 1 (total only)", len(records))
	}
	if records[0].Key != "doc_total" || string(records[0].Value) != "0" {
		t.Fatalf("got %+v, want doc_total=0", records[0])
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		key       string
		wantShape Shape
		wantFile  string
		wantIdx   int
		wantTotal int
	}{
		{key: "foo", wantShape: ShapeTraditional},
		{key: "doc_total", wantShape: ShapeTotal, wantFile: "doc"},
		{key: "doc_0_3", wantShape: ShapeChunk, wantFile: "doc", wantIdx: 0, wantTotal: 3},
		{key: "doc_2_3", wantShape: ShapeChunk, wantFile: "doc", wantIdx: 2, wantTotal: 3},
		{key: "a_b_c_d", wantShape: ShapeInvalid},
		{key: "doc_x_y", wantShape: ShapeInvalid},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			got := Classify(tt.key)
			if got.Shape != tt.wantShape {
				t.Fatalf("Shape = %v, want %v", got.Shape, tt.wantShape)
			}
			if got.Shape == ShapeTotal || got.Shape == ShapeChunk {
				if got.FileKey != tt.wantFile {
					t.Errorf("FileKey = %q, want %q", got.FileKey, tt.wantFile)
				}
			}
			if got.Shape == ShapeChunk {
				if got.Index != tt.wantIdx || got.Total != tt.wantTotal {
					t.Errorf("Index/Total = %d/%d, want %d/%d", got.Index, got.Total, tt.wantIdx, tt.wantTotal)
				}
			}
		})
	}
}

func TestChunkKeyAndTotalKey(t *testing.T) {
	if got := TotalKey("doc"); got != "doc_total" {
		t.Errorf("TotalKey = %q", got)
	}
	if got := ChunkKey("doc", 1, 3); got != "doc_1_3" {
		t.Errorf("ChunkKey = %q", got)
	}
}
