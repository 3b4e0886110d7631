package chunk

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// ChunkChars is the maximum number of Unicode code points carried by a
// single chunk record. Splitting operates on runes, not bytes, matching the
// original implementation's character-based chunking.
const ChunkChars = 500

// WriteQuorum is the write quorum the node passes with every put of a
// value, chunk or total-count record. The DHT adapter logs it with the put;
// it does not enforce or verify that many peer acknowledgments.
const WriteQuorum = 3

// Record is a single key/value pair destined for the DHT.
type Record struct {
	Key   string
	Value []byte
}

// TotalKey returns the metadata key naming the chunk count for file key f.
func TotalKey(f string) string {
	return f + "_total"
}

// ChunkKey returns the key for chunk i of n for file key f.
func ChunkKey(f string, i, n int) string {
	return fmt.Sprintf("%s_%d_%d", f, i, n)
}

// SplitChunks splits content into contiguous runs of up to ChunkChars
// Unicode code points. An empty input yields a zero-length result, not a
// single empty chunk.
func SplitChunks(content []byte) [][]byte {
	runes := []rune(string(content))
	if len(runes) == 0 {
		return nil
	}

	chunks := make([][]byte, 0, (len(runes)+ChunkChars-1)/ChunkChars)
	for start := 0; start < len(runes); start += ChunkChars {
		end := start + ChunkChars
		if end > len(runes) {
			end = len(runes)
		}
		chunks = append(chunks, []byte(string(runes[start:end])))
	}
	return chunks
}

// EncodeFile reads filePath as text and returns the chunk records plus the
// single total-count metadata record for file key fileKey. The caller
// chooses the write quorum when it puts them. The total record is always
// last so that
// a caller writing records in order only ever advertises a total after every
// chunk it names has been emitted to the same slice.
func EncodeFile(fileKey, filePath string) ([]Record, error) {
	content, err := os.ReadFile(filePath)
	if err != nil {
		return nil, errors.Wrapf(err, "read file %q", filePath)
	}

	chunks := SplitChunks(content)
	records := make([]Record, 0, len(chunks)+1)
	for i, c := range chunks {
		records = append(records, Record{Key: ChunkKey(fileKey, i, len(chunks)), Value: c})
	}
	records = append(records, Record{
		Key:   TotalKey(fileKey),
		Value: []byte(strconv.Itoa(len(chunks))),
	})
	return records, nil
}

// Shape classifies a DHT key by its underscore structure, per the
// invariant: no underscore is a traditional key-value, "<F>_total" is
// metadata, "<F>_<i>_<N>" is a chunk, and anything else is a protocol error.
type Shape int

const (
	// ShapeTraditional is a plain key-value record, no chunking involved.
	ShapeTraditional Shape = iota
	// ShapeTotal is an "<F>_total" metadata record.
	ShapeTotal
	// ShapeChunk is an "<F>_<i>_<N>" chunk record.
	ShapeChunk
	// ShapeInvalid is any other underscore shape; the caller should log and drop it.
	ShapeInvalid
)

// Classified is the result of classifying a key, with whichever fields its
// Shape defines populated.
type Classified struct {
	FileKey string
	Shape   Shape
	Index   int
	Total   int
}

// Classify parses key according to the shapes above. It does not validate
// that 0 <= Index < Total for a ShapeChunk key; the caller checks that
// before using the chunk.
//
// Classification counts underscore-delimited parts, matching the original
// implementation literally: exactly one part is traditional, two parts is
// total-count metadata, three parts with an integer index and total is a
// chunk, and anything else (four or more parts, or three parts whose index
// or total is not an integer) is a protocol error. File keys containing underscores are
// consequently out of scope for chunked storage, same as the system this
// was ported from.
func Classify(key string) Classified {
	parts := strings.Split(key, "_")
	switch len(parts) {
	case 1:
		return Classified{Shape: ShapeTraditional}
	case 2:
		return Classified{Shape: ShapeTotal, FileKey: parts[0]}
	case 3:
		i, iErr := strconv.Atoi(parts[1])
		n, nErr := strconv.Atoi(parts[2])
		if iErr == nil && nErr == nil {
			return Classified{Shape: ShapeChunk, FileKey: parts[0], Index: i, Total: n}
		}
		return Classified{Shape: ShapeInvalid}
	default:
		return Classified{Shape: ShapeInvalid}
	}
}
