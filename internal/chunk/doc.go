// Package chunk implements the fixed-size file chunking scheme used to store
// arbitrary files in the DHT under a single caller-chosen file key.
//
// A file stored under key F is split into contiguous runs of up to
// ChunkChars Unicode code points, numbered 0..N-1. Each run is stored as a
// DHT record at key "F_i_N", and a single metadata record at key "F_total"
// carries the ASCII decimal chunk count N. Retrieval is driven by the Node
// Event Loop (internal/node), which classifies each completed DHT key with
// Classify and walks the chunk chain one lookup at a time; this package only
// provides the stateless naming, splitting, and classification rules.
package chunk
