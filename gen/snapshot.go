package gen

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/fxamacker/cbor/v2"

	"github.com/bsansouci/ocaml-crunch/crunch"
	"github.com/bsansouci/ocaml-crunch/internal"
	"github.com/bsansouci/ocaml-crunch/internal/compression"
)

// Snapshot layout: an 8-byte header (magic and format version, both
// little-endian) followed by one CBOR body in Core Deterministic Encoding.
// Every chunk record carries its fingerprint, a CRC32 over the stored
// payload and the compression type used, so a damaged archive is rejected
// before the store is rebuilt.
const (
	snapshotMagic   uint32 = 0x434e5243 // "CRNC" on disk
	snapshotVersion uint32 = 1

	snapshotHeaderSize = 8
)

// snapshotEncMode is the CBOR encoder configured with Core Deterministic
// Encoding (RFC 8949 §4.2): the same store always produces identical bytes.
var snapshotEncMode cbor.EncMode

// snapshotDecMode is the CBOR decoder configured to accept standard CBOR.
var snapshotDecMode cbor.DecMode

func init() {
	var err error
	snapshotEncMode, err = cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		panic("gen: CBOR encoder initialization failed: " + err.Error())
	}
	snapshotDecMode, err = cbor.DecOptions{}.DecMode()
	if err != nil {
		panic("gen: CBOR decoder initialization failed: " + err.Error())
	}
}

type snapshotChunk struct {
	FP           []byte `cbor:"fp"`
	CRC          uint32 `cbor:"crc"`
	CompressType byte   `cbor:"compress_type"`
	Payload      []byte `cbor:"payload"`
}

type snapshotFile struct {
	Path    string `cbor:"path"`
	Size    uint64 `cbor:"size"`
	Sectors []int  `cbor:"sectors"`
}

type snapshotBody struct {
	Chunks []snapshotChunk `cbor:"chunks"`
	Files  []snapshotFile  `cbor:"files"`
}

// SnapshotOptions controls how a snapshot archive is written.
type SnapshotOptions struct {
	// Compression is one of the registered method names ("snappy", "zlib",
	// "none"). Empty selects snappy.
	Compression string
}

// WriteSnapshot emits store as a binary snapshot archive. Chunk payloads
// are compressed per the selected method and each record carries a CRC32
// over the stored bytes.
func WriteSnapshot(w io.Writer, store *crunch.Store, opts SnapshotOptions) error {
	method := opts.Compression
	if method == "" {
		method = "snappy"
	}
	compressor, err := compression.GetCompressorViaString(method)
	if err != nil {
		logger.Errorf("WriteSnapshot: unknown compression %q: %v", method, err)
		return err
	}

	chunks, fps, files, err := tables(store)
	if err != nil {
		return err
	}

	body := snapshotBody{
		Chunks: make([]snapshotChunk, 0, len(chunks)),
		Files:  make([]snapshotFile, 0, len(files)),
	}
	for i, chunk := range chunks {
		payload := chunk
		compressType := byte(compression.Compress_none)
		if compressor != nil {
			payload, err = compressor.Compress(chunk)
			if err != nil {
				return fmt.Errorf("compressing chunk %d: %w", i, err)
			}
			compressType = byte(compressor.Type())
		}
		body.Chunks = append(body.Chunks, snapshotChunk{
			FP:           fps[i][:],
			CRC:          internal.CalculateCRC32(payload),
			CompressType: compressType,
			Payload:      payload,
		})
	}
	for _, f := range files {
		body.Files = append(body.Files, snapshotFile{Path: f.Path, Size: f.Size, Sectors: f.Sectors})
	}

	header := make([]byte, snapshotHeaderSize)
	binary.LittleEndian.PutUint32(header[0:4], snapshotMagic)
	binary.LittleEndian.PutUint32(header[4:8], snapshotVersion)
	if _, err := w.Write(header); err != nil {
		return fmt.Errorf("writing snapshot header: %w", err)
	}

	if err := snapshotEncMode.NewEncoder(w).Encode(body); err != nil {
		return fmt.Errorf("encoding snapshot body: %w", err)
	}
	logger.Debugf("WriteSnapshot: %d chunks, %d files, compression=%s", len(body.Chunks), len(body.Files), method)
	return nil
}

// ReadSnapshot decodes a snapshot archive and rebuilds the store it
// captured. Each chunk's CRC is verified before decompression and its
// fingerprint after, so corruption of either form is caught here rather
// than at read time.
func ReadSnapshot(r io.Reader) (*crunch.Store, error) {
	header := make([]byte, snapshotHeaderSize)
	if _, err := io.ReadFull(r, header); err != nil {
		return nil, fmt.Errorf("reading snapshot header: %w", err)
	}

	magic := binary.LittleEndian.Uint32(header[0:4])
	version := binary.LittleEndian.Uint32(header[4:8])
	if magic != snapshotMagic {
		return nil, fmt.Errorf("invalid snapshot magic: got %x, want %x", magic, snapshotMagic)
	}
	if version != snapshotVersion {
		return nil, fmt.Errorf("unsupported snapshot version: got %d, want %d", version, snapshotVersion)
	}

	var body snapshotBody
	if err := snapshotDecMode.NewDecoder(r).Decode(&body); err != nil {
		return nil, fmt.Errorf("decoding snapshot body: %w", err)
	}

	chunks := make([][]byte, 0, len(body.Chunks))
	for i, record := range body.Chunks {
		if len(record.FP) != crunch.FPSize {
			return nil, fmt.Errorf("chunk %d: fingerprint is %d bytes, want %d", i, len(record.FP), crunch.FPSize)
		}
		if !internal.VerifyCRC32(record.Payload, record.CRC) {
			return nil, fmt.Errorf("chunk %d: CRC mismatch, archive is damaged", i)
		}

		data := record.Payload
		compressor, err := compression.GetCompressorViaType(compression.CompressionType(record.CompressType))
		if err != nil {
			return nil, fmt.Errorf("chunk %d: %w", i, err)
		}
		if compressor != nil {
			data, err = compressor.Decompress(record.Payload)
			if err != nil {
				return nil, fmt.Errorf("decompressing chunk %d: %w", i, err)
			}
		}

		var want crunch.Fingerprint
		copy(want[:], record.FP)
		if got := crunch.ComputeFingerprint(data); got != want {
			return nil, fmt.Errorf("chunk %d: fingerprint mismatch: got %s, want %s", i, got.Hex(), want.Hex())
		}
		chunks = append(chunks, data)
	}

	files := make([]crunch.ReconstituteFile, 0, len(body.Files))
	for _, f := range body.Files {
		files = append(files, crunch.ReconstituteFile{Path: f.Path, Size: f.Size, Sectors: f.Sectors})
	}

	store, err := crunch.Reconstitute(chunks, files)
	if err != nil {
		return nil, err
	}
	logger.Debugf("ReadSnapshot: restored %d chunks, %d files", len(chunks), len(files))
	return store, nil
}
