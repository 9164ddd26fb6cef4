package gen

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bsansouci/ocaml-crunch/crunch"
	"github.com/bsansouci/ocaml-crunch/internal"
	"github.com/bsansouci/ocaml-crunch/internal/compression"
)

func writeRawSnapshot(t *testing.T, body snapshotBody) []byte {
	t.Helper()
	var buf bytes.Buffer
	header := make([]byte, snapshotHeaderSize)
	binary.LittleEndian.PutUint32(header[0:4], snapshotMagic)
	binary.LittleEndian.PutUint32(header[4:8], snapshotVersion)
	_, err := buf.Write(header)
	assert.NoError(t, err)
	assert.NoError(t, snapshotEncMode.NewEncoder(&buf).Encode(body))
	return buf.Bytes()
}

func TestSnapshotRoundTrip(t *testing.T) {
	shared := makeData(crunch.SectorSize)
	files := map[string][]byte{
		"big.bin":    makeData(10000),
		"index.html": []byte("<html>hello</html>"),
		"a.bin":      append(append([]byte{}, shared...), 'a'),
		"b.bin":      append(append([]byte{}, shared...), 'b'),
	}

	for _, method := range []string{"", "snappy", "zlib", "none"} {
		name := method
		if name == "" {
			name = "default"
		}
		t.Run(name, func(t *testing.T) {
			store := buildStore(t, files)

			var buf bytes.Buffer
			err := WriteSnapshot(&buf, store, SnapshotOptions{Compression: method})
			assert.NoError(t, err)

			restored, err := ReadSnapshot(&buf)
			assert.NoError(t, err)
			assert.Equal(t, store.ChunkCount(), restored.ChunkCount())
			assert.Equal(t, store.Fingerprints(), restored.Fingerprints())
			assert.Equal(t, store.Paths(), restored.Paths())

			kv := crunch.NewKV(restored)
			for path, want := range files {
				got, err := kv.ReadAll(path)
				assert.NoError(t, err)
				assert.Equal(t, want, got, "content mismatch for %s", path)
			}
		})
	}
}

func TestSnapshotDeterministic(t *testing.T) {
	files := map[string][]byte{"a.bin": makeData(9000), "b.txt": []byte("beta")}

	var first, second bytes.Buffer
	assert.NoError(t, WriteSnapshot(&first, buildStore(t, files), SnapshotOptions{}))
	assert.NoError(t, WriteSnapshot(&second, buildStore(t, files), SnapshotOptions{}))
	assert.Equal(t, first.Bytes(), second.Bytes())
}

func TestSnapshotUnknownCompression(t *testing.T) {
	store := buildStore(t, map[string][]byte{"a.txt": []byte("alpha")})

	var buf bytes.Buffer
	err := WriteSnapshot(&buf, store, SnapshotOptions{Compression: "gzip"})
	assert.ErrorIs(t, err, compression.ErrInvalidCompressionType)
}

func TestSnapshotHeaderValidation(t *testing.T) {
	store := buildStore(t, map[string][]byte{"a.txt": []byte("alpha")})

	var buf bytes.Buffer
	assert.NoError(t, WriteSnapshot(&buf, store, SnapshotOptions{}))
	archive := buf.Bytes()

	t.Run("Truncated Header", func(t *testing.T) {
		_, err := ReadSnapshot(bytes.NewReader(archive[:4]))
		assert.Error(t, err)
	})

	t.Run("Bad Magic", func(t *testing.T) {
		damaged := append([]byte{}, archive...)
		damaged[0] ^= 0xff
		_, err := ReadSnapshot(bytes.NewReader(damaged))
		assert.ErrorContains(t, err, "invalid snapshot magic")
	})

	t.Run("Bad Version", func(t *testing.T) {
		damaged := append([]byte{}, archive...)
		binary.LittleEndian.PutUint32(damaged[4:8], 99)
		_, err := ReadSnapshot(bytes.NewReader(damaged))
		assert.ErrorContains(t, err, "unsupported snapshot version")
	})
}

func TestSnapshotCRCTamper(t *testing.T) {
	sector := makeData(crunch.SectorSize)
	store := buildStore(t, map[string][]byte{"a.bin": sector})

	// Uncompressed payloads land in the archive verbatim, so the sector
	// bytes can be located and damaged directly.
	var buf bytes.Buffer
	assert.NoError(t, WriteSnapshot(&buf, store, SnapshotOptions{Compression: "none"}))
	archive := buf.Bytes()

	at := bytes.Index(archive, sector)
	assert.Greater(t, at, 0)
	archive[at+100] ^= 0xff

	_, err := ReadSnapshot(bytes.NewReader(archive))
	assert.ErrorContains(t, err, "CRC mismatch")
}

func TestSnapshotBadRecords(t *testing.T) {
	payload := []byte("sector data")
	goodCRC := internal.CalculateCRC32(payload)
	wrongFP := crunch.ComputeFingerprint([]byte("something else"))

	testCases := []struct {
		name    string
		chunk   snapshotChunk
		errText string
	}{
		{
			name: "Fingerprint Mismatch",
			chunk: snapshotChunk{
				FP:           wrongFP[:],
				CRC:          goodCRC,
				CompressType: byte(compression.Compress_none),
				Payload:      payload,
			},
			errText: "fingerprint mismatch",
		},
		{
			name: "Short Fingerprint",
			chunk: snapshotChunk{
				FP:           []byte{1, 2, 3},
				CRC:          goodCRC,
				CompressType: byte(compression.Compress_none),
				Payload:      payload,
			},
			errText: "fingerprint is 3 bytes",
		},
		{
			name: "Unknown Compress Type",
			chunk: snapshotChunk{
				FP:           wrongFP[:],
				CRC:          goodCRC,
				CompressType: 99,
				Payload:      payload,
			},
			errText: "invalid compression type",
		},
		{
			name: "Undecompressable Payload",
			chunk: snapshotChunk{
				FP:           wrongFP[:],
				CRC:          goodCRC,
				CompressType: byte(compression.Compress_snappy),
				Payload:      payload,
			},
			errText: "decompressing chunk",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			size := uint64(len(tc.chunk.Payload))
			archive := writeRawSnapshot(t, snapshotBody{
				Chunks: []snapshotChunk{tc.chunk},
				Files:  []snapshotFile{{Path: "f", Size: size, Sectors: []int{0}}},
			})

			_, err := ReadSnapshot(bytes.NewReader(archive))
			assert.ErrorContains(t, err, tc.errText)
		})
	}
}

func TestSnapshotEmptyStore(t *testing.T) {
	var buf bytes.Buffer
	assert.NoError(t, WriteSnapshot(&buf, crunch.NewBuilder().Finish(), SnapshotOptions{}))

	restored, err := ReadSnapshot(&buf)
	assert.NoError(t, err)
	assert.Equal(t, 0, restored.ChunkCount())
	assert.Equal(t, 0, restored.FileCount())
}

func TestSnapshotZeroByteFile(t *testing.T) {
	store := buildStore(t, map[string][]byte{"empty": {}})

	var buf bytes.Buffer
	assert.NoError(t, WriteSnapshot(&buf, store, SnapshotOptions{}))

	restored, err := ReadSnapshot(&buf)
	assert.NoError(t, err)

	data, err := crunch.NewKV(restored).ReadAll("empty")
	assert.NoError(t, err)
	assert.Empty(t, data)
}
