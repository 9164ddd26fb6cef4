package internal

import "hash/crc32"

// CalculateCRC32 returns the IEEE CRC-32 of data.
func CalculateCRC32(data []byte) uint32 {
	return crc32.ChecksumIEEE(data)
}

// VerifyCRC32 reports whether data still matches a previously recorded
// checksum.
func VerifyCRC32(data []byte, crc uint32) bool {
	return CalculateCRC32(data) == crc
}
