// Copyright 2025 zhengshuai.xiao@outlook.com
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//	http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
package crunch

import "math"

// overlapKind classifies how one sector's extent relates to a requested
// window. Sectors are scanned in file order, so a sector past the window
// ends the scan.
type overlapKind int

const (
	overlapSectorBefore overlapKind = iota // sector ends at or before the window start
	overlapSectorAfter                     // sector starts at or after the window end
	overlapSectorInside                    // sector lies fully inside the window
	overlapWindowInside                    // window lies fully inside the sector
	overlapTail                            // window takes the sector's tail
	overlapHead                            // window takes the sector's head
)

// classifyOverlap relates the sector [sectorStart, sectorStart+sectorLen) to
// the window [winStart, winStart+winLen). The window end saturates instead
// of wrapping, so a huge winLen means "to the end of the file".
func classifyOverlap(sectorStart, sectorLen, winStart, winLen uint64) overlapKind {
	sectorEnd := sectorStart + sectorLen
	winEnd := winStart + winLen
	if winEnd < winStart {
		winEnd = math.MaxUint64
	}

	switch {
	case sectorEnd <= winStart:
		return overlapSectorBefore
	case sectorStart >= winEnd:
		return overlapSectorAfter
	case sectorStart >= winStart && sectorEnd <= winEnd:
		return overlapSectorInside
	case sectorStart < winStart && sectorEnd > winEnd:
		return overlapWindowInside
	case sectorStart < winStart:
		return overlapTail
	default:
		return overlapHead
	}
}

// ReadRange selects the byte window [offset, offset+length) from a file
// whose content is the concatenation of sectors, given in file order. It
// returns ordered fragments that are subslices of the sectors themselves
// (no copying); their concatenation is exactly the requested window clamped
// to the file's end. A window past the end degrades to a short or empty
// result, never an error.
func ReadRange(sectors [][]byte, offset, length uint64) [][]byte {
	if length == 0 || len(sectors) == 0 {
		return nil
	}

	var fragments [][]byte
	var totalBytesOut uint64
	var currentOffset uint64

	for _, sector := range sectors {
		sectorLen := uint64(len(sector))

		if totalBytesOut >= length {
			break
		}

		switch classifyOverlap(currentOffset, sectorLen, offset, length) {
		case overlapSectorBefore:
			// Not reached the window yet, keep walking.
		case overlapSectorAfter:
			// Sectors are ordered, nothing later can contribute.
			return fragments
		case overlapSectorInside:
			fragments = append(fragments, sector)
			totalBytesOut += sectorLen
		case overlapWindowInside:
			start := offset - currentOffset
			fragments = append(fragments, sector[start:start+length])
			totalBytesOut += length
		case overlapTail:
			start := offset - currentOffset
			fragments = append(fragments, sector[start:])
			totalBytesOut += sectorLen - start
		case overlapHead:
			remaining := length - totalBytesOut
			fragments = append(fragments, sector[:remaining])
			totalBytesOut += remaining
		}

		currentOffset += sectorLen
	}

	if totalBytesOut < length {
		logger.Tracef("ReadRange: produced %d bytes of requested %d. This is normal if the range exceeds the file size.", totalBytesOut, length)
	}
	return fragments
}
