package internal

import (
	"fmt"
	"strconv"
	"strings"
)

// Semver represents a semantic version number.
type Semver struct {
	major, minor, patch uint64
	preRelease          string
	build               string
}

var version = Semver{
	major: 4,
	minor: 0,
	patch: 0,
}

// Version returns the human-readable version of this build.
func Version() string {
	vs := fmt.Sprintf("%d.%d.%d", version.major, version.minor, version.patch)
	if version.preRelease != "" {
		vs += "-" + version.preRelease
	}
	return vs
}

// Parse parses a semantic version string into a Semver. Build metadata
// (anything after '+') is kept but ignored for ordering. It returns nil if
// the string is not a valid version.
func Parse(versionStr string) *Semver {
	v := &Semver{}

	if idx := strings.IndexByte(versionStr, '+'); idx != -1 {
		v.build = versionStr[idx+1:]
		versionStr = versionStr[:idx]
	}
	if idx := strings.IndexByte(versionStr, '-'); idx != -1 {
		v.preRelease = versionStr[idx+1:]
		versionStr = versionStr[:idx]
	}

	parts := strings.Split(versionStr, ".")
	if len(parts) > 3 {
		return nil
	}
	nums := make([]uint64, 3)
	for i, p := range parts {
		n, err := strconv.ParseUint(p, 10, 64)
		if err != nil {
			return nil
		}
		nums[i] = n
	}
	v.major, v.minor, v.patch = nums[0], nums[1], nums[2]
	return v
}

// CompareVersions compares two versions, returning -1, 0 or 1 when v1 is
// respectively older than, equal to or newer than v2. A release version is
// newer than any pre-release with the same core number.
func CompareVersions(v1, v2 *Semver) (int, error) {
	if v1 == nil || v2 == nil {
		return 0, fmt.Errorf("cannot compare nil versions")
	}
	if v1.major != v2.major {
		return compareUint64(v1.major, v2.major), nil
	}
	if v1.minor != v2.minor {
		return compareUint64(v1.minor, v2.minor), nil
	}
	if v1.patch != v2.patch {
		return compareUint64(v1.patch, v2.patch), nil
	}
	switch {
	case v1.preRelease == v2.preRelease:
		return 0, nil
	case v1.preRelease == "":
		return 1, nil
	case v2.preRelease == "":
		return -1, nil
	case v1.preRelease < v2.preRelease:
		return -1, nil
	default:
		return 1, nil
	}
}

func compareUint64(a, b uint64) int {
	if a < b {
		return -1
	}
	if a > b {
		return 1
	}
	return 0
}
