package internal

import (
	"fmt"
	"os"
)

var logger = GetLogger("crunch_internal")

// StringContains reports whether slice contains str.
func StringContains(slice []string, str string) bool {
	for _, s := range slice {
		if s == str {
			return true
		}
	}
	return false
}

// FormatBytes renders a byte count in a human-friendly form.
func FormatBytes(n uint64) string {
	if n < 1024 {
		return fmt.Sprintf("%d Bytes", n)
	}
	units := []string{"K", "M", "G", "T", "P", "E"}
	m := n
	i := 0
	for ; i < len(units)-1 && m >= 1024*1024; i++ {
		m = m / 1024
	}
	return fmt.Sprintf("%.2f %siB (%d Bytes)", float64(m)/1024.0, units[i], n)
}

// Exists reports whether the named file or directory exists.
func Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
