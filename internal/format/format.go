// Package format renders API values for terminal output.
package format

import (
	"fmt"
	"math"
	"time"
)

// Date renders an RFC 3339 timestamp as dd/mm/yyyy. Unparseable input is
// returned unchanged so broken data stays visible.
func Date(value string) string {
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return value
	}
	return t.Format("02/01/2006")
}

var sizeUnits = []string{"Bytes", "KB", "MB", "GB"}

// FileSize renders a byte count as a human-readable string, e.g. "1.5 MB".
func FileSize(bytes int64) string {
	if bytes <= 0 {
		return "0 Bytes"
	}
	i := int(math.Log(float64(bytes)) / math.Log(1024))
	if i >= len(sizeUnits) {
		i = len(sizeUnits) - 1
	}
	value := float64(bytes) / math.Pow(1024, float64(i))
	return fmt.Sprintf("%s %s", trimZeros(value), sizeUnits[i])
}

// trimZeros formats with up to two decimals, dropping the trailing zeros:
// 1.50 -> "1.5", 2.00 -> "2".
func trimZeros(v float64) string {
	s := fmt.Sprintf("%.2f", math.Round(v*100)/100)
	for len(s) > 0 && s[len(s)-1] == '0' {
		s = s[:len(s)-1]
	}
	if len(s) > 0 && s[len(s)-1] == '.' {
		s = s[:len(s)-1]
	}
	return s
}
