// Package report renders creation-date information in the formats the
// created command supports.
package report

import (
	"fmt"
	"strings"
)

// Format is an output format for creation-date reports.
type Format int

const (
	Readable Format = iota
	JSON
	CSV
	Timestamp
)

var formatNames = map[Format]string{
	Readable:  "readable",
	JSON:      "json",
	CSV:       "csv",
	Timestamp: "timestamp",
}

// FormatNames lists the accepted format names in display order.
var FormatNames = []string{"readable", "json", "csv", "timestamp"}

func (f Format) String() string {
	if name, ok := formatNames[f]; ok {
		return name
	}
	return fmt.Sprintf("format(%d)", int(f))
}

// ParseFormat returns the Format named s (case-insensitive).
func ParseFormat(s string) (Format, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for f, n := range formatNames {
		if n == name {
			return f, nil
		}
	}
	return Readable, fmt.Errorf("unknown format %q (want one of %s)", s, strings.Join(FormatNames, ", "))
}

// showsProgress reports whether the format is meant for a human at a terminal.
// Machine formats are likely piped and stay free of progress noise.
func (f Format) showsProgress() bool {
	return f == Readable || f == Timestamp
}
