package geo

import "strings"

const (
	countrySuffix    = ", Vietnam"
	segmentSeparator = ", "
)

// FormatAddress shortens a reverse-geocoded address for display: a trailing
// ", Vietnam" is removed, then the last remaining ", "-separated segment
// (usually a postal code or country remnant) is dropped.
//
// An address without separators formats to the empty string.
func FormatAddress(address string) string {
	return FormatAddressWithSuffix(address, countrySuffix)
}

// FormatAddressWithSuffix is FormatAddress with a caller-supplied country
// suffix. An empty suffix skips the stripping step.
func FormatAddressWithSuffix(address, suffix string) string {
	if suffix != "" {
		address = strings.TrimSuffix(address, suffix)
	}

	parts := strings.Split(address, segmentSeparator)
	return strings.Join(parts[:len(parts)-1], segmentSeparator)
}
