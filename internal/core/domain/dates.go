package domain

import "time"

// Catalog timestamp layouts, in order of preference.
const (
	archiveDateTimeLayout = "2006-01-02 15:04:05"
	archiveDateLayout     = "2006-01-02"
)

// ParseArchiveDate parses a catalog timestamp string. The catalog emits
// two formats and occasionally blank fields, so the function is total:
// it returns the zero time and false instead of an error, keeping
// sort/compare logic over paper lists total as well.
func ParseArchiveDate(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	if t, err := time.Parse(archiveDateTimeLayout, s); err == nil {
		return t, true
	}
	if t, err := time.Parse(archiveDateLayout, s); err == nil {
		return t, true
	}
	return time.Time{}, false
}

// FormatArchiveDate renders a time in the catalog's long timestamp form.
func FormatArchiveDate(t time.Time) string {
	return t.Format(archiveDateTimeLayout)
}
