// Package codec maps between data filenames and the calendar dates that key
// the mirror. Every file in a dataset is named {prefix}YYYYMMDD.nc and stored
// locally under a year directory regardless of the remote partition layout.
package codec

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/ccarocean/copernicus-sync/internal/utils"
)

// Date is a calendar day used as the key for one data file per dataset.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// DateOf truncates a timestamp to its calendar day.
func DateOf(t time.Time) Date {
	return Date{Year: t.Year(), Month: t.Month(), Day: t.Day()}
}

// String renders the date as YYYY-MM-DD.
func (d Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, int(d.Month), d.Day)
}

// Compact renders the date as YYYYMMDD, the form used in filenames.
func (d Date) Compact() string {
	return fmt.Sprintf("%04d%02d%02d", d.Year, int(d.Month), d.Day)
}

// Before reports whether d is earlier than other.
func (d Date) Before(other Date) bool {
	if d.Year != other.Year {
		return d.Year < other.Year
	}
	if d.Month != other.Month {
		return d.Month < other.Month
	}
	return d.Day < other.Day
}

// dateDigits is the width of the date substring following the prefix.
const dateDigits = 8

// ParseDate extracts the date from a data filename. The filename must start
// with prefix, followed immediately by eight digits forming a valid
// YYYYMMDD calendar date.
func ParseDate(filename, prefix string) (Date, error) {
	if !strings.HasPrefix(filename, prefix) {
		return Date{}, malformed(filename, prefix, "missing dataset prefix")
	}
	rest := filename[len(prefix):]
	if len(rest) < dateDigits {
		return Date{}, malformed(filename, prefix, "date field truncated")
	}
	t, err := time.Parse("20060102", rest[:dateDigits])
	if err != nil {
		return Date{}, malformed(filename, prefix, "invalid calendar date")
	}
	return DateOf(t), nil
}

// Filename produces the data filename for a date.
func Filename(prefix string, d Date) string {
	return prefix + d.Compact() + ".nc"
}

// LocalPath produces the local storage path for a date:
// root/YYYY/{prefix}YYYYMMDD.nc. Local storage is partitioned by year only,
// whatever the remote layout.
func LocalPath(root, prefix string, d Date) string {
	return filepath.Join(root, fmt.Sprintf("%04d", d.Year), Filename(prefix, d))
}

func malformed(filename, prefix, reason string) error {
	return utils.NewAppError(
		utils.NewCLIError(utils.ErrCodeMalformedFilename, reason).
			WithContext("filename", filename).
			WithContext("prefix", prefix).
			Build())
}
