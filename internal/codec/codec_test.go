package codec

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/ccarocean/copernicus-sync/internal/utils"
)

func TestParseDate(t *testing.T) {
	d, err := ParseDate("nrt_global_allsat_phy_l4_20210615.nc", "nrt_global_allsat_phy_l4_")
	if err != nil {
		t.Fatalf("ParseDate() error = %v", err)
	}
	want := Date{Year: 2021, Month: time.June, Day: 15}
	if d != want {
		t.Errorf("ParseDate() = %v, want %v", d, want)
	}
}

func TestParseDate_Malformed(t *testing.T) {
	tests := []struct {
		name     string
		filename string
		prefix   string
	}{
		{"wrong prefix", "dt_global_allsat_phy_l4_20210615.nc", "nrt_global_allsat_phy_l4_"},
		{"truncated date", "nrt_2021.nc", "nrt_"},
		{"non-numeric date", "nrt_2021061x.nc", "nrt_"},
		{"invalid month", "nrt_20211315.nc", "nrt_"},
		{"invalid day", "nrt_20210230.nc", "nrt_"},
		{"missing date", "nrt_global_allsat_phy_l4_.nc", "nrt_global_allsat_phy_l4_"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseDate(tt.filename, tt.prefix)
			if err == nil {
				t.Fatalf("ParseDate(%q, %q) expected error", tt.filename, tt.prefix)
			}
			if code := utils.ErrorCode(err); code != utils.ErrCodeMalformedFilename {
				t.Errorf("error code = %v, want %v", code, utils.ErrCodeMalformedFilename)
			}
		})
	}
}

func TestLocalPath(t *testing.T) {
	d := Date{Year: 2019, Month: time.March, Day: 2}
	got := LocalPath("/data", "dt_global_allsat_phy_l4_", d)
	want := filepath.Join("/data", "2019", "dt_global_allsat_phy_l4_20190302.nc")
	if got != want {
		t.Errorf("LocalPath() = %v, want %v", got, want)
	}
}

func TestFilename_RoundTrip(t *testing.T) {
	d := Date{Year: 2020, Month: time.December, Day: 31}
	name := Filename("dt_global_allsat_phy_l4_", d)
	parsed, err := ParseDate(name, "dt_global_allsat_phy_l4_")
	if err != nil {
		t.Fatalf("ParseDate() error = %v", err)
	}
	if parsed != d {
		t.Errorf("round trip: got %v, want %v", parsed, d)
	}
}

func TestDate_Before(t *testing.T) {
	tests := []struct {
		a, b Date
		want bool
	}{
		{Date{2020, time.January, 1}, Date{2020, time.January, 2}, true},
		{Date{2020, time.January, 2}, Date{2020, time.January, 1}, false},
		{Date{2019, time.December, 31}, Date{2020, time.January, 1}, true},
		{Date{2020, time.June, 15}, Date{2020, time.June, 15}, false},
		{Date{2020, time.May, 20}, Date{2020, time.June, 1}, true},
	}

	for _, tt := range tests {
		if got := tt.a.Before(tt.b); got != tt.want {
			t.Errorf("%v.Before(%v) = %v, want %v", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestDate_Strings(t *testing.T) {
	d := Date{Year: 2021, Month: time.June, Day: 5}
	if d.String() != "2021-06-05" {
		t.Errorf("String() = %v, want 2021-06-05", d.String())
	}
	if d.Compact() != "20210605" {
		t.Errorf("Compact() = %v, want 20210605", d.Compact())
	}
}
