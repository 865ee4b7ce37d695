package dataset

import (
	"testing"

	"github.com/ccarocean/copernicus-sync/internal/utils"
)

func TestLookup_NRT(t *testing.T) {
	p, err := Lookup("nrt")
	if err != nil {
		t.Fatalf("Lookup(nrt) error = %v", err)
	}
	if p.Granularity != PartitionYearMonth {
		t.Errorf("nrt granularity = %v, want %v", p.Granularity, PartitionYearMonth)
	}
	if p.Host == "" || p.RemoteBase == "" || p.Prefix == "" {
		t.Errorf("nrt profile incomplete: %+v", p)
	}
}

func TestLookup_DT(t *testing.T) {
	p, err := Lookup("dt")
	if err != nil {
		t.Fatalf("Lookup(dt) error = %v", err)
	}
	if p.Granularity != PartitionYear {
		t.Errorf("dt granularity = %v, want %v", p.Granularity, PartitionYear)
	}
}

func TestLookup_Unknown(t *testing.T) {
	_, err := Lookup("reprocessed")
	if err == nil {
		t.Fatal("Lookup(reprocessed) expected error")
	}
	if code := utils.ErrorCode(err); code != utils.ErrCodeUnknownDataset {
		t.Errorf("error code = %v, want %v", code, utils.ErrCodeUnknownDataset)
	}
}

func TestAll_IsACopy(t *testing.T) {
	all := All()
	if len(all) != 2 {
		t.Fatalf("All() returned %d profiles, want 2", len(all))
	}
	all[0].Host = "mutated"
	if fresh := All(); fresh[0].Host == "mutated" {
		t.Error("All() exposes internal profile slice")
	}
}
