// Package dataset holds the per-dataset configuration shipped with the tool.
package dataset

import (
	"github.com/ccarocean/copernicus-sync/internal/utils"
)

// PartitionGranularity selects how the remote tree is partitioned.
type PartitionGranularity string

const (
	// PartitionYear means files live directly under base/YYYY
	PartitionYear PartitionGranularity = "year"
	// PartitionYearMonth means files live under base/YYYY/MM
	PartitionYearMonth PartitionGranularity = "year_month"
)

// Profile is the immutable configuration for one mirrored dataset.
type Profile struct {
	// Selector is the short name used on the command line
	Selector string `json:"selector"`
	// Description is a one-line human-readable summary
	Description string `json:"description"`
	// Host of the FTP server
	Host string `json:"host"`
	// RemoteBase is the directory on the server holding the partition tree
	RemoteBase string `json:"remoteBase"`
	// Prefix every data filename starts with, immediately followed by YYYYMMDD
	Prefix string `json:"prefix"`
	// Granularity of the remote partition tree
	Granularity PartitionGranularity `json:"granularity"`
}

var profiles = []Profile{
	{
		Selector:    utils.DatasetNearRealTime,
		Description: "near-real-time gridded sea level anomalies",
		Host:        "nrt.cmems-du.eu",
		RemoteBase:  "/Core/SEALEVEL_GLO_PHY_L4_NRT_OBSERVATIONS_008_046/dataset-duacs-nrt-global-merged-allsat-phy-l4",
		Prefix:      "nrt_global_allsat_phy_l4_",
		Granularity: PartitionYearMonth,
	},
	{
		Selector:    utils.DatasetDelayedTime,
		Description: "delayed-time gridded sea level anomalies",
		Host:        "my.cmems-du.eu",
		RemoteBase:  "/Core/SEALEVEL_GLO_PHY_L4_MY_008_047/cmems_obs-sl_glo_phy-ssh_my_allsat-l4-duacs-0.25deg_P1D",
		Prefix:      "dt_global_allsat_phy_l4_",
		Granularity: PartitionYear,
	},
}

// Lookup returns the profile for a dataset selector.
func Lookup(selector string) (Profile, error) {
	for _, p := range profiles {
		if p.Selector == selector {
			return p, nil
		}
	}
	return Profile{}, utils.NewAppError(
		utils.NewCLIError(utils.ErrCodeUnknownDataset, "unknown dataset selector").
			WithContext("selector", selector).
			Build())
}

// All returns every shipped profile.
func All() []Profile {
	out := make([]Profile, len(profiles))
	copy(out, profiles)
	return out
}
