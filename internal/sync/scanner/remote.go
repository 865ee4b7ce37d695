package scanner

import (
	"context"
	"path"
	"regexp"
	"sort"

	"github.com/ccarocean/copernicus-sync/internal/codec"
	"github.com/ccarocean/copernicus-sync/internal/dataset"
	"github.com/ccarocean/copernicus-sync/internal/logging"
	"github.com/ccarocean/copernicus-sync/internal/remote"
	"github.com/ccarocean/copernicus-sync/internal/utils"
)

var (
	yearDirPattern  = regexp.MustCompile(`^\d{4}$`)
	monthDirPattern = regexp.MustCompile(`^\d{2}$`)
)

// ScanRemote walks the dataset's partition tree on the remote session and
// builds the remote index. Partition layout follows the profile: year
// directories under the base, with a month level below them for
// near-real-time datasets. Non-numeric names are ignored; a file whose name
// starts with the dataset prefix but does not carry a valid date is a fatal
// mismatch.
func ScanRemote(ctx context.Context, sess remote.Session, profile dataset.Profile, log logging.Logger) (Index, error) {
	partitions, err := listPartitions(ctx, sess, profile)
	if err != nil {
		return nil, err
	}

	index := make(Index)
	for _, partition := range partitions {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		entries, err := sess.List(partition)
		if err != nil {
			return nil, err
		}

		files := 0
		for _, entry := range entries {
			if entry.Dir || !hasPrefix(entry.Name, profile.Prefix) {
				continue
			}
			date, err := codec.ParseDate(entry.Name, profile.Prefix)
			if err != nil {
				return nil, err
			}
			if prev, ok := index[date]; ok {
				return nil, duplicateDate(date, prev.Path, path.Join(partition, entry.Name))
			}
			index[date] = FileRecord{
				Path:     path.Join(partition, entry.Name),
				Modified: entry.Modified.Truncate(timeResolution),
				Size:     entry.Size,
			}
			files++
		}
		log.Info("listed remote partition",
			logging.F("partition", partition),
			logging.F("files", files))
	}

	log.Info("remote index complete", logging.F("dates", len(index)))
	return index, nil
}

// listPartitions enumerates the leaf directories to list files in, in
// ascending order.
func listPartitions(ctx context.Context, sess remote.Session, profile dataset.Profile) ([]string, error) {
	years, err := listNumericDirs(sess, ".", yearDirPattern)
	if err != nil {
		return nil, err
	}

	if profile.Granularity == dataset.PartitionYear {
		return years, nil
	}

	var partitions []string
	for _, year := range years {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		months, err := listNumericDirs(sess, year, monthDirPattern)
		if err != nil {
			return nil, err
		}
		for _, month := range months {
			partitions = append(partitions, path.Join(year, month))
		}
	}
	return partitions, nil
}

func listNumericDirs(sess remote.Session, dir string, pattern *regexp.Regexp) ([]string, error) {
	entries, err := sess.List(dir)
	if err != nil {
		return nil, err
	}

	var names []string
	for _, entry := range entries {
		if entry.Dir && pattern.MatchString(entry.Name) {
			names = append(names, entry.Name)
		}
	}
	sort.Strings(names)
	if dir == "." {
		return names, nil
	}
	for i, name := range names {
		names[i] = path.Join(dir, name)
	}
	return names, nil
}

func hasPrefix(name, prefix string) bool {
	return len(name) >= len(prefix) && name[:len(prefix)] == prefix
}

func duplicateDate(date codec.Date, first, second string) error {
	return utils.NewAppError(
		utils.NewCLIError(utils.ErrCodeDuplicateDate, "two files carry the same date").
			WithContext("date", date.String()).
			WithContext("first", first).
			WithContext("second", second).
			Build())
}
