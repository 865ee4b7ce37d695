package scanner

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/ccarocean/copernicus-sync/internal/codec"
	"github.com/ccarocean/copernicus-sync/internal/logging"
	"github.com/ccarocean/copernicus-sync/internal/utils"
)

// ScanLocal builds the local index from the destination tree: one level of
// 4-digit year directories under root, regular files with the dataset prefix
// inside them. Nothing deeper is visited. A missing root yields an empty
// index, since the first run starts from nothing.
func ScanLocal(root, prefix string, log logging.Logger) (Index, error) {
	index := make(Index)

	rootEntries, err := os.ReadDir(root)
	if err != nil {
		if os.IsNotExist(err) {
			log.Debug("destination does not exist yet", logging.F("root", root))
			return index, nil
		}
		return nil, utils.WrapError(utils.ErrCodeFilesystemError, "cannot read destination "+root, err)
	}

	for _, yearDir := range rootEntries {
		if !yearDir.IsDir() || !yearDirPattern.MatchString(yearDir.Name()) {
			continue
		}

		yearPath := filepath.Join(root, yearDir.Name())
		files, err := os.ReadDir(yearPath)
		if err != nil {
			return nil, utils.WrapError(utils.ErrCodeFilesystemError, "cannot read year directory "+yearPath, err)
		}

		for _, file := range files {
			if file.IsDir() || !strings.HasPrefix(file.Name(), prefix) {
				continue
			}
			info, err := file.Info()
			if err != nil {
				return nil, utils.WrapError(utils.ErrCodeFilesystemError, "cannot stat "+file.Name(), err)
			}
			if !info.Mode().IsRegular() {
				continue
			}

			date, err := codec.ParseDate(file.Name(), prefix)
			if err != nil {
				return nil, err
			}
			full := filepath.Join(yearPath, file.Name())
			if prev, ok := index[date]; ok {
				return nil, duplicateDate(date, prev.Path, full)
			}
			index[date] = FileRecord{
				Path:     full,
				Modified: info.ModTime().Truncate(timeResolution),
				Size:     info.Size(),
			}
		}
	}

	log.Info("local index complete", logging.F("root", root), logging.F("dates", len(index)))
	return index, nil
}
