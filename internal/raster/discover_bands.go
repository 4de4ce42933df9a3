package raster

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/forest-guardian/cloudcover/internal/cloud"
	"github.com/forest-guardian/cloudcover/internal/log"
	"go.uber.org/zap"
)

const logTag = "raster: "

// BandFile is one directory entry and the role it was identified as.
type BandFile struct {
	Name       string
	Path       string
	ID         string
	Role       cloud.BandRole
	Recognized bool
}

// ListBandFiles identifies every regular file of dir, sorted by name.
func ListBandFiles(dir string) ([]BandFile, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read scene directory %s: %w", dir, err)
	}
	files := make([]BandFile, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		file := BandFile{Name: name, Path: filepath.Join(dir, name)}
		file.ID, _ = cloud.BandID(name)
		file.Role, file.Recognized = cloud.IdentifyBand(name)
		files = append(files, file)
	}
	sort.Slice(files, func(i, j int) bool {
		return files[i].Name < files[j].Name
	})
	return files, nil
}

// DiscoverBands returns the band file to use for each role found in dir.
// Unrecognized files are skipped. When two files share a role the last one by name wins.
func DiscoverBands(dir string) (map[cloud.BandRole]BandFile, error) {
	files, err := ListBandFiles(dir)
	if err != nil {
		return nil, err
	}
	bands := make(map[cloud.BandRole]BandFile, len(cloud.Roles))
	for _, file := range files {
		if !file.Recognized {
			log.Debug(logTag+"file skipped", zap.String("file", file.Name))
			continue
		}
		if previous, ok := bands[file.Role]; ok {
			log.Warn(logTag+"duplicate band file", zap.String("role", file.Role.String()),
				zap.String("kept", file.Name), zap.String("dropped", previous.Name))
		}
		bands[file.Role] = file
	}
	return bands, nil
}
