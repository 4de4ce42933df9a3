package cache

import (
	"fmt"
	"os"
	"sort"

	"github.com/forest-guardian/cloudcover/internal/cloud"
)

// SceneKey identifies one evaluation of a scene directory. Band files are fingerprinted by
// name, size and modification time so a re-delivered scene invalidates its entry.
func SceneKey[T any](fc CacheService[T], dir string, box cloud.GeoBox, p cloud.Params) (string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", fmt.Errorf("failed to fingerprint scene %s: %w", dir, err)
	}
	var fingerprint []string
	for _, entry := range entries {
		if _, ok := cloud.IdentifyBand(entry.Name()); !ok || entry.IsDir() {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			return "", fmt.Errorf("failed to fingerprint %s: %w", entry.Name(), err)
		}
		fingerprint = append(fingerprint, fmt.Sprintf("%s:%d:%d", entry.Name(), info.Size(), info.ModTime().UnixNano()))
	}
	sort.Strings(fingerprint)
	return fc.GenerateKey(dir, box.XMin, box.XMax, box.YMin, box.YMax, p.T1, p.T2, fingerprint), nil
}
