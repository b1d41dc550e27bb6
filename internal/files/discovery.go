package files

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// FileInfo represents information about a discovered file
type FileInfo struct {
	Path    string
	Name    string
	Size    int64
	ModTime time.Time
	IsDir   bool
}

// Discovery locates patient datasets and their export files under an
// input root.
type Discovery struct {
	basePath string
}

// NewDiscovery creates a new file discovery instance
func NewDiscovery(basePath string) *Discovery {
	return &Discovery{basePath: basePath}
}

// FindExportFiles finds the monitor trend exports (.xlsx/.csv) in a
// patient directory, oldest first so batch order follows export order.
// Excel lockfiles (~$ prefix) are skipped.
func (d *Discovery) FindExportFiles(dir string) ([]FileInfo, error) {
	fullPath := d.resolve(dir)

	entries, err := os.ReadDir(fullPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory %s: %w", fullPath, err)
	}

	var files []FileInfo
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		name := entry.Name()
		if strings.HasPrefix(name, "~$") {
			continue
		}
		lower := strings.ToLower(name)
		if !strings.HasSuffix(lower, ".xlsx") &&
			!strings.HasSuffix(lower, ".xls") &&
			!strings.HasSuffix(lower, ".csv") {
			continue
		}

		info, err := entry.Info()
		if err != nil {
			continue
		}
		files = append(files, FileInfo{
			Path:    filepath.Join(fullPath, name),
			Name:    name,
			Size:    info.Size(),
			ModTime: info.ModTime(),
		})
	}

	sort.Slice(files, func(i, j int) bool {
		return files[i].ModTime.Before(files[j].ModTime)
	})

	return files, nil
}

// FindLabFile finds the laboratory export matching the configured glob
// pattern inside a patient directory. Returns ok=false when the
// dataset has no lab file; the secondary source is optional.
func (d *Discovery) FindLabFile(dir, pattern string) (FileInfo, bool, error) {
	fullPath := d.resolve(dir)

	matches, err := filepath.Glob(filepath.Join(fullPath, pattern))
	if err != nil {
		return FileInfo{}, false, fmt.Errorf("invalid lab file pattern %s: %w", pattern, err)
	}
	sort.Strings(matches)

	for _, match := range matches {
		info, err := os.Stat(match)
		if err != nil || info.IsDir() {
			continue
		}
		return FileInfo{
			Path:    match,
			Name:    filepath.Base(match),
			Size:    info.Size(),
			ModTime: info.ModTime(),
		}, true, nil
	}

	return FileInfo{}, false, nil
}

// ListPatientDirs lists the patient dataset directories under the
// input root, sorted by name. When the root itself directly contains
// export files it is treated as a single unnamed dataset.
func (d *Discovery) ListPatientDirs(root string) ([]FileInfo, error) {
	fullPath := d.resolve(root)

	entries, err := os.ReadDir(fullPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory %s: %w", fullPath, err)
	}

	var dirs []FileInfo
	hasFiles := false
	for _, entry := range entries {
		if !entry.IsDir() {
			lower := strings.ToLower(entry.Name())
			if strings.HasSuffix(lower, ".xlsx") || strings.HasSuffix(lower, ".csv") {
				hasFiles = true
			}
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		dirs = append(dirs, FileInfo{
			Path:    filepath.Join(fullPath, entry.Name()),
			Name:    entry.Name(),
			ModTime: info.ModTime(),
			IsDir:   true,
		})
	}

	if len(dirs) == 0 && hasFiles {
		info, err := os.Stat(fullPath)
		if err != nil {
			return nil, err
		}
		return []FileInfo{{
			Path:    fullPath,
			Name:    filepath.Base(fullPath),
			ModTime: info.ModTime(),
			IsDir:   true,
		}}, nil
	}

	sort.Slice(dirs, func(i, j int) bool { return dirs[i].Name < dirs[j].Name })
	return dirs, nil
}

// resolve joins relative paths onto the discovery base.
func (d *Discovery) resolve(dir string) string {
	if filepath.IsAbs(dir) || d.basePath == "" {
		return dir
	}
	return filepath.Join(d.basePath, dir)
}
