package files

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// FileInfo represents information about a discovered file or folder
type FileInfo struct {
	Path    string
	Name    string
	Stem    string // file name without its extension
	Size    int64
	ModTime time.Time
	IsDir   bool
}

// Discovery provides discovery operations over the workbook archive
type Discovery struct {
	basePath string
}

// NewDiscovery creates a new file discovery instance rooted at basePath
func NewDiscovery(basePath string) *Discovery {
	return &Discovery{basePath: basePath}
}

// BasePath returns the archive root this instance is rooted at
func (d *Discovery) BasePath() string {
	return d.basePath
}

// FindWorkbooks finds all Excel workbooks (.xlsx and .xls) directly inside
// the specified directory, in name order. Relative directories resolve
// against the base path.
func (d *Discovery) FindWorkbooks(dir string) ([]FileInfo, error) {
	fullPath := dir
	if !filepath.IsAbs(dir) {
		fullPath = filepath.Join(d.basePath, dir)
	}

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
		ext := strings.ToLower(filepath.Ext(name))
		if ext != ".xlsx" && ext != ".xls" {
			continue
		}

		info, err := entry.Info()
		if err != nil {
			continue
		}

		files = append(files, FileInfo{
			Path:    filepath.Join(fullPath, name),
			Name:    name,
			Stem:    strings.TrimSuffix(name, filepath.Ext(name)),
			Size:    info.Size(),
			ModTime: info.ModTime(),
		})
	}

	return files, nil
}

// ListYearFolders lists the subdirectories of the archive root in descending
// name order. The archive keeps one folder per year, so this puts the most
// recent year first.
func (d *Discovery) ListYearFolders() ([]FileInfo, error) {
	entries, err := os.ReadDir(d.basePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory %s: %w", d.basePath, err)
	}

	var dirs []FileInfo
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		info, err := entry.Info()
		if err != nil {
			continue
		}

		dirs = append(dirs, FileInfo{
			Path:    filepath.Join(d.basePath, entry.Name()),
			Name:    entry.Name(),
			ModTime: info.ModTime(),
			IsDir:   true,
		})
	}

	sort.Slice(dirs, func(i, j int) bool {
		return dirs[i].Name > dirs[j].Name
	})

	return dirs, nil
}
