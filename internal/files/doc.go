// Package files provides file system discovery utilities for the carichi
// workbook archive.
//
// The archive is a directory tree with one folder per year plus loose files
// in the root. Discovery lists year folders newest-first and enumerates the
// Excel workbooks (.xlsx and .xls) of a single directory without recursing,
// which matches how the archive is actually searched: most recent year
// first, root last.
//
// Example usage:
//
//	discovery := files.NewDiscovery("/mnt/archive/carichi")
//
//	years, err := discovery.ListYearFolders()
//
//	workbooks, err := discovery.FindWorkbooks(years[0].Path)
package files
