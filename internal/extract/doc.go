// Package extract pulls summary blocks out of test-lab workbooks.
//
// The workbooks are filled in by hand over many years and never follow a
// single layout: header rows drift, labels change spelling and case, and
// measurement columns move around. Extraction is therefore heuristic. Each
// extractor scans a sheet for recognizable landmarks (header alias text,
// Media/Min/Max row labels), anchors candidate blocks to the nearest header
// row above them, scores the candidates by how much numeric data they
// actually carry, and keeps the best one. A sheet where no candidate
// survives yields nil rather than an error.
//
// # Extractors
//
// SchedaExtractor recognizes the Media/Min/Max measurement block of a
// "Scheda" sheet, including free-form operator notes below the header.
// CollaudoExtractor recognizes the single "Media" row of a "Collaudo"
// sheet. RawSheetExporter mechanically dumps every relevant sheet (values,
// merge ranges, column widths, row heights) so a report builder can replay
// it elsewhere with ReplayBlock.
//
// # Tuning
//
// Scan windows and scoring knobs live in SchedaParams and CollaudoParams;
// DefaultSchedaParams and DefaultCollaudoParams return the values that match
// the historical workbook corpus.
//
// # Usage
//
//	f, err := excelize.OpenFile(path)
//	if err != nil {
//		return err
//	}
//	defer f.Close()
//
//	scheda := extract.NewSchedaExtractor(extract.DefaultSchedaParams(), logger).Extract(f)
//	collaudo := extract.NewCollaudoExtractor(extract.DefaultCollaudoParams(), logger).Extract(f)
//
// All extractors treat the workbook as read-only and may be reused across
// workbooks.
package extract
