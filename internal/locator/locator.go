package locator

import (
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"motorlab/internal/files"
	"motorlab/pkg/contracts/domain"
)

// Params tunes workbook matching.
type Params struct {
	// AliasMismatchPenalty is added to a prefix candidate's rank when its
	// alias form (trailing "A") differs from the requested identifier's.
	AliasMismatchPenalty int
	// LengthPenaltyPerChar is added per character of difference between
	// the candidate stem and the requested identifier.
	LengthPenaltyPerChar int
	// DeriveAliasFallback, when set, retries a missed lookup with the
	// opposite alias form ("30001A" for "30001" and vice versa). Off by
	// default: the mirrored record is a distinct test and must never be
	// substituted silently.
	DeriveAliasFallback bool
}

// DefaultParams returns the production matching behavior: alias agreement
// dominates the prefix ranking, stem length breaks ties, strict matching.
func DefaultParams() Params {
	return Params{
		AliasMismatchPenalty: 1000,
		LengthPenaltyPerChar: 1,
	}
}

// Locator resolves test identifiers to workbook files under the carichi
// base directory. A nil result is a miss, not an error; filesystem problems
// along the way are logged and treated as empty directories.
type Locator struct {
	baseDir string
	disc    *files.Discovery
	params  Params
	logger  *slog.Logger
}

func New(baseDir string, params Params, logger *slog.Logger) *Locator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Locator{
		baseDir: baseDir,
		disc:    files.NewDiscovery(baseDir),
		params:  params,
		logger:  logger,
	}
}

// Available reports whether a base directory is configured and exists.
func (l *Locator) Available() bool {
	if l.baseDir == "" {
		return false
	}
	_, err := os.Stat(l.baseDir)
	return err == nil
}

// BaseDir returns the configured carichi base directory.
func (l *Locator) BaseDir() string { return l.baseDir }

// Locate resolves the workbook backing testNumber. It returns nil when the
// identifier normalizes to nothing, the base directory is unavailable, or
// no candidate file exists.
func (l *Locator) Locate(testNumber string) *domain.WorkbookMatch {
	if !l.Available() {
		l.logger.Debug("carichi base directory not configured; skipping lookup")
		return nil
	}
	id := domain.NormalizeTestID(testNumber)
	if id.IsZero() {
		return nil
	}

	primary := []domain.TestID{id}
	var fallback []domain.TestID
	if l.params.DeriveAliasFallback {
		if id.IsAlias() {
			if base := id.BaseForm(); !base.IsZero() {
				fallback = append(fallback, base)
			}
		} else {
			fallback = append(fallback, id.AliasForm())
		}
	}

	dirs := l.searchDirs()
	l.logger.Debug("starting workbook search",
		slog.String("test_number", id.String()),
		slog.Int("directories", len(dirs)))

	// Prefix matching for the requested form is reserved for alias
	// identifiers; base identifiers must match their stem exactly.
	if hit := l.searchCandidates(dirs, primary, id.IsAlias()); hit != nil {
		return l.buildMatch(testNumber, hit, false)
	}
	if hit := l.searchCandidates(dirs, fallback, true); hit != nil {
		return l.buildMatch(testNumber, hit, true)
	}

	evaluated := make([]string, 0, len(primary)+len(fallback))
	for _, c := range primary {
		evaluated = append(evaluated, c.String())
	}
	for _, c := range fallback {
		evaluated = append(evaluated, c.String())
	}
	l.logger.Info("no carichi workbook located",
		slog.String("test_number", id.String()),
		slog.Int("directories", len(dirs)),
		slog.String("candidates", strings.Join(evaluated, ",")))
	return nil
}

// searchHit is one successful directory probe.
type searchHit struct {
	path       string
	candidate  domain.TestID
	prefixUsed bool
}

func (l *Locator) buildMatch(requested string, hit *searchHit, fromFallback bool) *domain.WorkbookMatch {
	strategy := domain.MatchExact
	switch {
	case fromFallback && hit.prefixUsed:
		strategy = domain.MatchFallbackPrefix
	case fromFallback:
		strategy = domain.MatchFallbackExact
	case hit.prefixUsed:
		strategy = domain.MatchPrefix
	}
	match := &domain.WorkbookMatch{
		RequestedTestNumber: requested,
		MatchedTestNumber:   hit.candidate.String(),
		Strategy:            strategy,
		Path:                hit.path,
		YearFolder:          l.yearFolder(hit.path),
	}
	l.logger.Info("carichi workbook located",
		slog.String("test_number", match.MatchedTestNumber),
		slog.String("strategy", string(match.Strategy)),
		slog.String("path", match.Path))
	return match
}

// searchDirs lists the directories to probe: year folders newest-first,
// then the base directory itself.
func (l *Locator) searchDirs() []string {
	folders, err := l.disc.ListYearFolders()
	if err != nil {
		l.logger.Warn("listing carichi base directory failed",
			slog.String("dir", l.baseDir),
			slog.String("error", err.Error()))
		return []string{l.baseDir}
	}
	dirs := make([]string, 0, len(folders)+1)
	for _, f := range folders {
		dirs = append(dirs, f.Path)
	}
	return append(dirs, l.baseDir)
}

func (l *Locator) searchCandidates(dirs []string, candidates []domain.TestID, allowPrefix bool) *searchHit {
	for _, candidate := range candidates {
		if candidate.IsZero() {
			continue
		}
		for _, dir := range dirs {
			path, prefixUsed, ok := l.findInDirectory(dir, candidate, allowPrefix)
			if !ok {
				continue
			}
			l.logger.Debug("workbook candidate matched",
				slog.String("candidate", candidate.String()),
				slog.String("path", path),
				slog.Bool("prefix", prefixUsed))
			return &searchHit{path: path, candidate: candidate, prefixUsed: prefixUsed}
		}
	}
	return nil
}

// findInDirectory probes dir for the candidate: the literal stem.xlsx and
// stem.xls paths first, then a case-insensitive stem comparison over the
// directory listing, finally (when allowed) a ranked prefix match.
func (l *Locator) findInDirectory(dir string, candidate domain.TestID, allowPrefix bool) (string, bool, bool) {
	stem := candidate.String()
	for _, ext := range []string{".xlsx", ".xls"} {
		path := filepath.Join(dir, stem+ext)
		if _, err := os.Stat(path); err == nil {
			return path, false, true
		}
	}

	workbooks, err := l.disc.FindWorkbooks(dir)
	if err != nil {
		l.logger.Warn("listing directory failed",
			slog.String("dir", dir),
			slog.String("error", err.Error()))
	}
	target := strings.ToLower(stem)
	for _, wb := range workbooks {
		if strings.ToLower(wb.Stem) == target {
			return wb.Path, false, true
		}
	}

	if !allowPrefix {
		return "", false, false
	}
	var prefixed []files.FileInfo
	for _, wb := range workbooks {
		if strings.HasPrefix(strings.ToLower(wb.Stem), target) {
			prefixed = append(prefixed, wb)
		}
	}
	if len(prefixed) == 0 {
		return "", false, false
	}
	best := l.bestPrefixCandidate(candidate, prefixed)
	return best.Path, true, true
}

// bestPrefixCandidate ranks prefix matches: alias-form agreement with the
// request dominates, closer stem length wins next, the newest file breaks
// remaining ties.
func (l *Locator) bestPrefixCandidate(requested domain.TestID, candidates []files.FileInfo) files.FileInfo {
	rank := func(wb files.FileInfo) int {
		r := l.params.LengthPenaltyPerChar * abs(len(wb.Stem)-len(requested.String()))
		if stemIsAlias(wb.Stem) != requested.IsAlias() {
			r += l.params.AliasMismatchPenalty
		}
		return r
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		ri, rj := rank(candidates[i]), rank(candidates[j])
		if ri != rj {
			return ri < rj
		}
		return candidates[i].ModTime.After(candidates[j].ModTime)
	})
	return candidates[0]
}

// stemIsAlias checks the raw file stem for the trailing alias marker.
func stemIsAlias(stem string) bool {
	return strings.HasSuffix(strings.ToUpper(stem), "A")
}

// yearFolder returns the first path element of the match's directory
// relative to the base, or "" when the file sits in the base directory
// itself.
func (l *Locator) yearFolder(path string) string {
	rel, err := filepath.Rel(l.baseDir, filepath.Dir(path))
	if err != nil || rel == "." || strings.HasPrefix(rel, "..") {
		return ""
	}
	return strings.Split(rel, string(filepath.Separator))[0]
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
