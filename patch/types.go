// Package patch parses LLM-produced unified diffs and applies them to a
// work tree. Application first delegates to git's three-way apply and
// falls back to manual hunk splicing with fuzzy context matching.
package patch

// Operation is the kind of change a FileDiff makes to its file.
type Operation string

const (
	OpCreate Operation = "create"
	OpModify Operation = "modify"
	OpDelete Operation = "delete"
	OpRename Operation = "rename"
)

// LineKind classifies a single diff body line.
type LineKind string

const (
	LineAdd     LineKind = "add"
	LineRemove  LineKind = "remove"
	LineContext LineKind = "context"
)

// DiffLine is one body line of a hunk.
type DiffLine struct {
	Kind    LineKind
	Content string
	OldLine int // 1-based line number in the original file; 0 for added lines
	NewLine int // 1-based line number in the patched file; 0 for removed lines
}

// Hunk is one contiguous change region. OldStart/OldCount address the
// original file, NewStart/NewCount the patched file. Context carries the
// trailing text of the @@ header line.
type Hunk struct {
	OldStart int
	OldCount int
	NewStart int
	NewCount int
	Context  string
	Lines    []DiffLine
}

// FileDiff is every change a patch makes to one file. File is the path
// the operation targets: the new path, except for deletions.
type FileDiff struct {
	File      string
	OldPath   string
	NewPath   string
	Operation Operation
	Hunks     []Hunk
}

// ConflictKind classifies a ConflictInfo.
type ConflictKind string

const (
	// ConflictMerge marks a conflict-marker block left by a three-way merge.
	ConflictMerge ConflictKind = "merge"
	// ConflictContext marks a context line that differed beyond the fuzzy
	// threshold and rejected its hunk.
	ConflictContext ConflictKind = "context"
	// ConflictWhitespace marks a fuzzy-accepted line whose drift was
	// whitespace only.
	ConflictWhitespace ConflictKind = "whitespace"
)

// ConflictInfo describes one conflict found during or after application.
// Original and Incoming hold the two sides of a merge-marker block.
type ConflictInfo struct {
	File     string
	Line     int
	Kind     ConflictKind
	Message  string
	Original string
	Incoming string
}

// ApplyOutcome is the result of applying one FileDiff.
type ApplyOutcome struct {
	Success   bool
	Conflicts []ConflictInfo
	Warnings  []string
	Err       error
}

// Strategy records which application path produced a DiffResult.
type Strategy string

const (
	// StrategyNone means nothing was applied (empty or unparsable patch).
	StrategyNone Strategy = "none"
	// StrategyThreeWay means git's three-way apply handled the patch.
	StrategyThreeWay Strategy = "three-way"
	// StrategyManual means the engine spliced hunks itself.
	StrategyManual Strategy = "manual"
)

// DiffResult is the whole-patch outcome.
type DiffResult struct {
	Strategy  Strategy
	Applied   []string
	Rejected  []string
	Conflicts []ConflictInfo
	Warnings  []string
}

// HunkSelection wraps a parsed hunk for interactive review. Selections
// default to selected; the review UI only flips Selected before the
// filtered patch is regenerated.
type HunkSelection struct {
	ID       string
	FilePath string
	Hunk     Hunk
	Selected bool

	file *FileDiff // owning file block, needed to regenerate headers
}
