// Package execution defines the shared result types produced by both
// runners and consumed by the session recorder and audit sink, so the
// two sandbox paths expose identical artifact semantics (§9).
package execution

// ExitStatus is the fixed taxonomy an execution can terminate in.
type ExitStatus string

const (
	ExitSuccess          ExitStatus = "success"
	ExitFailure          ExitStatus = "failure"
	ExitTimeout          ExitStatus = "timeout"
	ExitPermissionDenied ExitStatus = "permission_denied"
)

// Artifacts is the common shape both the WASM and Native runners
// return, per §3 / §9 ("same ExecutionArtifacts shape, same exit-status
// taxonomy").
type Artifacts struct {
	Output           interface{}
	Stdout           string
	Stderr           string
	StdoutTruncated  bool
	StderrTruncated  bool
	PermissionsUsed  []string
	ExitStatus       ExitStatus
	DurationMS       int64
}
