// Package session implements Execution Contexts and the Session
// Recorder (C5, C10): identity, workspace ownership, fork/summarize
// semantics for forked executions.
package session

import (
	"github.com/google/uuid"
)

// Context carries an identifier, optional parent link, the workspace
// directory it owns, and — only if forked — a Recorder. A root context
// never owns a recorder (§4.5).
type Context struct {
	ID            string
	ParentID      string
	IsForked      bool
	WorkspacePath string
	Recorder      *Recorder
}

// NewRoot creates a root execution context for a fresh session.
func NewRoot(workspacePath string) *Context {
	return &Context{
		ID:            uuid.NewString(),
		WorkspacePath: workspacePath,
	}
}

// Fork produces a child context: a fresh id, the parent's id recorded,
// is_forked true, and a fresh empty recorder — regardless of whether
// the parent itself was forked.
func (c *Context) Fork(workspacePath string) *Context {
	return &Context{
		ID:            uuid.NewString(),
		ParentID:      c.ID,
		IsForked:      true,
		WorkspacePath: workspacePath,
		Recorder:      NewRecorder(),
	}
}
