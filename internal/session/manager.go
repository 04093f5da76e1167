package session

import (
	"fmt"
	"sync"

	"github.com/Geeksfino/openskills/internal/execution"
	"github.com/google/uuid"
)

// Session is a live handle returned by start_session and consumed by
// finish_session.
type Session struct {
	Handle  string
	SkillID string
	Context *Context
}

// Manager tracks live sessions by handle, so start_session/
// finish_session can be driven as two separate API calls (§6).
type Manager struct {
	mu       sync.Mutex
	sessions map[string]*Session
}

func NewManager() *Manager {
	return &Manager{sessions: make(map[string]*Session)}
}

// Start implements start_session: if the skill's manifest declares
// context: fork, the session's context is forked from parent; else it
// shares parent directly. A nil parent starts a fresh root context.
func (m *Manager) Start(skillID string, forked bool, parent *Context, workspacePath string) *Session {
	var ctx *Context
	switch {
	case forked && parent != nil:
		ctx = parent.Fork(workspacePath)
	case parent != nil:
		ctx = parent
	default:
		ctx = NewRoot(workspacePath)
	}

	s := &Session{Handle: uuid.NewString(), SkillID: skillID, Context: ctx}
	m.mu.Lock()
	m.sessions[s.Handle] = s
	m.mu.Unlock()
	return s
}

// Get retrieves a live session by handle.
func (m *Manager) Get(handle string) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[handle]
	if !ok {
		return nil, fmt.Errorf("no live session with handle %q", handle)
	}
	return s, nil
}

// Finish implements finish_session: builds ExecutionArtifacts from the
// raw execution result, replacing output with a summary-only value for
// forked sessions, and retires the handle.
func (m *Manager) Finish(handle string, output interface{}, stdout, stderr string, status execution.ExitStatus) (execution.Artifacts, error) {
	s, err := m.Get(handle)
	if err != nil {
		return execution.Artifacts{}, err
	}

	artifacts := execution.Artifacts{
		Output:     output,
		Stdout:     stdout,
		Stderr:     stderr,
		ExitStatus: status,
	}

	if s.Context.IsForked && s.Context.Recorder != nil {
		artifacts.Output = map[string]interface{}{"summary": s.Context.Recorder.Summarize()}
	}

	m.mu.Lock()
	delete(m.sessions, handle)
	m.mu.Unlock()

	return artifacts, nil
}
