package permission

import (
	"testing"

	"github.com/Geeksfino/openskills/internal/policy"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type scriptedCallback struct {
	responses []Response
	calls     int
}

func (s *scriptedCallback) Request(Request) (Response, error) {
	r := s.responses[s.calls]
	s.calls++
	return r, nil
}

func TestCheckPolicyDenyNeverCallsCallback(t *testing.T) {
	cb := &scriptedCallback{responses: []Response{ResponseAllowOnce}}
	gate := NewGate(cb)

	resp, err := gate.Check("skill", "Bash", policy.DecisionDeny, policy.RiskHigh, nil)
	require.NoError(t, err)
	assert.Equal(t, ResponseDeny, resp)
	assert.Zero(t, cb.calls)
}

func TestCheckPromptCachesAllowAlways(t *testing.T) {
	cb := &scriptedCallback{responses: []Response{ResponseAllowAlways}}
	gate := NewGate(cb)

	resp, err := gate.Check("skill", "Bash", policy.DecisionPrompt, policy.RiskHigh, nil)
	require.NoError(t, err)
	assert.Equal(t, ResponseAllowAlways, resp)
	assert.Equal(t, 1, cb.calls)

	resp2, err := gate.Check("skill", "Bash", policy.DecisionPrompt, policy.RiskHigh, nil)
	require.NoError(t, err)
	assert.Equal(t, ResponseAllowAlways, resp2)
	assert.Equal(t, 1, cb.calls, "second check must be served from cache, not the callback")
}

func TestResetGrantsClearsCacheNotHistory(t *testing.T) {
	cb := &scriptedCallback{responses: []Response{ResponseAllowAlways, ResponseDeny}}
	gate := NewGate(cb)

	_, _ = gate.Check("skill", "Bash", policy.DecisionPrompt, policy.RiskHigh, nil)
	gate.ResetGrants()
	resp, _ := gate.Check("skill", "Bash", policy.DecisionPrompt, policy.RiskHigh, nil)

	assert.Equal(t, ResponseDeny, resp)
	assert.Equal(t, 2, cb.calls)
	assert.Len(t, gate.Audit(), 2)
}

func TestLowRiskPromptNeverInvokesCallback(t *testing.T) {
	cb := &scriptedCallback{responses: []Response{}}
	gate := NewGate(cb)

	resp, err := gate.Check("skill", "Read", policy.DecisionPrompt, policy.RiskLow, nil)
	require.NoError(t, err)
	assert.Equal(t, ResponseAllowOnce, resp)
	assert.Zero(t, cb.calls)
}
