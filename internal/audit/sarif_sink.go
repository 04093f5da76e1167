package audit

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/owenrumney/go-sarif/v3/pkg/report/v210/sarif"

	"github.com/Geeksfino/openskills/internal/execution"
)

// SarifSink accumulates execution records into a single SARIF 2.1.0 run,
// one result per execution, for tools that consume SARIF for security
// findings review. Call Flush to serialize the accumulated report.
type SarifSink struct {
	mu    sync.Mutex
	run   *sarif.Run
	rules map[string]bool
}

func NewSarifSink() *SarifSink {
	run := sarif.NewRunWithInformationURI("OpenSkills", "https://github.com/Geeksfino/openskills")
	return &SarifSink{run: run, rules: make(map[string]bool)}
}

func (s *SarifSink) Record(ctx context.Context, rec Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.rules[rec.SkillID] {
		rule := sarif.NewReportingDescriptor().WithID(rec.SkillID)
		rule.WithName(rec.SkillID)
		s.run.Tool.Driver.AddRule(rule)
		s.rules[rec.SkillID] = true
	}

	result := sarif.NewRuleResult(rec.SkillID)
	result.Level = levelFor(rec.ExitStatus)
	result.Message = sarif.NewTextMessage(fmt.Sprintf("skill %s exited %s in %dms", rec.SkillID, rec.ExitStatus, rec.DurationMS))
	s.run.AddResult(result)

	return nil
}

// Flush serializes the accumulated report to w. It does not reset the
// accumulated state; callers that want a fresh report per flush should
// construct a new SarifSink.
func (s *SarifSink) Flush(w io.Writer) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	report := sarif.NewReport()
	report.AddRun(s.run)
	if err := report.Write(w); err != nil {
		return fmt.Errorf("writing SARIF report: %w", err)
	}
	_, err := w.Write([]byte("\n"))
	return err
}

func levelFor(status execution.ExitStatus) string {
	switch status {
	case execution.ExitSuccess:
		return "none"
	case execution.ExitTimeout, execution.ExitPermissionDenied:
		return "warning"
	default:
		return "error"
	}
}
