package progress

import (
	coreprogress "github.com/yardworks/shunter/core/progress"
	"github.com/yardworks/shunter/infra/logger"
)

// LogSink writes progress events through the application logger. Stage
// events go out at debug level, solve outcomes at info.
type LogSink struct {
	log logger.Logger
}

// NewLogSink wraps the given logger. A nil logger gets a default one.
func NewLogSink(log logger.Logger) *LogSink {
	if log == nil {
		log = logger.New("progress")
	}
	return &LogSink{log: log}
}

func (s *LogSink) RecordStage(ev coreprogress.StageEvent) error {
	s.log.Debugw("stage done", map[string]any{
		"run_id":      ev.RunID,
		"stage":       ev.Stage,
		"variables":   ev.Vars,
		"constraints": ev.Constrs,
		"links":       ev.Ands,
		"elapsed_ms":  ev.Elapsed.Milliseconds(),
	})
	return nil
}

func (s *LogSink) RecordSolve(ev coreprogress.SolveEvent) error {
	s.log.Infof("solve %s finished: engine=%s status=%s objective=%.3f elapsed=%s",
		ev.RunID, ev.Engine, ev.Status, ev.Objective, ev.Elapsed)
	return nil
}
