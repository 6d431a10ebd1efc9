package cmdlog

import (
	"twinpics/internal/logging"
	"twinpics/internal/metrics"
)

// Run executes f as the named command, counting it and logging the outcome.
func Run(log *logging.Logger, cmd string, f func() error) error {
	log = logging.OrNop(log)
	metrics.IncCommandRun(cmd)
	err := f()
	if err != nil {
		metrics.IncCommandError(cmd)
		log.Error(cmd+"_error", "error", err.Error())
	} else {
		log.Info(cmd + "_ok")
	}
	return err
}
