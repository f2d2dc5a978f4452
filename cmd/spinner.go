package cmd

import (
	"os"
	"time"

	"github.com/briandowns/spinner"
)

// startSpinner shows progress on stderr while keys are derived. It stays
// off in verbose mode, where it would interleave with log lines.
func startSpinner(message string) func() {
	Logger.Debugf("Starting spinner with message: %s", message)
	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond, spinner.WithWriter(os.Stderr))
	s.Suffix = " " + message

	if err := s.Color("cyan"); err != nil {
		// If we can't set spinner color, just continue without it.
		Logger.Warnf("Failed to set spinner color: %v", err)
	}

	if verbose || debug {
		Logger.Infof("%s", message)
		return func() {}
	}

	s.Start()
	return func() {
		if s.Active() {
			s.Stop()
		}
	}
}
