// Package logging provides leveled output for jsonlock commands.
//
// Verbosity is controlled by two flags:
//
//   - --verbose: info messages
//   - --debug: info and debug messages, including the JSON pointer of
//     every value as it is processed
//
// Warnings and errors are always shown. Values, passwords and keys are
// never passed to the logger.
//
//	log := logging.New(verbose, debug)
//	log.Infof("Encrypting %d values", n)
package logging
