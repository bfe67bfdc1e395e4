// Constructs slog loggers for the remint CLI.
//
// Two styles are supported: a terse line-oriented text format for interactive
// use and a JSON format for captured pipeline output. The level is supplied
// by the caller; the cli package maps -q/-v/-d flags onto it.
package logging
