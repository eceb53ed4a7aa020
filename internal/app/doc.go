// Package app contains the application lifecycle: it owns the configured
// logger, the loaded experiment definition, and the wiring of the pipeline
// stages (run, reduce, plot), decoupled from any specific entrypoint like
// a CLI.
package app
