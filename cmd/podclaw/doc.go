// Package main hosts the podclaw CLI entrypoint and command graph.
//
// The Cobra command tree resolves configuration, sets up structured logging,
// takes the storage lock and loads the subscription collection before handing
// off to the internal packages. User-facing output goes through a presenter
// built from each command's writer; diagnostics go to the log.
package main
