// Package internal contains the implementation packages of the istring CLI.
//
// The public value types live under pkg: rc holds reference-counted pooled
// buffers, istring the two-variant immutable string built on them and attr
// the host attribute value and ordered attribute slots. The internal
// packages drive those types through a render loop:
//
//   - props: attribute documents and the render pipeline
//   - preview: HTTP page and websocket push of the latest render
//   - watcher: debounced file watching
//   - config: Viper configuration
//   - errors: typed errors and the error handler
//   - logging: structured logging on slog
//   - version: build information
package internal
