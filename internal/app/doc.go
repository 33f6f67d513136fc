// Package app wires the wellstats service together: configuration,
// logging, OpenTelemetry, the well registry, the statistics engine and
// the chi HTTP router with its middleware chain. The Application type
// owns the server lifecycle from Start through graceful Stop.
package app
