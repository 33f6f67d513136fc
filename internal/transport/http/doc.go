// Package http contains the chi HTTP handlers for the wellstats API:
// well and series browsing, statistics computation and the health and
// metrics endpoints. Errors are rendered as RFC 7807 problem documents
// through the shared error handler.
package http
