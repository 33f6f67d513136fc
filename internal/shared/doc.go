// Package shared holds cross-cutting helpers that belong to no single
// domain package. Today that is the testutil subpackage with its slog
// capture handler; domain logic never lives here.
package shared
