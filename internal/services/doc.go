// Package services contains the business logic layer between the HTTP
// transport and the domain packages.
//
// Services own orchestration: resolving wells and series from the
// registry, applying configured defaults to requests, fanning out batch
// computations, and shaping results for export. The statistics math
// itself lives in internal/depthstats.
//
// Service construction follows one pattern:
//
//	func NewServiceName(deps..., logger *slog.Logger) *ServiceName {
//		if logger == nil {
//			logger = slog.Default()
//		}
//		return &ServiceName{..., logger: logger}
//	}
//
// All blocking operations take a context.Context and respect
// cancellation.
package services
