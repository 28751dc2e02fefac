// Package services holds cross-cutting helpers shared by pipeline stages and
// external service clients: the error classification sentinels that drive
// retry and fallback decisions, and context annotations consumed by
// structured logging.
package services
