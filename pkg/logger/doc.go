// Package logger builds *slog.Logger instances with functional options and
// provides attribute constructors so log keys stay consistent across packages.
//
// New picks slog.NewTextHandler or slog.NewJSONHandler from the configured
// Format and, when ContextExtractor callbacks are registered, wraps it in a
// ContextHandler that adds attributes taken from the record's context (for
// example the request id set by the HTTP middleware).
//
// # Usage
//
//	import (
//		"github.com/dmitrymomot/prodigypm/pkg/environment"
//		"github.com/dmitrymomot/prodigypm/pkg/logger"
//	)
//
//	func main() {
//		log := logger.New(
//			logger.WithEnvironment(environment.Parse(os.Getenv("APP_ENV")), "prodigypm"),
//		)
//		logger.SetAsDefault(log)
//
//		log.Info("connecting", logger.Component("mongo"), logger.Attempt(1))
//	}
//
// # Configuration
//
//   • WithEnvironment – level and format preset per environment.
//   • WithFormat / WithTextFormatter / WithJSONFormatter – override output format.
//   • WithLevel – set a custom slog.Level.
//   • WithAttr – attach static attributes.
//   • WithContextExtractors – inject attributes from context.
//
// # Error Handling
//
// Error and Errors produce attributes only for non-nil errors, so
//
//	log.Info("operation finished", logger.Error(err))
//
// needs no nil check.
package logger
