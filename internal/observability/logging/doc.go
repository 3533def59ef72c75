// Package logging builds the slog loggers used by every binary and carries
// request-scoped loggers through contexts.
//
// Services log JSON to stdout; the CLI logs text to stderr. LOG_LEVEL and
// LOG_FORMAT override both.
//
//	logger := logging.NewLogger()
//	slog.SetDefault(logger)
//
//	func handle(ctx context.Context) {
//	    logging.FromContext(ctx).Info("summarized", slog.Int("words", n))
//	}
package logging
