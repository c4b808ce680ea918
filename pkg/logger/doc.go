// Package logger builds *slog.Logger values for magicer and keeps attribute names consistent.
//
// New assembles a JSON or text handler from functional options and wraps it in a ContextHandler,
// which pulls request-scoped values such as the request ID and client IP out of the context at
// log time:
//
//	log := logger.New(
//	    logger.WithLevel(slog.LevelDebug),
//	    logger.WithService("magicer", version),
//	    logger.WithContextString("request_id", requestid.FromContext),
//	)
//	log.InfoContext(ctx, "payload ingested", logger.Size(n), logger.Strategy("disk"))
//
// The attribute helpers in attr.go return an empty slog.Attr for empty input, which slog drops,
// so callers do not need nil checks.
package logger
