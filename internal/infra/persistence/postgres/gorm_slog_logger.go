package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"qbank/config"
	deliverycontext "qbank/internal/delivery/context"

	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const (
	defaultGormSlowThreshold = 200 * time.Millisecond

	redactedParam = "[REDACTED]"
)

// bcryptPrefixes identify password hashes among bound parameters.
var bcryptPrefixes = []string{"$2a$", "$2b$", "$2y$"}

// gormSlogLogger routes GORM output to slog. Bound parameters are only
// rendered in debug mode, and password hashes never are.
type gormSlogLogger struct {
	logger        *slog.Logger
	level         logger.LogLevel
	slowThreshold time.Duration
	showParams    bool
}

var _ gorm.ParamsFilter = (*gormSlogLogger)(nil)

func newGormSlogLogger(baseLogger *slog.Logger, cfg *config.Config) logger.Interface {
	debug := cfg != nil && cfg.Env.Debug

	level := logger.Warn
	if debug {
		level = logger.Info
	}

	return &gormSlogLogger{
		logger:        baseLogger,
		level:         level,
		slowThreshold: defaultGormSlowThreshold,
		showParams:    debug,
	}
}

func (l *gormSlogLogger) LogMode(level logger.LogLevel) logger.Interface {
	cloned := *l
	cloned.level = level

	return &cloned
}

func (l *gormSlogLogger) Info(ctx context.Context, msg string, args ...any) {
	l.logf(ctx, logger.Info, slog.LevelInfo, "GORM info", msg, args...)
}

func (l *gormSlogLogger) Warn(ctx context.Context, msg string, args ...any) {
	l.logf(ctx, logger.Warn, slog.LevelWarn, "GORM warn", msg, args...)
}

func (l *gormSlogLogger) Error(ctx context.Context, msg string, args ...any) {
	l.logf(ctx, logger.Error, slog.LevelError, "GORM error", msg, args...)
}

// ParamsFilter decides which bound values end up in the logged SQL.
func (l *gormSlogLogger) ParamsFilter(_ context.Context, sql string, params ...any) (string, []any) {
	if !l.showParams {
		return sql, nil
	}

	filtered := make([]any, len(params))
	for i, param := range params {
		filtered[i] = redactParam(param)
	}

	return sql, filtered
}

func (l *gormSlogLogger) Trace(ctx context.Context, begin time.Time, sqlAndRowsFn func() (string, int64), err error) {
	if l.logger == nil || l.level == logger.Silent {
		return
	}

	elapsed := time.Since(begin)

	var (
		level slog.Level
		msg   string
		extra slog.Attr
	)
	switch {
	case l.isReportableError(err):
		level, msg, extra = slog.LevelError, "GORM query failed", slog.String("error", err.Error())
	case l.isSlow(elapsed):
		level, msg, extra = slog.LevelWarn, "GORM slow query", slog.Duration("slowThreshold", l.slowThreshold)
	case l.level >= logger.Info:
		level, msg = slog.LevelDebug, "GORM query"
	default:
		return
	}

	sql, rows := sqlAndRowsFn()
	attrs := []slog.Attr{
		slog.Duration("elapsed", elapsed),
		slog.Int64("rows", rows),
		slog.String("sql", sql),
	}
	if extra.Key != "" {
		attrs = append(attrs, extra)
	}

	l.loggerFor(ctx).LogAttrs(ctx, level, msg, attrs...)
}

func (l *gormSlogLogger) logf(ctx context.Context, threshold logger.LogLevel, level slog.Level, msg, format string, args ...any) {
	if l.logger == nil || l.level < threshold {
		return
	}

	l.loggerFor(ctx).LogAttrs(ctx, level, msg, slog.String("message", fmt.Sprintf(format, args...)))
}

// loggerFor prefers the request-scoped logger so statements carry the request id.
func (l *gormSlogLogger) loggerFor(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, l.logger)
}

// isReportableError skips lookups that simply found nothing.
func (l *gormSlogLogger) isReportableError(err error) bool {
	return err != nil && l.level >= logger.Error && !errors.Is(err, gorm.ErrRecordNotFound)
}

func (l *gormSlogLogger) isSlow(elapsed time.Duration) bool {
	return l.slowThreshold > 0 && elapsed > l.slowThreshold && l.level >= logger.Warn
}

func redactParam(param any) any {
	s, ok := param.(string)
	if !ok {
		return param
	}
	for _, prefix := range bcryptPrefixes {
		if strings.HasPrefix(s, prefix) {
			return redactedParam
		}
	}

	return param
}
