package log

import (
	"os"
	"sync/atomic"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var logger atomic.Pointer[zap.Logger]

func init() { logger.Store(zap.NewNop()) }

// L returns the process logger. It is a no-op logger until Init or SetLogger runs.
func L() *zap.Logger { return logger.Load() }

// SetLogger swaps the process logger (tests use zaptest/observer).
func SetLogger(l *zap.Logger) {
	if l == nil {
		l = zap.NewNop()
	}
	logger.Store(l)
}

// Init builds a JSON logger writing to stdout and, if file is set, to that file too.
func Init(level, file string) (*zap.Logger, error) {
	lvl := zap.NewAtomicLevelAt(zapcore.InfoLevel)
	if level != "" {
		if err := lvl.UnmarshalText([]byte(level)); err != nil {
			return nil, err
		}
	}

	encCfg := zap.NewProductionEncoderConfig()
	encCfg.TimeKey = "ts"
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	sinks := []zapcore.WriteSyncer{zapcore.Lock(os.Stdout)}
	if file != "" {
		f, err := os.OpenFile(file, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o640)
		if err != nil {
			return nil, err
		}
		sinks = append(sinks, zapcore.Lock(f))
	}

	core := zapcore.NewCore(zapcore.NewJSONEncoder(encCfg), zapcore.NewMultiWriteSyncer(sinks...), lvl)
	l := zap.New(core, zap.AddCaller(), zap.AddCallerSkip(1))
	SetLogger(l)
	return l, nil
}

func requestFields(c *fiber.Ctx, action string, err error, fields map[string]any) []zap.Field {
	out := make([]zap.Field, 0, 8+len(fields))
	out = append(out, zap.String("action", action))
	if c != nil {
		out = append(out,
			zap.String("ip", c.IP()),
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			zap.Int("status", c.Response().StatusCode()),
		)
		if rid, ok := c.Locals("requestid").(string); ok && rid != "" {
			out = append(out, zap.String("req_id", rid))
		}
		if uid, ok := c.Locals("user_id").(string); ok && uid != "" {
			out = append(out, zap.String("user_id", uid))
		}
	}
	if err != nil {
		out = append(out, zap.Error(err))
	}
	if len(fields) > 0 {
		out = append(out, zap.Any("fields", fields))
	}
	return out
}

func Info(c *fiber.Ctx, action string, fields map[string]any) {
	L().Info(action, requestFields(c, action, nil, fields)...)
}

// Audit records a state change made by a user (orders, admin writes).
func Audit(c *fiber.Ctx, action string, fields map[string]any) {
	L().Info(action, append(requestFields(c, action, nil, fields), zap.Bool("audit", true))...)
}

// Security records auth failures and denied access.
func Security(c *fiber.Ctx, action string, fields map[string]any) {
	L().Warn(action, requestFields(c, action, nil, fields)...)
}

func Error(c *fiber.Ctx, action string, err error, fields map[string]any) {
	L().Error(action, requestFields(c, action, err, fields)...)
}

// AccessLog emits one line per request once the handler chain returns.
func AccessLog() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()
		if err != nil {
			// Let the app's error handler write the response so the status is final.
			if herr := c.App().ErrorHandler(c, err); herr != nil {
				_ = c.SendStatus(fiber.StatusInternalServerError)
			}
			err = nil
		}
		fields := requestFields(c, "http.access", nil, nil)
		fields = append(fields,
			zap.String("query", string(c.Request().URI().QueryString())),
			zap.Duration("latency", time.Since(start)),
		)
		L().Info("http.access", fields...)
		return err
	}
}
