// internal/logger/logger.go
//
// Structured JSON logging for escortd (Zap + Lumberjack).
//
// Context
// -------
// Two daily files live under `<root>/logs/`:
//
//	YYYY-MM-DD.log          lifecycle, moderation, and error events
//	access-YYYY-MM-DD.log   one line per HTTP request (logger "access")
//
// Access lines are routed by logger name, so middleware only has to log
// through Access().  With Options.SplitAccess off both streams share the
// first file.  In an interactive TTY every event is also teed, colorized,
// to stdout.
//
// Usage
// -----
//
//	log, err := logger.New(logger.Options{Root: cfg.Paths.Root, Level: cfg.Log.Level})
//	logger.Access().Info("request", ...)
//	logger.Ctx(r.Context()).Info("ad submitted", ...)   // carries req_id
//
// Notes
// -----
// • Unknown level names fall back to info.
// • Oxford commas, two spaces after periods.
package logger

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"time"

	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/natefinch/lumberjack"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// AccessName is the logger name whose entries go to the access file.
const AccessName = "access"

// Options configures New.  Zero rotation values take the defaults below.
type Options struct {
	Root        string
	Level       string
	Tee         bool
	SplitAccess bool
	MaxSizeMB   int // default 50
	MaxBackups  int // default 7
	MaxAgeDays  int // default 14
}

func (o *Options) defaults() {
	if o.MaxSizeMB <= 0 {
		o.MaxSizeMB = 50
	}
	if o.MaxBackups <= 0 {
		o.MaxBackups = 7
	}
	if o.MaxAgeDays <= 0 {
		o.MaxAgeDays = 14
	}
}

var encCfg = zapcore.EncoderConfig{
	TimeKey:       "ts",
	LevelKey:      "level",
	NameKey:       "logger",
	MessageKey:    "msg",
	CallerKey:     "caller",
	StacktraceKey: "stack",
	EncodeTime:    zapcore.ISO8601TimeEncoder,
	EncodeLevel:   zapcore.LowercaseLevelEncoder,
	EncodeCaller:  zapcore.ShortCallerEncoder,
}

// New builds the process logger and installs it with zap.ReplaceGlobals.
func New(o Options) (*zap.SugaredLogger, error) {
	o.defaults()
	lvl, err := zapcore.ParseLevel(o.Level)
	if err != nil {
		lvl = zapcore.InfoLevel
	}

	logDir := filepath.Join(o.Root, "logs")
	if err := os.MkdirAll(logDir, 0o755); err != nil {
		return nil, err
	}
	day := time.Now().Format("2006-01-02")

	appSink := o.sink(filepath.Join(logDir, day+".log"))
	app := zapcore.NewCore(zapcore.NewJSONEncoder(encCfg), appSink, lvl)

	var access zapcore.Core
	if o.SplitAccess {
		access = zapcore.NewCore(zapcore.NewJSONEncoder(encCfg),
			o.sink(filepath.Join(logDir, "access-"+day+".log")), lvl)
	}

	var core zapcore.Core = routeCore{app: app, access: access}
	if o.Tee {
		console := zapcore.NewCore(zapcore.NewConsoleEncoder(consoleCfg()), zapcore.AddSync(os.Stdout), lvl)
		core = zapcore.NewTee(core, console)
	}

	z := zap.New(core,
		zap.AddCaller(),
		zap.AddStacktrace(zapcore.ErrorLevel),
		zap.ErrorOutput(appSink),
	)
	zap.ReplaceGlobals(z)

	s := z.Sugar()
	s.Infow("logger online", "tee", o.Tee, "level", lvl.String(), "split_access", o.SplitAccess)
	return s, nil
}

func (o Options) sink(path string) zapcore.WriteSyncer {
	return zapcore.AddSync(&lumberjack.Logger{
		Filename:   path,
		MaxSize:    o.MaxSizeMB,
		MaxBackups: o.MaxBackups,
		MaxAge:     o.MaxAgeDays,
		Compress:   true,
	})
}

func consoleCfg() zapcore.EncoderConfig {
	c := encCfg
	c.EncodeLevel = zapcore.CapitalColorLevelEncoder
	return c
}

// Access returns the request logger.
func Access() *zap.Logger { return zap.L().Named(AccessName) }

// Ctx returns the global logger tagged with the chi request id, when ctx
// carries one.
func Ctx(ctx context.Context) *zap.Logger {
	if id := chimw.GetReqID(ctx); id != "" {
		return zap.L().With(zap.String("req_id", id))
	}
	return zap.L()
}

/*──────────────────────────── routing core ─────────────────────────────────*/

// routeCore sends "access" entries to access and everything else to app.
// A nil access core folds both streams into app.
type routeCore struct {
	app, access zapcore.Core
}

func (c routeCore) pick(e zapcore.Entry) zapcore.Core {
	if c.access != nil && e.LoggerName == AccessName {
		return c.access
	}
	return c.app
}

func (c routeCore) Enabled(l zapcore.Level) bool { return c.app.Enabled(l) }

func (c routeCore) With(fields []zapcore.Field) zapcore.Core {
	out := routeCore{app: c.app.With(fields)}
	if c.access != nil {
		out.access = c.access.With(fields)
	}
	return out
}

func (c routeCore) Check(e zapcore.Entry, ce *zapcore.CheckedEntry) *zapcore.CheckedEntry {
	return c.pick(e).Check(e, ce)
}

func (c routeCore) Write(e zapcore.Entry, fields []zapcore.Field) error {
	return c.pick(e).Write(e, fields)
}

func (c routeCore) Sync() error {
	if c.access == nil {
		return c.app.Sync()
	}
	return errors.Join(c.app.Sync(), c.access.Sync())
}
