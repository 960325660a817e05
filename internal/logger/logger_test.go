package logger

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

func today() string { return time.Now().Format("2006-01-02") }

func readLog(t *testing.T, path string) string {
	t.Helper()
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	return string(b)
}

func TestNewWritesDailyFile(t *testing.T) {
	root := t.TempDir()
	z, err := New(Options{Root: root, Level: "debug"})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(func() { zap.ReplaceGlobals(zap.NewNop()) })

	z.Debugw("moderation applied", "id", "a1")
	_ = z.Sync()

	body := readLog(t, filepath.Join(root, "logs", today()+".log"))
	if !strings.Contains(body, `"id":"a1"`) {
		t.Fatalf("debug line missing from %q", body)
	}
	if !zap.L().Core().Enabled(zap.DebugLevel) {
		t.Fatalf("global logger should be at debug level")
	}
}

func TestNewUnknownLevelFallsBackToInfo(t *testing.T) {
	if _, err := New(Options{Root: t.TempDir(), Level: "verbose"}); err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(func() { zap.ReplaceGlobals(zap.NewNop()) })
	if zap.L().Core().Enabled(zap.DebugLevel) {
		t.Fatalf("debug should be disabled for unknown level")
	}
}

func TestSplitAccessRoutesByName(t *testing.T) {
	root := t.TempDir()
	if _, err := New(Options{Root: root, Level: "info", SplitAccess: true}); err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(func() { zap.ReplaceGlobals(zap.NewNop()) })

	Access().Info("request", zap.String("path", "/escorts/female"))
	zap.L().Info("ad submitted", zap.String("id", "a1"))
	_ = zap.L().Sync()

	app := readLog(t, filepath.Join(root, "logs", today()+".log"))
	access := readLog(t, filepath.Join(root, "logs", "access-"+today()+".log"))

	if !strings.Contains(access, "/escorts/female") || !strings.Contains(access, `"logger":"access"`) {
		t.Fatalf("access line missing from access log: %q", access)
	}
	if strings.Contains(app, "/escorts/female") {
		t.Fatalf("access line leaked into app log: %q", app)
	}
	if !strings.Contains(app, "ad submitted") || strings.Contains(access, "ad submitted") {
		t.Fatalf("app line misrouted: app=%q access=%q", app, access)
	}
}

func TestWithoutSplitAccessSharesFile(t *testing.T) {
	root := t.TempDir()
	if _, err := New(Options{Root: root, Level: "info"}); err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(func() { zap.ReplaceGlobals(zap.NewNop()) })

	Access().With(zap.String("req_id", "r1")).Info("request")
	_ = zap.L().Sync()

	if !strings.Contains(readLog(t, filepath.Join(root, "logs", today()+".log")), `"req_id":"r1"`) {
		t.Fatalf("access line missing from shared log")
	}
	if _, err := os.Stat(filepath.Join(root, "logs", "access-"+today()+".log")); !os.IsNotExist(err) {
		t.Fatalf("access file should not exist, stat err = %v", err)
	}
}

func TestCtxCarriesRequestID(t *testing.T) {
	root := t.TempDir()
	if _, err := New(Options{Root: root, Level: "info"}); err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(func() { zap.ReplaceGlobals(zap.NewNop()) })

	var ctx context.Context
	chimw.RequestID(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		ctx = r.Context()
	})).ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/post-ad", nil))

	Ctx(ctx).Info("ad submitted")
	Ctx(context.Background()).Info("boot")
	_ = zap.L().Sync()

	body := readLog(t, filepath.Join(root, "logs", today()+".log"))
	lines := strings.Split(strings.TrimSpace(body), "\n")
	var submitted, boot string
	for _, l := range lines {
		switch {
		case strings.Contains(l, "ad submitted"):
			submitted = l
		case strings.Contains(l, `"msg":"boot"`):
			boot = l
		}
	}
	if !strings.Contains(submitted, `"req_id":"`+chimw.GetReqID(ctx)+`"`) {
		t.Fatalf("req_id missing: %q", submitted)
	}
	if boot == "" || strings.Contains(boot, "req_id") {
		t.Fatalf("background line = %q", boot)
	}
}
