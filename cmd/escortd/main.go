// cmd/escortd/main.go
//
// escortd – classified-ad directory server.
//
// Commands
// --------
//
//	escortd serve     run the HTTP server (default)
//	escortd migrate   create missing tables for the configured driver
//	escortd hashpw    print a bcrypt hash for admin.password_hash
//
// Configuration comes from conf/global.yaml under the root directory
// (ESCORTDE_ROOT or the nearest parent that has one), overlaid with
// ESCORTDE_-prefixed environment variables.  See internal/config.
//
// Large comment blocks are framed by blank "//" lines; inline comments use
// a single "//".
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	_ "github.com/yanizio/escortde/components/admin"
	_ "github.com/yanizio/escortde/components/blog"
	_ "github.com/yanizio/escortde/components/contact"
	_ "github.com/yanizio/escortde/components/legacy"
	_ "github.com/yanizio/escortde/components/listing"
	_ "github.com/yanizio/escortde/components/postad"
	_ "github.com/yanizio/escortde/components/seo"
	"github.com/yanizio/escortde/internal/config"
	"github.com/yanizio/escortde/internal/logger"
)

var rootCmd = &cobra.Command{
	Use:   "escortd",
	Short: "Classified-ad directory server",
	Long: `escortd serves the public directory (home, landing pages, ad detail,
post-ad and contact forms, blog, sitemap) and the admin moderation surface.`,
	SilenceUsage: true,
	RunE:         runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd, migrateCmd, hashpwCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// runningInTTY returns true when stdout is a character device.
func runningInTTY() bool {
	fi, err := os.Stdout.Stat()
	if err != nil {
		return false
	}
	return fi.Mode()&os.ModeCharDevice != 0
}

func logOptions(cfg *config.Config) logger.Options {
	return logger.Options{
		Root:        cfg.Paths.Root,
		Level:       cfg.Log.Level,
		Tee:         runningInTTY(),
		SplitAccess: cfg.Log.SplitAccess,
		MaxSizeMB:   cfg.Log.MaxSizeMB,
		MaxBackups:  cfg.Log.MaxBackups,
		MaxAgeDays:  cfg.Log.MaxAgeDays,
	}
}
