// launchpad serves a single-page app from a static root and starts the
// backend sidecar process once, before the first request is answered.
package main

import (
	"os"
	"time"

	"github.com/spf13/cobra"

	"launchpad/bootstrap"
	"launchpad/config"
	"launchpad/server"
)

var rootCmd = &cobra.Command{
	Use:          "launchpad",
	Short:        "launchpad — static SPA host that boots its backend sidecar",
	SilenceUsage: true,
	RunE:         run,
}

func init() {
	rootCmd.Flags().Int("port", 5000, "listen port (PORT env overrides)")
	rootCmd.Flags().String("static-dir", "public", "static root to serve")
	rootCmd.Flags().String("index-file", "index.html", "fallback document")
	rootCmd.Flags().String("sidecar", "node", "sidecar program to launch")
	rootCmd.Flags().String("sidecar-dir", "", "sidecar working directory (default: ours)")
	rootCmd.Flags().Duration("startup-delay", 5*time.Second, "wait after launching the sidecar")
	rootCmd.Flags().String("probe-url", "", "websocket URL to probe after the delay")
}

func run(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cmd.Flags())
	if err != nil {
		return err
	}

	launcher := bootstrap.New(bootstrap.Options{
		Command:  cfg.Sidecar.Command,
		Args:     cfg.Sidecar.Args,
		Dir:      cfg.Sidecar.Dir,
		Delay:    cfg.Sidecar.StartupDelay,
		ProbeURL: cfg.Sidecar.ProbeURL,
	})

	return server.New(cfg, launcher).Run()
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
