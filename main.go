package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/Danibruno18/credix/utils"
	"github.com/spf13/cobra"
)

var version = "dev"

// newRootCmd собирает CLI: serve, migrate, reconcile, version
func newRootCmd() *cobra.Command {
	var cfgFile string

	root := &cobra.Command{
		Use:           "credix",
		Short:         "Personal finance bookkeeping API",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (yaml/json), env vars take precedence")

	root.AddCommand(serveCmd(&cfgFile))
	root.AddCommand(migrateCmd(&cfgFile))
	root.AddCommand(reconcileCmd(&cfgFile))
	root.AddCommand(versionCmd())
	return root
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := newRootCmd().ExecuteContext(ctx)
	stop()
	utils.CloseLogger()

	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
