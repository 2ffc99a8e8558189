package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"runtime/debug"
	"strings"
	"syscall"

	"github.com/blang/semver"
	"github.com/creativeprojects/go-selfupdate"
	"github.com/spf13/cobra"

	"github.com/autobrr/go-vtsdemux/internal/cli"
	"github.com/autobrr/go-vtsdemux/internal/ifo"
	"github.com/autobrr/go-vtsdemux/internal/report"
	"github.com/autobrr/go-vtsdemux/internal/server"
)

var version = "dev"

const repoSlug = "autobrr/go-vtsdemux"

var opts = cli.DefaultOptions()

var rootCmd = &cobra.Command{
	Use:           "vtsdemux [flags] <VTS_nn_0.IFO> [output.vob]",
	Short:         "Inspect a DVD title set and demux one program chain and angle.",
	Args:          cobra.RangeArgs(0, 2),
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		return cli.ApplyConfig(cmd.Flags(), &opts)
	},
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) == 0 {
			_ = cmd.Help()
			return
		}
		os.Exit(cli.Run(opts, args, cmd.OutOrStdout(), cmd.ErrOrStderr()))
	},
}

var serveCmd = &cobra.Command{
	Use:   "serve <VTS_nn_0.IFO>",
	Short: "Serve program chain listings and demuxed streams over HTTP",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		log := cli.NewLogger(cmd.ErrOrStderr(), opts.Verbose)
		ts, err := ifo.ParseFile(args[0], ifo.WithLogger(log))
		if err != nil {
			return err
		}
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return server.New(args[0], ts, server.WithLogger(log)).Run(ctx, opts.Addr)
	},
}

var updateCmd = &cobra.Command{
	Use:   "update",
	Short: "Update vtsdemux",
	Long:  "Update vtsdemux to latest version (release builds only).",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return runSelfUpdate(cmd.Context())
	},
	DisableFlagsInUseLine: true,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print go-vtsdemux version information",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cli.Version(cmd.OutOrStdout())
		return nil
	},
	DisableFlagsInUseLine: true,
}

func init() {
	cli.SetVersion(resolveVersion())
	var long strings.Builder
	cli.Help(&long)
	rootCmd.Long = long.String()
	rootCmd.SetOut(os.Stdout)
	rootCmd.SetErr(os.Stderr)
	cli.BindFlags(rootCmd.PersistentFlags(), &opts)
	cli.BindServeFlags(serveCmd.Flags(), &opts)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(updateCmd)
	rootCmd.AddCommand(versionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(1)
	}
}

func runSelfUpdate(ctx context.Context) error {
	if version == "" || version == "dev" {
		return errors.New("self-update is only available in release builds")
	}

	if _, err := semver.ParseTolerant(version); err != nil {
		return fmt.Errorf("could not parse version: %w", err)
	}

	latest, found, err := selfupdate.DetectLatest(ctx, selfupdate.ParseSlug(repoSlug))
	if err != nil {
		return fmt.Errorf("error occurred while detecting version: %w", err)
	}
	if !found {
		return fmt.Errorf("latest version for %s/%s could not be found from github repository", repoSlug, version)
	}

	if latest.LessOrEqual(version) {
		fmt.Printf("Current binary is the latest version: %s\n", report.FormatVersion(version))
		return nil
	}

	exe, err := selfupdate.ExecutablePath()
	if err != nil {
		return fmt.Errorf("could not locate executable path: %w", err)
	}

	if err := selfupdate.UpdateTo(ctx, latest.AssetURL, latest.AssetName, exe); err != nil {
		return fmt.Errorf("error occurred while updating binary: %w", err)
	}

	fmt.Printf("Successfully updated to version: %s\n", report.FormatVersion(latest.Version()))
	return nil
}

func resolveVersion() string {
	if version != "" && version != "dev" {
		return normalizeVersion(version)
	}
	if info, ok := debug.ReadBuildInfo(); ok {
		if info.Main.Version != "" && info.Main.Version != "(devel)" {
			return normalizeVersion(info.Main.Version)
		}
	}
	return "dev"
}

func normalizeVersion(value string) string {
	return strings.TrimPrefix(value, "v")
}
