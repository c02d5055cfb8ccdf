// vib4d - 4D lattice visualiser
// Rotates, warps and projects 4D geometry, emits the matching GLSL and WGSL
// fragment programs and checks every backend against the Go reference.
//
// Commands:
//
//	view     - Interactive terminal viewer (wireframe or lattice field)
//	shader   - Print a visual system's fragment program
//	verify   - Compare every backend against the reference
//	export   - Write a frame as GLB lines or a PNG of the field
//	info     - List geometries and parameter ranges
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/fang"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

var logger = log.NewWithOptions(os.Stderr, log.Options{Prefix: "vib4d"})

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := fang.Execute(ctx, newRootCmd()); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var level string
	pf := newParamFlags()
	root := &cobra.Command{
		Use:   "vib4d",
		Short: "4D lattice visualiser",
		Long:  "Rotates, warps and projects 4D geometry and emits matching GLSL and WGSL fragment programs.",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			lvl, err := log.ParseLevel(level)
			if err != nil {
				return err
			}
			logger.SetLevel(lvl)
			return nil
		},
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&level, "log-level", "info", "log level (debug, info, warn, error)")
	pf.register(root.PersistentFlags())

	root.AddCommand(
		newViewCmd(pf),
		newShaderCmd(pf),
		newVerifyCmd(),
		newExportCmd(pf),
		newInfoCmd(),
	)
	return root
}
