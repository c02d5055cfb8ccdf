package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"maps"
	"path/filepath"
	"slices"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"github.com/taigrr/vib4d/pkg/geometry"
	"github.com/taigrr/vib4d/pkg/models"
	"github.com/taigrr/vib4d/pkg/render"
	"github.com/taigrr/vib4d/pkg/scene"
	"github.com/taigrr/vib4d/pkg/shader"
	"github.com/taigrr/vib4d/pkg/system"
)

func systemNames() string {
	names := make([]string, len(system.Systems))
	for i, s := range system.Systems {
		names[i] = s.Name
	}
	return strings.Join(names, ", ")
}

func lookupSystem(name string) (system.System, error) {
	sys, ok := system.LookupSystem(name)
	if !ok {
		return sys, fmt.Errorf("unknown system %q (want one of %s)", name, systemNames())
	}
	return sys, nil
}

func newShaderCmd(pf *paramFlags) *cobra.Command {
	var (
		lang   string
		values bool
	)
	cmd := &cobra.Command{
		Use:   "shader [system]",
		Short: "Print a visual system's fragment program",
		Long:  "Prints the GLSL or WGSL source of a visual system. Systems: " + systemNames() + ".",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := system.Faceted.Name
			if len(args) == 1 {
				name = args[0]
			}
			sys, err := lookupSystem(name)
			if err != nil {
				return err
			}
			l, err := shader.ParseLang(lang)
			if err != nil {
				return err
			}
			prog, err := sys.Program(l)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if !values {
				_, err := io.WriteString(out, prog.Source)
				return err
			}
			p, err := pf.params()
			if err != nil {
				return err
			}
			return writeUniforms(out, l, p.Bindings(0, [2]float64{1, 1}))
		},
	}
	cmd.Flags().StringVar(&lang, "lang", "glsl", "shader language (glsl, wgsl)")
	cmd.Flags().BoolVar(&values, "values", false, "print the uniform values for the current parameters instead of the source")
	return cmd
}

func writeUniforms(w io.Writer, l shader.Lang, b shader.Bindings) error {
	vals := b.Values()
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for _, name := range slices.Sorted(maps.Keys(vals)) {
		fmt.Fprintf(tw, "%s\t%s\n", l.UniformName(name), vals[name])
	}
	return tw.Flush()
}

func newVerifyCmd() *cobra.Command {
	var (
		tolerance float64
		reference string
		timeout   time.Duration
	)
	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Compare every backend against the reference",
		Long: "Evaluates rotation, projection, presence, colour and shading on every registered " +
			"backend and checks shader sources against the canonical library. Exits non-zero on divergence.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			reg, err := system.Default()
			if err != nil {
				return err
			}
			ref, err := reg.Lookup(reference)
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			if timeout > 0 {
				var cancel context.CancelFunc
				ctx, cancel = context.WithTimeout(ctx, timeout)
				defer cancel()
			}
			start := time.Now()
			rep, err := system.Verify(ctx, ref, reg.All(), system.Options{Tolerance: tolerance})
			if err != nil {
				return err
			}
			logger.Debug("verify finished", "checks", rep.Checks, "elapsed", time.Since(start))
			fmt.Fprint(cmd.OutOrStdout(), rep)
			if err := rep.Err(); err != nil {
				logger.Error("backends diverge", "findings", len(rep.Findings))
				return err
			}
			return nil
		},
	}
	cmd.Flags().Float64Var(&tolerance, "tolerance", system.DefaultTolerance, "largest accepted difference")
	cmd.Flags().StringVar(&reference, "reference", system.Matrix{}.Name(), "backend the others are compared against")
	cmd.Flags().DurationVar(&timeout, "timeout", 0, "abort after this long (0 for no limit)")
	return cmd
}

func newExportCmd(pf *paramFlags) *cobra.Command {
	var (
		at      float64
		sysName string
		width   int
		height  int
		scale   int
	)
	cmd := &cobra.Command{
		Use:   "export <file.glb|file.png>",
		Short: "Write a frame as GLB lines or a PNG of the field",
		Long: "A .glb file receives the projected geometry as a glTF LINES mesh. A .png file " +
			"receives the lattice field rendered by the chosen visual system.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := pf.params()
			if err != nil {
				return err
			}
			path := args[0]
			switch ext := strings.ToLower(filepath.Ext(path)); ext {
			case ".glb":
				f, err := scene.NewPipeline().Frame(p, at)
				if err != nil {
					return err
				}
				m := models.FromFrame(p.Geometry.Name(), f)
				if err := models.ExportGLB(path, m); err != nil {
					return err
				}
				logger.Info("wrote mesh", "file", path, "points", m.VertexCount(), "edges", m.EdgeCount())
			case ".png":
				sys, err := lookupSystem(sysName)
				if err != nil {
					return err
				}
				if width < 1 || height < 1 {
					return fmt.Errorf("size %dx%d is empty", width, height)
				}
				fb := render.NewFramebuffer(width, height)
				if err := render.NewFieldRenderer(sys).Render(cmd.Context(), fb, p.Bindings(at, [2]float64{})); err != nil {
					return err
				}
				if err := fb.SavePNG(path, scale); err != nil {
					return err
				}
				logger.Info("wrote image", "file", path, "system", sys.Name, "width", width*scale, "height", height*scale)
			default:
				return errors.New("unsupported format " + ext + " (use .glb or .png)")
			}
			return nil
		},
	}
	cmd.Flags().Float64Var(&at, "time", 0, "animation time in seconds")
	cmd.Flags().StringVar(&sysName, "system", system.Faceted.Name, "visual system for PNG output")
	cmd.Flags().IntVar(&width, "width", 320, "PNG width before scaling")
	cmd.Flags().IntVar(&height, "height", 180, "PNG height before scaling")
	cmd.Flags().IntVar(&scale, "scale", 1, "PNG nearest-neighbour upscale factor")
	return cmd
}

func newInfoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "info",
		Short: "List geometries and parameter ranges",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "INDEX\tGEOMETRY\tVERTICES\tEDGES")
			meshes, err := geometry.GenerateAll(geometry.DefaultOptions())
			if err != nil {
				return err
			}
			for i, m := range meshes {
				fmt.Fprintf(tw, "%d\t%s\t%d\t%d\n", i, geometry.Index(i).Name(), m.VertexCount(), m.EdgeCount())
			}
			fmt.Fprintln(tw)
			fmt.Fprintln(tw, "PARAMETER\tFLAG\tRANGE\tUNIT")
			for _, r := range scene.Ranges() {
				rng := fmt.Sprintf("%g to %g", r.Min, r.Max)
				switch {
				case r.Unbounded:
					rng = "any"
				case r.OpenMax:
					rng = fmt.Sprintf("%g to <%g", r.Min, r.Max)
				}
				fmt.Fprintf(tw, "%s\t--%s\t%s\t%s\n", r.Name, flagName(r.Name), rng, r.Unit)
			}
			fmt.Fprintln(tw)
			fmt.Fprintln(tw, "SYSTEM\tDESCRIPTION")
			for _, s := range system.Systems {
				fmt.Fprintf(tw, "%s\t%s\n", s.Name, s.Description)
			}
			return tw.Flush()
		},
	}
}
