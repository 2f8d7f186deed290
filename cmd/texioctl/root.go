package main

import (
	"fmt"
	"log/slog"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/jmgilman/texio/boundary"
	"github.com/jmgilman/texio/config"
	"github.com/jmgilman/texio/engine"
	"github.com/jmgilman/texio/format"
	"github.com/jmgilman/texio/status"
)

type options struct {
	configPath string
	formatCode int
	gz         bool
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:   "texioctl",
		Short: "Inspect texio configurations",
		Long: `texioctl loads a texio configuration and exercises it the way the
native engine does.

Examples:
  # List the format codes the engine understands
  texioctl formats

  # Check whether a name resolves as a TFM file
  texioctl --config texio.cue resolve --format 3 cmr10

  # Print a gzipped format file through the engine
  texioctl --config texio.yaml cat --format 10 --gz latex.fmt.gz`,
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "texio.cue", "Configuration file (.cue, .yaml)")

	root.AddCommand(newFormatsCmd(), newResolveCmd(opts), newCatCmd(opts), newConfigCmd(opts))
	return root
}

func newFormatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "formats",
		Short: "List format codes, kinds and suffixes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "CODE\tKIND\tSUFFIXES")
			for _, k := range format.All() {
				fmt.Fprintf(w, "%d\t%s\t%s\n", k.Code(), k, strings.Join(k.Suffixes(), " "))
			}
			return w.Flush()
		},
	}
}

func newResolveCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "resolve NAME",
		Short: "Report whether NAME resolves as an input",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openAdapter(cmd, opts)
			if err != nil {
				return err
			}
			defer a.Close()

			t := a.InputOpen(args[0], opts.formatCode, opts.gz)
			if t == boundary.Null {
				return fmt.Errorf("%s: not found as format %d", args[0], opts.formatCode)
			}
			size := a.InputGetSize(t)
			a.InputClose(t)

			fmt.Fprintf(cmd.OutOrStdout(), "%s: found (%d bytes)\n", args[0], size)
			return nil
		},
	}
	addInputFlags(cmd, opts)
	return cmd
}

func newCatCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cat NAME",
		Short: "Copy an input to stdout through the engine",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openAdapter(cmd, opts)
			if err != nil {
				return err
			}
			defer a.Close()

			in := a.InputOpen(args[0], opts.formatCode, opts.gz)
			if in == boundary.Null {
				return fmt.Errorf("%s: not found as format %d", args[0], opts.formatCode)
			}
			defer a.InputClose(in)

			out := a.OutputOpenStdout()
			if err := copyInput(a, in, out); err != nil {
				return err
			}
			if a.OutputClose(out) != 0 {
				return fmt.Errorf("failed to flush stdout")
			}
			return nil
		},
	}
	addInputFlags(cmd, opts)
	return cmd
}

func newConfigCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration with defaults applied",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(cmd.Context(), opts.configPath)
			if err != nil {
				return err
			}
			data, err := config.Dump(cfg)
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}
}

func addInputFlags(cmd *cobra.Command, opts *options) {
	cmd.Flags().IntVarP(&opts.formatCode, "format", "f", format.Tex.Code(), "kpathsea format code (see 'texioctl formats')")
	cmd.Flags().BoolVar(&opts.gz, "gz", false, "Decompress the input")
}

// openAdapter builds an engine from the configuration whose stdout is the
// command's output and whose warnings go to the command's error stream.
func openAdapter(cmd *cobra.Command, opts *options) (*boundary.Adapter, error) {
	ctx := cmd.Context()
	cfg, err := config.Load(ctx, opts.configPath)
	if err != nil {
		return nil, err
	}
	logger, err := status.NewSlog(status.LogConfig{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cmd.ErrOrStderr(),
	})
	if err != nil {
		return nil, err
	}

	e, err := config.Build(ctx, cfg,
		engine.WithStdout(cmd.OutOrStdout()),
		engine.WithLogger(logger),
		engine.WithStatus(status.NewLogger(logger.With(slog.String("cmd", cmd.Name())))),
	)
	if err != nil {
		return nil, err
	}
	return boundary.New(e), nil
}

// copyInput moves the known size in chunks, then drains whatever is left
// byte by byte so inputs of unknown size still copy completely.
func copyInput(a *boundary.Adapter, in, out uint64) error {
	buf := make([]byte, 32*1024)
	remaining := a.InputGetSize(in)
	for remaining > 0 {
		n := int64(len(buf))
		if remaining < n {
			n = remaining
		}
		if a.InputRead(in, buf[:n]) < 0 {
			return fmt.Errorf("read failed")
		}
		if a.OutputWrite(out, buf[:n]) == 0 && n > 0 {
			return fmt.Errorf("write failed")
		}
		remaining -= n
	}

	for {
		c := a.InputGetc(in)
		switch {
		case c == boundary.EOF:
			return nil
		case c < 0:
			return fmt.Errorf("read failed")
		}
		if a.OutputPutc(out, c) == boundary.EOF {
			return fmt.Errorf("write failed")
		}
	}
}
