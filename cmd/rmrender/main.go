// Command rmrender renders a decoded reMarkable annotation document to one
// SVG file per output page.
//
//	rmrender render notebook.json -o out/
//
// The input is the JSON form of a decoded document (see loader.go); binary
// .rm decoding and PDF merging are handled by external tools.
package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/wudi/rmrender/compose"
	"github.com/wudi/rmrender/config"
	"github.com/wudi/rmrender/observability"
	"github.com/wudi/rmrender/render"
	"github.com/wudi/rmrender/scripting"
	"github.com/wudi/rmrender/style"
	"github.com/wudi/rmrender/svgwriter"
	"github.com/wudi/rmrender/template"
)

func main() {
	if err := execute(); err != nil {
		fmt.Fprintln(os.Stderr, "rmrender:", err)
		os.Exit(1)
	}
}

// indexSource is the CLI's stand-in source document: it knows the page
// count from the decoder metadata and hands out bare index refs. The SVG
// writer draws such pages blank; a PDF-merging writer would resolve the
// refs against the real file.
type indexSource int

func (s indexSource) PageCount() int { return int(s) }
func (s indexSource) Page(i int) (render.PageRef, error) {
	if i < 0 || i >= int(s) {
		return nil, fmt.Errorf("source page %d out of range", i)
	}
	return i, nil
}

func execute() error {
	var (
		verbose    bool
		configPath string
		outDir     string
	)

	root := &cobra.Command{
		Use:          "rmrender",
		Short:        "Render reMarkable annotations to vector pages",
		SilenceUsage: true,
	}
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")

	renderCmd := &cobra.Command{
		Use:   "render <document.json>",
		Short: "Render a decoded annotation document to SVG pages",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRender(cmd, args[0], configPath, outDir, verbose)
		},
	}
	renderCmd.Flags().StringVarP(&configPath, "config", "c", "", "TOML options file")
	renderCmd.Flags().StringVarP(&outDir, "out", "o", ".", "output directory")
	root.AddCommand(renderCmd)

	return root.Execute()
}

func runRender(cmd *cobra.Command, docPath, configPath, outDir string, verbose bool) error {
	logger := observability.NewCharmLogger(os.Stderr, verbose)

	opts, err := config.Load(configPath)
	if err != nil {
		return err
	}
	doc, originalPages, err := loadDocument(docPath)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return err
	}

	styles := style.NewMapper(opts.WidthReduction)
	if opts.StyleScript != "" {
		script, err := os.ReadFile(opts.StyleScript)
		if err != nil {
			return err
		}
		hook, err := scripting.StyleOverride(cmd.Context(), string(script))
		if err != nil {
			return err
		}
		styles.SetOverride(hook)
	}

	comp := compose.NewCompositor(styles)
	comp.Builder.DisableJitter = !opts.PencilJitter

	r := &render.Renderer{
		Styles:     styles,
		Compositor: comp,
		Logger:     logger,
		Progress: func(percent int) error {
			logger.Debug("progress", observability.Int("percent", percent))
			return nil
		},
	}
	if originalPages > 0 {
		r.Source = indexSource(originalPages)
	}
	if opts.TemplateDir != "" {
		r.Templates = template.NewFSStore(opts.TemplateDir, opts.TemplateAlpha)
	}

	w := svgwriter.New(func(page int) (io.WriteCloser, error) {
		return os.Create(filepath.Join(outDir, fmt.Sprintf("page-%03d.svg", page)))
	})

	if err := r.Render(cmd.Context(), doc, w); err != nil {
		return err
	}
	logger.Info("done", observability.String("out", outDir))
	return nil
}
