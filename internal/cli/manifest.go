package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/arthur-debert/aitk/pkg/errors"
	"github.com/arthur-debert/aitk/pkg/report"
	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"
)

func newManifestCmd(a *app) *cobra.Command {
	var width int

	cmd := &cobra.Command{
		Use:   "manifest",
		Short: MsgManifestShort,
		Long: `Manifest prints the toolkit's environment manifest. Markdown manifests are
rendered for the terminal; other formats and plain output print the file
as is.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := a.outputFormat(cmd)
			if err != nil {
				return err
			}
			_, p, err := a.environment()
			if err != nil {
				return err
			}

			path, ok := p.ManifestPath()
			if !ok {
				return errors.Newf(errors.ErrManifestNotFound, "Manifest not found: %s", path)
			}
			content, err := readFile(path)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if format == report.FormatText || strings.ToLower(filepath.Ext(path)) != ".md" {
				_, _ = fmt.Fprint(out, content)
				return nil
			}
			_, _ = fmt.Fprint(out, renderMarkdown(content, width))
			return nil
		},
	}

	cmd.Flags().IntVar(&width, "width", 80, "Word wrap width")
	return cmd
}

// renderMarkdown falls back to the raw text when glamour cannot render
func renderMarkdown(content string, width int) string {
	options := []glamour.TermRendererOption{glamour.WithAutoStyle()}
	if width > 0 {
		options = append(options, glamour.WithWordWrap(width))
	}

	renderer, err := glamour.NewTermRenderer(options...)
	if err != nil {
		return content
	}
	rendered, err := renderer.Render(content)
	if err != nil {
		return content
	}
	return rendered
}

func readFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", errors.Wrapf(err, errors.ErrFileAccess, "cannot read %s", path)
	}
	return string(data), nil
}
