package cli

import (
	"fmt"
	"path/filepath"

	"github.com/arthur-debert/aitk/pkg/filesystem"
	"github.com/arthur-debert/aitk/pkg/ledger"
	"github.com/arthur-debert/aitk/pkg/linker"
	"github.com/arthur-debert/aitk/pkg/report"
	"github.com/arthur-debert/aitk/pkg/style"
	"github.com/arthur-debert/aitk/pkg/types"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

func newStatusCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: MsgStatusShort,
		Long: `Status lists every target recorded in the ledger with its link type and
what is actually on disk:

  ok        the target still points at its source
  missing   the target is gone
  broken    the source is gone
  replaced  something else now lives at the target
  drifted   the target points at a different source, or a hard link
            no longer shares its source's inode

Status never modifies anything.`,
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

			fsys := filesystem.NewReadOnlyOS()
			l := ledger.Load(fsys, p.LedgerPath())
			out := cmd.OutOrStdout()

			entries := l.Entries()
			if len(entries) == 0 {
				_, _ = fmt.Fprintln(out, MsgNoManagedEntries)
				return nil
			}

			if format == report.FormatText {
				pterm.DisableStyling()
				defer pterm.EnableStyling()
			}

			// Strategy only matters for creating links
			op := linker.NewOperator(fsys, types.StrategySymlink, p.ToolkitRoot())
			rendered, unhealthy, err := renderStatus(entries, op, p.TargetDir())
			if err != nil {
				return err
			}
			_, _ = fmt.Fprint(out, rendered)
			_, _ = fmt.Fprintln(out)
			_, _ = fmt.Fprintf(out, MsgStatusSummary+"\n", len(entries), unhealthy)
			return nil
		},
	}
}

type inspector interface {
	Inspect(entry types.ManagedEntry) linker.Health
}

func renderStatus(entries []types.ManagedEntry, op inspector, targetDir string) (string, int, error) {
	data := pterm.TableData{{"Target", "Type", "Health", "Source"}}
	unhealthy := 0

	for _, entry := range entries {
		health := op.Inspect(entry)
		if health != linker.HealthOK {
			unhealthy++
		}

		name := entry.Target
		if rel, err := filepath.Rel(targetDir, entry.Target); err == nil {
			name = rel
		}
		data = append(data, []string{
			name,
			style.LinkTypeStyle(entry.Type).Sprint(string(entry.Type)),
			style.HealthStyle(string(health)).Sprint(string(health)),
			entry.Source,
		})
	}

	rendered, err := pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
	if err != nil {
		return "", 0, err
	}
	return rendered, unhealthy, nil
}
