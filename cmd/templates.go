package cmd

import (
	"fmt"
	"strconv"
	"text/tabwriter"

	"csv-reconciler/core/config"
	"csv-reconciler/core/document"
	"csv-reconciler/core/logger"
	"csv-reconciler/core/reconcile"
	"csv-reconciler/core/utils"
	"csv-reconciler/feature/templates"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var templatesFormat string

// templatesCmd is the parent command for template management.
var templatesCmd = &cobra.Command{
	Use:   "templates",
	Short: "Manage column-selection templates",
}

var templatesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List templates",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, _, _, err := openTemplateStore()
		if err != nil {
			return err
		}

		entries := store.List()
		if templatesFormat != "" {
			entries = store.ForFormat(templatesFormat)
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "INDEX\tNAME\tCOLUMNS\tFORMAT")
		for _, e := range entries {
			fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", e.Index, e.Name, utils.JoinIndices(e.Indices), e.HeaderID)
		}
		return w.Flush()
	},
}

var templatesAddCmd = &cobra.Command{
	Use:   "add <snapshot.csv> <name> <columns>",
	Short: "Save a column selection for the format of a snapshot",
	Long: `Save a named column selection. The format fingerprint is taken from the
header of the given snapshot, so the template applies to every snapshot
with the same columns.

Example:
  templates add new.csv Billing 0,2,5`,
	Args: cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, cfg, l, err := openTemplateStore()
		if err != nil {
			return err
		}

		doc, err := loadSnapshot(cfg, args[0])
		if err != nil {
			return err
		}
		indices, err := utils.ParseIndices(args[2])
		if err != nil {
			return err
		}
		for _, idx := range indices {
			if idx >= doc.ColumnCount() {
				return fmt.Errorf("column %d out of range, snapshot has %d columns", idx, doc.ColumnCount())
			}
		}

		entry, err := store.Add(reconcile.Fingerprint(doc.Headers()), args[1], indices)
		if err != nil {
			return err
		}
		l.Info("Template saved", zap.Int("index", entry.Index), zap.String("name", entry.Name), zap.String("format", entry.HeaderID))
		return nil
	},
}

var templatesRemoveCmd = &cobra.Command{
	Use:   "remove <index>",
	Short: "Remove the template at the given index",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, _, l, err := openTemplateStore()
		if err != nil {
			return err
		}
		index, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid index %q: %w", args[0], err)
		}
		if err := store.RemoveAt(index); err != nil {
			return err
		}
		l.Info("Template removed", zap.Int("index", index))
		return nil
	},
}

var templatesFingerprintCmd = &cobra.Command{
	Use:   "fingerprint <snapshot.csv>",
	Short: "Print the format fingerprint of a snapshot",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadConfig(".")
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		doc, err := loadSnapshot(cfg, args[0])
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), reconcile.Fingerprint(doc.Headers()))
		return nil
	},
}

func init() {
	templatesListCmd.Flags().StringVar(&templatesFormat, "format", "", "Only list templates for this format fingerprint")

	templatesCmd.AddCommand(templatesListCmd, templatesAddCmd, templatesRemoveCmd, templatesFingerprintCmd)
	RootCmd.AddCommand(templatesCmd)
}

func openTemplateStore() (*templates.Store, *config.Config, *zap.Logger, error) {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to load config: %w", err)
	}
	l, err := logger.New(&cfg.Log)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	store := templates.NewStore(cfg.Templates.File, l)
	if err := store.Load(); err != nil {
		return nil, nil, nil, err
	}
	return store, cfg, l, nil
}

// loadSnapshot reads a snapshot with the configured delimiter and width mode.
func loadSnapshot(cfg *config.Config, path string) (*document.Document, error) {
	engine, err := reconcile.NewEngine(cfg.Reconcile)
	if err != nil {
		return nil, err
	}
	return document.Load(utils.NormalizePath(path), engine.LoadOptions()...)
}
