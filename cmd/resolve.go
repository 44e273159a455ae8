package main

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/brandscout-cli/internal/export"
	"github.com/sells-group/brandscout-cli/internal/ingest"
	"github.com/sells-group/brandscout-cli/internal/model"
)

var (
	resolveInput      string
	resolveOutput     string
	resolveFormat     string
	resolveNoFallback bool
	resolveNoStore    bool
	resolveMin        int
	resolveMax        int
)

var resolveCmd = &cobra.Command{
	Use:   "resolve",
	Short: "Resolve raw listings into canonical brand entities",
	Long:  "Reads raw business listings from a CSV or JSON file, deduplicates them across sources, groups locations into brand entities, and writes the resolved entities to stdout or a file.",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		if resolveMin > 0 {
			cfg.Resolve.MinLocations = resolveMin
		}
		if resolveMax > 0 {
			cfg.Resolve.MaxLocations = resolveMax
		}

		records, err := ingest.Read(resolveInput)
		if err != nil {
			return eris.Wrap(err, "read input")
		}
		zap.L().Info("input loaded",
			zap.String("path", resolveInput),
			zap.Int("records", len(records)),
		)

		res, err := initResolver(resolveNoFallback)
		if err != nil {
			return err
		}

		var runID string
		if !resolveNoStore {
			st, err := initStore(ctx)
			if err != nil {
				return err
			}
			defer st.Close() //nolint:errcheck
			if err := st.Migrate(ctx); err != nil {
				return eris.Wrap(err, "migrate store")
			}

			run, err := st.CreateRun(ctx, resolveInput)
			if err != nil {
				return eris.Wrap(err, "create run")
			}
			runID = run.ID

			result := res.Resolve(ctx, records)
			if err := st.SaveEntities(ctx, runID, result.Entities); err != nil {
				if uerr := st.UpdateRunStatus(ctx, runID, model.RunStatusFailed); uerr != nil {
					zap.L().Warn("mark run failed", zap.Error(uerr))
				}
				return eris.Wrap(err, "save entities")
			}
			if err := st.CompleteRun(ctx, runID, result.Summary); err != nil {
				return eris.Wrap(err, "complete run")
			}
			zap.L().Info("run persisted", zap.String("run_id", runID))

			return writeEntities(result.Entities)
		}

		result := res.Resolve(ctx, records)
		return writeEntities(result.Entities)
	},
}

// writeEntities writes resolved entities to the --output target in the
// --format encoding. Format defaults from the output extension; bare stdout
// defaults to JSON.
func writeEntities(entities []model.ResolvedEntity) error {
	format := resolveFormat
	if format == "" {
		switch strings.ToLower(filepath.Ext(resolveOutput)) {
		case ".csv":
			format = "csv"
		case ".xlsx":
			format = "xlsx"
		default:
			format = "json"
		}
	}

	if resolveOutput == "" {
		switch format {
		case "csv":
			return export.WriteCSV(os.Stdout, entities)
		case "xlsx":
			return eris.New("xlsx export requires --output")
		default:
			return export.WriteJSON(os.Stdout, entities)
		}
	}

	switch format {
	case "csv":
		return export.WriteCSVFile(resolveOutput, entities)
	case "xlsx":
		return export.WriteXLSX(resolveOutput, entities)
	case "json":
		f, err := os.Create(resolveOutput)
		if err != nil {
			return eris.Wrap(err, "create output file")
		}
		defer f.Close() //nolint:errcheck
		return export.WriteJSON(f, entities)
	default:
		return eris.Errorf("unsupported format: %s", format)
	}
}

func init() {
	resolveCmd.Flags().StringVar(&resolveInput, "input", "", "input file with raw listings (.csv or .json, required)")
	resolveCmd.Flags().StringVar(&resolveOutput, "output", "", "output file (default stdout)")
	resolveCmd.Flags().StringVar(&resolveFormat, "format", "", "output format: csv, json, or xlsx (default from output extension)")
	resolveCmd.Flags().BoolVar(&resolveNoFallback, "no-fallback", false, "skip the LLM disambiguation fallback")
	resolveCmd.Flags().BoolVar(&resolveNoStore, "no-store", false, "do not persist the run")
	resolveCmd.Flags().IntVar(&resolveMin, "min", 0, "qualification minimum location count (default from config)")
	resolveCmd.Flags().IntVar(&resolveMax, "max", 0, "qualification maximum location count (default from config)")
	_ = resolveCmd.MarkFlagRequired("input")
	rootCmd.AddCommand(resolveCmd)
}
