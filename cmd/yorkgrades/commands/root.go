package commands

import (
	"context"
	"log/slog"
	"yorkgrades/internal/transcript"
	"yorkgrades/lib/platforms/yorksis"
	"yorkgrades/lib/report"
	"yorkgrades/lib/restyutil"
	"yorkgrades/lib/telemetry"

	"github.com/spf13/cobra"
)

// zero value is the production portal
var endpoints yorksis.Endpoints

var jsonOutput *bool

// set up by setupDiagnostics, flushed by ExecuteContext
var tel telemetry.Telemetry
var httpDumpDir string

func init() {
	jsonOutput = rootCmd.Flags().BoolP("json", "j", false, "Print the grades and GPA as JSON.")
}

// setupDiagnostics applies yorkgrades.json5. Nothing in it can fail the run,
// problems are logged and the affected diagnostics stay off.
func setupDiagnostics(cmd *cobra.Command, args []string) {
	cfg := telemetry.LoadConfig()
	telemetry.InitSlog(cfg.Debug)

	var err error
	tel, err = telemetry.Setup(cmd.Context(), "yorkgrades", cfg)
	if err != nil {
		slog.Warn("telemetry export disabled", "err", err)
	}
	httpDumpDir = cfg.HttpDumpDir
}

func instrumentOutput() restyutil.InstrumentOutput {
	if httpDumpDir == "" {
		return nil
	}
	output, err := restyutil.NewFilesystemOutput(httpDumpDir)
	if err != nil {
		slog.Warn("http dumps disabled", "dir", httpDumpDir, "err", err)
		return nil
	}
	return output
}

var rootCmd = &cobra.Command{
	Use:   "yorkgrades <username> <password>",
	Short: "yorkgrades prints your York University grades and GPA.",
	Args:  cobra.ExactArgs(2),
	// errors are printed by the caller of ExecuteContext
	SilenceErrors: true,
	PreRun:        setupDiagnostics,
	RunE: func(cmd *cobra.Command, args []string) error {
		// past argument validation, usage won't help anymore
		cmd.SilenceUsage = true

		client, err := yorksis.NewClient(cmd.Context(), yorksis.ClientOptions{
			Endpoints:        endpoints,
			InstrumentOutput: instrumentOutput(),
		})
		if err != nil {
			return err
		}

		result, err := transcript.Fetch(cmd.Context(), client, yorksis.Credentials{
			Username: args[0],
			Password: args[1],
		})
		if err != nil {
			return err
		}

		out := report.Output{
			GPA:    result.GPA,
			Grades: result.Grades,
		}
		if *jsonOutput {
			return report.WriteJSON(cmd.OutOrStdout(), out)
		}
		return report.WriteTables(cmd.OutOrStdout(), out)
	},
}

// ExecuteContext runs the command and flushes telemetry, the returned error
// is the command's own.
func ExecuteContext(ctx context.Context) error {
	err := rootCmd.ExecuteContext(ctx)

	shutdownErr := tel.Shutdown(ctx)
	if shutdownErr != nil {
		slog.Warn("failed to flush telemetry", "err", shutdownErr)
	}
	tel = telemetry.Telemetry{}

	return err
}
