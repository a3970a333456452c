package commands

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/teranos/qntx-ctags/ctags"
	"github.com/teranos/qntx-ctags/errors"
	"github.com/teranos/qntx-ctags/logger"
)

// ProbeCmd checks the configured ctags executable
var ProbeCmd = &cobra.Command{
	Use:   "probe",
	Short: "Check that a JSON-capable Universal Ctags is installed",
	Long: `Check that the configured executable is on the search path, that its
--help output starts with the Universal Ctags banner, and that it lists a JSON
output format. When ctags.min_version is set the banner version must satisfy it.

Exits non-zero when the executable cannot be used.

Examples:
  qntx-ctags probe
  qntx-ctags probe --executable /opt/uctags/bin/ctags
  qntx-ctags probe --json`,
	RunE: runProbe,
}

var (
	probeExecutable string
	probeJSON       bool
)

func init() {
	ProbeCmd.Flags().StringVar(&probeExecutable, "executable", "", "Executable to probe (overrides ctags.executable)")
	ProbeCmd.Flags().BoolVarP(&probeJSON, "json", "j", false, "Output the probe result as JSON")
}

// probeReport is the --json form of a probe
type probeReport struct {
	Executable string `json:"executable"`
	Available  bool   `json:"available"`
	Banner     string `json:"banner,omitempty"`
	Version    string `json:"version,omitempty"`
	Error      string `json:"error,omitempty"`
	Hint       string `json:"hint,omitempty"`
}

func runProbe(cmd *cobra.Command, args []string) error {
	cfg, err := loadValidConfig()
	if err != nil {
		return err
	}

	src, err := ctags.NewSource(sourceOptions(cfg, logger.ComponentLogger("probe")))
	if err != nil {
		return err
	}

	host := &cliHost{errOut: cmd.ErrOrStderr()}
	if probeJSON {
		// Diagnostics go into the report instead
		host.errOut = io.Discard
	}
	available := src.Init(cmd.Context(), host, rawParams(cfg, probeExecutable))
	result := src.ProbeResult()

	report := probeReport{
		Executable: src.Params().Executable,
		Available:  available,
		Banner:     result.Banner,
	}
	if result.Version != nil {
		report.Version = result.Version.String()
	}
	if result.Err != nil {
		report.Error = result.Err.Error()
		report.Hint = errors.FlattenHints(result.Err)
	}

	out := cmd.OutOrStdout()
	if probeJSON {
		data, err := json.MarshalIndent(report, "", "  ")
		if err != nil {
			return errors.Wrap(err, "failed to marshal probe result")
		}
		fmt.Fprintln(out, string(data))
	} else if available {
		fmt.Fprintln(out, pterm.Success.Sprintf("%s is usable", report.Executable))
		fmt.Fprintf(out, "  Banner:  %s\n", report.Banner)
		if report.Version != "" {
			fmt.Fprintf(out, "  Version: %s\n", report.Version)
		}
	} else if report.Hint != "" {
		fmt.Fprintln(out, pterm.Info.Sprint(report.Hint))
	}

	if !available {
		return errors.Newf("%s cannot be used", report.Executable)
	}
	return nil
}
