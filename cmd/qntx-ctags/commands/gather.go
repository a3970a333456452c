package commands

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/teranos/qntx-ctags/ctags"
	"github.com/teranos/qntx-ctags/errors"
	"github.com/teranos/qntx-ctags/logger"
)

// GatherCmd prints the completion candidates for a file
var GatherCmd = &cobra.Command{
	Use:   "gather <file>",
	Short: "Print the completion candidates for a file",
	Long: `Run ctags over a file and print one candidate per tag: the symbol
(word), its kind, and a "scope [scopeKind]" menu when the tag is scoped.

With discovery.enabled every file under the working directory sharing the
file's suffix (or discovery.suffixes) is tagged as well.

Examples:
  qntx-ctags gather main.py
  qntx-ctags gather main.py --format json
  qntx-ctags gather main.py --discover --dry-run`,
	Args: cobra.ExactArgs(1),
	RunE: runGather,
}

var (
	gatherFormat     string
	gatherDryRun     bool
	gatherDiscover   bool
	gatherExecutable string
)

func init() {
	GatherCmd.Flags().StringVar(&gatherFormat, "format", "table", "Output format: table, json")
	GatherCmd.Flags().BoolVar(&gatherDryRun, "dry-run", false, "Print the ctags command line instead of running it")
	GatherCmd.Flags().BoolVar(&gatherDiscover, "discover", false, "Tag every same-language file under the working directory")
	GatherCmd.Flags().StringVar(&gatherExecutable, "executable", "", "Executable to run (overrides ctags.executable)")
}

func runGather(cmd *cobra.Command, args []string) error {
	if gatherFormat != "table" && gatherFormat != "json" {
		return errors.Newf("unsupported format: %s (supported: table, json)", gatherFormat)
	}

	cfg, err := loadValidConfig()
	if err != nil {
		return err
	}
	if gatherDiscover {
		cfg.Discovery.Enabled = true
	}

	file, err := filepath.Abs(args[0])
	if err != nil {
		return errors.Wrapf(err, "failed to resolve %s", args[0])
	}
	wd, err := os.Getwd()
	if err != nil {
		return errors.Wrap(err, "failed to get working directory")
	}

	host := &cliHost{
		file:       file,
		workingDir: wd,
		suffixes:   suffixOption(cfg),
		errOut:     cmd.ErrOrStderr(),
	}
	log := logger.ComponentLogger("gather")
	opts := sourceOptions(cfg, log)

	if gatherDryRun {
		return printDryRun(cmd, host, opts, rawParams(cfg, gatherExecutable))
	}

	if !ctags.IsReadableFile(file) {
		return errors.Newf("%s is not a readable file", args[0])
	}

	src, err := ctags.NewSource(opts)
	if err != nil {
		return err
	}
	if !src.Init(cmd.Context(), host, rawParams(cfg, gatherExecutable)) {
		return errors.New("ctags is not available (see 'qntx-ctags probe')")
	}

	candidates, err := src.Gather(cmd.Context(), host)
	if err != nil {
		return err
	}
	return printCandidates(cmd, candidates)
}

// printDryRun shows the ctags command a gather would run, after discovery
func printDryRun(cmd *cobra.Command, host *cliHost, opts ctags.Options, raw map[string]any) error {
	params, err := ctags.DecodeParams(raw)
	if err != nil {
		return err
	}

	files := []string{host.file}
	if opts.Walker != nil {
		d := &ctags.Discoverer{Walker: opts.Walker, Suffixes: opts.Suffixes, Logger: opts.Logger}
		files = d.Files(cmd.Context(), host, host.file)
	}

	fmt.Fprintln(cmd.OutOrStdout(), ctags.CommandLine(params.Executable, ctags.TagArgs(files)...))
	return nil
}

func printCandidates(cmd *cobra.Command, candidates []ctags.Candidate) error {
	out := cmd.OutOrStdout()

	if gatherFormat == "json" {
		data, err := json.MarshalIndent(candidates, "", "  ")
		if err != nil {
			return errors.Wrap(err, "failed to marshal candidates")
		}
		fmt.Fprintln(out, string(data))
		return nil
	}

	if len(candidates) == 0 {
		fmt.Fprintln(out, pterm.Warning.Sprint("No candidates"))
		return nil
	}

	data := pterm.TableData{{"Word", "Kind", "Menu"}}
	for _, c := range candidates {
		data = append(data, []string{c.Word, c.Kind, c.Menu})
	}
	table, err := pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
	if err != nil {
		return errors.Wrap(err, "failed to render table")
	}
	fmt.Fprintln(out, table)
	fmt.Fprintf(out, "%d candidates\n", len(candidates))
	return nil
}
