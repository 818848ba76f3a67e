package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"time"

	"github.com/spf13/cobra"

	"github.com/forgeworks/scaffoldkit/env"
	"github.com/forgeworks/scaffoldkit/scaffold"
	"github.com/forgeworks/scaffoldkit/session"
)

var version = "0.1.0"

func main() {
	rootCmd := &cobra.Command{
		Use:   "scaffold",
		Short: "Generate project files from templates",
		Long: "scaffold renders a directory of templates into project files, driven by\n" +
			"environment variables and an optional scaffold.toml registry.",
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().String("templates", ".template", "Template directory")
	rootCmd.PersistentFlags().String("out", ".", "Output directory")
	rootCmd.PersistentFlags().String("registry", "", "Extra variable/condition registry (TOML)")

	rootCmd.AddCommand(
		newApplyCmd(),
		newRenderCmd(),
		newCheckCmd(),
		newVarsCmd(),
		newSchemaCmd(),
		newWatchCmd(),
		newSessionCmd(),
		newVersionCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// newRunner builds a Runner from the persistent flags and the process
// environment. This is the only place ambient state enters the pipeline.
func newRunner(cmd *cobra.Command) (*scaffold.Runner, error) {
	templateDir, err := cmd.Flags().GetString("templates")
	if err != nil {
		return nil, err
	}
	outDir, err := cmd.Flags().GetString("out")
	if err != nil {
		return nil, err
	}
	registryPath, err := cmd.Flags().GetString("registry")
	if err != nil {
		return nil, err
	}

	reg := env.Default()
	if registryPath != "" {
		extra, err := env.LoadRegistry(registryPath)
		if err != nil {
			return nil, err
		}
		reg = reg.Merge(extra)
	}

	return &scaffold.Runner{
		Env:         env.Resolve(reg, os.LookupEnv),
		TemplateDir: templateDir,
		OutputDir:   outDir,
	}, nil
}

// reportResults prints one line per manifest entry and returns an error when
// any entry failed.
func reportResults(results []scaffold.Result) error {
	failures := 0
	for _, res := range results {
		switch {
		case res.Err != nil:
			failures++
			fmt.Fprintf(os.Stderr, "FAIL  %s: %v\n", res.Mapping.Source, res.Err)
		case res.Skipped:
			fmt.Printf("skip  %s (if: %s)\n", res.Mapping.Source, res.Mapping.If)
		default:
			fmt.Printf("ok    %s -> %s\n", res.Mapping.Source, res.Mapping.Target)
		}
	}
	if failures > 0 {
		return fmt.Errorf("%d of %d files failed", failures, len(results))
	}
	return nil
}

func newApplyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "apply",
		Short: "Render every template in the manifest",
		RunE:  runApply,
	}
	cmd.Flags().String("manifest", "scaffold.yaml", "Manifest file")
	return cmd
}

func runApply(cmd *cobra.Command, args []string) error {
	runner, err := newRunner(cmd)
	if err != nil {
		return err
	}
	manifestPath, err := cmd.Flags().GetString("manifest")
	if err != nil {
		return err
	}
	manifest, err := scaffold.LoadManifest(manifestPath)
	if err != nil {
		return err
	}
	return reportResults(runner.Run(manifest))
}

func newRenderCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "render SOURCE [TARGET]",
		Short: "Render a single template, to stdout or to a target path",
		Args:  cobra.RangeArgs(1, 2),
		RunE:  runRender,
	}
}

func runRender(cmd *cobra.Command, args []string) error {
	runner, err := newRunner(cmd)
	if err != nil {
		return err
	}
	if len(args) == 2 {
		return runner.RenderFile(args[0], args[1])
	}
	out, err := runner.Render(args[0])
	if err != nil {
		return err
	}
	fmt.Print(out)
	return nil
}

func newCheckCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check",
		Short: "Validate every manifest template without writing output",
		RunE:  runCheck,
	}
	cmd.Flags().String("manifest", "scaffold.yaml", "Manifest file")
	return cmd
}

func runCheck(cmd *cobra.Command, args []string) error {
	runner, err := newRunner(cmd)
	if err != nil {
		return err
	}
	manifestPath, err := cmd.Flags().GetString("manifest")
	if err != nil {
		return err
	}
	manifest, err := scaffold.LoadManifest(manifestPath)
	if err != nil {
		return err
	}
	return reportResults(runner.Check(manifest))
}

func newVarsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "vars",
		Short: "Print the resolved variable and condition environment",
		RunE:  runVars,
	}
}

func runVars(cmd *cobra.Command, args []string) error {
	runner, err := newRunner(cmd)
	if err != nil {
		return err
	}

	names := make([]string, 0, len(runner.Env.Vars))
	for name := range runner.Env.Vars {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Printf("%s=%s\n", name, runner.Env.Vars[name])
	}

	conds := make([]string, 0, len(runner.Env.Conds))
	for name := range runner.Env.Conds {
		conds = append(conds, name)
	}
	sort.Strings(conds)
	for _, name := range conds {
		fmt.Printf("IF_%s=%t\n", name, runner.Env.Conds[name])
	}
	return nil
}

func newSchemaCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "schema",
		Short: "Print the JSON Schema for manifest files",
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := scaffold.ManifestSchema()
			if err != nil {
				return err
			}
			fmt.Println(string(data))
			return nil
		},
	}
}

func newWatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Re-render manifest templates as they change",
		RunE:  runWatch,
	}
	cmd.Flags().String("manifest", "scaffold.yaml", "Manifest file")
	return cmd
}

func runWatch(cmd *cobra.Command, args []string) error {
	runner, err := newRunner(cmd)
	if err != nil {
		return err
	}
	manifestPath, err := cmd.Flags().GetString("manifest")
	if err != nil {
		return err
	}
	manifest, err := scaffold.LoadManifest(manifestPath)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	fmt.Printf("watching %s (ctrl-c to stop)\n", runner.TemplateDir)
	err = runner.Watch(ctx, manifest, func(m scaffold.Mapping, err error) {
		line, stderr := watchReport(m, err)
		if stderr {
			fmt.Fprintln(os.Stderr, line)
			return
		}
		fmt.Println(line)
	})
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// watchReport formats one watch notification and reports whether it belongs
// on stderr. Watcher-level errors carry no mapping and are reported as
// warnings rather than attributed to an empty source name.
func watchReport(m scaffold.Mapping, err error) (line string, stderr bool) {
	switch {
	case errors.Is(err, scaffold.ErrWatcher):
		return fmt.Sprintf("WARN  %v", err), true
	case err != nil:
		return fmt.Sprintf("FAIL  %s: %v", m.Source, err), true
	default:
		return fmt.Sprintf("ok    %s -> %s", m.Source, m.Target), false
	}
}

func newSessionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "session",
		Short: "Manage development session checkpoints",
	}
	cmd.PersistentFlags().String("root", "sessions", "Checkpoint root directory")
	cmd.PersistentFlags().String("developer", os.Getenv("USER"), "Developer name")
	cmd.AddCommand(newSessionNewCmd(), newSessionListCmd())
	return cmd
}

func newSessionNewCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "new TITLE",
		Short: "Create the next checkpoint for today",
		Args:  cobra.ExactArgs(1),
		RunE:  runSessionNew,
	}
	cmd.Flags().String("status", "in-progress", "Checkpoint status")
	return cmd
}

func runSessionNew(cmd *cobra.Command, args []string) error {
	root, err := cmd.Flags().GetString("root")
	if err != nil {
		return err
	}
	developer, err := cmd.Flags().GetString("developer")
	if err != nil {
		return err
	}
	if developer == "" {
		return fmt.Errorf("developer name required (set --developer or $USER)")
	}
	status, err := cmd.Flags().GetString("status")
	if err != nil {
		return err
	}

	date := time.Now().Format(session.DateFormat)
	number, err := session.NextNumber(root, developer, date)
	if err != nil {
		return err
	}

	checkpoint := &session.Checkpoint{
		Developer: developer,
		Date:      date,
		Number:    number,
		Title:     args[0],
		Status:    status,
	}
	if err := checkpoint.Write(root); err != nil {
		return err
	}
	fmt.Println(checkpoint.Path())
	return nil
}

func newSessionListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List a developer's checkpoints",
		RunE:  runSessionList,
	}
}

func runSessionList(cmd *cobra.Command, args []string) error {
	root, err := cmd.Flags().GetString("root")
	if err != nil {
		return err
	}
	developer, err := cmd.Flags().GetString("developer")
	if err != nil {
		return err
	}
	if developer == "" {
		return fmt.Errorf("developer name required (set --developer or $USER)")
	}

	checkpoints, err := session.List(root, developer)
	if err != nil {
		return err
	}
	for _, c := range checkpoints {
		status := c.Status
		if status == "" {
			status = "-"
		}
		fmt.Printf("%s  #%d  [%s]  %s\n", c.Date, c.Number, status, c.Title)
	}
	return nil
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the scaffold version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println(version)
		},
	}
}
