package cmd

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/plzero/plc/internal/config"
	"github.com/plzero/plc/internal/logging"
)

// ErrCompileFailed is returned after a compile error has already been
// reported to the user.
var ErrCompileFailed = errors.New("compilation failed")

var (
	cfgPath  string
	logLevel = logLevelValue(logging.LevelWarning)
)

var rootCmd = &cobra.Command{
	Use:   "plc",
	Short: "plc, a PL/0 compiler and stack machine",
	Long: `plc compiles PL/0 programs to code for a small stack machine and runs them.

Commands:
  init     Scaffold a new PL/0 project
  compile  Compile a source file and write the full compile report
  run      Compile and execute a program, or execute a code file
`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute() error {
	if err := rootCmd.Execute(); err != nil {
		return err
	}
	return nil
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgPath, "config", config.FileName, "project config file")
	flags.Var(&logLevel, "log-level", "silent, error, warning or verbose")
	flags.Bool("lenient-pairs", false, "keep the first character of an invalid punctuation pair and rescan the second")
	flags.Int("max-code", 0, "instruction store capacity")
	flags.Int("step-limit", 0, "stop the machine after this many instructions")
	flags.StringP("out-dir", "o", "", "output directory for code files")

	rootCmd.AddCommand(InitCmd, CompileCmd, RunCmd)
}

// loadConfig reads the project config and applies the flags given on the
// command line over it.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, err
	}
	if err := cfg.ApplyFlags(cmd.Flags()); err != nil {
		return nil, err
	}
	return cfg, nil
}

func newLogger(cmd *cobra.Command, cfg *config.Config) *logging.Logger {
	return logging.New(cmd.ErrOrStderr(), cfg.Level())
}
