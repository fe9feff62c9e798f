package cmd

import (
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/plzero/plc/internal/compiler"
	"github.com/plzero/plc/internal/compiler/emitter"
	"github.com/plzero/plc/internal/logging"
	"github.com/plzero/plc/internal/vm"
)

var runCode bool

// run: execute a program on the stack machine
var RunCmd = &cobra.Command{
	Use:   "run [--code] <input>",
	Short: "Compile and run a PL/0 program",
	Long: `Run compiles <input> and executes it, reading from stdin and writing to
stdout. With --code, <input> is a code file or assembly listing instead.`,
	Args: cobra.ExactArgs(1),
	RunE: runRun,
}

func init() {
	RunCmd.Flags().BoolVar(&runCode, "code", false, "input is a code file or listing")
}

func runRun(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	var code []emitter.Instruction
	if runCode {
		f, err := os.Open(args[0])
		if err != nil {
			return err
		}
		defer f.Close()
		if code, err = vm.LoadListing(args[0], f); err != nil {
			return err
		}
	} else {
		log := newLogger(cmd, cfg)
		res, err := compiler.CompileFile(args[0], compiler.Options{
			LenientPairs: cfg.LenientPairs,
			MaxCode:      cfg.MaxCode,
			Log:          log,
		})
		if err != nil {
			log.LogFinished()
			if res == nil {
				return err
			}
			return ErrCompileFailed
		}
		if cfg.Level() >= logging.LevelWarning {
			for _, w := range log.Warnings() {
				cmd.PrintErrln(w)
			}
		}
		code = res.Code
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	m := vm.New(code)
	m.In = cmd.InOrStdin()
	m.Out = cmd.OutOrStdout()
	m.StepLimit = cfg.StepLimit
	return m.Run(ctx)
}
