package cmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/plzero/plc/internal/compiler"
	"github.com/plzero/plc/internal/config"
	"github.com/plzero/plc/internal/logging"
	"github.com/plzero/plc/internal/report"
)

// compile: source -> report (+ code file)
var CompileCmd = &cobra.Command{
	Use:   "compile <input> <output>",
	Short: "Compile a PL/0 source file and write the compile report",
	Long: `Compile scans and parses <input>, writes the compile report to <output>
and echoes it to stdout. On success the numeric code file is also written
to the output directory.`,
	Args: cobra.ExactArgs(2),
	RunE: compileRun,
}

func compileRun(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	log := newLogger(cmd, cfg)

	codePath, err := CompileAndWrite(args[0], args[1], cmd.OutOrStdout(), cfg, log)
	log.LogFinished()
	if err != nil {
		return err
	}
	if log.LogLevel == logging.LevelVerbose {
		fmt.Fprintf(cmd.ErrOrStderr(), "wrote code to %s\n", codePath)
	}
	return nil
}

// CompileAndWrite compiles src, writes the report to reportPath and echo,
// and writes the code file to cfg.OutDir. It returns the code file path.
func CompileAndWrite(src, reportPath string, echo io.Writer, cfg *config.Config, log *logging.Logger) (string, error) {
	res, compileErr := compiler.CompileFile(src, compiler.Options{
		LenientPairs: cfg.LenientPairs,
		MaxCode:      cfg.MaxCode,
		Log:          log,
	})
	if res == nil {
		return "", compileErr
	}

	out, err := os.Create(reportPath)
	if err != nil {
		return "", fmt.Errorf("could not open output file %s: %w", reportPath, err)
	}
	defer out.Close()

	report.Full(io.MultiWriter(out, echo), res, compileErr)
	if compileErr != nil {
		return "", ErrCompileFailed
	}

	if err := os.MkdirAll(cfg.OutDir, 0o755); err != nil {
		return "", err
	}
	codePath := filepath.Join(cfg.OutDir, strings.TrimSuffix(filepath.Base(src), filepath.Ext(src))+".code")
	f, err := os.Create(codePath)
	if err != nil {
		return "", err
	}
	defer f.Close()
	report.CodeFile(f, res.Code)
	return codePath, nil
}
