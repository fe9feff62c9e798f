package cmd

import (
	"embed"
	"fmt"
	"os"
	"path/filepath"
	"text/template"

	"github.com/spf13/cobra"

	"github.com/plzero/plc/internal/config"
)

//go:embed templates/*
var tplFS embed.FS

// init: scaffold a new project
var InitCmd = &cobra.Command{
	Use:   "init [dir]",
	Short: "Scaffold a new PL/0 project",
	Args:  cobra.MaximumNArgs(1),
	RunE:  initRun,
}

func initRun(cmd *cobra.Command, args []string) error {
	var (
		targetDir   string
		projectName string
	)

	// targetDir is where files go, projectName is for templating
	if len(args) == 1 {
		targetDir = args[0]
		projectName = filepath.Base(args[0])
	} else {
		cwd, err := os.Getwd()
		if err != nil {
			return err
		}
		targetDir = "."
		projectName = filepath.Base(cwd)
	}

	if targetDir != "." {
		if _, err := os.Stat(targetDir); err == nil {
			return fmt.Errorf("directory %q already exists", targetDir)
		}
	}

	cmd.Printf("scaffolding project %q ...\n", projectName)

	for _, dir := range []string{"src", "out"} {
		if err := os.MkdirAll(filepath.Join(targetDir, dir), 0o755); err != nil {
			return err
		}
	}

	data := map[string]string{"ProjectName": projectName}
	files := map[string]string{
		"templates/hello.pl0.tpl": "src/hello.pl0",
		"templates/plc.yml.tpl":   config.FileName,
		"templates/gitignore.tpl": ".gitignore",
	}
	for tplPath, outName := range files {
		if err := writeTpl(tplPath, filepath.Join(targetDir, outName), data); err != nil {
			return err
		}
	}

	cmd.Printf("project %q initialized\n", projectName)
	return nil
}

// writeTpl loads tplName from tplFS, executes it with data, and writes to outPath
func writeTpl(tplName, outPath string, data any) error {
	t, err := template.ParseFS(tplFS, tplName)
	if err != nil {
		return err
	}

	f, err := os.Create(outPath)
	if err != nil {
		return err
	}
	defer f.Close()

	return t.Execute(f, data)
}
