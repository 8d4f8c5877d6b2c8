package main

import (
	"context"
	"fmt"

	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/sensei-mcp/sensei/internal/config"
	"github.com/sensei-mcp/sensei/internal/logger"
	"github.com/sensei-mcp/sensei/internal/rules"
	"github.com/sensei-mcp/sensei/internal/skills"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Validate the skills directory",
	Long: `Eagerly load the skill catalog and both rule engines, print what was
found, and list every file that failed to load. Exits non-zero when
anything in the catalog is broken.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runCheck(cmd)
	},
}

func init() {
	checkCmd.Flags().String("skills-dir", "", "Skills directory (overrides config)")
}

func runCheck(cmd *cobra.Command) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if v, _ := cmd.Flags().GetString("skills-dir"); v != "" {
		cfg.SkillsDir = v
	}

	// The loader logs every skip on its own; the report below is the
	// authoritative output, so keep the log quiet.
	logger.SetLevel("error")

	ctx := context.Background()
	loaded, report := skills.NewLoader(cfg.SkillsDir, cfg.Ignore).Load(ctx)
	vReport := rules.NewValidationEngine(cfg.SkillsDir, cfg.Ignore).Report(ctx)
	eReport := rules.NewSharpEdgeEngine(cfg.SkillsDir, cfg.Ignore).Report(ctx)

	fmt.Printf("Skills directory: %s\n\n", cfg.SkillsDir)
	fmt.Printf("  skills:           %d (%d documents probed)\n", len(loaded), report.Probed)
	fmt.Printf("  validation rules: %d (%d inert)\n", vReport.Total, vReport.Inert)
	fmt.Printf("  sharp edges:      %d (%d inert)\n", eReport.Total, eReport.Inert)

	var problems *multierror.Error
	problems = multierror.Append(problems, report.Err, vReport.Err, eReport.Err)

	if err := problems.ErrorOrNil(); err != nil {
		fmt.Printf("\nLoad problems:\n%v\n", err)
		return errors.Errorf("%d file(s) failed to load", len(problems.Errors))
	}
	if inert := vReport.Inert + eReport.Inert; inert > 0 {
		fmt.Printf("\n%d rule(s) have patterns that do not compile and will never match.\n", inert)
	}

	fmt.Println("\nCatalog loads cleanly.")
	return nil
}
