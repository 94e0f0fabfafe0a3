package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/RamKarthikeya/ApiTestingG/internal/executor"
	"github.com/RamKarthikeya/ApiTestingG/internal/generator"
	"github.com/RamKarthikeya/ApiTestingG/internal/types"
)

var (
	runBatteryFile string
	runTarget      string
	runConcurrency int
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Execute a test battery against a target",
	Long: `Run loads a battery file produced by generate (or a bare JSON array
of test cases), executes every case against the target under bounded
concurrency, and writes a report plus expectation-update suggestions.`,
	RunE:         runBattery,
	SilenceUsage: true,
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVarP(&runBatteryFile, "battery", "b", "", "path to the battery JSON file (required)")
	runCmd.Flags().StringVarP(&runTarget, "target", "t", "", "target base URL (defaults to environment.base_url)")
	runCmd.Flags().IntVarP(&runConcurrency, "concurrency", "c", 0, "concurrent requests, 1 to 50 (defaults to test.concurrency)")
	_ = runCmd.MarkFlagRequired("battery")
}

func runBattery(cmd *cobra.Command, args []string) error {
	cfg, log, rep, err := loadApp()
	if err != nil {
		return err
	}
	defer log.Close()

	cases, err := loadBattery(runBatteryFile)
	if err != nil {
		return err
	}

	target := runTarget
	if target == "" {
		target = cfg.Environment.BaseURL
	}
	if target == "" {
		return fmt.Errorf("no target: pass --target or set environment.base_url")
	}

	concurrency := runConcurrency
	if concurrency == 0 {
		concurrency = cfg.Test.Concurrency
	}

	runner := executor.NewRunner(rep, log)
	out := runner.Run(cmd.Context(), cases, target, concurrency)

	path, err := rep.WriteRunReport(out)
	if err != nil {
		return fmt.Errorf("failed to write report: %v", err)
	}

	s := out.Summary
	fmt.Printf("Executed %d test cases against %s\n", s.Total, target)
	fmt.Printf("  passed: %d  failed: %d  errors: %d\n", s.Passed, s.Failed, s.Errors)
	if len(out.Suggestions) > 0 {
		fmt.Printf("%d expectation-update suggestions recorded\n", len(out.Suggestions))
	}
	fmt.Printf("Report written to %s\n", path)
	return nil
}

// loadBattery accepts either a generator.Result artifact or a bare array
// of test cases.
func loadBattery(path string) ([]types.TestCase, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read battery file: %v", err)
	}

	var result generator.Result
	if err := json.Unmarshal(data, &result); err == nil && len(result.TestCases) > 0 {
		return result.TestCases, nil
	}

	var cases []types.TestCase
	if err := json.Unmarshal(data, &cases); err != nil || len(cases) == 0 {
		return nil, fmt.Errorf("battery file %s contains no test cases", path)
	}
	return cases, nil
}
