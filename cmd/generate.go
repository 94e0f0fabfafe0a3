package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/RamKarthikeya/ApiTestingG/internal/cache"
	"github.com/RamKarthikeya/ApiTestingG/internal/config"
	"github.com/RamKarthikeya/ApiTestingG/internal/generator"
	"github.com/RamKarthikeya/ApiTestingG/internal/llm"
	"github.com/RamKarthikeya/ApiTestingG/internal/probe"
	"github.com/RamKarthikeya/ApiTestingG/internal/types"
)

var (
	genMethod    string
	genEndpoint  string
	genTarget    string
	genSpecFile  string
	genAutoProbe bool
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a test battery for an endpoint",
	Long: `Generate builds a battery of test cases for one endpoint. The cases
come from the configured model when it cooperates and from the
deterministic fallback battery when it does not. With --auto-probe the
target is probed first and inferred status codes are folded into the
expectations.`,
	RunE:         runGenerate,
	SilenceUsage: true,
}

func init() {
	rootCmd.AddCommand(generateCmd)

	generateCmd.Flags().StringVarP(&genMethod, "method", "m", "GET", "HTTP method of the endpoint")
	generateCmd.Flags().StringVarP(&genEndpoint, "endpoint", "e", "", "endpoint path, e.g. /api/users")
	generateCmd.Flags().StringVarP(&genTarget, "target", "t", "", "target base URL (defaults to environment.base_url)")
	generateCmd.Flags().StringVarP(&genSpecFile, "spec", "s", "", "path to a JSON endpoint spec file (overrides flags)")
	generateCmd.Flags().BoolVar(&genAutoProbe, "auto-probe", false, "probe the target before generation")
}

func runGenerate(cmd *cobra.Command, args []string) error {
	cfg, log, rep, err := loadApp()
	if err != nil {
		return err
	}
	defer log.Close()

	spec, err := buildEndpointSpec(cfg)
	if err != nil {
		return err
	}

	llmCfg, err := config.LoadLLMConfig(cfg.Generation.LLMConfigPath)
	if err != nil {
		return err
	}
	model, err := llm.NewClient(llmCfg, log)
	if err != nil {
		return err
	}

	gen := generator.New(model, probe.NewEngine(), cache.NewStore[generator.Result](generator.CacheTTL), log)
	result := gen.Generate(cmd.Context(), spec)

	path, err := rep.WriteBattery(result)
	if err != nil {
		return fmt.Errorf("failed to write battery: %v", err)
	}

	fmt.Printf("Generated %d test cases for %s %s\n", result.Summary.Total, spec.Method, spec.Endpoint)
	for category, count := range result.Summary.Categories {
		fmt.Printf("  %-10s %d\n", category, count)
	}
	if result.Note != "" {
		fmt.Printf("Note: %s\n", result.Note)
	}
	fmt.Printf("Battery written to %s\n", path)
	return nil
}

func buildEndpointSpec(cfg *config.Config) (types.EndpointSpec, error) {
	var spec types.EndpointSpec

	if genSpecFile != "" {
		data, err := os.ReadFile(genSpecFile)
		if err != nil {
			return spec, fmt.Errorf("failed to read spec file: %v", err)
		}
		if err := json.Unmarshal(data, &spec); err != nil {
			return spec, fmt.Errorf("failed to parse spec file: %v", err)
		}
	} else {
		if genEndpoint == "" {
			return spec, fmt.Errorf("either --spec or --endpoint is required")
		}
		spec.Method = strings.ToUpper(genMethod)
		spec.Endpoint = genEndpoint
	}

	if genTarget != "" {
		spec.TargetURL = genTarget
	}
	if spec.TargetURL == "" {
		spec.TargetURL = cfg.Environment.BaseURL
	}
	if genAutoProbe {
		spec.AutoProbe = true
	}
	if spec.SampleValidToken == "" && cfg.Environment.Auth.Type == "bearer" {
		spec.SampleValidToken = cfg.Environment.Auth.Token
	}

	return spec, nil
}
