package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/RamKarthikeya/ApiTestingG/internal/parser"
)

var discoverTarget string

var discoverCmd = &cobra.Command{
	Use:   "discover",
	Short: "Discover endpoints from a target's OpenAPI documentation",
	Long: `Discover fetches the target's OpenAPI document from the usual
well-known paths and writes one endpoint spec file per operation,
ready to feed to generate --spec.`,
	RunE:         runDiscover,
	SilenceUsage: true,
}

func init() {
	rootCmd.AddCommand(discoverCmd)

	discoverCmd.Flags().StringVarP(&discoverTarget, "target", "t", "", "target base URL (defaults to environment.base_url)")
}

func runDiscover(cmd *cobra.Command, args []string) error {
	cfg, log, _, err := loadApp()
	if err != nil {
		return err
	}
	defer log.Close()

	target := discoverTarget
	if target == "" {
		target = cfg.Environment.BaseURL
	}
	if target == "" {
		return fmt.Errorf("no target: pass --target or set environment.base_url")
	}

	specs, err := parser.NewSwaggerParser(target).ParseEndpoints()
	if err != nil {
		return err
	}

	specDir := filepath.Join(cfg.Reporting.OutputDir, "specs")
	if err := os.MkdirAll(specDir, 0755); err != nil {
		return err
	}

	for _, spec := range specs {
		data, err := json.MarshalIndent(spec, "", "  ")
		if err != nil {
			return err
		}
		name := fmt.Sprintf("%s_%s.json", spec.Method, sanitizeName(spec.Endpoint))
		if err := os.WriteFile(filepath.Join(specDir, name), data, 0644); err != nil {
			return err
		}
	}

	fmt.Printf("Found %d endpoints, spec files written to %s\n", len(specs), specDir)
	return nil
}

func sanitizeName(endpoint string) string {
	out := make([]rune, 0, len(endpoint))
	for _, r := range endpoint {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			out = append(out, r)
		default:
			out = append(out, '_')
		}
	}
	return string(out)
}
