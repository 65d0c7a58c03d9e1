package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"repoguard/config"
	"repoguard/fetcher"
	"repoguard/osv"
	"repoguard/scanner"
)

var (
	codeFileFlag   string
	codeOutputFlag string
)

// codeScanReport wraps the scan report with the risk assessment a
// single-file review wants up front.
type codeScanReport struct {
	FileName       string                 `json:"file_name"`
	RiskAssessment scanner.RiskAssessment `json:"risk_assessment"`
	Report         any                    `json:"report"`
}

var scanCodeCmd = &cobra.Command{
	Use:   "scan-code",
	Short: "Scan a local file for security issues",
	Long:  "Run the secret, code pattern and configuration detectors over a single local file, plus the dependency detector when the file is a manifest.",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()

		info, err := os.Stat(codeFileFlag)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Cannot read %s: %v\n", codeFileFlag, err)
			os.Exit(1)
		}
		if info.Size() > config.MaxUploadBytes {
			fmt.Fprintf(os.Stderr, "File exceeds the %d byte limit\n", config.MaxUploadBytes)
			os.Exit(1)
		}
		content, err := os.ReadFile(codeFileFlag)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Cannot read %s: %v\n", codeFileFlag, err)
			os.Exit(1)
		}

		settings := config.Load()
		name := filepath.Base(codeFileFlag)
		file := fetcher.FileInfo{Path: name, Content: string(content), Size: len(content)}
		if cat, ok := fetcher.Categorize(name); ok {
			file.Category = cat
		}

		scanners := []scanner.Scanner{
			scanner.NewSecretScanner(settings.EntropyThreshold),
			scanner.NewCodePatternScanner(),
			scanner.NewConfigScanner(),
		}
		if file.Category == fetcher.CategoryDependency {
			scanners = append(scanners, scanner.NewDependencyScanner(osv.NewClient()))
		}

		engine := scanner.NewEngine(nil, scanners, settings.DetectorWorkers)
		result := engine.ScanFiles(ctx, []fetcher.FileInfo{file}, "local")
		fmt.Printf("✅ Scan Complete\n")

		out := codeScanReport{
			FileName:       name,
			RiskAssessment: scanner.AssessRisk(result.Vulnerabilities),
			Report:         result.Report(),
		}

		dest := os.Stdout
		if codeOutputFlag != "" {
			f, err := os.Create(codeOutputFlag)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Cannot write report: %v\n", err)
				os.Exit(1)
			}
			defer f.Close()
			dest = f
		}
		enc := json.NewEncoder(dest)
		enc.SetIndent("", "  ")
		_ = enc.Encode(out)
		if codeOutputFlag != "" {
			fmt.Printf("Report saved to %s\n", codeOutputFlag)
		}
	},
}

func init() {
	scanCodeCmd.Flags().StringVarP(&codeFileFlag, "file", "f", "", "Path of the file to scan (required)")
	scanCodeCmd.MarkFlagRequired("file")
	scanCodeCmd.Flags().StringVarP(&codeOutputFlag, "output", "o", "", "Write the JSON report to a file instead of stdout")

	rootCmd.AddCommand(scanCodeCmd)
}
