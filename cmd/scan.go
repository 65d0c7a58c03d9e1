package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"repoguard/config"
	"repoguard/fetcher"
	"repoguard/osv"
	"repoguard/scanner"
)

var (
	repoURL              string
	maxFilesFlag         int
	chunkStartFlag       int
	includeLowConfidence bool
	outputFlag           string
)

var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Scan a GitHub repository for security issues",
	Long:  "Fetch a repository through the GitHub API and run every detector over its dependency, configuration and source files.",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		_ = godotenv.Load()
		token := os.Getenv("GITHUB_ACCESS_TOKEN")
		if token == "" {
			fmt.Println("Warning: GITHUB_ACCESS_TOKEN not set, using unauthenticated rate limits")
		}

		settings := config.Load()
		client := fetcher.NewGitHubClient(ctx, token)
		fmt.Printf("✅ GitHub Client Started\n")

		f := fetcher.New(client, settings)
		engine := scanner.NewEngine(f, scanner.DefaultScanners(settings, osv.NewClient()), settings.DetectorWorkers)

		fmt.Printf("Scanning %s...\n", repoURL)
		result, err := engine.ScanRepository(ctx, repoURL, scanner.Options{
			MaxFiles:             maxFilesFlag,
			ChunkStart:           chunkStartFlag,
			IncludeLowConfidence: includeLowConfidence,
		})
		if err != nil {
			fmt.Fprintf(os.Stderr, "Scan failed: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("✅ Scan Complete\n")

		report := result.Report()
		if outputFlag != "" {
			file, err := os.Create(outputFlag)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Cannot write report: %v\n", err)
				os.Exit(1)
			}
			defer file.Close()
			enc := json.NewEncoder(file)
			enc.SetIndent("", "  ")
			if err := enc.Encode(report); err != nil {
				fmt.Fprintf(os.Stderr, "Cannot write report: %v\n", err)
				os.Exit(1)
			}
			fmt.Printf("Report saved to %s\n", outputFlag)
			return
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		_ = enc.Encode(report)
	},
}

func init() {
	scanCmd.Flags().StringVarP(&repoURL, "url", "u", "", "GitHub repository URL (required)")
	scanCmd.MarkFlagRequired("url")
	scanCmd.Flags().IntVarP(&maxFilesFlag, "max-files", "m", 0, "Cap on the number of files to scan")
	scanCmd.Flags().IntVarP(&chunkStartFlag, "chunk-start", "c", 0, "Offset into the prioritized file list")
	scanCmd.Flags().BoolVarP(&includeLowConfidence, "include-low-confidence", "l", false, "Keep low-confidence findings in the report")
	scanCmd.Flags().StringVarP(&outputFlag, "output", "o", "", "Write the JSON report to a file instead of stdout")

	rootCmd.AddCommand(scanCmd)
}
