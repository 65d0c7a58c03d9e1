package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "repoguard",
	Short: "Static security analysis for GitHub repositories",
	Long:  "A CLI-tool that scans repositories for exposed secrets, vulnerable code patterns, insecure configuration, risky CI/CD pipelines and dependencies with known vulnerabilities.",
	Run:   func(cmd *cobra.Command, args []string) {},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Oops. An error while executing the tool '%s'\n", err)
		os.Exit(1)
	}
}
