package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	apiFlag     string
	meetingFlag string
	rootCmd     = &cobra.Command{
		Use:   "prepctl",
		Short: "CLI client for the prep service REST API",
	}
)

func main() {
	rootCmd.PersistentFlags().StringVarP(&apiFlag, "api", "a", "http://localhost:8080", "Prep service base URL")

	// discover subcommand
	discoverCmd := &cobra.Command{
		Use:   "discover",
		Short: "Run signal discovery for a target meeting",
		RunE: func(cmd *cobra.Command, args []string) error {
			keywords, _ := cmd.Flags().GetString("keywords")
			if meetingFlag == "" {
				return fmt.Errorf("--meeting required")
			}
			return runDiscover(apiFlag, meetingFlag, keywords, os.Stdout)
		},
	}
	discoverCmd.Flags().StringVarP(&meetingFlag, "meeting", "m", "", "Target meeting ID (required)")
	discoverCmd.Flags().StringP("keywords", "k", "", "Comma-separated keywords to boost")
	rootCmd.AddCommand(discoverCmd)

	// brief subcommand
	briefCmd := &cobra.Command{
		Use:   "brief",
		Short: "Generate a preparation brief from confirmed items",
		RunE: func(cmd *cobra.Command, args []string) error {
			items, _ := cmd.Flags().GetStringSlice("item")
			if meetingFlag == "" {
				return fmt.Errorf("--meeting required")
			}
			if len(items) == 0 {
				return fmt.Errorf("at least one --item kind:id required")
			}
			return runBrief(apiFlag, meetingFlag, items, os.Stdout)
		},
	}
	briefCmd.Flags().StringVarP(&meetingFlag, "meeting", "m", "", "Target meeting ID (required)")
	briefCmd.Flags().StringSliceP("item", "i", nil, "Confirmed item as kind:id (repeatable)")
	rootCmd.AddCommand(briefCmd)

	// cache subcommand
	cacheCmd := &cobra.Command{
		Use:   "cache",
		Short: "Cache administration",
	}
	cacheCmd.AddCommand(&cobra.Command{
		Use:   "clear",
		Short: "Clear the discovery result cache",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCacheClear(apiFlag, os.Stdout)
		},
	})
	rootCmd.AddCommand(cacheCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
