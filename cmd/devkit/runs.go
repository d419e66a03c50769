package main

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/chainward/devkit/internal/history"
)

var runsLimit int

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "Inspect recorded pipeline runs",
}

var runsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent pipeline runs",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadConfig()
		store, err := history.Open(cfg.History.Path)
		if err != nil {
			return err
		}
		defer store.Close()

		runs, err := store.ListRuns(runsLimit)
		if err != nil {
			return err
		}

		if GetOutput() == "json" {
			encoder := json.NewEncoder(os.Stdout)
			encoder.SetIndent("", "  ")
			return encoder.Encode(runs)
		}

		if len(runs) == 0 {
			fmt.Println("No recorded runs.")
			return nil
		}
		for _, run := range runs {
			marker := "✅"
			if run.Status != "success" {
				marker = "❌"
			}
			fmt.Printf("%s %s  %s  %s  %s\n",
				marker, run.ID, run.Image,
				run.StartedAt.Local().Format("2006-01-02 15:04:05"),
				run.Duration.Round(time.Millisecond))
		}
		return nil
	},
}

var runsShowCmd = &cobra.Command{
	Use:   "show <run-id>",
	Short: "Show one pipeline run with its stages",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadConfig()
		store, err := history.Open(cfg.History.Path)
		if err != nil {
			return err
		}
		defer store.Close()

		run, err := store.GetRun(args[0])
		if err != nil {
			return fmt.Errorf("run %s not found", args[0])
		}

		if GetOutput() == "json" {
			encoder := json.NewEncoder(os.Stdout)
			encoder.SetIndent("", "  ")
			return encoder.Encode(run)
		}

		fmt.Printf("Run:      %s\n", run.ID)
		fmt.Printf("Image:    %s\n", run.Image)
		fmt.Printf("Status:   %s\n", run.Status)
		fmt.Printf("Started:  %s\n", run.StartedAt.Local().Format("2006-01-02 15:04:05"))
		fmt.Printf("Duration: %s\n", run.Duration.Round(time.Millisecond))
		fmt.Println("Stages:")
		for _, stage := range run.Stages {
			marker := "✅"
			if !stage.Success {
				marker = "❌"
			}
			fmt.Printf("  %s %s\n", marker, stage.Name)
		}
		return nil
	},
}

func init() {
	runsListCmd.Flags().IntVarP(&runsLimit, "limit", "n", 20, "Maximum number of runs to list")
	runsCmd.AddCommand(runsListCmd, runsShowCmd)
	rootCmd.AddCommand(runsCmd)
}
