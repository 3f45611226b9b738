package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bahrain-bp/bqa-insight-ai/internal/presentation/graph"
)

// treeCmd represents the tree command
var treeCmd = &cobra.Command{
	Use:   "tree",
	Short: "Print the dialog step trees",
	Long:  `Prints the step tree of every intent as an outline, or as a Mermaid diagram (graph TD) with --format mermaid.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		format, _ := cmd.Flags().GetString("format")
		app, err := loadOfflineApp(cmd)
		if err != nil {
			return err
		}
		defer app.Close()

		switch format {
		case "text":
			fmt.Fprint(cmd.OutOrStdout(), graph.RenderText(app.Bot.Trees()))
		case "mermaid":
			fmt.Fprint(cmd.OutOrStdout(), graph.GenerateMermaid(app.Bot.Trees(), nil))
		default:
			return fmt.Errorf("unknown format %q (want text or mermaid)", format)
		}
		return nil
	},
}

func init() {
	treeCmd.Flags().StringP("format", "f", "text", "Output format: text or mermaid")
	rootCmd.AddCommand(treeCmd)
}
