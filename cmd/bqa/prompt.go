package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bahrain-bp/bqa-insight-ai/pkg/prompts"
)

var promptCmd = &cobra.Command{
	Use:   "prompt [template]",
	Short: "Render a prompt template offline",
	Long: `Renders one of the generator prompt templates with the given values, without
calling the model. Without a template name, lists the available templates.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		lib := prompts.Default()
		if path, _ := cmd.Flags().GetString("prompts"); path != "" {
			var err error
			if lib, err = prompts.LoadFile(path); err != nil {
				return err
			}
		}

		out := cmd.OutOrStdout()
		if len(args) == 0 {
			for _, name := range lib.Names() {
				fmt.Fprintf(out, "%-22s %s\n", name, lib.Describe(name))
			}
			return nil
		}

		var data prompts.Data
		data.Subject, _ = cmd.Flags().GetString("subject")
		data.Others, _ = cmd.Flags().GetString("others")
		data.Aspect, _ = cmd.Flags().GetString("aspect")
		data.Scope, _ = cmd.Flags().GetString("scope")
		data.Governorate, _ = cmd.Flags().GetString("governorate")
		data.Question, _ = cmd.Flags().GetString("question")
		data.Text, _ = cmd.Flags().GetString("text")

		text, err := lib.Render(args[0], data)
		if err != nil {
			return err
		}
		fmt.Fprint(out, text)
		return nil
	},
}

func init() {
	promptCmd.Flags().String("subject", "", "Institute, programme or list of institutes")
	promptCmd.Flags().String("others", "", "Institutes compared with the subject")
	promptCmd.Flags().String("aspect", "", "Review aspect or standard")
	promptCmd.Flags().String("scope", "", "Whole sector, e.g. 'All Government Schools'")
	promptCmd.Flags().String("governorate", "", "Governorate restricting a comparison")
	promptCmd.Flags().String("question", "", "Free-text question")
	promptCmd.Flags().String("text", "", "Analysis to extract chart data from")
	rootCmd.AddCommand(promptCmd)
}
