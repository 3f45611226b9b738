package main

import (
	"github.com/spf13/cobra"

	lambdaAdapter "github.com/bahrain-bp/bqa-insight-ai/pkg/adapters/lambda"
)

var lambdaCmd = &cobra.Command{
	Use:   "lambda",
	Short: "Run as the AWS Lambda code hook of the conversational platform",
	Long: `Starts the AWS Lambda runtime loop. Each invocation carries one dialog event
and returns the platform response. Configuration comes from the function's
environment (BEDROCK_AGENT_ID, BEDROCK_AGENT_ALIAS_ID, AWS_REGION, ...).`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if !cmd.Flags().Changed("json-logs") {
			_ = cmd.Flags().Set("json-logs", "true")
		}
		app, err := loadApp(cmd, false)
		if err != nil {
			return err
		}
		defer app.Close()

		lambdaAdapter.Start(app.Bot, lambdaAdapter.WithLogger(app.Logger))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(lambdaCmd)
}
