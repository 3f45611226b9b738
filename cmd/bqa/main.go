// Command bqa runs the BQA Insight fulfillment backend: the HTTP webhook, the
// AWS Lambda entrypoint, the MCP server and a local chat simulator.
package main

func main() {
	Execute()
}
