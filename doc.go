/*
Package insight is the fulfillment backend of the BQA Insight chatbot.

The bot helps users explore the quality assurance reviews of schools, vocational
training centers and universities in Bahrain. A managed conversational platform owns
intents, slots and session state; this package receives one dialog event per turn,
walks a declarative step tree to decide which slot to ask for next, and, once a
question is complete, renders a prompt and forwards it to a generative model.

# Concept

Every turn is stateless on the server side. The dialog state travels in the event:
the filled slots of the active intent plus a flat bag of session attributes. The bot
keeps its own bookkeeping in that bag:

  - history: the stack of elicited (intent, slot) pairs, used to go back one step.
  - stashedSlots: slots of intents the dialog has switched away from.
  - retry / returnToMenu: navigation flags set by the front end.
  - chartData: chart JSON extracted from the last analysis, when enabled.

# Usage

	gen := bedrock.New(client, agentID, aliasID)

	bot, err := insight.New(gen, insight.WithLogger(logger))
	if err != nil {
		log.Fatal(err)
	}

	resp, err := bot.Fulfill(ctx, event)

The same Bot backs the HTTP webhook, the AWS Lambda entrypoint, the MCP server and
the local chat simulator (see cmd/bqa).
*/
package insight
