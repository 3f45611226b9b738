/*
Package runner simulates the conversational platform around the bot.

In production the platform keeps the dialog state and calls the fulfillment
hook once per turn. Locally, the Simulator plays that role: it stores each
conversation through a session.Manager, turns user text into slot values
(resolving fixed options case-insensitively), maps the "back" and "menu"
commands onto the retry and returnToMenu session flags, and applies every
response to the stored state.

# Key Components

  - Simulator: Start/Send/Current over a session store. Used by the HTTP, MCP and chat front ends.
  - Runner: an interactive terminal loop over a Simulator.
  - TextHandler: line-based terminal IO with an optional renderer.

# Usage

	sim := runner.NewSimulator(bot, session.NewManager(memory.NewStore()))
	r := runner.NewRunner(sim, runner.WithInputHandler(runner.NewTextHandler(os.Stdin, os.Stdout)))
	if _, err := r.Run(ctx); err != nil {
		log.Fatal(err)
	}
*/
package runner
