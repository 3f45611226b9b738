/*
Package ports defines the driven ports (interfaces) for the BQA Insight bot.

These interfaces decouple the dialog core from external implementations, allowing
the bot to work with various model backends, storage backends and front doors.

# Key Interfaces

  - Generator: Produces the answer text for a prompt (e.g., Bedrock agent, OpenAI).
  - Fulfiller: Turns one platform dialog event into a dialog response.
  - StateStore: Persists simulated conversations for the local front door.
  - DistributedLocker: Provides distributed locking for concurrent session access.
*/
package ports
