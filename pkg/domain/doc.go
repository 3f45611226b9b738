/*
Package domain contains the core domain models of the BQA fulfillment bot.

It defines the platform-facing session schema (events, intents, slots, responses),
the dialog actions returned every turn, the navigation history stack, and the
declarative step tree that drives slot elicitation. This package is kept pure and
free of I/O, following Hexagonal Architecture principles.

# Key Entities

  - Event / Response: the JSON contract exchanged with the conversational platform.
  - Session: the typed, per-turn view over a session state (slots, attributes, history, stash).
  - Action: the tagged dialog action (ElicitSlot, ElicitIntent, Close).
  - History: the ordered (intent, slot) stack behind "back" and "main menu" navigation.
  - Step: a node of the step tree; branches on an options slot or builds a prompt.
*/
package domain
