/*
Package dsl provides a fluent builder for declaring dialog step trees in Go.

Each intent owns one tree. A step gathers its required slots in order, then either
branches on an options slot, builds a generator prompt, or hands the dialog off to
another intent.

Example usage:

	b := dsl.New()

	b.Intent("BQAIntent").
		Branch("BQASlot").
		Option("Analyze").Handoff("AnalyzingIntent", "InstituteTypeSlot").End().
		Option("Other").Handoff("OtherIntent", "OtherQuestionsSlot")

	b.Intent("OtherIntent").
		Require("OtherQuestionsSlot").
		Prompt(func(ctx context.Context, v domain.Values) (string, error) {
			return v["OtherQuestionsSlot"], nil
		})

	trees, err := b.Build()
*/
package dsl
