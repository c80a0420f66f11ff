/*
Package dsl provides a fluent Go builder for programmatically constructing
widget pages.

It lets hosts describe the widgets a rerun pass encodes using a type-safe
builder pattern instead of assembling request structs by hand. This is
particularly useful for static pages, unit tests, and leveraging IDE
autocompletion/type-checking.

Example usage:

	page := dsl.NewPage().
		Widget("rating").
			Option(":star_outline:", ":star:").
			Option(":star_outline:", ":star:").
			Option(":star_outline:", ":star:").
			SingleSelect().
			UpToSelected().
		Widget("topics").
			Option("docs", "").
			Option("api", "").
			MultiSelect().
			InForm("survey").
		Build()
*/
package dsl
