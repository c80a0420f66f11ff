/*
Package picket synchronizes selectable widget values between a server-side
script host and its frontends.

It implements a descriptor/update protocol: the host encodes each widget into
a wire descriptor carrying its options, defaults and resolved value, and
frontends answer with value-update messages that the host validates and
commits per session. The same resolution rules run on both sides, so a
frontend can reconcile optimistically while the server stays authoritative.

# Concept

Each widget is a row of options addressed by index. The encoder resolves the
value a script call should observe (pushed value, committed value, or the
declared defaults, in that order) and registers interest so that only widgets
encoded in the current rerun pass may be updated. The reconciler mirrors that
state on the client side: it applies descriptors, tracks clicks under single-
or multi-select semantics, buffers form-scoped widgets until submit, and
renders the visible option rows.

This Hexagonal Architecture keeps the protocol core free of transport: the
bundled adapters serve it over HTTP/SSE, MCP, and an interactive terminal
loop, with session state in memory or Redis.

# Usage

	package main

	import (
		"context"
		"log"

		"github.com/aretw0/picket"
		"github.com/aretw0/picket/pkg/domain"
		"github.com/aretw0/picket/pkg/encoder"
	)

	func main() {
		app := picket.New("survey")
		ctx := context.Background()

		app.BeginRun("session-1")
		_, value, err := app.Encode(ctx, "session-1", encoder.EncodeRequest{
			ID: "rating",
			Options: []domain.Option{
				{Content: ":star_outline:", SelectedContent: ":star:"},
				{Content: ":star_outline:", SelectedContent: ":star:"},
				{Content: ":star_outline:", SelectedContent: ":star:"},
			},
			ClickMode: domain.SingleSelect,
		})
		if err != nil {
			log.Fatal(err)
		}
		log.Println("rating:", value)

		// A frontend answers with a value update.
		if err := app.ApplyUpdate(ctx, "session-1", domain.ValueUpdate{
			ID:    "rating",
			Value: []uint32{2},
		}); err != nil {
			log.Fatal(err)
		}
	}
*/
package picket
