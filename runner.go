package picket

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/aretw0/picket/pkg/domain"
	"github.com/aretw0/picket/pkg/encoder"
	"github.com/aretw0/picket/pkg/ports"
	"github.com/aretw0/picket/pkg/reconciler"
)

// Runner drives an interactive encode/reconcile loop using provided IO.
// It plays both roles of the protocol locally: each iteration re-encodes the
// page like a script rerun, reconciles the descriptors, and turns typed
// commands into widget clicks. This allows for easy testing and integration
// with different frontends (CLI, TUI, etc).
type Runner struct {
	Input    io.Reader
	Output   io.Writer
	Headless bool
	Renderer ContentRenderer
}

// ContentRenderer is a function that transforms option labels before
// outputting them. This allows for TUI rendering (glyphs, ANSI styling)
// without coupling the core package.
type ContentRenderer func(string) (string, error)

// NewRunner creates a new Runner. Input and Output must be set by the caller
// (typically os.Stdin and os.Stdout).
func NewRunner() *Runner {
	return &Runner{}
}

// Run executes the interactive loop until the user quits or Input is closed.
// The page is re-encoded for the session on every iteration, in order.
func (r *Runner) Run(ctx context.Context, app *App, sessionID string, page []encoder.EncodeRequest) error {
	if r.Input == nil {
		return fmt.Errorf("input reader must be set (use os.Stdin)")
	}
	if r.Output == nil {
		return fmt.Errorf("output writer must be set (use os.Stdout)")
	}

	lineReader := bufio.NewReader(r.Input)
	writer := r.Output

	rec := reconciler.New(ports.UpdateSinkFunc(func(ctx context.Context, update domain.ValueUpdate) error {
		return app.ApplyUpdate(ctx, sessionID, update)
	}))

	if !r.Headless {
		fmt.Fprintln(writer, "--- Picket (Runner) ---")
		fmt.Fprintln(writer, "commands: <widget> <index> | submit <form> | quit")
	}

	for {
		app.BeginRun(sessionID)

		pass := make([]domain.WidgetDescriptor, 0, len(page))
		for _, req := range page {
			desc, _, err := app.Encode(ctx, sessionID, req)
			if err != nil {
				return fmt.Errorf("encode %q: %w", req.ID, err)
			}
			pass = append(pass, desc)
		}
		if err := rec.Sync(ctx, pass); err != nil {
			return fmt.Errorf("reconcile pass: %w", err)
		}

		for _, desc := range pass {
			if err := r.printWidget(writer, rec, desc.ID); err != nil {
				return err
			}
		}

		fmt.Fprint(writer, "> ")
		line, err := lineReader.ReadString('\n')
		if err != nil {
			if err == io.EOF {
				return nil
			}
			return fmt.Errorf("read input: %w", err)
		}

		fields := strings.Fields(line)
		switch {
		case len(fields) == 0:
			continue
		case fields[0] == "quit" || fields[0] == "exit":
			return nil
		case fields[0] == "submit" && len(fields) == 2:
			rec.SubmitForm(ctx, fields[1])
		case len(fields) == 2:
			index, convErr := strconv.ParseUint(fields[1], 10, 32)
			if convErr != nil {
				fmt.Fprintf(writer, "not an option index: %s\n", fields[1])
				continue
			}
			if clickErr := r.click(ctx, rec, fields[0], uint32(index)); clickErr != nil {
				fmt.Fprintf(writer, "click rejected: %v\n", clickErr)
			}
		default:
			fmt.Fprintln(writer, "usage: <widget> <index> | submit <form> | quit")
		}
	}
}

// click guards against the reconciler's out-of-range assertion so a typo at
// the prompt does not crash the loop.
func (r *Runner) click(ctx context.Context, rec *reconciler.Reconciler, id string, index uint32) (err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("%v", p)
		}
	}()
	return rec.Click(ctx, id, index)
}

func (r *Runner) printWidget(writer io.Writer, rec *reconciler.Reconciler, id string) error {
	rows, err := rec.Render(id)
	if err != nil {
		return fmt.Errorf("render %q: %w", id, err)
	}

	fmt.Fprintf(writer, "\n%s:\n", id)
	for _, row := range rows {
		label := row.Label
		if r.Renderer != nil {
			rendered, renderErr := r.Renderer(label)
			if renderErr == nil {
				label = strings.TrimSpace(rendered)
			}
		}
		marker := " "
		if row.Selected {
			marker = "x"
		}
		fmt.Fprintf(writer, "  [%s] %d %s\n", marker, row.Index, label)
	}
	return nil
}
