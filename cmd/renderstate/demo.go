package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/vango-dev/renderstate/pkg/renderstate"
	"github.com/vango-dev/renderstate/pkg/store"
)

func demoCmd() *cobra.Command {
	var (
		delay time.Duration
		fail  bool
	)

	cmd := &cobra.Command{
		Use:   "demo",
		Short: "Run two adapters on one key and print every render",
		Long: `Run two adapters, A and B, bound to the same key.

A loads data, then B loads new data (or fails with --fail), then A resets.
Every change is printed as the adapter that observed it renders it, showing
that both adapters converge and that previous values carry over.

Examples:
  renderstate demo
  renderstate demo --fail --delay=1s`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDemo(cmd.Context(), cmd.OutOrStdout(), delay, fail)
		},
	}

	cmd.Flags().DurationVarP(&delay, "delay", "d", 300*time.Millisecond, "How long each producer takes")
	cmd.Flags().BoolVar(&fail, "fail", false, "Make B's producer fail")

	return cmd
}

func runDemo(ctx context.Context, out io.Writer, delay time.Duration, fail bool) error {
	if ctx == nil {
		ctx = context.Background()
	}
	st := store.New(store.WithName("demo"))

	a := renderstate.New[string](renderstate.WithStore(st), renderstate.WithKey("demo"), renderstate.WithID("A"))
	b := renderstate.New[string](renderstate.WithStore(st), renderstate.WithKey("demo"), renderstate.WithID("B"))
	defer a.Close()
	defer b.Close()

	watch := func(name string, ad *renderstate.Adapter[string]) func() {
		return ad.Subscribe(func() {
			fmt.Fprintf(out, "[%s] %s\n", name, describe(ad))
		})
	}
	defer watch("A", a)()
	defer watch("B", b)()

	fmt.Fprintln(out, "== start ==")
	fmt.Fprintf(out, "[A] %s\n[B] %s\n", describe(a), describe(b))

	fmt.Fprintln(out, "== A.HandleData(first) ==")
	if _, err := a.HandleData(ctx, slowly(delay, "first", nil)); err != nil {
		return err
	}

	var bErr error
	if fail {
		bErr = errors.New("upstream unavailable")
		fmt.Fprintln(out, "== B.HandleData(fails) ==")
	} else {
		fmt.Fprintln(out, "== B.HandleData(second) ==")
	}
	if _, err := b.HandleData(ctx, slowly(delay, "second", bErr)); err != nil {
		if err != bErr {
			return err
		}
		fmt.Fprintf(out, "B returned: %v\n", err)
	}

	fmt.Fprintln(out, "== A.Reset() ==")
	a.Reset()

	fmt.Fprintf(out, "== converged: %v ==\n", describe(a) == describe(b))
	return nil
}

// slowly returns a producer that waits for delay, then yields data or err.
func slowly(delay time.Duration, data string, err error) renderstate.Producer[string] {
	return func(ctx context.Context, _ *string, _ error) (string, error) {
		if delay > 0 {
			t := time.NewTimer(delay)
			defer t.Stop()
			select {
			case <-ctx.Done():
				return "", ctx.Err()
			case <-t.C:
			}
		}
		if err != nil {
			return "", err
		}
		return data, nil
	}
}

// describe renders an adapter as one line of text.
func describe(a *renderstate.Adapter[string]) string {
	previous := func(data *string, err error) string {
		switch {
		case data != nil:
			return " (previous: " + *data + ")"
		case err != nil:
			return " (previous error: " + err.Error() + ")"
		}
		return ""
	}

	out, _ := a.Match(renderstate.Handlers[string]{
		OnIdle: func(pd *string, pe error) any {
			return "idle" + previous(pd, pe)
		},
		OnLoading: func(pd *string, pe error) any {
			return "loading" + previous(pd, pe)
		},
		OnSuccess: func(data string, pd *string, pe error) any {
			return "success: " + data + previous(pd, pe)
		},
		OnError: func(err error, pd *string, pe error) any {
			return "error: " + err.Error() + previous(pd, pe)
		},
	}).(string)
	return out
}
