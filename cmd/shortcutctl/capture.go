package main

import (
	"fmt"

	"github.com/gdamore/tcell/v2"
	"github.com/spf13/cobra"

	"github.com/dshills/shortcuts/internal/app"
	"github.com/dshills/shortcuts/internal/input/key"
	"github.com/dshills/shortcuts/internal/shortcut/actionid"
	"github.com/dshills/shortcuts/internal/shortcut/container"
)

func newCaptureCmd(c *cli) *cobra.Command {
	var (
		module string
		bindTo string
		force  bool
	)

	cmd := &cobra.Command{
		Use:   "capture",
		Short: "Record a key sequence from the terminal",
		Long: `Records up to four chords typed in the terminal and shows which actions
they are bound to. Enter finishes, Esc cancels.

With --set, the recorded key sequence is bound to the given action.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			moduleID, err := moduleArg(module)
			if err != nil {
				return err
			}

			screen, err := tcell.NewScreen()
			if err != nil {
				return app.NewOperationError("capture", "terminal", err)
			}
			if err := screen.Init(); err != nil {
				return app.NewOperationError("capture", "terminal", err)
			}
			ks, ok := captureKeys(screen, c.manager().Shortcuts(), moduleID)
			screen.Fini()

			out := cmd.OutOrStdout()
			if !ok {
				fmt.Fprintln(out, dimStyle.Render("cancelled"))
				return nil
			}
			fmt.Fprintln(out, keysStyle.Render(ks.String()))
			if bindTo != "" {
				return c.bind(out, "capture", bindTo, ks, force)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&module, "module", actionid.TokenSeparator, "module whose bindings are shown")
	cmd.Flags().StringVar(&bindTo, "set", "", "bind the recorded key sequence to this action")
	cmd.Flags().BoolVarP(&force, "force", "f", false, "with --set, unbind conflicting actions")
	return cmd
}

// captureKeys reads chords from an initialized screen until Enter, Esc or
// MaxChords chords. It reports false if nothing was recorded.
func captureKeys(screen tcell.Screen, shortcuts *container.Container, moduleID string) (key.Sequence, bool) {
	var ks key.Sequence
	for {
		drawCapture(screen, ks, boundActions(shortcuts, moduleID, ks))

		switch ev := screen.PollEvent().(type) {
		case nil:
			return ks, !ks.IsEmpty()
		case *tcell.EventResize:
			screen.Sync()
		case *tcell.EventKey:
			switch ev.Key() {
			case tcell.KeyEscape:
				return key.Sequence{}, false
			case tcell.KeyEnter:
				return ks, !ks.IsEmpty()
			}
			ch := key.FromTcell(ev)
			if ch.IsEmpty() {
				continue
			}
			next, ok := ks.Append(ch)
			if !ok {
				return ks, true
			}
			ks = next
			if ks.Len() == key.MaxChords {
				return ks, true
			}
		}
	}
}

// boundActions returns the actions holding ks in the module and in root.
func boundActions(shortcuts *container.Container, moduleID string, ks key.Sequence) []string {
	if ks.IsEmpty() {
		return nil
	}
	modules := []string{actionid.RootModuleID}
	if moduleID != actionid.RootModuleID {
		modules = append(modules, moduleID)
	}
	var bound []string
	for _, m := range modules {
		if id, ok := shortcuts.ActionAt(m, ks); ok {
			bound = append(bound, actionid.Make(m, id))
		}
	}
	return bound
}

func drawCapture(screen tcell.Screen, ks key.Sequence, bound []string) {
	screen.Clear()
	dim := tcell.StyleDefault.Foreground(tcell.ColorGray)
	bold := tcell.StyleDefault.Bold(true)

	drawText(screen, 0, 0, dim, "Type a key sequence. Enter to finish, Esc to cancel.")
	drawText(screen, 0, 2, bold, "Keys: "+keysText(ks))
	if len(bound) == 0 && !ks.IsEmpty() {
		drawText(screen, 0, 3, dim, "not bound")
	}
	for i, id := range bound {
		drawText(screen, 0, 3+i, tcell.StyleDefault.Foreground(tcell.ColorRed), "bound to "+id)
	}
	screen.Show()
}

func drawText(screen tcell.Screen, x, y int, style tcell.Style, text string) {
	for _, r := range text {
		screen.SetContent(x, y, r, nil, style)
		x++
	}
}
