package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/gdamore/tcell/v2"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"gesso/document"
	"gesso/terminal"
)

func newEditCmd(a *app) *cobra.Command {
	var create bool

	cmd := &cobra.Command{
		Use:   "edit <file>",
		Short: "Open a diagram in the terminal editor",
		Long: `Open a diagram in the terminal editor.

Drag shapes with the mouse to move them, or drag a handle of the selected
shape to resize it. Shift-click adds or removes a shape, and dragging across
empty canvas selects the shapes inside. Click a connector to add a waypoint,
or drag an existing one.

Keys:
  m / t   move or rotate mode
  c       cycle the selected connector's curve type
  g / G   group the selection / ungroup
  u / r   undo / redo
  s       save
  Esc     cancel the current drag
  q       quit`,
		GroupID: "edit",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !term.IsTerminal(int(os.Stdin.Fd())) {
				return errors.New("edit needs an interactive terminal")
			}
			path := args[0]
			d, err := a.loadDocument(path)
			if errors.Is(err, os.ErrNotExist) && create {
				d, err = &document.Document{}, nil
			}
			if err != nil {
				return err
			}

			screen, err := tcell.NewScreen()
			if err != nil {
				return fmt.Errorf("open terminal: %w", err)
			}
			ed := terminal.NewEditor(screen, d, path, a.cfg, a.logger)
			return ed.Run()
		},
	}
	cmd.Flags().BoolVar(&create, "create", false, "start an empty diagram if the file does not exist")
	return cmd
}
