package explorer

import (
	key "github.com/charmbracelet/bubbles/key"

	"mriexplore/pkg/compositor"
)

// keyMap binds the explorer controls. Bindings that do not apply to the
// current mode are disabled so the help line only advertises live keys and
// key.Matches ignores them.
type keyMap struct {
	Up        key.Binding
	Down      key.Binding
	Left      key.Binding
	Right     key.Binding
	JumpLeft  key.Binding
	JumpRight key.Binding
	Colormap  key.Binding
	Thicker   key.Binding
	Thinner   key.Binding
	Window    key.Binding
	Export    key.Binding
	Help      key.Binding
	Quit      key.Binding
}

func newKeyMap(mode compositor.Mode) keyMap {
	k := keyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "previous slider"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "next slider"),
		),
		Left: key.NewBinding(
			key.WithKeys("left", "h"),
			key.WithHelp("←/h", "decrease"),
		),
		Right: key.NewBinding(
			key.WithKeys("right", "l"),
			key.WithHelp("→/l", "increase"),
		),
		JumpLeft: key.NewBinding(
			key.WithKeys("shift+left"),
			key.WithHelp("shift+←", "decrease by 10"),
		),
		JumpRight: key.NewBinding(
			key.WithKeys("shift+right"),
			key.WithHelp("shift+→", "increase by 10"),
		),
		Colormap: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "cycle colormap"),
		),
		Thicker: key.NewBinding(
			key.WithKeys("+", "="),
			key.WithHelp("+", "thicker contours"),
		),
		Thinner: key.NewBinding(
			key.WithKeys("-", "_"),
			key.WithHelp("-", "thinner contours"),
		),
		Window: key.NewBinding(
			key.WithKeys("w"),
			key.WithHelp("w", "toggle intensity window"),
		),
		Export: key.NewBinding(
			key.WithKeys("e"),
			key.WithHelp("e", "export snapshot"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}

	multiSlider := mode == compositor.ModeContour || mode == compositor.ModeBlend
	k.Up.SetEnabled(multiSlider)
	k.Down.SetEnabled(multiSlider)

	mapped := mode == compositor.ModePlain || mode == compositor.ModeCompare
	k.Colormap.SetEnabled(mapped)
	k.Window.SetEnabled(mapped)

	contour := mode == compositor.ModeContour
	k.Thicker.SetEnabled(contour)
	k.Thinner.SetEnabled(contour)

	return k
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{
		k.Left, k.Right, k.Up, k.Down,
		k.Colormap, k.Window, k.Thicker,
		k.Export, k.Help, k.Quit,
	}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Left, k.Right},
		{k.JumpLeft, k.JumpRight},
		{k.Colormap, k.Window, k.Thicker, k.Thinner},
		{k.Export, k.Help, k.Quit},
	}
}
