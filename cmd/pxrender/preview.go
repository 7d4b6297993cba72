package main

import (
	"github.com/gdamore/tcell/v2"

	"github.com/gogpu/pixelsrc"
)

// upperHalf draws the top pixel of a cell as foreground and the bottom one
// as background.
const upperHalf = '▀'

// runPreview shows each sprite in the terminal, two pixel rows per text
// row. n or space shows the next sprite, p the previous, q or Esc quits.
func runPreview(sprites []*pixelsrc.Result) error {
	if len(sprites) == 0 {
		return nil
	}
	screen, err := tcell.NewScreen()
	if err != nil {
		return err
	}
	if err := screen.Init(); err != nil {
		return err
	}
	defer screen.Fini()

	i := 0
	for {
		drawSprite(screen, sprites[i])
		screen.Show()

		switch ev := screen.PollEvent().(type) {
		case *tcell.EventResize:
			screen.Sync()
		case *tcell.EventKey:
			switch {
			case ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC:
				return nil
			case ev.Key() == tcell.KeyRune && ev.Rune() == 'q':
				return nil
			case ev.Key() == tcell.KeyRune && (ev.Rune() == 'n' || ev.Rune() == ' '):
				i = (i + 1) % len(sprites)
			case ev.Key() == tcell.KeyRune && ev.Rune() == 'p':
				i = (i + len(sprites) - 1) % len(sprites)
			}
		}
	}
}

func drawSprite(screen tcell.Screen, s *pixelsrc.Result) {
	screen.Clear()
	title := s.Name
	for x, r := range []rune(title) {
		screen.SetContent(x, 0, r, nil, tcell.StyleDefault.Bold(true))
	}

	pm := s.Pixmap
	for y := 0; y < pm.Height(); y += 2 {
		for x := 0; x < pm.Width(); x++ {
			style := tcell.StyleDefault.
				Foreground(cellColor(pm.GetPixel(x, y))).
				Background(cellColor(pm.GetPixel(x, y+1)))
			screen.SetContent(x, 1+y/2, upperHalf, nil, style)
		}
	}
}

// cellColor maps a pixel to a terminal color; transparent pixels show the
// terminal's default.
func cellColor(c pixelsrc.Color) tcell.Color {
	if c.A < 128 {
		return tcell.ColorDefault
	}
	return tcell.NewRGBColor(int32(c.R), int32(c.G), int32(c.B))
}
