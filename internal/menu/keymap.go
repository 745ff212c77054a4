package menu

// Key binding constants used in handleKey.
const (
	keyQuit      = "q"
	keyCtrlC     = "ctrl+c"
	keyUp        = "up"
	keyDown      = "down"
	keyK         = "k"
	keyJ         = "j"
	keyEnter     = "enter"
	keyEsc       = "esc"
	keyBackspace = "backspace"
)
