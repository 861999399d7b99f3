package game

import "github.com/atotto/clipboard"

// clipboardWrite is swapped out in tests.
var clipboardWrite = clipboard.WriteAll

func setClipboardText(text string) error {
	if text == "" {
		text = " "
	}
	return clipboardWrite(text)
}
