package services

import (
	"bytes"
	"fmt"
	"os/exec"
)

var clipboardCommands = [][]string{
	{"pbcopy"},
	{"xclip", "-selection", "clipboard"},
	{"wl-copy"},
	{"clip.exe"},
}

// CopyToClipboard writes text to the first clipboard tool found on PATH.
func CopyToClipboard(text string) error {
	cmd, err := selectClipboardCommand(exec.LookPath)
	if err != nil {
		return err
	}
	c := exec.Command(cmd[0], cmd[1:]...)
	c.Stdin = bytes.NewBufferString(text)
	if err := c.Run(); err != nil {
		return fmt.Errorf("%s failed: %w", cmd[0], err)
	}
	return nil
}

func selectClipboardCommand(lookup func(string) (string, error)) ([]string, error) {
	for _, c := range clipboardCommands {
		if _, err := lookup(c[0]); err == nil {
			return c, nil
		}
	}
	return nil, fmt.Errorf("no clipboard command available")
}
