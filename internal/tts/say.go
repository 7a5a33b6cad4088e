package tts

import (
	"fmt"
	"os/exec"
)

// Say shells out to the native macOS `say` command.
type Say struct{}

func (s *Say) Speak(text string) error {
	if text == "" {
		return nil
	}
	if err := exec.Command("say", text).Run(); err != nil {
		return fmt.Errorf("say: %w", err)
	}
	return nil
}
