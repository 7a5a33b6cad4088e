package tts

// Console is the degraded speech output for platforms without a usable
// engine: the assistant's lines are already printed by the dialogue loop,
// so speaking is a no-op.
type Console struct{}

func (c *Console) Speak(string) error { return nil }
