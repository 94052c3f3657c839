package drivers

import (
	"fmt"
	"os/exec"
)

// ExecPlayer plays WAV clips by shelling out to a system player. aplay ships
// with ALSA on the Pi images the crawler runs; Player can be overridden for
// other systems.
type ExecPlayer struct {
	Player string // Binary to invoke; defaults to aplay
}

// NewExecPlayer creates a player using the default system binary.
func NewExecPlayer() *ExecPlayer {
	return &ExecPlayer{Player: "aplay"}
}

// Play plays the clip synchronously and returns any player failure.
func (p *ExecPlayer) Play(clip string) error {
	player := p.Player
	if player == "" {
		player = "aplay"
	}

	cmd := exec.Command(player, "-q", clip)
	if out, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("audio: %s %s: %w (%s)", player, clip, err, out)
	}
	return nil
}
