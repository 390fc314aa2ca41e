package skills

import (
	"fmt"
	log "log/slog"
	"os/exec"
)

// Power changes machine power state through systemd. The announcement is
// spoken before the command runs; there is no speaking after a poweroff.
type Power struct {
	speaker Speaker
	run     func(name string, args ...string) error
}

func NewPower(speaker Speaker) *Power {
	return &Power{
		speaker: speaker,
		run: func(name string, args ...string) error {
			return exec.Command(name, args...).Run()
		},
	}
}

func (p *Power) exec(announce, name string, args ...string) error {
	p.speaker.Speak(announce)
	if err := p.run(name, args...); err != nil {
		log.Error("Power command failed", "cmd", name, "args", args, "err", err)
		p.speaker.Speak("That power command failed.")
		return fmt.Errorf("%s %v: %w", name, args, err)
	}
	return nil
}

func (p *Power) Shutdown() error {
	return p.exec("Shutting down the system.", "systemctl", "poweroff")
}

func (p *Power) Restart() error {
	return p.exec("Restarting the system.", "systemctl", "reboot")
}

func (p *Power) Suspend() error {
	return p.exec("Suspending the system.", "systemctl", "suspend")
}

func (p *Power) Lock() error {
	return p.exec("Locking the screen.", "loginctl", "lock-session")
}
