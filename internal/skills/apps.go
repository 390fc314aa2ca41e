package skills

import (
	"fmt"
	log "log/slog"
	"os"
	"os/exec"
)

// Apps launches desktop applications from the configured executable
// paths. Unknown or missing applications are spoken, not errored; the
// user asked for something the machine doesn't have.
type Apps struct {
	paths   map[string]string
	speaker Speaker
}

func NewApps(paths map[string]string, speaker Speaker) *Apps {
	return &Apps{paths: paths, speaker: speaker}
}

// Open starts the executable registered under key. The process is
// detached; the assistant does not wait for it.
func (a *Apps) Open(key, name string) error {
	path := a.paths[key]
	if path == "" {
		a.speaker.Speak(name + " is not configured on your system.")
		return nil
	}
	if _, err := os.Stat(path); err != nil {
		log.Warn("App executable missing", "app", key, "path", path)
		a.speaker.Speak(name + " was not found on your system.")
		return nil
	}

	cmd := exec.Command(path)
	if err := cmd.Start(); err != nil {
		a.speaker.Speak("Error opening " + name + ".")
		return fmt.Errorf("start %s: %w", key, err)
	}
	go cmd.Wait() // reap

	log.Info("Launched application", "app", key)
	a.speaker.Speak("Opening " + name + ".")
	return nil
}
