package skills

import (
	"fmt"
	"io/fs"
	log "log/slog"
	"os"
	"path/filepath"
	"strings"

	"matrix/internal/text"
)

// Files performs file operations confined to a workspace root. Anything
// resolving outside the root is refused.
type Files struct {
	root    string
	speaker Speaker
}

func NewFiles(root string, speaker Speaker) *Files {
	return &Files{root: root, speaker: speaker}
}

// resolve joins a spoken name onto the root and rejects path escapes.
func (f *Files) resolve(name string) (string, error) {
	path := filepath.Join(f.root, name)
	if !strings.HasPrefix(path, filepath.Clean(f.root)+string(os.PathSeparator)) {
		return "", fmt.Errorf("path %q escapes the workspace", name)
	}
	return path, nil
}

func (f *Files) CreateFolder(cmdText string) error {
	name := text.ExtractParam(cmdText, "matrix", "create", "make", "new", "folder", "the", "a", "called", "named")
	if name == "" {
		f.speaker.Speak("What should the folder be called?")
		return nil
	}

	path, err := f.resolve(name)
	if err != nil {
		f.speaker.Speak("I can't create a folder there.")
		return err
	}

	if _, err := os.Stat(path); err == nil {
		f.speaker.Speak("A folder named " + name + " already exists.")
		return nil
	}
	if err := os.MkdirAll(path, 0o755); err != nil {
		f.speaker.Speak("Error creating the folder.")
		return fmt.Errorf("mkdir %s: %w", path, err)
	}

	log.Info("Created folder", "path", path)
	f.speaker.Speak("Folder " + name + " created.")
	return nil
}

func (f *Files) DeleteFile(cmdText string) error {
	name := text.ExtractParam(cmdText, "matrix", "delete", "remove", "file", "the", "a")
	if name == "" {
		f.speaker.Speak("Which file should I delete?")
		return nil
	}

	path, err := f.resolve(name)
	if err != nil {
		f.speaker.Speak("I can't delete files outside the workspace.")
		return err
	}

	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		f.speaker.Speak("I could not find a file named " + name + ".")
		return nil
	}
	if err := os.Remove(path); err != nil {
		f.speaker.Speak("Error deleting the file.")
		return fmt.Errorf("remove %s: %w", path, err)
	}

	log.Info("Deleted file", "path", path)
	f.speaker.Speak("File " + name + " deleted.")
	return nil
}

func (f *Files) SearchFiles(cmdText string) error {
	term := text.ExtractParam(cmdText, "matrix", "search", "find", "files", "for", "the", "a")
	if term == "" {
		f.speaker.Speak("What should I search for?")
		return nil
	}

	var matches []string
	err := filepath.WalkDir(f.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil // unreadable entries are skipped
		}
		if d.IsDir() && strings.HasPrefix(d.Name(), ".") && path != f.root {
			return filepath.SkipDir
		}
		if !d.IsDir() && strings.Contains(strings.ToLower(d.Name()), term) {
			matches = append(matches, d.Name())
		}
		return nil
	})
	if err != nil {
		f.speaker.Speak("Error searching for files.")
		return fmt.Errorf("walk %s: %w", f.root, err)
	}

	switch {
	case len(matches) == 0:
		f.speaker.Speak("No files matching " + term + ".")
	case len(matches) <= 3:
		f.speaker.Speak(fmt.Sprintf("Found %d files matching %s: %s.", len(matches), term, strings.Join(matches, ", ")))
	default:
		f.speaker.Speak(fmt.Sprintf("Found %d files matching %s, including %s.", len(matches), term, strings.Join(matches[:3], ", ")))
	}
	return nil
}
