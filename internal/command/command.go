package command

// Command categories. Mirror the skill packages they dispatch into.
const (
	CategoryApps          = "apps"
	CategoryBrowser       = "browser"
	CategoryMedia         = "media"
	CategorySystem        = "system"
	CategoryPower         = "power"
	CategoryFiles         = "files"
	CategoryCommunication = "communication"
)

// Handler is an action bound to a command definition. Call receives the
// normalized command text; handlers that need no argument ignore it.
type Handler interface {
	Call(arg string) error
}

// Func adapts a zero-argument action.
type Func func() error

func (f Func) Call(string) error { return f() }

// FuncArg adapts an action that consumes the command text.
type FuncArg func(arg string) error

func (f FuncArg) Call(arg string) error { return f(arg) }

// Definition describes one voice command: its trigger phrases, the action
// to run and how to call it. Registered once at startup, immutable after.
type Definition struct {
	Patterns    []string
	Handler     Handler
	Description string
	Category    string
	RequiresArg bool
}

// Result is the outcome of matching one utterance against the registry.
// Score is 1.0 for exact substring hits, the best fuzzy ratio otherwise.
type Result struct {
	Command *Definition
	Score   float64
}

// Matched reports whether a command was resolved.
func (r Result) Matched() bool { return r.Command != nil }
