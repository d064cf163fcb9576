// Package console is a small line interpreter for poking at a running
// staff: `knob1 = 0.3`, `note = 64`, `freq = 440`, `clear`, or a bare name
// to print its value.
package console

import (
	"fmt"
	"io"
	"sort"
	"strconv"
	"sync"
	"unicode"

	"github.com/c-bata/go-prompt"
)

// Action is an assignment or command waiting for the frame loop.
type Action struct {
	Name  string
	Value float64
}

type variable struct {
	help     string
	min, max float64
}

var variables = map[string]variable{
	"knob1": {"detection sensitivity", 0, 1},
	"knob2": {"note size", 0, 1},
	"knob3": {"staff position", 0, 1},
	"knob4": {"foreground colour", 0, 1},
	"knob5": {"background colour", 0, 1},
	"note":  {"tone MIDI note", 0, 127},
	"freq":  {"tone frequency in Hz", 1, 20000},
}

var commands = map[string]string{
	"clear": "forget the note history",
	"help":  "list what can be set",
}

type Console struct {
	lk      sync.Mutex
	vals    map[string]float64
	pending []Action

	out io.Writer
}

func New(out io.Writer) *Console {
	return &Console{
		vals: make(map[string]float64),
		out:  out,
	}
}

// Set publishes the current value of a variable so a bare lookup prints
// it.
func (c *Console) Set(name string, v float64) {
	c.lk.Lock()
	defer c.lk.Unlock()
	c.vals[name] = v
}

func (c *Console) Lookup(name string) (float64, bool) {
	c.lk.Lock()
	defer c.lk.Unlock()
	v, ok := c.vals[name]
	return v, ok
}

// Drain returns the actions queued since the last call, oldest first.
func (c *Console) Drain() []Action {
	c.lk.Lock()
	defer c.lk.Unlock()
	out := c.pending
	c.pending = nil
	return out
}

func (c *Console) push(a Action) {
	c.lk.Lock()
	defer c.lk.Unlock()
	c.pending = append(c.pending, a)
	if _, ok := variables[a.Name]; ok {
		c.vals[a.Name] = a.Value
	}
}

func (c *Console) ProcessCmd(line string) error {
	tokens, err := tokenize(line)
	if err != nil {
		return err
	}

	switch {
	case len(tokens) == 0:
		return nil
	case len(tokens) == 1:
		return c.single(tokens[0])
	case len(tokens) == 3 && tokens[1] == "=":
		return c.assign(tokens[0], tokens[2])
	}
	return fmt.Errorf("unknown command type (%#v)", tokens)
}

func (c *Console) single(name string) error {
	if name == "help" {
		for _, s := range suggestions() {
			fmt.Fprintf(c.out, "%-6s %s\n", s.Text, s.Description)
		}
		return nil
	}
	if _, ok := commands[name]; ok {
		c.push(Action{Name: name})
		return nil
	}

	if _, ok := variables[name]; !ok {
		return fmt.Errorf("unknown reference %q", name)
	}
	v, ok := c.Lookup(name)
	if !ok {
		fmt.Fprintf(c.out, "%s is unset\n", name)
		return nil
	}
	fmt.Fprintf(c.out, "%s = %g\n", name, v)
	return nil
}

func (c *Console) assign(name, val string) error {
	vr, ok := variables[name]
	if !ok {
		return fmt.Errorf("unknown reference %q", name)
	}
	v, err := strconv.ParseFloat(val, 64)
	if err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	if v < vr.min || v > vr.max {
		return fmt.Errorf("%s must be within [%g, %g]", name, vr.min, vr.max)
	}
	c.push(Action{Name: name, Value: v})
	return nil
}

func tokenize(s string) ([]string, error) {
	var out []string
	var wordstart int
	inword := false
	runes := []rune(s)
	for i := 0; i < len(runes); i++ {
		switch r := runes[i]; {
		case unicode.IsLetter(r) || unicode.IsDigit(r) || r == '.' || r == '-':
			if !inword {
				inword = true
				wordstart = i
			}
		case unicode.IsSpace(r):
			if inword {
				out = append(out, string(runes[wordstart:i]))
				inword = false
			}
		case r == '=':
			if inword {
				out = append(out, string(runes[wordstart:i]))
				inword = false
			}
			out = append(out, string(r))
		default:
			return nil, fmt.Errorf("invalid character at index %d: %q", i, r)
		}
	}
	if inword {
		out = append(out, string(runes[wordstart:]))
	}

	return out, nil
}

func suggestions() []prompt.Suggest {
	var out []prompt.Suggest
	for name, v := range variables {
		out = append(out, prompt.Suggest{Text: name, Description: v.help})
	}
	for name, help := range commands {
		out = append(out, prompt.Suggest{Text: name, Description: help})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Text < out[j].Text })
	return out
}

// Complete offers variable and command names for the word being typed.
func (c *Console) Complete(d prompt.Document) []prompt.Suggest {
	return prompt.FilterHasPrefix(suggestions(), d.GetWordBeforeCursor(), true)
}

// Run reads lines from the terminal until the user types exit, then calls
// quit.
func (c *Console) Run(quit func()) {
	for {
		t := prompt.Input("> ", c.Complete)
		if t == "exit" {
			quit()
			return
		}
		if err := c.ProcessCmd(t); err != nil {
			fmt.Fprintln(c.out, "ERROR: ", err)
		}
	}
}
