package migration

import (
	"fmt"
	"strconv"
)

// Runner is the set of operations a Command can drive
type Runner interface {
	Up() error
	Down() error
	Steps(n int) error
	GoTo(version uint) error
	Force(version int) error
	Version() (uint, bool, error)
}

// Command is a parsed migrate CLI invocation
type Command struct {
	Name string
	N    int
}

// ParseCommand parses "up", "down", "steps N", "goto V", "version" and "force V"
func ParseCommand(args []string) (Command, error) {
	if len(args) == 0 {
		return Command{}, fmt.Errorf("missing command")
	}
	cmd := Command{Name: args[0]}
	switch cmd.Name {
	case "up", "down", "version":
		return cmd, nil
	case "steps", "goto", "force":
		if len(args) < 2 {
			return Command{}, fmt.Errorf("%s requires a number", cmd.Name)
		}
		n, err := strconv.Atoi(args[1])
		if err != nil {
			return Command{}, fmt.Errorf("%s: invalid number %q", cmd.Name, args[1])
		}
		if cmd.Name == "goto" && n < 0 {
			return Command{}, fmt.Errorf("goto: version must not be negative")
		}
		if cmd.Name == "steps" && n == 0 {
			return Command{}, fmt.Errorf("steps: n must not be zero")
		}
		cmd.N = n
		return cmd, nil
	default:
		return Command{}, fmt.Errorf("unknown command %q", cmd.Name)
	}
}

// Execute runs cmd and returns a line describing the resulting version
func Execute(r Runner, cmd Command) (string, error) {
	var err error
	switch cmd.Name {
	case "up":
		err = r.Up()
	case "down":
		err = r.Down()
	case "steps":
		err = r.Steps(cmd.N)
	case "goto":
		err = r.GoTo(uint(cmd.N))
	case "force":
		err = r.Force(cmd.N)
	case "version":
	default:
		return "", fmt.Errorf("unknown command %q", cmd.Name)
	}
	if err != nil {
		return "", err
	}
	version, dirty, err := r.Version()
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("version %d (dirty=%t)", version, dirty), nil
}
