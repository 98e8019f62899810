package cli

import (
	"errors"
	"fmt"
	"strconv"
)

var (
	errActionRequired = errors.New("action is required")
	errUnknownAction  = errors.New("unknown action")
	errWrongArgCount  = errors.New("wrong number of arguments")
	errInvalidID      = errors.New("invalid id")
)

// splitAction splits "<action> <args...>" and checks the argument count
// against want, which maps each known action to its arity.
func splitAction(args []string, want map[string]int) (string, []string, error) {
	if len(args) == 0 {
		return "", nil, errActionRequired
	}

	action, rest := args[0], args[1:]

	n, ok := want[action]
	if !ok {
		return "", nil, fmt.Errorf("%w: %s", errUnknownAction, action)
	}

	if len(rest) != n {
		return "", nil, fmt.Errorf("%w: %s takes %d, got %d", errWrongArgCount, action, n, len(rest))
	}

	return action, rest, nil
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", errInvalidID, s)
	}

	return id, nil
}

func printExists(o *IO, exists bool) {
	if exists {
		o.Println("exists")
	} else {
		o.Println("absent")
	}
}
