// Package c4i speaks the Connect-4 Interface: a line-oriented text protocol
// through which a driver sets up a position and asks the engine for a move.
package c4i

import (
	"connect4/game"
	"connect4/searcher"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

var (
	ErrExpectedArgument = errors.New("additional expected argument was not found")
	ErrUnknownCommand   = errors.New("invalid command")
	ErrUnknownArgument  = errors.New("invalid argument")
	ErrInvalidNumber    = errors.New("invalid number")
)

type CommandType int

const (
	C4I CommandType = iota
	IsReady
	Exit
	Stop
	GoInfinite
	GoTime
	StartPosition
	CustomPosition
	SetTurn
)

// Command is a parsed input line. Only the fields of its type are set.
type Command struct {
	Type   CommandType
	Budget time.Duration // GoTime
	Red    game.BitBoard // CustomPosition
	Yellow game.BitBoard // CustomPosition
	Turn   game.Player   // SetTurn
}

func ParseCommand(line string) (Command, error) {
	args := strings.Fields(line)
	if len(args) == 0 {
		return Command{}, ErrExpectedArgument
	}

	switch args[0] {
	case "c4i":
		return Command{Type: C4I}, nil
	case "isready":
		return Command{Type: IsReady}, nil
	case "exit":
		return Command{Type: Exit}, nil
	case "stop":
		return Command{Type: Stop}, nil
	case "go":
		return parseGo(args[1:])
	case "position":
		return parsePosition(args[1:])
	case "setoption":
		return parseSetOption(args[1:])
	default:
		return Command{}, fmt.Errorf("%w: %s", ErrUnknownCommand, args[0])
	}
}

func parseGo(args []string) (Command, error) {
	if len(args) == 0 {
		return Command{Type: GoInfinite}, nil
	}
	switch args[0] {
	case "infinite":
		return Command{Type: GoInfinite}, nil
	case "time":
		if len(args) < 2 {
			return Command{}, ErrExpectedArgument
		}
		micros, err := parseUint(args[1])
		if err != nil {
			return Command{}, err
		}
		return Command{Type: GoTime, Budget: microseconds(micros)}, nil
	default:
		return Command{}, fmt.Errorf("%w: %s", ErrUnknownArgument, args[0])
	}
}

func parsePosition(args []string) (Command, error) {
	if len(args) == 0 {
		return Command{}, ErrExpectedArgument
	}
	switch args[0] {
	case "startpos":
		return Command{Type: StartPosition}, nil
	case "custom":
		if len(args) < 3 {
			return Command{}, ErrExpectedArgument
		}
		red, err := parseUint(args[1])
		if err != nil {
			return Command{}, err
		}
		yellow, err := parseUint(args[2])
		if err != nil {
			return Command{}, err
		}
		return Command{Type: CustomPosition, Red: game.BitBoard(red), Yellow: game.BitBoard(yellow)}, nil
	default:
		return Command{}, fmt.Errorf("%w: %s", ErrUnknownArgument, args[0])
	}
}

func parseSetOption(args []string) (Command, error) {
	if len(args) == 0 {
		return Command{}, ErrExpectedArgument
	}
	switch args[0] {
	case "turn":
		if len(args) < 2 {
			return Command{}, ErrExpectedArgument
		}
		player, err := game.ParsePlayer(args[1])
		if err != nil {
			return Command{}, fmt.Errorf("%w: %s", ErrUnknownArgument, args[1])
		}
		return Command{Type: SetTurn, Turn: player}, nil
	default:
		return Command{}, fmt.Errorf("%w: %s", ErrUnknownArgument, args[0])
	}
}

// microseconds converts a budget, saturating at searcher.Infinite when it
// does not fit in a time.Duration.
func microseconds(micros uint64) time.Duration {
	if micros > uint64(math.MaxInt64/int64(time.Microsecond)) {
		return searcher.Infinite
	}
	return time.Duration(micros) * time.Microsecond
}

func parseUint(s string) (uint64, error) {
	n, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %s", ErrInvalidNumber, s)
	}
	return n, nil
}
