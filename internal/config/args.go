package config

import (
	"fmt"
	"strconv"
	"strings"
)

// Usage lists the positional arguments in order.
const Usage = "<obj directory> <output directory> <metadata directory> <skip individual renders> <full samples> " +
	"<ortho scale> <resolution width> <resolution height> <camera x> <camera y> <camera z>"

const numArgs = 11

// ArgumentError reports malformed or insufficient process arguments.
type ArgumentError struct {
	Arg string
	Msg string
}

func (e *ArgumentError) Error() string {
	if e.Arg == "" {
		return "config: " + e.Msg
	}
	return fmt.Sprintf("config: argument %s: %s", e.Arg, e.Msg)
}

// Params holds the positional run parameters. The camera and resolution
// values are the whole-scene defaults; per-structure renders override them.
type Params struct {
	ObjDir      string
	OutputDir   string
	MetadataDir string

	SkipIndividualRenders bool
	FullSamples           bool

	OrthoScale       float64
	ResolutionWidth  int
	ResolutionHeight int
	CameraX          float64
	CameraY          float64
	CameraZ          float64
}

// ParseBool treats true, 1, t, y and yes (any case) as true and everything
// else as false.
func ParseBool(s string) bool {
	switch strings.ToLower(s) {
	case "true", "1", "t", "y", "yes":
		return true
	}
	return false
}

// ParseArgs parses the positional arguments. Extra arguments are ignored.
func ParseArgs(args []string) (Params, error) {
	if len(args) < numArgs {
		return Params{}, &ArgumentError{Msg: fmt.Sprintf("expected %d arguments, got %d; usage: %s", numArgs, len(args), Usage)}
	}

	p := Params{
		ObjDir:                args[0],
		OutputDir:             args[1],
		MetadataDir:           args[2],
		SkipIndividualRenders: ParseBool(args[3]),
		FullSamples:           ParseBool(args[4]),
	}
	for i, name := range []string{"obj directory", "output directory", "metadata directory"} {
		if strings.TrimSpace(args[i]) == "" {
			return Params{}, &ArgumentError{Arg: name, Msg: "must not be empty"}
		}
	}

	var err error
	if p.OrthoScale, err = parseFloat("ortho scale", args[5]); err != nil {
		return Params{}, err
	}
	if p.ResolutionWidth, err = parseDim("resolution width", args[6]); err != nil {
		return Params{}, err
	}
	if p.ResolutionHeight, err = parseDim("resolution height", args[7]); err != nil {
		return Params{}, err
	}
	if p.CameraX, err = parseFloat("camera x", args[8]); err != nil {
		return Params{}, err
	}
	if p.CameraY, err = parseFloat("camera y", args[9]); err != nil {
		return Params{}, err
	}
	if p.CameraZ, err = parseFloat("camera z", args[10]); err != nil {
		return Params{}, err
	}

	return p, nil
}

func parseFloat(name, raw string) (float64, error) {
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, &ArgumentError{Arg: name, Msg: fmt.Sprintf("%q is not a number", raw)}
	}
	return v, nil
}

func parseDim(name, raw string) (int, error) {
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, &ArgumentError{Arg: name, Msg: fmt.Sprintf("%q is not an integer", raw)}
	}
	if v <= 0 {
		return 0, &ArgumentError{Arg: name, Msg: fmt.Sprintf("must be positive, got %d", v)}
	}
	return v, nil
}
