package main

import (
	"errors"
	"fmt"
	"io"

	flag "github.com/spf13/pflag"
)

// commonFlags holds flags shared across commands.
type commonFlags struct {
	config  string
	quiet   bool
	verbose bool
}

// engineFlags override render settings for commands that launch engines.
type engineFlags struct {
	workers int
	timeout string
}

// renderFlags holds flags for the render command.
type renderFlags struct {
	common   commonFlags
	engine   engineFlags
	output   string
	html     bool
	htmlOnly bool
	keep     bool
}

// serveFlags holds flags for the serve command.
type serveFlags struct {
	common commonFlags
	engine engineFlags
	addr   string
}

// doctorFlags holds flags for the doctor command.
type doctorFlags struct {
	common commonFlags
	json   bool
}

// mcpFlags holds flags for the mcp command.
type mcpFlags struct {
	common commonFlags
	engine engineFlags
}

func addCommonFlags(fs *flag.FlagSet, f *commonFlags) {
	fs.StringVarP(&f.config, "config", "c", "", "config file name or path")
	fs.BoolVarP(&f.quiet, "quiet", "q", false, "only show errors")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "debug logging and timing")
}

func addEngineFlags(fs *flag.FlagSet, f *engineFlags) {
	fs.IntVarP(&f.workers, "workers", "w", 0, "concurrent renders (0 = auto)")
	fs.StringVarP(&f.timeout, "timeout", "t", "", "per-tier timeout (e.g., 30s, 2m)")
}

func newFlagSet(name string, stderr io.Writer, usage func(io.Writer)) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() { usage(stderr) }
	return fs
}

func parseRenderFlags(args []string, stderr io.Writer) (*renderFlags, []string, error) {
	f := &renderFlags{}
	fs := newFlagSet("render", stderr, printRenderUsage)

	fs.StringVarP(&f.output, "output", "o", "", "output file or directory")
	fs.BoolVar(&f.html, "html", false, "also write the assembled HTML next to the PDF")
	fs.BoolVar(&f.htmlOnly, "html-only", false, "write only the assembled HTML, skip the engine")
	fs.BoolVar(&f.keep, "keep-markup", false, "leave the engine's temp markup file on disk")
	addCommonFlags(fs, &f.common)
	addEngineFlags(fs, &f.engine)

	if err := parse(fs, args); err != nil {
		return nil, nil, err
	}
	return f, fs.Args(), nil
}

func parseServeFlags(args []string, stderr io.Writer) (*serveFlags, error) {
	f := &serveFlags{}
	fs := newFlagSet("serve", stderr, printServeUsage)

	fs.StringVarP(&f.addr, "addr", "a", "", "listen address (default from config, :8080)")
	addCommonFlags(fs, &f.common)
	addEngineFlags(fs, &f.engine)

	if err := parse(fs, args); err != nil {
		return nil, err
	}
	return f, nil
}

func parseDoctorFlags(args []string, stderr io.Writer) (*doctorFlags, error) {
	f := &doctorFlags{}
	fs := newFlagSet("doctor", stderr, printDoctorUsage)

	fs.BoolVar(&f.json, "json", false, "print the result as JSON")
	addCommonFlags(fs, &f.common)

	if err := parse(fs, args); err != nil {
		return nil, err
	}
	return f, nil
}

func parseMCPFlags(args []string, stderr io.Writer) (*mcpFlags, error) {
	f := &mcpFlags{}
	fs := newFlagSet("mcp", stderr, printMCPUsage)

	addCommonFlags(fs, &f.common)
	addEngineFlags(fs, &f.engine)

	if err := parse(fs, args); err != nil {
		return nil, err
	}
	return f, nil
}

// parse parses args, marking errors other than --help as usage errors.
func parse(fs *flag.FlagSet, args []string) error {
	err := fs.Parse(args)
	if err == nil || errors.Is(err, flag.ErrHelp) {
		return err
	}
	return fmt.Errorf("%w: %v", errUsage, err)
}

// hasVerboseFlag reports whether -v or --verbose appears before any "--".
// Used before subcommand parsing to configure GOMAXPROCS logging.
func hasVerboseFlag(args []string) bool {
	for _, a := range args {
		switch a {
		case "--":
			return false
		case "-v", "--verbose":
			return true
		}
	}
	return false
}
