package main

import (
	"fmt"
	"io"
)

// printUsage prints the main usage message.
func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: docrender <command> [flags] [args]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  render     Render design documents to PDF")
	fmt.Fprintln(w, "  serve      Start the HTTP render server")
	fmt.Fprintln(w, "  doctor     Check the render engine and pipeline on this host")
	fmt.Fprintln(w, "  mcp        Serve render tools over MCP (stdio)")
	fmt.Fprintln(w, "  version    Show version information")
	fmt.Fprintln(w, "  help       Show help for a command")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Run 'docrender help <command>' for details on a specific command.")
}

func printCommonUsage(w io.Writer) {
	fmt.Fprintln(w, "Common:")
	fmt.Fprintln(w, "  -c, --config <name>       Config file name or path (env DOCRENDER_CONFIG)")
	fmt.Fprintln(w, "  -q, --quiet               Only show errors")
	fmt.Fprintln(w, "  -v, --verbose             Debug logging and timing")
}

func printEngineUsage(w io.Writer) {
	fmt.Fprintln(w, "Engine:")
	fmt.Fprintln(w, "  -w, --workers <n>         Concurrent renders (0 = auto, max 64)")
	fmt.Fprintln(w, "  -t, --timeout <d>         Per-tier timeout (e.g., 30s, 2m)")
}

// printRenderUsage prints usage for the render command.
func printRenderUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: docrender render <input>... [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Render design documents (JSON or YAML) to PDF.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Arguments:")
	fmt.Fprintln(w, "  input    Document files or directories (.json, .yaml, .yml)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Output:")
	fmt.Fprintln(w, "  -o, --output <path>       Output file (single input) or directory")
	fmt.Fprintln(w, "      --html                Also write the assembled HTML")
	fmt.Fprintln(w, "      --html-only           Write only the assembled HTML, no engine")
	fmt.Fprintln(w, "      --keep-markup         Keep the engine's temp markup file")
	fmt.Fprintln(w)
	printEngineUsage(w)
	fmt.Fprintln(w)
	printCommonUsage(w)
}

// printServeUsage prints usage for the serve command.
func printServeUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: docrender serve [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Serve POST /api/render and GET /api/health.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Server:")
	fmt.Fprintln(w, "  -a, --addr <addr>         Listen address (env DOCRENDER_ADDR, default :8080)")
	fmt.Fprintln(w)
	printEngineUsage(w)
	fmt.Fprintln(w)
	printCommonUsage(w)
}

// printDoctorUsage prints usage for the doctor command.
func printDoctorUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: docrender doctor [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Report engine discovery, container/CI detection and pipeline health.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "      --json                Print the result as JSON")
	fmt.Fprintln(w)
	printCommonUsage(w)
}

// printMCPUsage prints usage for the mcp command.
func printMCPUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: docrender mcp [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Serve the render_document and health_check tools over stdio.")
	fmt.Fprintln(w)
	printEngineUsage(w)
	fmt.Fprintln(w)
	printCommonUsage(w)
}

// runHelp prints help for a specific command.
func runHelp(args []string, env *Environment) {
	if len(args) == 0 {
		printUsage(env.Stdout)
		return
	}

	switch args[0] {
	case "render":
		printRenderUsage(env.Stdout)
	case "serve":
		printServeUsage(env.Stdout)
	case "doctor":
		printDoctorUsage(env.Stdout)
	case "mcp":
		printMCPUsage(env.Stdout)
	case "version":
		fmt.Fprintln(env.Stdout, "Usage: docrender version")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show version information.")
	case "help":
		fmt.Fprintln(env.Stdout, "Usage: docrender help [command]")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show help for a command.")
	default:
		fmt.Fprintf(env.Stderr, "Unknown command: %s\n", args[0])
		printUsage(env.Stderr)
	}
}
