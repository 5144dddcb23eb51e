// Command rkp-tool exercises the remote provisioning trust primitives and
// inspects the trust event logs they write.
//
// Usage:
//
//	rkp-tool <command> [flags] [args]
//
// Commands:
//
//	keygen          Generate an Ed25519 root or identity signing key
//	build-chain     Build a boot certificate chain for a device key
//	validate-chain  Validate a boot certificate chain
//	demo            Run a full provisioning exchange in-process
//	view            View a trust event log in human-readable format
//	export          Export a trust event log to JSONL or CSV
//	filter          Filter a trust event log into a new file
//	stats           Show statistics about a trust event log
//
// Examples:
//
//	# Create a root key and a device identity key
//	rkp-tool keygen root.pem
//	rkp-tool keygen device.pem
//
//	# Build and check a chain, recording events
//	rkp-tool build-chain -config rkp.yaml -root root.pem -o chain.cbor <device-pub-hex>
//	rkp-tool validate-chain -config rkp.yaml chain.cbor
//
//	# Show only rejected verifications
//	rkp-tool view --operation verify --outcome rejected trust.rlog
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/remoteprov/rkp-go/cmd/rkp-tool/commands"
)

const usage = `rkp-tool - Remote Provisioning Trust Tool

Usage:
  rkp-tool <command> [flags] [args]

Commands:
  keygen          Generate an Ed25519 signing key
  build-chain     Build a boot certificate chain for a device key
  validate-chain  Validate a boot certificate chain
  demo            Run a full provisioning exchange in-process
  view            View a trust event log in human-readable format
  export          Export a trust event log to JSONL or CSV
  filter          Filter a trust event log into a new file
  stats           Show statistics about a trust event log

Use "rkp-tool <command> -help" for more information about a command.
`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(1)
	}

	cmd := os.Args[1]
	args := os.Args[2:]

	switch cmd {
	case "keygen":
		runKeygen(args)
	case "build-chain":
		runBuildChain(args)
	case "validate-chain":
		runValidateChain(args)
	case "demo":
		runDemo(args)
	case "view":
		runView(args)
	case "export":
		runExport(args)
	case "filter":
		runFilter(args)
	case "stats":
		runStats(args)
	case "-h", "-help", "--help", "help":
		fmt.Print(usage)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", cmd)
		fmt.Fprint(os.Stderr, usage)
		os.Exit(1)
	}
}

func fail(err error) {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(1)
}

func newFlagSet(name, synopsis, help string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ExitOnError)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "rkp-tool %s - %s\n\nUsage:\n  rkp-tool %s\n\nFlags:\n", name, help, synopsis)
		fs.PrintDefaults()
	}
	return fs
}

func requireArg(fs *flag.FlagSet, what string) string {
	if fs.NArg() < 1 {
		fmt.Fprintf(os.Stderr, "Error: %s required\n", what)
		fs.Usage()
		os.Exit(1)
	}
	return fs.Arg(0)
}

func openEnv(configPath string) *commands.Env {
	env, err := commands.NewEnv(configPath, os.Stderr)
	if err != nil {
		fail(err)
	}
	return env
}

func runKeygen(args []string) {
	fs := newFlagSet("keygen", "keygen <key.pem>", "Generate an Ed25519 signing key")
	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}
	path := requireArg(fs, "key file path")

	if _, err := commands.RunKeygen(path, os.Stdout); err != nil {
		fail(err)
	}
}

func runBuildChain(args []string) {
	fs := newFlagSet("build-chain", "build-chain [flags] <device-pub-hex>", "Build a boot certificate chain")
	configPath := fs.String("config", "", "Configuration file (YAML)")
	root := fs.String("root", "", "Root signing key (PEM, required)")
	output := fs.String("o", "", "Output file (default: hex to stdout)")
	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}
	devicePub := requireArg(fs, "device public key")
	if *root == "" {
		fmt.Fprintln(os.Stderr, "Error: -root is required")
		fs.Usage()
		os.Exit(1)
	}

	env := openEnv(*configPath)
	err := commands.RunBuildChain(env, *root, devicePub, *output, os.Stdout)
	env.Close()
	if err != nil {
		fail(err)
	}
}

func runValidateChain(args []string) {
	fs := newFlagSet("validate-chain", "validate-chain [flags] <chain.cbor>", "Validate a boot certificate chain")
	configPath := fs.String("config", "", "Configuration file (YAML)")
	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}
	path := requireArg(fs, "chain file path")

	env := openEnv(*configPath)
	ok, err := commands.RunValidateChain(env, path, os.Stdout)
	env.Close()
	if err != nil {
		fail(err)
	}
	if !ok {
		os.Exit(2)
	}
}

func runDemo(args []string) {
	fs := newFlagSet("demo", "demo [flags]", "Run a full provisioning exchange in-process")
	configPath := fs.String("config", "", "Configuration file (YAML)")
	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}

	env := openEnv(*configPath)
	err := commands.RunDemo(env, os.Stdout)
	env.Close()
	if err != nil {
		fail(err)
	}
}

func runView(args []string) {
	fs := newFlagSet("view", "view [flags] <trust.rlog>", "View a trust event log in human-readable format")
	operation := fs.String("operation", "", "Filter by operation (derive-send, derive-receive, sign, verify, extract, build-chain, validate-chain)")
	outcome := fs.String("outcome", "", "Filter by outcome (success, rejected, error)")
	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}
	path := requireArg(fs, "log file path")

	var filter commands.ViewFilter
	if *operation != "" {
		op, err := commands.ParseOperationFlag(*operation)
		if err != nil {
			fail(err)
		}
		filter.Operation = &op
	}
	if *outcome != "" {
		o, err := commands.ParseOutcomeFlag(*outcome)
		if err != nil {
			fail(err)
		}
		filter.Outcome = &o
	}

	if err := commands.RunView(path, filter, os.Stdout); err != nil {
		fail(err)
	}
}

func runExport(args []string) {
	fs := newFlagSet("export", "export [flags] <trust.rlog>", "Export a trust event log to JSONL or CSV")
	format := fs.String("format", "jsonl", "Output format (jsonl, csv)")
	output := fs.String("o", "", "Output file (default: stdout)")
	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}
	path := requireArg(fs, "log file path")

	if err := commands.RunExport(path, *format, *output); err != nil {
		fail(err)
	}
}

func runFilter(args []string) {
	fs := newFlagSet("filter", "filter [flags] <trust.rlog>", "Filter a trust event log into a new file")
	output := fs.String("o", "", "Output file (required)")
	opID := fs.String("op-id", "", "Filter by operation ID")
	keyID := fs.String("key-id", "", "Filter by key digest (hex)")
	timeStart := fs.String("time-start", "", "Filter events at or after this time (RFC3339)")
	timeEnd := fs.String("time-end", "", "Filter events before this time (RFC3339)")
	operation := fs.String("operation", "", "Filter by operation")
	outcome := fs.String("outcome", "", "Filter by outcome")
	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}
	path := requireArg(fs, "log file path")
	if *output == "" {
		fmt.Fprintln(os.Stderr, "Error: output file (-o) required")
		fs.Usage()
		os.Exit(1)
	}

	count, err := commands.RunFilter(path, commands.FilterOptions{
		Output:      *output,
		OperationID: *opID,
		KeyID:       *keyID,
		TimeStart:   *timeStart,
		TimeEnd:     *timeEnd,
		Operation:   *operation,
		Outcome:     *outcome,
	})
	if err != nil {
		fail(err)
	}
	fmt.Printf("Filtered %d events to %s\n", count, *output)
}

func runStats(args []string) {
	fs := newFlagSet("stats", "stats <trust.rlog>", "Show statistics about a trust event log")
	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}
	path := requireArg(fs, "log file path")

	if err := commands.RunStats(path, os.Stdout); err != nil {
		fail(err)
	}
}
