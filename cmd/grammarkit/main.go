/*
Grammarkit compiles grammars written in the project's BNF-like notation and
exercises them against target text.

Usage:

	grammarkit parse [flags] [input-file]
	grammarkit check [flags]
	grammarkit repl [flags]
	grammarkit -v | --version

The "parse" subcommand compiles a grammar file and parses a target file (or
stdin, if no file is given) against a chosen entry rule, printing the
resulting AST. The "check" subcommand compiles a grammar file and reports
success or the first semantic error found, without parsing anything. The
"repl" subcommand starts an interactive loop that recompiles a held grammar
file and parses each line of input typed at the prompt.

The flags, common to all three subcommands, are:

	-g, --grammar FILE
		The grammar source file to compile. Defaults to the value of
		grammar_file in the config file, or "grammar.bnf" if neither is set.

	-r, --rule RULE
		The entry rule to parse or check against. Defaults to the value of
		entry_rule in the config file, or "start" if neither is set.

	-c, --config FILE
		A TOML config file providing defaults for the above. Defaults to
		"grammarkit.toml" in the current directory; it is not an error for
		this file to be missing.
*/
package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/dekarrin/grammarkit"
	"github.com/dekarrin/grammarkit/internal/config"
	"github.com/dekarrin/grammarkit/internal/input"
	"github.com/dekarrin/grammarkit/internal/version"
	"github.com/spf13/pflag"
)

const (
	// ExitSuccess indicates a successful program execution.
	ExitSuccess = iota

	// ExitUsageError indicates bad or missing command-line arguments.
	ExitUsageError

	// ExitInitError indicates a problem loading config or compiling the
	// grammar.
	ExitInitError

	// ExitParseError indicates the target input failed to parse.
	ExitParseError
)

const usage = `Usage:

	grammarkit parse [flags] [input-file]
	grammarkit check [flags]
	grammarkit repl [flags]
	grammarkit -v | --version

Do "grammarkit <subcommand> -h" for flags accepted by a given subcommand.
`

var returnCode = ExitSuccess

func main() {
	defer func() {
		if panicErr := recover(); panicErr != nil {
			panic(fmt.Sprintf("unrecoverable panic occurred: %v", panicErr))
		} else {
			os.Exit(returnCode)
		}
	}()

	returnCode = run(os.Args[1:])
}

func run(args []string) int {
	if len(args) < 1 {
		fmt.Fprint(os.Stderr, usage)
		return ExitUsageError
	}

	switch args[0] {
	case "-v", "--version":
		fmt.Printf("%s\n", version.Current)
		return ExitSuccess
	case "parse":
		return runParse(args[1:])
	case "check":
		return runCheck(args[1:])
	case "repl":
		return runRepl(args[1:])
	default:
		fmt.Fprintf(os.Stderr, "unknown subcommand %q\n%s", args[0], usage)
		return ExitUsageError
	}
}

// commonFlags holds the grammar/rule/config flags shared by all three
// subcommands.
type commonFlags struct {
	grammarFile *string
	rule        *string
	configFile  *string
}

func addCommonFlags(fs *pflag.FlagSet) *commonFlags {
	return &commonFlags{
		grammarFile: fs.StringP("grammar", "g", "", "The grammar source file to compile."),
		rule:        fs.StringP("rule", "r", "", "The entry rule to parse or check against."),
		configFile:  fs.StringP("config", "c", "grammarkit.toml", "A TOML config file providing defaults."),
	}
}

// resolve loads the config file and fills in any flags the user didn't set
// from it, returning the final grammar file path and entry rule name.
func (cf *commonFlags) resolve() (grammarFile, rule string, err error) {
	cfg, err := config.LoadOrDefault(*cf.configFile)
	if err != nil {
		return "", "", fmt.Errorf("load config: %w", err)
	}

	grammarFile = *cf.grammarFile
	if grammarFile == "" {
		grammarFile = cfg.GrammarFile
	}
	rule = *cf.rule
	if rule == "" {
		rule = cfg.EntryRule
	}
	return grammarFile, rule, nil
}

func compileGrammarFile(path, rule string) (*grammarkit.Grammar, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read grammar file: %w", err)
	}

	g, err := grammarkit.Compile(string(src), rule)
	if err != nil {
		return nil, fmt.Errorf("compile grammar: %w", err)
	}
	return g, nil
}

func runParse(args []string) int {
	fs := pflag.NewFlagSet("parse", pflag.ContinueOnError)
	cf := addCommonFlags(fs)
	if err := fs.Parse(args); err != nil {
		return ExitUsageError
	}

	grammarFile, rule, err := cf.resolve()
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %s\n", err)
		return ExitInitError
	}

	g, err := compileGrammarFile(grammarFile, rule)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %s\n", err)
		return ExitInitError
	}

	var targetSrc []byte
	if fs.NArg() > 0 {
		targetSrc, err = os.ReadFile(fs.Arg(0))
	} else {
		targetSrc, err = io.ReadAll(os.Stdin)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: read input: %s\n", err)
		return ExitInitError
	}

	result, err := g.Parse(string(targetSrc))
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %s\n", err)
		return ExitParseError
	}
	if !result.Ok() {
		fmt.Fprintln(os.Stderr, "input did not match the grammar")
		return ExitParseError
	}

	for _, node := range result.Nodes() {
		fmt.Println(node.String())
	}
	return ExitSuccess
}

func runCheck(args []string) int {
	fs := pflag.NewFlagSet("check", pflag.ContinueOnError)
	cf := addCommonFlags(fs)
	if err := fs.Parse(args); err != nil {
		return ExitUsageError
	}

	grammarFile, rule, err := cf.resolve()
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %s\n", err)
		return ExitInitError
	}

	g, err := compileGrammarFile(grammarFile, rule)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %s\n", err)
		return ExitInitError
	}

	fmt.Printf("OK: %s compiles, %d rule(s) declared\n", grammarFile, len(g.RuleNames()))
	return ExitSuccess
}

func runRepl(args []string) int {
	fs := pflag.NewFlagSet("repl", pflag.ContinueOnError)
	cf := addCommonFlags(fs)
	forceDirect := fs.BoolP("direct", "d", false, "Force reading directly from stdin instead of readline.")
	if err := fs.Parse(args); err != nil {
		return ExitUsageError
	}

	grammarFile, rule, err := cf.resolve()
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %s\n", err)
		return ExitInitError
	}

	g, err := compileGrammarFile(grammarFile, rule)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %s\n", err)
		return ExitInitError
	}
	fmt.Printf("loaded %s, %d rule(s) declared; parsing against %q\n", grammarFile, len(g.RuleNames()), rule)
	fmt.Println(`type ".rule <name>" to switch entry rule, ".quit" to exit`)

	var reader input.LineReader
	if *forceDirect || !isTTY(os.Stdin) {
		reader = input.NewDirectReader(os.Stdin)
	} else {
		ireader, err := input.NewInteractiveReader()
		if err != nil {
			fmt.Fprintf(os.Stderr, "ERROR: %s\n", err)
			return ExitInitError
		}
		reader = ireader
	}
	defer reader.Close()

	for {
		line, err := reader.ReadLine()
		if err != nil {
			if err == io.EOF {
				return ExitSuccess
			}
			fmt.Fprintf(os.Stderr, "ERROR: %s\n", err)
			return ExitParseError
		}

		switch {
		case line == ".quit":
			return ExitSuccess
		case strings.HasPrefix(line, ".rule "):
			rule = strings.TrimSpace(strings.TrimPrefix(line, ".rule "))
			fmt.Printf("now parsing against %q\n", rule)
			continue
		}

		result, err := g.ParseRule(rule, line)
		if err != nil {
			fmt.Printf("ERROR: %s\n", err)
			continue
		}
		if !result.Ok() {
			fmt.Println("no match")
			continue
		}
		for _, node := range result.Nodes() {
			fmt.Println(node.String())
		}
	}
}

func isTTY(f *os.File) bool {
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return (info.Mode() & os.ModeCharDevice) != 0
}
