// Command spl is the SPL-to-ECO32 batch compiler. It runs the six-stage
// pipeline in pkg/compiler up to (and including) whichever phase its flags
// select, following main.c's flag-per-phase contract (spec.md §6) exactly:
// no flag runs every phase and writes ECO32 assembly to the output file;
// --tokens/--parse/--absyn/--tables/--semant/--vars each stop the pipeline
// after that phase and print its report instead.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/fatih/color"

	"splc/internal/splerr"
	"splc/internal/targetdesc"
	"splc/pkg/compiler"
	"splc/pkg/utils"
)

const version = "1.0"

var (
	errColor  = color.New(color.FgRed, color.Bold)
	okColor   = color.New(color.FgGreen)
	infoColor = color.New(color.FgCyan)
)

func main() {
	os.Exit(run(os.Args))
}

func run(args []string) int {
	fs := flag.NewFlagSet(args[0], flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	var (
		optTokens  = fs.Bool("tokens", false, "Phase 1: Scans for tokens and prints them.")
		optParse   = fs.Bool("parse", false, "Phase 2: Parses the stream of tokens to check for syntax errors.")
		optAbsyn   = fs.Bool("absyn", false, "Phase 3: Creates an abstract syntax tree from the input tokens and prints it.")
		optTables  = fs.Bool("tables", false, "Phase 4a: Builds a symbol table and prints its entries.")
		optSemant  = fs.Bool("semant", false, "Phase 4b: Performs the semantic analysis.")
		optVars    = fs.Bool("vars", false, "Phase 5: Allocates memory space for variables and prints the amount of allocated memory.")
		optVersion = fs.Bool("version", false, "Show compiler version.")
		optHelp    = fs.Bool("help", false, "Show this help.")
		optTarget  = fs.String("target", "", "Path to a YAML target description overriding the ECO32 defaults.")
	)

	fs.Usage = func() { showUsage(os.Stderr, args[0], fs) }

	if err := fs.Parse(args[1:]); err != nil {
		return splerr.ExitHost
	}

	if *optVersion {
		fmt.Printf("%s version %s\n", args[0], version)
		return 0
	}
	if *optHelp {
		showUsage(os.Stdout, args[0], fs)
		return 0
	}

	rest := fs.Args()
	var inFile, outFile string
	switch len(rest) {
	case 0:
		return usageError(args[0], fs, "No input file")
	case 1:
		inFile = rest[0]
	case 2:
		inFile, outFile = rest[0], rest[1]
	default:
		return usageError(args[0], fs, "Only one output file is allowed!")
	}

	anyPhaseFlag := *optTokens || *optParse || *optAbsyn || *optTables || *optSemant || *optVars
	if outFile == "" && !anyPhaseFlag {
		return usageError(args[0], fs, "No output file")
	}

	fullPath, _, err := utils.GetPathInfo(inFile)
	if err != nil {
		errColor.Fprintf(os.Stderr, "cannot resolve input file %q: %v\n", inFile, err)
		return splerr.ExitHost
	}
	srcBytes, err := os.ReadFile(fullPath)
	if err != nil {
		errColor.Fprintf(os.Stderr, "cannot open input file %q: %v\n", inFile, err)
		return splerr.ExitHost
	}
	src := string(srcBytes)

	target := targetdesc.Default
	if *optTarget != "" {
		target, err = targetdesc.Load(*optTarget)
		if err != nil {
			errColor.Fprintf(os.Stderr, "%v\n", err)
			return splerr.ExitHost
		}
	}

	interner := compiler.NewInterner()

	if *optTokens {
		return runTokens(src)
	}

	opts := compiler.Options{
		StopAfterParse:  *optParse,
		StopAfterAbsyn:  *optAbsyn,
		StopAfterTables: *optTables,
		StopAfterSemant: *optSemant,
		StopAfterVars:   *optVars,
		Target:          target,
	}

	res, err := compiler.Compile(src, interner, opts)
	if err != nil {
		reportCompileError(err)
		return splerr.CodeOf(err)
	}

	switch {
	case *optParse:
		fmt.Println("Input parsed successfully!")
		return 0
	case *optAbsyn:
		fmt.Print(compiler.PrintProgram(res.Program))
		return 0
	case *optTables:
		fmt.Print(compiler.DumpScope(res.Global))
		return 0
	case *optSemant:
		okColor.Println("No semantic errors found!")
		return 0
	case *optVars:
		fmt.Print(compiler.ReportVarAllocation(res.Program, res.Global))
		return 0
	}

	if err := os.WriteFile(outFile, []byte(res.Assembly), 0o644); err != nil {
		errColor.Fprintf(os.Stderr, "unable to open output file %q: %v\n", outFile, err)
		return splerr.ExitHost
	}
	return 0
}

func runTokens(src string) int {
	tokens, err := compiler.Lex(src)
	if err != nil {
		reportCompileError(err)
		return splerr.CodeOf(err)
	}
	for _, tok := range tokens {
		fmt.Println(tok.Describe())
	}
	return 0
}

func reportCompileError(err error) {
	errColor.Fprintf(os.Stderr, "An error occurred:\n%s\n", err.Error())
}

func showUsage(out *os.File, myself string, fs *flag.FlagSet) {
	fmt.Fprintf(out, "Usage: %s [options] <input file> <output file>\n\n", myself)
	fmt.Fprintln(out, "Executes all compiler phases up to (and including) the specified one.")
	fmt.Fprintln(out, "If no flag is specified, all phases are run and code is written to the output file.")
	fmt.Fprintln(out, "Options:")
	fmt.Fprintln(out, "  --tokens     Phase 1: Scans for tokens and prints them.")
	fmt.Fprintln(out, "  --parse      Phase 2: Parses the stream of tokens to check for syntax errors.")
	fmt.Fprintln(out, "  --absyn      Phase 3: Creates an abstract syntax tree from the input tokens and prints it.")
	fmt.Fprintln(out, "  --tables     Phase 4a: Builds a symbol table and prints its entries.")
	fmt.Fprintln(out, "  --semant     Phase 4b: Performs the semantic analysis.")
	fmt.Fprintln(out, "  --vars       Phase 5: Allocates memory space for variables and prints the amount of allocated memory.")
	fmt.Fprintln(out, "  --target     Path to a YAML target description overriding the ECO32 defaults.")
	fmt.Fprintln(out, "  --version    Show compiler version.")
	fmt.Fprintln(out, "  --help       Show this help.")
}

func usageError(myself string, fs *flag.FlagSet, format string, args ...any) int {
	errColor.Fprintf(os.Stderr, "Usage: "+format+"\n", args...)
	showUsage(os.Stderr, myself, fs)
	return splerr.ExitHost
}
