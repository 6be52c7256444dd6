package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/term"

	"github.com/inufuto/asm8"
	"github.com/inufuto/asm8/experimental"
	"github.com/inufuto/asm8/experimental/logging"
	"github.com/inufuto/asm8/internal/version"
)

func main() {
	doMain(os.Stdout, os.Stderr, os.Exit)
}

// doMain is separated out for the purpose of unit testing.
func doMain(stdOut io.Writer, stdErr logging.Writer, exit func(code int)) {
	flag.CommandLine.SetOutput(stdErr)

	var help bool
	flag.BoolVar(&help, "h", false, "print usage")

	flag.Parse()

	if help || flag.NArg() == 0 {
		printUsage(stdErr)
		exit(0)
	}

	subCmd := flag.Arg(0)
	switch subCmd {
	case "assemble":
		doAssemble(flag.Args()[1:], stdOut, stdErr, exit)
	case "targets":
		for _, name := range asm8.Targets() {
			fmt.Fprintln(stdOut, name)
		}
		exit(0)
	case "version":
		fmt.Fprintln(stdOut, version.GetVersion())
		exit(0)
	default:
		fmt.Fprintln(stdErr, "invalid command")
		printUsage(stdErr)
		exit(1)
	}
}

func doAssemble(args []string, stdOut io.Writer, stdErr logging.Writer, exit func(code int)) {
	flags := flag.NewFlagSet("assemble", flag.ContinueOnError)
	flags.SetOutput(stdErr)

	var help bool
	flags.BoolVar(&help, "h", false, "print usage")

	var target string
	flags.StringVar(&target, "target", "6809", "instruction set, one of: "+strings.Join(asm8.Targets(), ", "))

	var outPath string
	flags.StringVar(&outPath, "o", "", "path of the output, defaults to the source path with the extension .bin")

	var origin int64
	flags.Int64Var(&origin, "org", 0, "address of the first byte of the code segment")

	var maxErrors int
	flags.IntVar(&maxErrors, "max-errors", 0, "maximum number of errors to print, 0 for all")

	var trace bool
	flags.BoolVar(&trace, "trace", false, "print each branch with the encoding chosen for it")

	if err := flags.Parse(args); err != nil {
		exit(1)
	}

	if help {
		printAssembleUsage(stdErr, flags)
		exit(0)
	}

	if flags.NArg() != 1 {
		fmt.Fprintln(stdErr, "missing path to source file")
		printAssembleUsage(stdErr, flags)
		exit(1)
	}

	srcPath := flags.Arg(0)
	src, err := os.ReadFile(srcPath)
	if err != nil {
		fmt.Fprintf(stdErr, "error reading source file: %v\n", err)
		exit(1)
	}

	ctx := context.Background()
	if trace {
		ctx = context.WithValue(ctx, experimental.BranchListenerKey{}, logging.NewBranchLoggingListener(stdOut))
	}

	config := asm8.NewConfig().WithTarget(target).WithOrigin(origin).WithMaxErrors(maxErrors)
	m, err := asm8.Assemble(ctx, config, filepath.Base(srcPath), src)
	if err != nil {
		printErrors(stdErr, err)
		exit(1)
	}

	if outPath == "" {
		outPath = strings.TrimSuffix(srcPath, filepath.Ext(srcPath)) + ".bin"
	}
	if err = os.WriteFile(outPath, m.Code(), 0o644); err != nil {
		fmt.Fprintf(stdErr, "error writing output: %v\n", err)
		exit(1)
	}
	for _, seg := range m.Segments[1:] {
		if len(seg.Code) > 0 {
			fmt.Fprintf(stdErr, "warning: %d byte(s) of %s are not written to %s\n", len(seg.Code), seg.Name, outPath)
		}
	}
	for _, f := range m.Fixups {
		fmt.Fprintf(stdErr, "warning: %s+0x%x needs %d byte(s) of %s at link time\n", f.Segment, f.Offset, f.Width, f.Name)
	}
	exit(0)
}

// printErrors writes one diagnostic per line, highlighted on a terminal.
func printErrors(stdErr logging.Writer, err error) {
	prefix, suffix := "", ""
	if f, ok := stdErr.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		prefix, suffix = "\x1b[31m", "\x1b[0m"
	}
	var list asm8.ErrList
	if !errors.As(err, &list) {
		fmt.Fprintf(stdErr, "%serror:%s %v\n", prefix, suffix, err)
		return
	}
	for _, e := range list {
		fmt.Fprintf(stdErr, "%serror:%s %v\n", prefix, suffix, e)
	}
}

func printUsage(stdErr io.Writer) {
	fmt.Fprintln(stdErr, "asm8 CLI")
	fmt.Fprintln(stdErr)
	fmt.Fprintln(stdErr, "Usage:\n  asm8 <command>")
	fmt.Fprintln(stdErr)
	fmt.Fprintln(stdErr, "Commands:")
	fmt.Fprintln(stdErr, "  assemble\tAssembles a source file into a binary")
	fmt.Fprintln(stdErr, "  targets\tLists the supported instruction sets")
	fmt.Fprintln(stdErr, "  version\tDisplays the version of asm8 CLI")
}

func printAssembleUsage(stdErr io.Writer, flags *flag.FlagSet) {
	fmt.Fprintln(stdErr, "asm8 CLI")
	fmt.Fprintln(stdErr)
	fmt.Fprintln(stdErr, "Usage:\n  asm8 assemble <options> <path to source file>")
	fmt.Fprintln(stdErr)
	fmt.Fprintln(stdErr, "Options:")
	flags.PrintDefaults()
}
