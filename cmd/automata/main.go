// Command automata is a host binary exposing one subcommand per core
// library operation (spec.md §6.2): determinize, minimize, complement,
// intersect, union, include, equivalent, universal, ncsb, compose, apply.
package main

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/symboliclib/automata/automaton"
	"github.com/symboliclib/automata/buchi"
	"github.com/symboliclib/automata/classical"
	"github.com/symboliclib/automata/inclusion"
	"github.com/symboliclib/automata/symbolic"
	"github.com/symboliclib/automata/timbuk"
	"github.com/symboliclib/automata/transducer"
)

// Exit codes per spec.md §6.2: 0 success, 1 semantic failure (e.g.
// include reporting non-inclusion), 2 parse/precondition error.
const (
	exitOK         = 0
	exitSemantic   = 1
	exitInputError = 2
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "usage: automata <subcommand> [flags]")
		os.Exit(exitInputError)
	}

	var err error
	var code int
	switch os.Args[1] {
	case "determinize":
		code, err = runDeterminize(os.Args[2:])
	case "minimize":
		code, err = runMinimize(os.Args[2:])
	case "complement":
		code, err = runComplement(os.Args[2:])
	case "intersect":
		code, err = runIntersect(os.Args[2:])
	case "union":
		code, err = runUnion(os.Args[2:])
	case "include":
		code, err = runInclude(os.Args[2:])
	case "equivalent":
		code, err = runEquivalent(os.Args[2:])
	case "universal":
		code, err = runUniversal(os.Args[2:])
	case "ncsb":
		code, err = runNCSB(os.Args[2:])
	case "compose":
		code, err = runCompose(os.Args[2:])
	case "apply":
		code, err = runApply(os.Args[2:])
	default:
		fmt.Fprintf(os.Stderr, "unknown subcommand %q\n", os.Args[1])
		os.Exit(exitInputError)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, "automata: "+err.Error())
	}
	os.Exit(code)
}

func readMachine(path string) (*automaton.Machine, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return timbuk.Parse(f)
}

func writeMachine(m *automaton.Machine, name, out string) error {
	if out == "" {
		return timbuk.Write(os.Stdout, m, name)
	}
	f, err := os.Create(out)
	if err != nil {
		return err
	}
	defer f.Close()
	return timbuk.Write(f, m, name)
}

func runDeterminize(args []string) (int, error) {
	fs := flag.NewFlagSet("determinize", flag.ExitOnError)
	in := fs.String("in", "", "input automaton path")
	out := fs.String("out", "", "output automaton path (stdout if empty)")
	fs.Parse(args)
	if *in == "" {
		return exitInputError, errors.New("determinize: -in is required")
	}

	m, err := readMachine(*in)
	if err != nil {
		return exitInputError, err
	}

	var result *automaton.Machine
	if m.Kind() == automaton.LFA {
		result = classical.Determinize(m)
	} else {
		result, err = symbolic.Determinize(m)
		if err != nil {
			return exitInputError, err
		}
	}
	if err := writeMachine(result, "determinized", *out); err != nil {
		return exitInputError, err
	}
	return exitOK, nil
}

func runMinimize(args []string) (int, error) {
	fs := flag.NewFlagSet("minimize", flag.ExitOnError)
	in := fs.String("in", "", "input automaton path")
	out := fs.String("out", "", "output automaton path (stdout if empty)")
	fs.Parse(args)
	if *in == "" {
		return exitInputError, errors.New("minimize: -in is required")
	}

	m, err := readMachine(*in)
	if err != nil {
		return exitInputError, err
	}
	if !automaton.IsDeterministic(m) {
		if m.Kind() == automaton.LFA {
			m = classical.Determinize(m)
		} else {
			m, err = symbolic.Determinize(m)
			if err != nil {
				return exitInputError, err
			}
		}
	}
	result, err := symbolic.Minimize(m)
	if err != nil {
		return exitInputError, err
	}
	if err := writeMachine(result, "minimized", *out); err != nil {
		return exitInputError, err
	}
	return exitOK, nil
}

func runComplement(args []string) (int, error) {
	fs := flag.NewFlagSet("complement", flag.ExitOnError)
	in := fs.String("in", "", "input automaton path")
	out := fs.String("out", "", "output automaton path (stdout if empty)")
	fs.Parse(args)
	if *in == "" {
		return exitInputError, errors.New("complement: -in is required")
	}

	m, err := readMachine(*in)
	if err != nil {
		return exitInputError, err
	}
	result, err := symbolic.Complement(m)
	if err != nil {
		return exitInputError, err
	}
	if err := writeMachine(result, "complement", *out); err != nil {
		return exitInputError, err
	}
	return exitOK, nil
}

func runIntersect(args []string) (int, error) {
	fs := flag.NewFlagSet("intersect", flag.ExitOnError)
	in1 := fs.String("in", "", "first input automaton path")
	in2 := fs.String("in2", "", "second input automaton path")
	out := fs.String("out", "", "output automaton path (stdout if empty)")
	fs.Parse(args)
	if *in1 == "" || *in2 == "" {
		return exitInputError, errors.New("intersect: -in and -in2 are required")
	}

	a, err := readMachine(*in1)
	if err != nil {
		return exitInputError, err
	}
	b, err := readMachine(*in2)
	if err != nil {
		return exitInputError, err
	}
	result := automaton.ProductIntersection(a, b)
	if err := writeMachine(result, "intersection", *out); err != nil {
		return exitInputError, err
	}
	return exitOK, nil
}

func runUnion(args []string) (int, error) {
	fs := flag.NewFlagSet("union", flag.ExitOnError)
	in1 := fs.String("in", "", "first input automaton path")
	in2 := fs.String("in2", "", "second input automaton path")
	out := fs.String("out", "", "output automaton path (stdout if empty)")
	fs.Parse(args)
	if *in1 == "" || *in2 == "" {
		return exitInputError, errors.New("union: -in and -in2 are required")
	}

	a, err := readMachine(*in1)
	if err != nil {
		return exitInputError, err
	}
	b, err := readMachine(*in2)
	if err != nil {
		return exitInputError, err
	}
	result := automaton.Union(a, b)
	if err := writeMachine(result, "union", *out); err != nil {
		return exitInputError, err
	}
	return exitOK, nil
}

func runInclude(args []string) (int, error) {
	fs := flag.NewFlagSet("include", flag.ExitOnError)
	in1 := fs.String("in", "", "first input automaton path")
	in2 := fs.String("in2", "", "second input automaton path")
	strategy := fs.String("strategy", "antichain", "simple|pairs|antichain")
	fs.Parse(args)
	if *in1 == "" || *in2 == "" {
		return exitInputError, errors.New("include: -in and -in2 are required")
	}

	a, err := readMachine(*in1)
	if err != nil {
		return exitInputError, err
	}
	b, err := readMachine(*in2)
	if err != nil {
		return exitInputError, err
	}

	var res inclusion.Result
	switch *strategy {
	case "simple":
		res, err = inclusion.Simple(a, b)
	case "pairs":
		res, err = inclusion.PairReachability(a, b)
	case "antichain":
		res, err = inclusion.Antichain(a, b)
	default:
		return exitInputError, fmt.Errorf("include: unknown strategy %q", *strategy)
	}
	if err != nil {
		return exitInputError, err
	}
	if res.Included {
		fmt.Println("included")
		return exitOK, nil
	}
	fmt.Println("not included")
	return exitSemantic, nil
}

func runEquivalent(args []string) (int, error) {
	fs := flag.NewFlagSet("equivalent", flag.ExitOnError)
	in1 := fs.String("in", "", "first input automaton path")
	in2 := fs.String("in2", "", "second input automaton path")
	fs.Parse(args)
	if *in1 == "" || *in2 == "" {
		return exitInputError, errors.New("equivalent: -in and -in2 are required")
	}

	a, err := readMachine(*in1)
	if err != nil {
		return exitInputError, err
	}
	b, err := readMachine(*in2)
	if err != nil {
		return exitInputError, err
	}
	res, err := inclusion.Equivalence(a, b)
	if err != nil {
		return exitInputError, err
	}
	if res.Included {
		fmt.Println("equivalent")
		return exitOK, nil
	}
	fmt.Println("not equivalent")
	return exitSemantic, nil
}

func runUniversal(args []string) (int, error) {
	fs := flag.NewFlagSet("universal", flag.ExitOnError)
	in := fs.String("in", "", "input automaton path")
	fs.Parse(args)
	if *in == "" {
		return exitInputError, errors.New("universal: -in is required")
	}

	m, err := readMachine(*in)
	if err != nil {
		return exitInputError, err
	}
	res, err := inclusion.Universality(m)
	if err != nil {
		return exitInputError, err
	}
	if res.Included {
		fmt.Println("universal")
		return exitOK, nil
	}
	fmt.Println("not universal")
	return exitSemantic, nil
}

func runNCSB(args []string) (int, error) {
	fs := flag.NewFlagSet("ncsb", flag.ExitOnError)
	in := fs.String("in", "", "input automaton path")
	out := fs.String("out", "", "output automaton path (stdout if empty)")
	variant := fs.String("variant", "basic", "basic|otf|lazy|earlyflush")
	fs.Parse(args)
	if *in == "" {
		return exitInputError, errors.New("ncsb: -in is required")
	}

	m, err := readMachine(*in)
	if err != nil {
		return exitInputError, err
	}

	var result *automaton.Machine
	switch *variant {
	case "basic":
		result, err = buchi.ComplementBasic(m)
	case "otf":
		result, err = buchi.ComplementOnTheFly(m)
	case "lazy":
		result, err = buchi.ComplementLazy(m)
	case "earlyflush":
		result, err = buchi.ComplementEarlyFlush(m)
	default:
		return exitInputError, fmt.Errorf("ncsb: unknown variant %q", *variant)
	}
	if err != nil {
		return exitInputError, err
	}
	if err := writeMachine(result, "ncsb", *out); err != nil {
		return exitInputError, err
	}
	return exitOK, nil
}

func runCompose(args []string) (int, error) {
	fs := flag.NewFlagSet("compose", flag.ExitOnError)
	in1 := fs.String("in", "", "first transducer path")
	in2 := fs.String("in2", "", "second transducer path")
	out := fs.String("out", "", "output automaton path (stdout if empty)")
	fs.Parse(args)
	if *in1 == "" || *in2 == "" {
		return exitInputError, errors.New("compose: -in and -in2 are required")
	}

	t, err := readMachine(*in1)
	if err != nil {
		return exitInputError, err
	}
	u, err := readMachine(*in2)
	if err != nil {
		return exitInputError, err
	}
	result, err := transducer.Compose(t, u)
	if err != nil {
		return exitInputError, err
	}
	if err := writeMachine(result, "composed", *out); err != nil {
		return exitInputError, err
	}
	return exitOK, nil
}

func runApply(args []string) (int, error) {
	fs := flag.NewFlagSet("apply", flag.ExitOnError)
	in1 := fs.String("in", "", "transducer path")
	in2 := fs.String("in2", "", "NFA path")
	out := fs.String("out", "", "output automaton path (stdout if empty)")
	fs.Parse(args)
	if *in1 == "" || *in2 == "" {
		return exitInputError, errors.New("apply: -in and -in2 are required")
	}

	t, err := readMachine(*in1)
	if err != nil {
		return exitInputError, err
	}
	a, err := readMachine(*in2)
	if err != nil {
		return exitInputError, err
	}
	result, err := transducer.Apply(t, a)
	if err != nil {
		return exitInputError, err
	}
	if err := writeMachine(result, "applied", *out); err != nil {
		return exitInputError, err
	}
	return exitOK, nil
}
