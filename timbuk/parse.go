// Package timbuk implements the Timbuk-style textual automaton format
// (spec.md §6): Parse reads an automaton from its Ops/Automaton/States/
// Final States/Transitions sections, and Write renders one back out in
// canonical sorted order.
package timbuk

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/coregx/ahocorasick"
	"github.com/symboliclib/automata/automaton"
	"github.com/symboliclib/automata/pred"
)

// ParseError reports a malformed Timbuk document, named by the 1-based
// line it was found on.
type ParseError struct {
	Line   int
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("timbuk: line %d: %s", e.Line, e.Reason)
}

// section keyword classification, accelerated by a shared Aho-Corasick
// automaton rather than a chain of strings.HasPrefix checks.
const (
	kwOps         = "Ops "
	kwAutomaton   = "Automaton "
	kwStates      = "States "
	kwFinalStates = "Final States"
	kwTransitions = "Transitions"
)

var keywordAC = mustBuildKeywordAutomaton()

func mustBuildKeywordAutomaton() *ahocorasick.Automaton {
	builder := ahocorasick.NewBuilder()
	for _, kw := range []string{kwOps, kwAutomaton, kwStates, kwFinalStates, kwTransitions} {
		builder.AddPattern([]byte(kw))
	}
	auto, err := builder.Build()
	if err != nil {
		panic("timbuk: failed to build keyword automaton: " + err.Error())
	}
	return auto
}

// classifyKeyword reports which section keyword (if any) opens line, using
// the shared Aho-Corasick automaton to find the match. A match only counts
// if it starts at offset 0 — lines inside the Transitions block never
// collide with a keyword since none of "Ops ", "Automaton ", "States ",
// "Final States" or "Transitions" can be a legal predicate or state-name
// prefix in this format. The five keywords have distinct byte lengths and
// none is a prefix of another at offset 0, so the matched span's length
// (m.End-m.Start), not a second independent prefix check, tells us which
// keyword the automaton found.
func classifyKeyword(line []byte) string {
	m := keywordAC.Find(line, 0)
	if m == nil || m.Start != 0 {
		return ""
	}
	switch m.End - m.Start {
	case len(kwOps):
		return kwOps
	case len(kwAutomaton):
		return kwAutomaton
	case len(kwStates):
		return kwStates
	case len(kwFinalStates):
		return kwFinalStates
	case len(kwTransitions):
		return kwTransitions
	default:
		return ""
	}
}

// kindName maps the @KIND header tag to automaton.Kind, per spec.md §6.
func kindName(tag string) (automaton.Kind, error) {
	switch tag {
	case "LFA":
		return automaton.LFA, nil
	case "INFA":
		return automaton.SA, nil
	case "INT":
		return automaton.ST, nil
	case "GBA":
		return automaton.GBA, nil
	default:
		return 0, fmt.Errorf("unknown automaton kind %q", tag)
	}
}

// Parse reads a single automaton from r. The predicate factory is inferred
// from the @KIND header: LFA uses pred.LetterFactory, INFA uses
// pred.InNotinFactory, GBA uses pred.InNotinFactory (symbolic Büchi
// machines are always predicate-labelled), and INT uses pred.TransFactory
// with InNotin components. For INT, transition predicates are parsed with a
// component factory sniffed from the shape of the first quoted predicate
// encountered (in{...}/not_in{...} vs. a bare letter); the Machine's own
// factory keeps its InNotin components either way.
func Parse(r io.Reader) (*automaton.Machine, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1<<20)

	var (
		lineNo           int
		kind             automaton.Kind
		haveKind         bool
		alphabet         []pred.Sym
		states           []string
		finalSets        [][]string
		inTransitions    bool
		transLines       []string
		componentKind    pred.Kind
		sniffedComponent bool
	)

	for scanner.Scan() {
		lineNo++
		raw := scanner.Text()
		line := strings.TrimRight(raw, "\r\n")
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}

		if inTransitions {
			transLines = append(transLines, line)
			continue
		}

		switch classifyKeyword([]byte(line)) {
		case kwOps:
			for _, tok := range strings.Fields(line)[1:] {
				sym, arity, ok := splitArity(tok)
				if !ok {
					return nil, &ParseError{lineNo, "malformed Ops token " + tok}
				}
				if arity > 0 {
					alphabet = append(alphabet, sym)
				}
			}
		case kwAutomaton:
			idx := strings.IndexByte(line, '@')
			if idx < 0 {
				return nil, &ParseError{lineNo, "Automaton line missing @KIND"}
			}
			k, err := kindName(strings.TrimSpace(line[idx+1:]))
			if err != nil {
				return nil, &ParseError{lineNo, err.Error()}
			}
			kind, haveKind = k, true
		case kwStates:
			states = append(states, strings.Fields(line)[1:]...)
		case kwFinalStates:
			rest := strings.TrimPrefix(line, kwFinalStates)
			for _, group := range strings.Split(rest, ";") {
				fields := strings.Fields(group)
				if len(fields) == 0 {
					continue
				}
				finalSets = append(finalSets, fields)
			}
		case kwTransitions:
			inTransitions = true
		default:
			return nil, &ParseError{lineNo, "unrecognized line: " + line}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if !haveKind {
		return nil, &ParseError{0, "missing Automaton @KIND header"}
	}

	proto, err := protoFor(kind)
	if err != nil {
		return nil, err
	}

	b := automaton.NewBuilder(kind, proto)
	for _, s := range alphabet {
		b.AddSymbol(s)
	}
	for _, s := range states {
		b.State(s)
	}

	base := lineNo - len(transLines)
	for i, raw := range transLines {
		ln := base + i + 1
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}
		arrow := strings.Index(line, "->")
		if arrow < 0 {
			return nil, &ParseError{ln, "transition missing '->': " + line}
		}
		left := strings.TrimSpace(line[:arrow])
		right := strings.TrimSpace(line[arrow+2:])

		// "x -> <q>" marks q as an initial state (spec.md §6's pseudo-symbol
		// x:0). This checks the literal marker rather than only ever
		// treating the first transition line as the sole start state, so a
		// machine with several initial states round-trips correctly.
		if left == "x" {
			b.AddStart(b.State(right))
			continue
		}

		dst := b.State(right)

		if strings.HasPrefix(left, "\"") {
			// "<predicate>"(<source>)
			endQuote := strings.LastIndex(left, "\"")
			if endQuote <= 0 {
				return nil, &ParseError{ln, "unterminated predicate quote: " + left}
			}
			predText := left[1:endQuote]
			srcOpen := strings.IndexByte(left[endQuote:], '(')
			srcClose := strings.LastIndexByte(left, ')')
			if srcOpen < 0 || srcClose < 0 {
				return nil, &ParseError{ln, "missing source state: " + left}
			}
			src := strings.TrimSpace(left[endQuote+srcOpen+1 : srcClose])
			srcID := b.State(src)

			if kind == automaton.ST && !sniffedComponent {
				componentKind = sniffComponentKind(predText)
				sniffedComponent = true
				proto = retypeTransProto(componentKind)
			}
			p, perr := parsePredicateText(predText, proto)
			if perr != nil {
				return nil, &ParseError{ln, perr.Error()}
			}
			b.AddTransition(srcID, p, dst)
			continue
		}

		openParen := strings.IndexByte(left, '(')
		if openParen < 0 {
			return nil, &ParseError{ln, "malformed transition: " + left}
		}
		symbol := strings.TrimSpace(left[:openParen])
		src := strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(left[openParen+1:]), ")"))
		srcID := b.State(src)

		if symbol == "" {
			b.AddTransition(srcID, pred.Epsilon{}, dst)
			continue
		}
		p, perr := parsePredicateText(symbol, proto)
		if perr != nil {
			return nil, &ParseError{ln, perr.Error()}
		}
		b.AddTransition(srcID, p, dst)
	}

	for i, set := range finalSets {
		for _, name := range set {
			b.AddFinal(i, b.State(name))
		}
	}

	return b.Build(), nil
}

func splitArity(tok string) (sym pred.Sym, arity int, ok bool) {
	idx := strings.LastIndexByte(tok, ':')
	if idx < 0 {
		return tok, 1, true
	}
	n, err := strconv.Atoi(tok[idx+1:])
	if err != nil {
		return "", 0, false
	}
	return tok[:idx], n, true
}

func protoFor(kind automaton.Kind) (pred.Factory, error) {
	switch kind {
	case automaton.LFA:
		return pred.LetterFactory{}, nil
	case automaton.SA, automaton.GBA:
		return pred.InNotinFactory{}, nil
	case automaton.ST:
		// Component kind is sniffed from the first quoted predicate; start
		// with InNotin and retype if the sniff says otherwise.
		return pred.TransFactory{Component: pred.InNotinFactory{}}, nil
	default:
		return nil, fmt.Errorf("timbuk: no predicate factory for kind %s", kind)
	}
}

func sniffComponentKind(predText string) pred.Kind {
	text := strings.TrimPrefix(predText, "@")
	side := text
	if idx := strings.IndexByte(text, '/'); idx >= 0 {
		side = text[:idx]
	}
	if strings.Contains(side, "in{") || strings.Contains(side, "not_in{") {
		return pred.KindInNotin
	}
	return pred.KindLetter
}

func retypeTransProto(component pred.Kind) pred.Factory {
	if component == pred.KindLetter {
		return pred.TransFactory{Component: pred.LetterFactory{}}
	}
	return pred.TransFactory{Component: pred.InNotinFactory{}}
}

// parsePredicateText parses one quoted-or-bare predicate string against
// proto, dispatching on proto.Kind() the way symbolic_parser.py dispatches
// on automaton_type.
func parsePredicateText(text string, proto pred.Factory) (pred.Predicate, error) {
	switch f := proto.(type) {
	case pred.LetterFactory:
		return f.FromSymbol(text), nil
	case pred.InNotinFactory:
		return parseInNotin(text)
	case pred.TransFactory:
		identity := strings.HasPrefix(text, "@")
		body := strings.TrimPrefix(text, "@")
		parts := strings.SplitN(body, "/", 2)
		if len(parts) != 2 {
			return nil, fmt.Errorf("malformed transducer predicate %q", text)
		}
		in, err := parseComponent(parts[0], f.Component)
		if err != nil {
			return nil, err
		}
		out, err := parseComponent(parts[1], f.Component)
		if err != nil {
			return nil, err
		}
		if identity {
			return pred.NewIdentityTrans(in, out), nil
		}
		return pred.NewTrans(in, out), nil
	default:
		return nil, fmt.Errorf("timbuk: unsupported predicate factory %T", proto)
	}
}

func parseComponent(text string, proto pred.Factory) (pred.Predicate, error) {
	switch f := proto.(type) {
	case pred.LetterFactory:
		return f.FromSymbol(text), nil
	case pred.InNotinFactory:
		return parseInNotin(text)
	default:
		return nil, fmt.Errorf("timbuk: unsupported transducer component factory %T", proto)
	}
}

func parseInNotin(text string) (pred.Predicate, error) {
	negated := strings.HasPrefix(text, "not_in")
	open := strings.IndexByte(text, '{')
	shut := strings.LastIndexByte(text, '}')
	if open < 0 || shut < 0 || shut < open {
		return nil, fmt.Errorf("malformed in/not_in predicate %q", text)
	}
	inner := strings.TrimSpace(text[open+1 : shut])
	var syms []pred.Sym
	if inner != "" {
		for _, s := range strings.Split(inner, ",") {
			syms = append(syms, strings.TrimSpace(s))
		}
	}
	if negated {
		return pred.NewNotIn(syms...), nil
	}
	return pred.NewIn(syms...), nil
}
