// Package dimacs parses the DIMACS CNF input format, grounded on the
// teacher's dimacs.go and generalised to allocate variables on the solver
// interface rather than a concrete *solver.Solver so it has no import-cycle
// risk against package solver.
package dimacs

import (
	"bufio"
	"fmt"
	"strconv"
	"strings"

	"github.com/gatosat/gatosat/internal/lit"
)

// Adder is the subset of *solver.Solver that parsing needs: allocate
// variables on demand and add clauses as they are read.
type Adder interface {
	NumVars() int
	NewVar() lit.Var
	AddClause(lits []lit.Lit) bool
}

// ParseError reports a malformed input line, with the 1-based line number
// it occurred on.
type ParseError struct {
	Line int
	Msg  string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("dimacs: line %d: %s", e.Line, e.Msg)
}

// Stats reports the header-declared problem size, for the caller's
// mismatch warning against what was actually read.
type Stats struct {
	DeclaredVars    int
	DeclaredClauses int
	ParsedClauses   int
}

// Parse reads a DIMACS CNF stream, allocating variables on s via NewVar and
// adding each clause via AddClause. If AddClause ever reports the formula
// already UNSAT it stops reading and returns the stats so far with a nil
// error, mirroring the teacher's parseDimacs loop.
func Parse(in *bufio.Scanner, s Adder) (Stats, error) {
	var st Stats
	lineNo := 0

	for in.Scan() {
		lineNo++
		line := strings.TrimSpace(in.Text())
		if line == "" || strings.HasPrefix(line, "c") {
			continue
		}
		if strings.HasPrefix(line, "p cnf") {
			fields := strings.Fields(line)
			if len(fields) < 4 {
				return st, &ParseError{lineNo, "malformed 'p cnf' header"}
			}
			v, err := strconv.Atoi(fields[2])
			if err != nil {
				return st, &ParseError{lineNo, "bad variable count: " + err.Error()}
			}
			c, err := strconv.Atoi(fields[3])
			if err != nil {
				return st, &ParseError{lineNo, "bad clause count: " + err.Error()}
			}
			st.DeclaredVars, st.DeclaredClauses = v, c
			continue
		}

		lits, err := parseClauseLine(lineNo, line, s)
		if err != nil {
			return st, err
		}
		st.ParsedClauses++
		if !s.AddClause(lits) {
			return st, nil
		}
	}
	if err := in.Err(); err != nil {
		return st, err
	}
	return st, nil
}

func parseClauseLine(lineNo int, line string, s Adder) ([]lit.Lit, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 || fields[len(fields)-1] != "0" {
		return nil, &ParseError{lineNo, "clause not terminated with 0"}
	}

	lits := make([]lit.Lit, 0, len(fields)-1)
	for _, f := range fields[:len(fields)-1] {
		n, err := strconv.Atoi(f)
		if err != nil {
			return nil, &ParseError{lineNo, "bad literal: " + err.Error()}
		}
		if n == 0 {
			return nil, &ParseError{lineNo, "unexpected literal 0 mid-clause"}
		}

		neg := n < 0
		if neg {
			n = -n
		}
		v := lit.Var(n - 1)
		for int(v) >= s.NumVars() {
			s.NewVar()
		}
		lits = append(lits, lit.New(v, neg))
	}
	return lits, nil
}
