package dimacs_test

import (
	"bufio"
	"strings"
	"testing"

	"github.com/gatosat/gatosat/internal/config"
	"github.com/gatosat/gatosat/internal/dimacs"
	"github.com/gatosat/gatosat/internal/solver"
)

func TestParseSimpleCNF(t *testing.T) {
	src := "c a comment\np cnf 3 2\n1 -2 0\n2 3 0\n"
	in := bufio.NewScanner(strings.NewReader(src))

	s := solver.New(config.Default())
	st, err := dimacs.Parse(in, s)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if st.DeclaredVars != 3 || st.DeclaredClauses != 2 {
		t.Fatalf("header mismatch: %+v", st)
	}
	if st.ParsedClauses != 2 {
		t.Fatalf("expected 2 parsed clauses, got %d", st.ParsedClauses)
	}
	if s.NumVars() != 3 {
		t.Fatalf("expected 3 vars, got %d", s.NumVars())
	}
	if s.NumClauses() != 2 {
		t.Fatalf("expected 2 clauses, got %d", s.NumClauses())
	}
}

func TestParseRejectsMissingTerminator(t *testing.T) {
	src := "p cnf 2 1\n1 2\n"
	in := bufio.NewScanner(strings.NewReader(src))
	s := solver.New(config.Default())
	if _, err := dimacs.Parse(in, s); err == nil {
		t.Fatal("expected an error for a clause missing its 0 terminator")
	}
}

func TestParseEmptyClauseIsUnsat(t *testing.T) {
	src := "p cnf 1 2\n1 0\n-1 0\n"
	in := bufio.NewScanner(strings.NewReader(src))
	s := solver.New(config.Default())
	if _, err := dimacs.Parse(in, s); err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if s.Solve(nil) != solver.Unsat {
		t.Fatal("expected UNSAT for 1 and -1 asserted as units")
	}
}
