// Package fixtures runs whole Queitite programs end to end (lex →
// parse → evaluate) against the scripts under testdata/fixtures,
// mirroring the teacher's internal/interp/fixture_test.go category
// table and go-snaps-backed golden comparison, scaled down to this
// language's simpler (no semantic-analysis pass) pipeline.
package fixtures

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gkampitakis/go-snaps/snaps"

	"github.com/qewer33/queitite/internal/diagnostics"
	"github.com/qewer33/queitite/internal/evaluator"
	"github.com/qewer33/queitite/internal/natives"
	"github.com/qewer33/queitite/internal/parser"
	"github.com/qewer33/queitite/internal/platform"
	"github.com/qewer33/queitite/internal/runtime"
)

type fixtureCategory struct {
	name         string
	path         string
	description  string
	expectErrors bool
	skip         bool
}

func TestQueititeFixtures(t *testing.T) {
	categories := []fixtureCategory{
		{
			name:        "Scripts",
			path:        "../../testdata/fixtures/Scripts",
			description: "scripts that run to completion and print deterministic output",
		},
		{
			name:         "Errors",
			path:         "../../testdata/fixtures/Errors",
			description:  "scripts expected to terminate with an unhandled Err or UserErr",
			expectErrors: true,
		},
	}

	for _, category := range categories {
		t.Run(category.name, func(t *testing.T) {
			if category.skip {
				t.Skipf("category %s temporarily skipped", category.name)
				return
			}
			if _, err := os.Stat(category.path); os.IsNotExist(err) {
				t.Skipf("category %s not found at %s", category.name, category.path)
				return
			}
			files, err := filepath.Glob(filepath.Join(category.path, "*.qte"))
			if err != nil {
				t.Fatalf("failed to glob %s: %v", category.path, err)
			}
			if len(files) == 0 {
				t.Skipf("no .qte files found in %s", category.path)
				return
			}
			for _, file := range files {
				t.Run(strings.TrimSuffix(filepath.Base(file), ".qte"), func(t *testing.T) {
					runFixture(t, file, category.expectErrors)
				})
			}
		})
	}
}

// runFixture parses and evaluates one fixture under a timeout guard
// (bounding a runaway script the way the teacher's 5-second goroutine+
// select does), then checks the outcome against category.expectErrors.
func runFixture(t *testing.T, path string, expectErrors bool) {
	t.Helper()
	source, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read %s: %v", path, err)
	}

	p := parser.New(string(source))
	program := p.ParseProgram()
	if len(p.Errors()) > 0 {
		diags := make([]diagnostics.Diagnostic, len(p.Errors()))
		for i, pe := range p.Errors() {
			diags[i] = diagnostics.FromParseError(pe)
		}
		t.Fatalf("unexpected parse errors in %s:\n%s", filepath.Base(path), diagnostics.FormatBatch(diags, string(source), false))
	}

	var out bytes.Buffer
	term := platform.NewNativeTerminal()
	globals := natives.Registry(&out, strings.NewReader(""), term)
	ev := evaluator.New(globals, &out, strings.NewReader(""))

	type outcome struct {
		event *runtime.RuntimeEvent
	}
	resultCh := make(chan outcome, 1)
	go func() {
		resultCh <- outcome{event: ev.Run(program)}
	}()

	var event *runtime.RuntimeEvent
	select {
	case res := <-resultCh:
		event = res.event
	case <-time.After(5 * time.Second):
		t.Fatalf("fixture %s timed out after 5s (likely an infinite loop)", filepath.Base(path))
		return
	}

	if expectErrors {
		if event == nil {
			t.Fatalf("expected %s to terminate with an error, but it ran to completion", filepath.Base(path))
		}
		diag := diagnostics.FromEvent(event)
		snaps.MatchSnapshot(t, diag.Kind+": "+diag.Message)
		return
	}

	if event != nil {
		diag := diagnostics.FromEvent(event)
		t.Fatalf("unexpected error in %s: %s", filepath.Base(path), diag.Format(string(source), false))
	}
	snaps.MatchSnapshot(t, out.String())
}

func TestMain(m *testing.M) {
	v := m.Run()
	snaps.Clean(m)
	os.Exit(v)
}
