package compiler

import (
	"testing"
)

func codesOf(res *ScanResult) []int {
	codes := make([]int, 0, len(res.Diagnostics))
	for _, d := range res.Diagnostics {
		codes = append(codes, d.Code)
	}
	return codes
}

func containsCode(res *ScanResult, code int) bool {
	for _, d := range res.Diagnostics {
		if d.Code == code {
			return true
		}
	}
	return false
}

func TestScanCleanComponent(t *testing.T) {
	src := `import React from "react";
import { Card, CardContent } from "@/components/ui/card";

export default function InfoCard() {
  return (
    <Card>
      <CardContent>
        <p>It's working</p>
      </CardContent>
    </Card>
  );
}
`
	res := Scan(src)
	if len(res.Diagnostics) != 0 {
		t.Fatalf("expected no diagnostics, got %v", codesOf(res))
	}

	wantUses := []string{"Card", "CardContent", "p"}
	if len(res.JSXUses) != len(wantUses) {
		t.Fatalf("expected %d JSX uses, got %d: %+v", len(wantUses), len(res.JSXUses), res.JSXUses)
	}
	for i, use := range res.JSXUses {
		if use.Name != wantUses[i] {
			t.Errorf("JSX use %d: expected %q, got %q", i, wantUses[i], use.Name)
		}
	}
}

func TestScanDiagnostics(t *testing.T) {
	tests := []struct {
		name     string
		src      string
		wantCode int
	}{
		{
			name:     "missing closing brace",
			src:      "export default function App() {\n  return null;\n",
			wantCode: 1005,
		},
		{
			name:     "unterminated string",
			src:      "const s = \"abc\n",
			wantCode: 1002,
		},
		{
			name:     "unterminated template",
			src:      "const t = `never closed",
			wantCode: 1160,
		},
		{
			name:     "unterminated block comment",
			src:      "/* still going\nconst x = 1;",
			wantCode: 1010,
		},
		{
			name:     "stray closing brace",
			src:      "const x = 1;\n}\n",
			wantCode: 1128,
		},
		{
			name:     "mismatched delimiters",
			src:      "const x = (1]\n",
			wantCode: 1005,
		},
		{
			name:     "mismatched jsx closing tag",
			src:      "export default function Bad() {\n  return <div><span>text</div>;\n}\n",
			wantCode: 17002,
		},
		{
			name:     "unclosed jsx element",
			src:      "const el = <div>;",
			wantCode: 17008,
		},
		{
			name:     "unterminated regex",
			src:      "const re = /abc\n",
			wantCode: 1161,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := Scan(tt.src)
			if !containsCode(res, tt.wantCode) {
				t.Errorf("expected diagnostic %d, got %v", tt.wantCode, codesOf(res))
			}
		})
	}
}

// The scanner's mode stack has to keep JSX text, template bodies and regex
// character classes from confusing delimiter bookkeeping.
func TestScanModalHazards(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{
			name: "apostrophe in jsx text",
			src:  "const el = <p>Don't panic, it's fine</p>;",
		},
		{
			name: "braces in string literal",
			src:  "const s = \"{ not a block }\";",
		},
		{
			name: "template substitution",
			src:  "const t = `count: ${items.length} of ${total}`;",
		},
		{
			name: "jsx expression attribute",
			src:  "const el = <div className={cn(\"a\", active && \"b\")}>x</div>;",
		},
		{
			name: "brackets inside regex",
			src:  "const re = /a[b/c(]+/g;",
		},
		{
			name: "comparison is not jsx",
			src:  "const less = a < b;",
		},
		{
			name: "self closing element",
			src:  "const el = <input disabled />;",
		},
		{
			name: "nested template in jsx expression",
			src:  "const el = <span>{`total ${n}`}</span>;",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := Scan(tt.src)
			if len(res.Diagnostics) != 0 {
				t.Errorf("expected no diagnostics, got %v", codesOf(res))
			}
		})
	}
}

func TestScanReportsUnterminatedAtOpener(t *testing.T) {
	src := "function App() {\n  const x = 1;\n"
	res := Scan(src)
	if len(res.Diagnostics) != 1 {
		t.Fatalf("expected one diagnostic, got %v", codesOf(res))
	}
	d := res.Diagnostics[0]
	if d.Code != 1005 {
		t.Fatalf("expected 1005, got %d", d.Code)
	}
	if d.Line != 1 {
		t.Errorf("expected the diagnostic at the opening brace on line 1, got line %d", d.Line)
	}
}
