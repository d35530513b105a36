package parser_test

import (
	"testing"

	"github.com/jexlang/jexl/internal/ast"
	"github.com/jexlang/jexl/internal/parser"
)

func TestParseExpressionOK(t *testing.T) {
	p := parser.New("1 + 2 * 3", nil)
	node, err := p.ParseExpression()
	if err != nil {
		t.Fatalf("ParseExpression: %v", err)
	}
	if node == nil {
		t.Fatal("ParseExpression returned a nil node")
	}
	if len(p.Errors()) != 0 {
		t.Errorf("Errors() = %v, want none", p.Errors())
	}
}

func TestParseExpressionTrailingInputErrors(t *testing.T) {
	p := parser.New("1 + 2 )", nil)
	_, err := p.ParseExpression()
	if err == nil {
		t.Fatal("expected an error for unconsumed trailing input")
	}
}

func TestParseScriptAccumulatesMultipleErrors(t *testing.T) {
	p := parser.New("var = ; var = ;", nil)
	_, err := p.ParseScript(nil)
	if err == nil {
		t.Fatal("expected a parse error")
	}
	if len(p.Errors()) == 0 {
		t.Error("Errors() should be non-empty after a malformed script")
	}
}

func TestParseScriptDeclaresParameters(t *testing.T) {
	params := []ast.Param{{Name: "a"}, {Name: "b"}}
	p := parser.New("a + b", params)
	script, err := p.ParseScript(params)
	if err != nil {
		t.Fatalf("ParseScript: %v", err)
	}
	if script.Scope.Size() < 2 {
		t.Errorf("Scope.Size() = %d, want at least 2 for two declared parameters", script.Scope.Size())
	}
	if script.Scope.ParmCount() != 2 {
		t.Errorf("Scope.ParmCount() = %d, want 2", script.Scope.ParmCount())
	}
}

func TestParserScopeExposedForBareExpressions(t *testing.T) {
	p := parser.New("x + 1", nil)
	if _, err := p.ParseExpression(); err != nil {
		t.Fatalf("ParseExpression: %v", err)
	}
	if p.Scope() == nil {
		t.Error("Scope() should return the root scope built while parsing")
	}
}
