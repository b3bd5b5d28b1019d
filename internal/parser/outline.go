// Package parser extracts a source outline (top-level symbols and imported
// modules) from source files using tree-sitter grammars picked by extension.
package parser

import (
	"context"
	"fmt"
	"path"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/golang"
	"github.com/smacker/go-tree-sitter/java"
	"github.com/smacker/go-tree-sitter/javascript"
	"github.com/smacker/go-tree-sitter/python"
	"github.com/smacker/go-tree-sitter/typescript/tsx"
	"github.com/smacker/go-tree-sitter/typescript/typescript"
)

// SymbolKind classifies an outline symbol.
type SymbolKind string

const (
	KindFunction SymbolKind = "function"
	KindClass    SymbolKind = "class"
	KindMethod   SymbolKind = "method"
)

// Symbol is a named declaration and the 1-based line it starts on.
type Symbol struct {
	Name string     `json:"name"`
	Kind SymbolKind `json:"kind"`
	Line int        `json:"line"`
}

// Outline summarises one source file.
type Outline struct {
	Path    string   `json:"path"`
	Grammar string   `json:"grammar"`
	Symbols []Symbol `json:"symbols"`
	Imports []string `json:"imports"`
}

type grammar struct {
	name  string
	lang  func() *sitter.Language
	kinds map[string]SymbolKind
}

var (
	jsKinds = map[string]SymbolKind{
		"function_declaration":           KindFunction,
		"generator_function_declaration": KindFunction,
		"class_declaration":              KindClass,
		"method_definition":              KindMethod,
	}
	javascriptGrammar = grammar{name: "javascript", lang: javascript.GetLanguage, kinds: jsKinds}
	typescriptGrammar = grammar{name: "typescript", lang: typescript.GetLanguage, kinds: jsKinds}
	tsxGrammar        = grammar{name: "tsx", lang: tsx.GetLanguage, kinds: jsKinds}
	pythonGrammar     = grammar{name: "python", lang: python.GetLanguage, kinds: map[string]SymbolKind{
		"function_definition": KindFunction,
		"class_definition":    KindClass,
	}}
	goGrammar = grammar{name: "go", lang: golang.GetLanguage, kinds: map[string]SymbolKind{
		"function_declaration": KindFunction,
		"method_declaration":   KindMethod,
	}}
	javaGrammar = grammar{name: "java", lang: java.GetLanguage, kinds: map[string]SymbolKind{
		"class_declaration":       KindClass,
		"method_declaration":      KindMethod,
		"constructor_declaration": KindMethod,
	}}
)

// grammars maps lower-case file extensions to a grammar.
var grammars = map[string]grammar{
	".js":   javascriptGrammar,
	".mjs":  javascriptGrammar,
	".cjs":  javascriptGrammar,
	".jsx":  javascriptGrammar,
	".ts":   typescriptGrammar,
	".tsx":  tsxGrammar,
	".py":   pythonGrammar,
	".go":   goGrammar,
	".java": javaGrammar,
}

// Supported reports whether name has an extension with a known grammar.
func Supported(name string) bool {
	_, ok := grammars[strings.ToLower(path.Ext(name))]
	return ok
}

// Parser wraps a tree-sitter parser. It is not safe for concurrent use.
type Parser struct {
	inner *sitter.Parser
}

// NewParser creates a Parser.
func NewParser() *Parser {
	return &Parser{inner: sitter.NewParser()}
}

// Outline parses source and lists its symbols and imports in source order.
func (p *Parser) Outline(ctx context.Context, name string, source []byte) (*Outline, error) {
	g, ok := grammars[strings.ToLower(path.Ext(name))]
	if !ok {
		return nil, fmt.Errorf("unsupported file extension %q", path.Ext(name))
	}

	p.inner.SetLanguage(g.lang())
	tree, err := p.inner.ParseCtx(ctx, nil, source)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", name, err)
	}
	defer tree.Close()

	o := &Outline{Path: name, Grammar: g.name, Symbols: []Symbol{}, Imports: []string{}}
	seen := map[string]bool{}
	addImport := func(mod string) {
		mod = unquote(mod)
		if mod == "" || seen[mod] {
			return
		}
		seen[mod] = true
		o.Imports = append(o.Imports, mod)
	}

	walk(tree.RootNode(), func(n *sitter.Node) {
		if kind, ok := g.kinds[n.Type()]; ok {
			if name := n.ChildByFieldName("name"); name != nil {
				o.Symbols = append(o.Symbols, Symbol{Name: name.Content(source), Kind: kind, Line: line(n)})
			}
			return
		}

		switch n.Type() {
		case "variable_declarator":
			// const handler = () => {} and const f = function () {}
			name, value := n.ChildByFieldName("name"), n.ChildByFieldName("value")
			if name != nil && value != nil && isFunctionValue(value.Type()) {
				o.Symbols = append(o.Symbols, Symbol{Name: name.Content(source), Kind: KindFunction, Line: line(n)})
			}
		case "import_statement":
			if src := n.ChildByFieldName("source"); src != nil {
				addImport(src.Content(source))
				return
			}
			// Python: import os, sys as system
			for i := 0; i < int(n.NamedChildCount()); i++ {
				child := n.NamedChild(i)
				switch child.Type() {
				case "dotted_name":
					addImport(child.Content(source))
				case "aliased_import":
					if name := child.ChildByFieldName("name"); name != nil {
						addImport(name.Content(source))
					}
				}
			}
		case "import_from_statement":
			if mod := n.ChildByFieldName("module_name"); mod != nil {
				addImport(mod.Content(source))
			}
		case "call_expression":
			if mod, ok := requireTarget(n, source); ok {
				addImport(mod)
			}
		case "import_spec":
			if p := n.ChildByFieldName("path"); p != nil {
				addImport(p.Content(source))
			}
		case "import_declaration":
			for i := 0; i < int(n.NamedChildCount()); i++ {
				if child := n.NamedChild(i); child.Type() == "scoped_identifier" || child.Type() == "identifier" {
					addImport(child.Content(source))
				}
			}
		}
	})
	return o, nil
}

// requireTarget returns the module of a CommonJS require("x") call.
func requireTarget(n *sitter.Node, source []byte) (string, bool) {
	fn := n.ChildByFieldName("function")
	if fn == nil || fn.Type() != "identifier" || fn.Content(source) != "require" {
		return "", false
	}
	args := n.ChildByFieldName("arguments")
	if args == nil || args.NamedChildCount() == 0 {
		return "", false
	}
	arg := args.NamedChild(0)
	if arg.Type() != "string" {
		return "", false
	}
	return arg.Content(source), true
}

func isFunctionValue(t string) bool {
	return t == "arrow_function" || t == "function" || t == "function_expression"
}

func line(n *sitter.Node) int {
	return int(n.StartPoint().Row) + 1
}

func unquote(s string) string {
	return strings.TrimSpace(strings.Trim(strings.TrimSpace(s), "\"'`"))
}

// walk visits node and its descendants depth-first.
func walk(node *sitter.Node, fn func(*sitter.Node)) {
	if node == nil {
		return
	}
	fn(node)
	for i := 0; i < int(node.ChildCount()); i++ {
		walk(node.Child(i), fn)
	}
}
