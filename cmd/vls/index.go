package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/golang"
	"github.com/spf13/cobra"

	"github.com/SirZenith/vls/internal/ast"
	"github.com/SirZenith/vls/internal/builtin"
	"github.com/SirZenith/vls/internal/store"
	"github.com/SirZenith/vls/internal/symbol"
)

var openCmd = &cobra.Command{
	Use:   "open [path]",
	Short: "Parse a directory and register its top-level declarations",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runOpen,
}

func runOpen(cmd *cobra.Command, args []string) error {
	dir := "."
	if len(args) > 0 {
		dir = args[0]
	}

	start := time.Now()
	s := store.New()
	builtin.Bootstrap(s)

	count, err := indexDirectory(s, dir)
	if err != nil {
		return err
	}

	fmt.Fprintf(os.Stderr, "Registered %d declarations from %s in %s\n", count, dir, time.Since(start).Round(time.Millisecond))
	return nil
}

// indexDirectory walks every *.go file under dir, parses it with the
// bundled go grammar (standing in for the core's own — unshipped —
// grammar, per spec.md's non-goal excluding the parser itself), and
// registers its top-level declarations into s. It is the CLI's own
// stand-in walker, not the type-inference walker in internal/infer,
// which only classifies already-parsed type nodes.
func indexDirectory(s *store.Store, dir string) (int, error) {
	count := 0
	err := filepath.WalkDir(dir, func(p string, d os.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		if filepath.Ext(p) != ".go" {
			return nil
		}
		n, err := indexFile(s, p)
		if err != nil {
			return fmt.Errorf("indexing %s: %w", p, err)
		}
		count += n
		return nil
	})
	return count, err
}

// parseFile reads and parses filePath with the bundled go grammar,
// returning the root node and the source text.
func parseFile(filePath string) (ast.Node, ast.SourceText, error) {
	src, err := os.ReadFile(filePath)
	if err != nil {
		return ast.Node{}, nil, err
	}

	parser := sitter.NewParser()
	parser.SetLanguage(golang.GetLanguage())
	tree, err := parser.ParseCtx(context.Background(), nil, src)
	if err != nil {
		return ast.Node{}, nil, fmt.Errorf("parsing: %w", err)
	}
	return ast.NewNode(tree.RootNode()), ast.SourceText(src), nil
}

func indexFile(s *store.Store, filePath string) (int, error) {
	root, text, err := parseFile(filePath)
	if err != nil {
		return 0, err
	}
	fileID := s.OpenFile(filePath)
	s.Scopes().GetScopeFromNode(fileID, true, root)

	count := 0
	for i := 0; i < root.NamedChildCount(); i++ {
		decl := root.NamedChild(i)
		if registerDeclaration(s, fileID, decl, text) {
			count++
		}
	}
	return count, nil
}

func registerDeclaration(s *store.Store, fileID ast.FileID, decl ast.Node, src ast.SourceText) bool {
	switch decl.TypeName() {
	case "function_declaration", "method_declaration":
		name := decl.ChildByFieldName("name")
		if name.IsNull() {
			return false
		}
		return register(s, fileID, name.Text(src), symbol.KindFunction, decl)

	case "type_declaration":
		registered := false
		for i := 0; i < decl.NamedChildCount(); i++ {
			spec := decl.NamedChild(i)
			name := spec.ChildByFieldName("name")
			if name.IsNull() {
				continue
			}
			if register(s, fileID, name.Text(src), symbol.KindStruct, spec) {
				registered = true
			}
		}
		return registered

	case "var_declaration", "const_declaration":
		registered := false
		for i := 0; i < decl.NamedChildCount(); i++ {
			spec := decl.NamedChild(i)
			name := spec.ChildByFieldName("name")
			if name.IsNull() {
				continue
			}
			if register(s, fileID, name.Text(src), symbol.KindVariable, spec) {
				registered = true
			}
		}
		return registered

	default:
		return false
	}
}

func register(s *store.Store, fileID ast.FileID, name string, kind symbol.Kind, node ast.Node) bool {
	_, err := s.RegisterSymbol(symbol.Symbol{
		Name:        name,
		Kind:        kind,
		Range:       node.Range(),
		FileID:      fileID,
		FileVersion: 1,
		Language:    symbol.LangNative,
		IsTopLevel:  true,
		Parent:      symbol.VoidID,
		ReturnSym:   symbol.VoidID,
		Scope:       symbol.EmptyScopeID,
	})
	return err == nil
}
