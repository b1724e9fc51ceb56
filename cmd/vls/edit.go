package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/SirZenith/vls/internal/builtin"
	"github.com/SirZenith/vls/internal/store"
)

var editCmd = &cobra.Command{
	Use:   "edit <file> <start-line> <end-line>",
	Short: "Index the file, then drop the declarations in the 0-based line window (simulating an editor deletion)",
	Args:  cobra.ExactArgs(3),
	RunE:  runEdit,
}

// runEdit exercises the editor-event path: remove the window's local
// symbols from the scope tree, then walk the parse tree to drop the
// top-level declarations (and imports) the window covered.
func runEdit(cmd *cobra.Command, args []string) error {
	filePath := args[0]
	startLine, err := strconv.Atoi(args[1])
	if err != nil {
		return fmt.Errorf("parsing start line: %w", err)
	}
	endLine, err := strconv.Atoi(args[2])
	if err != nil {
		return fmt.Errorf("parsing end line: %w", err)
	}
	if startLine < 0 || endLine < startLine {
		return fmt.Errorf("invalid line window %d-%d", startLine, endLine)
	}

	s := store.New()
	builtin.Bootstrap(s)
	if _, err := indexFile(s, filePath); err != nil {
		return err
	}
	before := len(s.GetSymbolsByFilePath(filePath))

	root, src, err := parseFile(filePath)
	if err != nil {
		return err
	}

	fileID := s.OpenFile(filePath)
	emptied := false
	if rootScope := s.Scopes().FileRootScope(fileID); rootScope >= 0 {
		emptied = s.Scopes().RemoveSymbolsByLine(rootScope, uint32(startLine), uint32(endLine))
	}
	s.DeleteSymbolAtNode(filePath, root, src, uint32(startLine), uint32(endLine))
	after := len(s.GetSymbolsByFilePath(filePath))

	fmt.Printf("deleted lines %d-%d of %s: %d -> %d declarations (file scope emptied: %v)\n",
		startLine, endLine, filePath, before, after, emptied)
	return nil
}
