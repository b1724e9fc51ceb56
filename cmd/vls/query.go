package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/SirZenith/vls/internal/builtin"
	"github.com/SirZenith/vls/internal/store"
	"github.com/SirZenith/vls/internal/symbol"
)

var symbolAtCmd = &cobra.Command{
	Use:   "symbol-at <file> <line> <column>",
	Short: "Index the file and report the symbol at a 0-based line/column",
	Args:  cobra.ExactArgs(3),
	RunE:  runSymbolAt,
}

func runSymbolAt(cmd *cobra.Command, args []string) error {
	filePath := args[0]
	line, err := strconv.Atoi(args[1])
	if err != nil {
		return fmt.Errorf("parsing line: %w", err)
	}
	column, err := strconv.Atoi(args[2])
	if err != nil {
		return fmt.Errorf("parsing column: %w", err)
	}

	s := store.New()
	builtin.Bootstrap(s)
	if _, err := indexFile(s, filePath); err != nil {
		return err
	}

	ids := s.GetSymbolsByFilePath(filePath)
	var best symbol.Symbol
	for _, id := range ids {
		sym := s.Symbols().GetInfo(id)
		if uint32(line) != sym.Range.StartPoint.Row {
			continue
		}
		if best.IsVoid() || (sym.Range.StartPoint.Column <= uint32(column) && sym.Range.StartPoint.Column >= best.Range.StartPoint.Column) {
			best = sym
		}
	}

	if best.IsVoid() {
		fmt.Printf("no symbol at %s:%d:%d\n", filePath, line, column)
		return nil
	}

	fmt.Printf("%s  kind=%s  ident=%s\n", best.Name, best.Kind, s.GetIdentOfSymbol(best.ID))
	return nil
}

var deleteCmd = &cobra.Command{
	Use:   "delete <path>",
	Short: "Index the directory, then delete its module (demonstrating Store.Delete)",
	Args:  cobra.ExactArgs(1),
	RunE:  runDelete,
}

func runDelete(cmd *cobra.Command, args []string) error {
	dir := args[0]
	s := store.New()
	builtin.Bootstrap(s)

	count, err := indexDirectory(s, dir)
	if err != nil {
		return err
	}

	s.Delete(dir)
	fmt.Printf("registered %d declarations, then deleted module %s\n", count, dir)
	return nil
}
