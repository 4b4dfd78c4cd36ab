// Command cljdb is a line-oriented REPL over the heap-file engine.
// There is no SQL parser: every command names the operation it runs
// directly, mirroring the worked scenarios the engine is built around.
package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/pkg/errors"

	"github.com/carloshernandez2/clj-db/internal/catalog"
	"github.com/carloshernandez2/clj-db/internal/executor"
	"github.com/carloshernandez2/clj-db/internal/heap"
	"github.com/carloshernandez2/clj-db/internal/query"
	"github.com/carloshernandez2/clj-db/internal/tuple"
)

func main() {
	dir := "."
	if len(os.Args) > 1 {
		dir = os.Args[1]
	}

	store, err := catalog.NewStore(dir)
	if err != nil {
		fmt.Println("error:", err)
		os.Exit(1)
	}
	dirCache, err := heap.NewSectionDirectoryCache()
	if err != nil {
		fmt.Println("error:", err)
		os.Exit(1)
	}

	fmt.Println("cljdb, type commands:")
	fmt.Println("'quit' or 'exit' to stop")
	fmt.Println("'create <table> <col:TYPE>...' to define a table")
	fmt.Println("'insert <table> <value>...' to append a row")
	fmt.Println("'scan <table>' to print every row")

	reader := bufio.NewReader(os.Stdin)
	for {
		fmt.Print("> ")
		line, err := reader.ReadString('\n')
		line = strings.TrimSpace(line)
		if err != nil {
			fmt.Println(err)
			return
		}

		switch {
		case line == "quit" || line == "exit":
			fmt.Println("done")
			return
		case line == "":
			continue
		case hasCmd(line, "create "):
			err = create(store, dir, strings.Fields(strings.TrimPrefix(line, "create ")))
		case hasCmd(line, "insert "):
			err = insert(store, dir, dirCache, strings.Fields(strings.TrimPrefix(line, "insert ")))
		case hasCmd(line, "scan "):
			err = scanTable(store, dir, strings.TrimSpace(strings.TrimPrefix(line, "scan ")))
		default:
			err = errors.Errorf("unrecognized command: %q", line)
		}
		if err != nil {
			fmt.Println("error:", err)
		}
	}
}

func hasCmd(line, prefix string) bool {
	return strings.HasPrefix(line, prefix)
}

// create <table> <col:TYPE>... writes a catalog and an empty heap
// file for table.
func create(store *catalog.Store, dir string, args []string) error {
	if len(args) < 2 {
		return errors.New("usage: create <table> <col:TYPE>...")
	}
	table := args[0]

	var columns []string
	var schema []tuple.Type
	for _, spec := range args[1:] {
		parts := strings.SplitN(spec, ":", 2)
		if len(parts) != 2 {
			return errors.Errorf("invalid column spec %q, want name:TYPE", spec)
		}
		typ, err := tuple.TypeFromString(strings.ToUpper(parts[1]))
		if err != nil {
			return err
		}
		columns = append(columns, parts[0])
		schema = append(schema, typ)
	}

	cat := &catalog.Catalog{Columns: columns, Schema: schema}
	if err := store.Write(table, cat); err != nil {
		return err
	}

	f, err := os.Create(dir + "/" + table + "_table.cljdb")
	if err != nil {
		return errors.Wrapf(err, "creating heap file for table %q", table)
	}
	return f.Close()
}

// insert <table> <value>... parses one row against table's schema and
// appends it to the table's heap file.
func insert(store *catalog.Store, dir string, dirCache *heap.SectionDirectoryCache, args []string) error {
	if len(args) < 2 {
		return errors.New("usage: insert <table> <value>...")
	}
	table := args[0]
	cat, err := store.Read(table)
	if err != nil {
		return err
	}
	row, err := tuple.ParseRow(cat.Schema, args[1:])
	if err != nil {
		return err
	}

	f, err := os.OpenFile(dir+"/"+table+"_table.cljdb", os.O_RDWR, 0o644)
	if err != nil {
		return errors.Wrapf(err, "opening heap file for table %q", table)
	}
	defer f.Close()

	return heap.WriteRows(f, cat, []tuple.Row{row}, dirCache)
}

// scan <table> runs a single-step plan over the table's heap file and
// prints every row.
func scanTable(store *catalog.Store, dir, table string) error {
	if table == "" {
		return errors.New("usage: scan <table>")
	}
	plan := executor.Plan{
		{Key: "__result__", Chain: []query.Operator{query.ScanHeap(store, dir, table)}},
	}
	rows, err := executor.Execute(plan)
	if err != nil {
		return err
	}
	for _, row := range rows {
		fmt.Println(row)
	}
	fmt.Printf("%d rows\n", len(rows))
	return nil
}
