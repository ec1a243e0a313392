package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"golang.org/x/tools/imports"

	"github.com/synmap/synmap-go/pkg/table"
)

func main() {
	tablesDir := flag.String("tables", "", "Directory holding device table YAMLs (tables/)")
	outputDir := flag.String("output", "", "Output directory for generated Go files")
	pkgName := flag.String("package", "builtin", "Package name of the generated files")
	flag.Parse()

	if *tablesDir == "" || *outputDir == "" {
		fmt.Fprintln(os.Stderr, "Usage: synmap-tablegen -tables <dir> -output <dir> [-package <name>]")
		flag.PrintDefaults()
		os.Exit(1)
	}

	if err := run(*tablesDir, *outputDir, *pkgName); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(tablesDir, outputDir, pkgName string) error {
	paths, err := filepath.Glob(filepath.Join(tablesDir, "*.yaml"))
	if err != nil {
		return err
	}
	if len(paths) == 0 {
		return fmt.Errorf("no tables in %s", tablesDir)
	}
	sort.Strings(paths)

	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return fmt.Errorf("creating output dir: %w", err)
	}

	var entries []registryEntry
	for _, path := range paths {
		t, err := table.Load(path)
		if err != nil {
			return err
		}
		// Catch address overlaps now rather than at first use.
		if _, err := table.Build(t); err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}

		goName := tableGoName(t.Name)
		code, err := GenerateTable(pkgName, filepath.Base(path), goName, t)
		if err != nil {
			return fmt.Errorf("generating %s: %w", t.Name, err)
		}
		outPath := filepath.Join(outputDir, tableFileName(t.Name)+"_gen.go")
		if err := writeFormatted(outPath, code); err != nil {
			return fmt.Errorf("writing %s: %w", filepath.Base(outPath), err)
		}
		fmt.Printf("  generated %s\n", outPath)
		entries = append(entries, registryEntry{Name: t.Name, GoName: goName})
	}

	code, err := GenerateRegistry(pkgName, entries)
	if err != nil {
		return fmt.Errorf("generating registry: %w", err)
	}
	outPath := filepath.Join(outputDir, "registry_gen.go")
	if err := writeFormatted(outPath, code); err != nil {
		return fmt.Errorf("writing registry_gen.go: %w", err)
	}
	fmt.Printf("  generated %s\n", outPath)
	return nil
}

// writeFormatted formats Go source code with goimports and writes it to a file.
func writeFormatted(path string, code string) error {
	formatted, err := imports.Process(path, []byte(code), nil)
	if err != nil {
		// Write unformatted so you can debug the generator output
		_ = os.WriteFile(path+".broken", []byte(code), 0o644)
		return fmt.Errorf("goimports %s: %w", filepath.Base(path), err)
	}
	return os.WriteFile(path, formatted, 0o644)
}

// tableGoName converts "xg" to "XG" and "nc-demo" to "NCDemo". Short
// words are treated as initialisms.
func tableGoName(name string) string {
	var b strings.Builder
	for _, part := range strings.FieldsFunc(name, func(r rune) bool {
		return r == '-' || r == '_' || r == ' '
	}) {
		if len(part) <= 2 {
			b.WriteString(strings.ToUpper(part))
			continue
		}
		b.WriteString(strings.ToUpper(part[:1]) + strings.ToLower(part[1:]))
	}
	return b.String()
}

// tableFileName converts "nc-demo" to "nc_demo".
func tableFileName(name string) string {
	return strings.ToLower(strings.NewReplacer("-", "_", " ", "_").Replace(name))
}
