package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	json "github.com/goccy/go-json"

	"github.com/treekit/treedex/pkg/analysis"
	"github.com/treekit/treedex/pkg/config"
	"github.com/treekit/treedex/pkg/loader"
	"github.com/treekit/treedex/pkg/model"
	"github.com/treekit/treedex/pkg/state"
	"github.com/treekit/treedex/pkg/tree"
	"github.com/treekit/treedex/pkg/version"
)

func main() {
	help := flag.Bool("help", false, "Show help")
	versionFlag := flag.Bool("version", false, "Show version")
	file := flag.String("file", "", "Load items from a single .json/.yaml file")
	configPath := flag.String("config", "", "Load sources from a config file (default: discover .treedex/config.yaml)")
	check := flag.Bool("check", false, "Run integrity checks (exit codes: 0=OK, 1=defects found)")
	robotStats := flag.Bool("robot-stats", false, "Output tree shape metrics as JSON for agents")
	robotVerify := flag.Bool("robot-verify", false, "Output the integrity report as JSON for agents")
	selectNames := flag.String("select", "", "Comma-separated item names to select (cascading)")
	stateDir := flag.String("state-dir", "", "Directory for persisted view state (default: config dir or .treedex)")
	noState := flag.Bool("no-state", false, "Skip loading and saving persisted view state")
	flag.Parse()

	if *help {
		fmt.Println("Usage: treedex [options]")
		fmt.Println("\nInspects and verifies hierarchical item files used by tree views.")
		flag.PrintDefaults()
		os.Exit(0)
	}
	if *versionFlag {
		fmt.Printf("treedex %s\n", version.Version)
		os.Exit(0)
	}

	items, cfg, err := loadItems(*file, *configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	sel := tree.NewSelection()
	idx := tree.NewIndex()
	idx.Parse(items, sel)

	dir := *stateDir
	if dir == "" && cfg != nil {
		dir = cfg.StateDir
	}
	if !*noState {
		state.Load(dir).Apply(idx, sel)
	}

	for _, name := range splitNames(*selectNames) {
		if idx.ComputeSelection(name, sel, true) == nil {
			fmt.Fprintf(os.Stderr, "Error: no item named %q\n", name)
			os.Exit(1)
		}
	}

	analyzer := analysis.NewAnalyzer(idx)

	switch {
	case *robotStats:
		printJSON(analyzer.Stats())
	case *robotVerify:
		printJSON(analyzer.Verify())
	case *check:
		report := analyzer.Verify()
		printReport(report)
		if !report.OK() {
			os.Exit(1)
		}
	default:
		printSummary(idx, sel, analyzer)
	}

	if !*noState && *selectNames != "" {
		if err := state.Save(dir, state.Capture(idx, sel)); err != nil {
			fmt.Fprintf(os.Stderr, "warning: %v\n", err)
		}
	}
}

// loadItems resolves the item collection from --file, --config, or the
// discovered project config, in that order.
func loadItems(file, configPath string) ([]*model.Item, *config.Config, error) {
	if file != "" {
		items, err := loader.LoadFile(file)
		return items, nil, err
	}

	if configPath == "" {
		root, ok := config.FindRoot("")
		if !ok {
			return nil, nil, fmt.Errorf("no --file given and no %s directory found", config.DirName)
		}
		configPath = config.DefaultPath(root)
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, err
	}
	if len(cfg.Sources) == 0 {
		return nil, nil, fmt.Errorf("config %s lists no sources", configPath)
	}

	items, err := loader.LoadSources(context.Background(), cfg.Sources)
	return items, cfg, err
}

func splitNames(s string) []string {
	if s == "" {
		return nil
	}
	var names []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			names = append(names, part)
		}
	}
	return names
}

func printJSON(v interface{}) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(string(data))
}

func printReport(report *analysis.Report) {
	if report.OK() {
		fmt.Println("OK: tree verified clean")
		return
	}
	if !report.Acyclic {
		fmt.Println("DEFECT: parent/child graph contains a cycle")
	}
	for _, name := range report.DuplicateNames {
		fmt.Printf("DEFECT: duplicate item name %q\n", name)
	}
	for _, w := range report.ParseWarnings {
		fmt.Printf("WARNING: %s\n", w)
	}
}

// printSummary renders a plain-text inspection of the parsed tree: shape
// metrics followed by the visible outline.
func printSummary(idx *tree.Index, sel *tree.Selection, analyzer *analysis.Analyzer) {
	s := analyzer.Stats()
	fmt.Printf("%d items (%d visible, %d leaves), depth %d\n",
		s.NodeCount, s.VisibleCount, s.LeafCount, s.MaxDepth)

	if warnings := idx.Warnings(); len(warnings) > 0 {
		for _, w := range warnings {
			fmt.Printf("warning: %s\n", w)
		}
	}
	if names := sel.Names(); len(names) > 0 {
		fmt.Printf("selected: %s\n", strings.Join(names, ", "))
	}
	fmt.Println()

	for _, key := range idx.TraversalOrder() {
		if !idx.IsVisible(key) {
			continue
		}
		entry := idx.Item(key)
		marker := " "
		if entry.Node.Selected {
			marker = "*"
		}
		fmt.Printf("%s%s%s  [%s]\n",
			strings.Repeat("  ", entry.Level-1), marker, entry.Node.Label, entry.Node.Name)
	}
}
