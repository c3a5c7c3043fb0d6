// Command convsuppress applies Laravel convention suppressions to class
// records exported by a static analyzer.
//
// Usage:
//
//	# Records on stdin, annotated records on stdout
//	analyzer-dump | convsuppress
//
//	# Records from files
//	convsuppress classes.yaml more.json
//
//	# Show the rules in effect
//	convsuppress -print-rules
//
// Input is a stream of YAML documents (or JSON), each holding one class
// record or a list of them:
//
//	name: App\Jobs\SendInvoice
//	parent_classes: []
//	used_traits: [Illuminate\Queue\InteractsWithQueue]
//	methods:
//	  handle: {}
//	properties:
//	  invoice: {}
//	suppressed_issues: []
//
// Output is a JSON array of the same records with suppressed_issues filled in.
//
// Configuration:
//
// Create a .convsuppress.yaml file in your project root:
//
//	# Application namespace, if not App
//	root-namespace: Acme
//
//	# Extra rules, merged over the built-in ones
//	rules-file: .convsuppress-rules.yaml
//
//	issues:
//	  # Never suppress UnusedClass
//	  UnusedClass: false
package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/spechtlabs/convsuppress/internal/config"
	"github.com/spechtlabs/convsuppress/internal/version"
	"github.com/spechtlabs/convsuppress/storage"
	"github.com/spechtlabs/convsuppress/suppress"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	// Handle version argument
	if len(args) > 0 && args[0] == "version" {
		fmt.Fprintln(stdout, version.Info())
		return 0
	}

	fs := flag.NewFlagSet("convsuppress", flag.ContinueOnError)
	fs.SetOutput(stderr)
	var (
		configPath  = fs.String("config", "", "configuration file (default: nearest "+config.ConfigFileName+")")
		rulesFile   = fs.String("rules", "", "YAML rule file merged over the built-in rules")
		printRules  = fs.Bool("print-rules", false, "print the effective rules as YAML and exit")
		showVersion = fs.Bool("version", false, "print version information and exit")
	)
	if err := fs.Parse(args); err != nil {
		return 2
	}

	if *showVersion {
		fmt.Fprintln(stdout, version.Info())
		return 0
	}

	engine, err := loadEngine(*configPath, *rulesFile)
	if err != nil {
		fmt.Fprintf(stderr, "convsuppress: error loading rules: %v\n", err)
		return 1
	}

	if *printRules {
		data, err := engine.Rules().Marshal()
		if err != nil {
			fmt.Fprintf(stderr, "convsuppress: %v\n", err)
			return 1
		}
		_, _ = stdout.Write(data)
		return 0
	}

	classes, err := readClasses(fs.Args(), stdin)
	if err != nil {
		fmt.Fprintf(stderr, "convsuppress: %v\n", err)
		return 1
	}

	for _, c := range classes {
		if err := engine.Apply(c); err != nil {
			fmt.Fprintf(stderr, "convsuppress: %s: %v\n", c.Name(), err)
			return 1
		}
	}

	if err := storage.Encode(stdout, classes); err != nil {
		fmt.Fprintf(stderr, "convsuppress: error writing records: %v\n", err)
		return 1
	}
	return 0
}

func loadEngine(configPath, rulesFile string) (*suppress.Engine, error) {
	var (
		cfg *config.Config
		err error
	)
	if configPath != "" {
		cfg, err = config.LoadFrom(configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, err
	}

	if rulesFile != "" {
		cfg.RulesFile = rulesFile
	}

	rules, err := cfg.RuleSet(suppress.DefaultRules())
	if err != nil {
		return nil, err
	}
	return suppress.New(rules), nil
}

func readClasses(paths []string, stdin io.Reader) ([]*storage.ClassStorage, error) {
	if len(paths) == 0 {
		classes, err := storage.Decode(stdin)
		if err != nil {
			return nil, fmt.Errorf("stdin: %w", err)
		}
		return classes, nil
	}

	var all []*storage.ClassStorage
	for _, path := range paths {
		classes, err := readFile(path)
		if err != nil {
			return nil, err
		}
		all = append(all, classes...)
	}
	return all, nil
}

func readFile(path string) ([]*storage.ClassStorage, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	classes, err := storage.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return classes, nil
}
