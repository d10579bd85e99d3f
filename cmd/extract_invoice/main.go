// Command extract_invoice extracts structured invoices from a PDF and
// prints them as JSON.
//
// Usage:
//
//	extract_invoice -family zepto invoice.pdf
//	extract_invoice -descriptor custom.toml -timeout 30s invoice.pdf
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/phuslu/log"

	hisabkitab "github.com/CaptainVC/hisab-kitab"
	"github.com/CaptainVC/hisab-kitab/pkg/grammar"
)

func main() {
	var (
		family     = flag.String("family", "", "built-in template family ("+strings.Join(familyNames(), ", ")+")")
		descriptor = flag.String("descriptor", "", "path to a TOML template-family descriptor")
		timeout    = flag.Duration("timeout", time.Minute, "extraction timeout")
		verbose    = flag.Bool("v", false, "debug logging")
	)
	flag.Parse()

	log.DefaultLogger = log.Logger{
		Level:  log.InfoLevel,
		Writer: &log.ConsoleWriter{ColorOutput: false},
	}
	if *verbose {
		log.DefaultLogger.Level = log.DebugLevel
	}

	if flag.NArg() != 1 || (*family == "") == (*descriptor == "") {
		fmt.Fprintln(os.Stderr, "usage: extract_invoice (-family NAME | -descriptor FILE) [-timeout D] [-v] FILE.pdf")
		flag.PrintDefaults()
		os.Exit(2)
	}

	d, err := loadFamily(*family, *descriptor)
	if err != nil {
		fmt.Fprintln(os.Stderr, "extract_invoice:", err)
		os.Exit(2)
	}

	eng, err := hisabkitab.New(d)
	if err != nil {
		fmt.Fprintln(os.Stderr, "extract_invoice:", err)
		os.Exit(2)
	}

	prov, err := hisabkitab.Open(flag.Arg(0))
	if err != nil {
		fmt.Fprintln(os.Stderr, "extract_invoice:", err)
		os.Exit(1)
	}
	defer prov.Close()

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	res, err := eng.Extract(ctx, prov)
	if err != nil {
		fmt.Fprintln(os.Stderr, "extract_invoice:", err)
		os.Exit(1)
	}

	out, err := json.MarshalIndent(res, "", "  ")
	if err != nil {
		fmt.Fprintln(os.Stderr, "extract_invoice:", err)
		os.Exit(1)
	}
	fmt.Println(string(out))
}

func loadFamily(family, descriptor string) (*grammar.Descriptor, error) {
	if descriptor != "" {
		content, err := os.ReadFile(descriptor)
		if err != nil {
			return nil, err
		}
		return grammar.LoadDescriptor(content)
	}
	d, ok := grammar.Families()[family]
	if !ok {
		return nil, fmt.Errorf("unknown template family %q (have: %s)", family, strings.Join(familyNames(), ", "))
	}
	return d, nil
}

func familyNames() []string {
	var names []string
	for name := range grammar.Families() {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
