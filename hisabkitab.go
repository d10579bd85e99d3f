// Package hisabkitab extracts structured invoices, line items with
// full tax breakdowns, from retail PDF invoices. It locates the item
// table geometrically, parses rows through declarative template-family
// grammars, repairs known rendering defects, and reconciles the
// redundant extraction paths into one ordered item list per invoice.
package hisabkitab

import (
	"context"
	"fmt"

	"github.com/CaptainVC/hisab-kitab/pkg/document"
	"github.com/CaptainVC/hisab-kitab/pkg/engine"
	"github.com/CaptainVC/hisab-kitab/pkg/grammar"
	"github.com/CaptainVC/hisab-kitab/pkg/invoice"
)

// Re-export the result model and descriptor types for public API.
type (
	LineItem   = invoice.LineItem
	Invoice    = invoice.Invoice
	Result     = invoice.Result
	Descriptor = grammar.Descriptor
	Engine     = engine.Engine
	Provider   = document.Provider
)

// Built-in template families and descriptor loading.
var (
	Families       = grammar.Families
	LoadDescriptor = grammar.LoadDescriptor
)

// New builds an extraction engine from a template-family descriptor.
func New(d *Descriptor) (*Engine, error) {
	return engine.New(d)
}

// Open opens a PDF file and returns its document provider. An
// unreadable file is the only hard failure; close the provider when
// done.
func Open(path string) (Provider, error) {
	return document.OpenPDF(path)
}

// ExtractFile opens a PDF and extracts its invoices under the named
// built-in template family.
func ExtractFile(ctx context.Context, path, family string) (*Result, error) {
	d, ok := Families()[family]
	if !ok {
		return nil, fmt.Errorf("unknown template family %q", family)
	}
	eng, err := engine.New(d)
	if err != nil {
		return nil, err
	}
	prov, err := document.OpenPDF(path)
	if err != nil {
		return nil, err
	}
	defer prov.Close()
	return eng.Extract(ctx, prov)
}
