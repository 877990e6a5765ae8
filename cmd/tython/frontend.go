package main

import (
	"encoding/json"
	"fmt"

	"github.com/cla7aye15I4nd/Tython-sub001/internal/ast"
)

// jsonNode is the wire schema a real surface-syntax parser would populate
//. This front-end's only job is to decode that schema into the
// ast.Node tree Lowering consumes, so the driver below exercises the full
// pipeline end-to-end without a tokenizer/grammar in scope.
type jsonNode struct {
	Kind  string               `json:"kind"`
	Line  int                  `json:"line"`
	Col   int                  `json:"col"`
	Attrs map[string]*jsonNode `json:"attrs,omitempty"`
	Lists map[string][]*jsonNode `json:"lists,omitempty"`
	Str   map[string]string    `json:"str,omitempty"`
	Int   map[string]int64     `json:"int,omitempty"`
	Float map[string]float64   `json:"float,omitempty"`
	Bool  map[string]bool      `json:"bool,omitempty"`
}

// toNode rebuilds an ast.Map tree from the decoded wire schema, stamping
// file into every node's position since the JSON document doesn't repeat
// it per-node.
func (j *jsonNode) toNode(file string) *ast.Map {
	if j == nil {
		return nil
	}
	n := ast.NewNode(j.Kind, ast.Pos{File: file, Line: j.Line, Column: j.Col})
	for k, v := range j.Attrs {
		n.SetAttr(k, v.toNode(file))
	}
	for k, v := range j.Lists {
		nodes := make([]ast.Node, len(v))
		for i, e := range v {
			nodes[i] = e.toNode(file)
		}
		n.SetList(k, nodes)
	}
	for k, v := range j.Str {
		n.SetStr(k, v)
	}
	for k, v := range j.Int {
		n.SetInt(k, v)
	}
	for k, v := range j.Float {
		n.SetFloat(k, v)
	}
	for k, v := range j.Bool {
		n.SetBool(k, v)
	}
	return n
}

// parseModuleAST decodes a JSON-encoded module body (a top-level array of
// jsonNode documents) from raw bytes into the ast.Node slice LowerModule
// expects.
func parseModuleAST(file string, raw []byte) ([]ast.Node, error) {
	var doc []*jsonNode
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("decoding AST document: %w", err)
	}
	body := make([]ast.Node, len(doc))
	for i, n := range doc {
		body[i] = n.toNode(file)
	}
	return body, nil
}
