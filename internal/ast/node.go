// Package ast holds the parse-tree representation consumed by semantic
// analysis. The tree is produced by the parser (an external collaborator)
// and mutated in place only by the dedicated rewrite and canonicalization
// stages; checker traversals treat it as read-only.
package ast

import (
	"fern/internal/source"
	"fern/internal/symbols"
)

// NodeKind enumerates parse-tree node categories.
type NodeKind uint8

const (
	KindInvalid NodeKind = iota

	// Program structure
	KindProgram
	KindMainProgram
	KindModule
	KindFunctionSubprogram
	KindSubroutineSubprogram
	KindBlockData
	KindSpecificationPart
	KindExecutionPart

	// Specification statements
	KindTypeDeclarationStmt
	KindEntityDecl
	KindCommonStmt
	KindCommonBlockDecl
	KindEquivalenceStmt
	KindDataStmt
	KindDataObject
	KindDataValue
	KindNamelistStmt
	KindCrayPointerStmt
	KindStmtFunctionStmt

	// Executable statements
	KindAssignmentStmt
	KindCallStmt
	KindEntryStmt
	KindStopStmt
	KindAllocateStmt
	KindDeallocateStmt
	KindNullifyStmt
	KindReturnStmt
	KindGotoStmt
	KindAssignStmt
	KindAssignedGotoStmt
	KindArithmeticIfStmt
	KindIfStmt
	KindReadStmt
	KindWriteStmt
	KindContinueStmt
	KindDoStmt
	KindEndDoStmt
	KindForallStmt
	KindCaseStmt
	KindEndStmt

	// Constructs
	KindDoConstruct
	KindForallConstruct
	KindIfConstruct
	KindCaseConstruct
	KindSelectRankConstruct
	KindSelectTypeConstruct
	KindBlockConstruct
	KindCriticalConstruct

	// Dialect directives
	KindAccDirective
	KindOmpDirective
	KindCudaAttributeStmt

	// Expressions
	KindNameExpr
	KindLiteralExpr

	nodeKindCount
)

var kindNames = [nodeKindCount]string{
	KindInvalid:              "invalid",
	KindProgram:              "program",
	KindMainProgram:          "main-program",
	KindModule:               "module",
	KindFunctionSubprogram:   "function",
	KindSubroutineSubprogram: "subroutine",
	KindBlockData:            "block-data",
	KindSpecificationPart:    "specification-part",
	KindExecutionPart:        "execution-part",
	KindTypeDeclarationStmt:  "type-declaration-stmt",
	KindEntityDecl:           "entity-decl",
	KindCommonStmt:           "common-stmt",
	KindCommonBlockDecl:      "common-block-decl",
	KindEquivalenceStmt:      "equivalence-stmt",
	KindDataStmt:             "data-stmt",
	KindDataObject:           "data-object",
	KindDataValue:            "data-value",
	KindNamelistStmt:         "namelist-stmt",
	KindCrayPointerStmt:      "cray-pointer-stmt",
	KindStmtFunctionStmt:     "stmt-function-stmt",
	KindAssignmentStmt:       "assignment-stmt",
	KindCallStmt:             "call-stmt",
	KindEntryStmt:            "entry-stmt",
	KindStopStmt:             "stop-stmt",
	KindAllocateStmt:         "allocate-stmt",
	KindDeallocateStmt:       "deallocate-stmt",
	KindNullifyStmt:          "nullify-stmt",
	KindReturnStmt:           "return-stmt",
	KindGotoStmt:             "goto-stmt",
	KindAssignStmt:           "assign-stmt",
	KindAssignedGotoStmt:     "assigned-goto-stmt",
	KindArithmeticIfStmt:     "arithmetic-if-stmt",
	KindIfStmt:               "if-stmt",
	KindReadStmt:             "read-stmt",
	KindWriteStmt:            "write-stmt",
	KindContinueStmt:         "continue-stmt",
	KindDoStmt:               "do-stmt",
	KindEndDoStmt:            "end-do-stmt",
	KindForallStmt:           "forall-stmt",
	KindCaseStmt:             "case-stmt",
	KindEndStmt:              "end-stmt",
	KindDoConstruct:          "do-construct",
	KindForallConstruct:      "forall-construct",
	KindIfConstruct:          "if-construct",
	KindCaseConstruct:        "case-construct",
	KindSelectRankConstruct:  "select-rank-construct",
	KindSelectTypeConstruct:  "select-type-construct",
	KindBlockConstruct:       "block-construct",
	KindCriticalConstruct:    "critical-construct",
	KindAccDirective:         "acc-directive",
	KindOmpDirective:         "omp-directive",
	KindCudaAttributeStmt:    "cuda-attribute-stmt",
	KindNameExpr:             "name-expr",
	KindLiteralExpr:          "literal-expr",
}

func (k NodeKind) String() string {
	if k < nodeKindCount {
		return kindNames[k]
	}
	return "unknown"
}

// IsStatement reports whether k is a statement-level node: entering one sets
// the analysis context's current location and leaving clears it.
func (k NodeKind) IsStatement() bool {
	return k >= KindTypeDeclarationStmt && k <= KindEndStmt
}

// IsConstruct reports whether k is an executable block construct tracked on
// the construct stack.
func (k NodeKind) IsConstruct() bool {
	return k >= KindDoConstruct && k <= KindCriticalConstruct
}

// IsDirective reports whether k is a dialect-extension directive.
func (k NodeKind) IsDirective() bool {
	return k >= KindAccDirective && k <= KindCudaAttributeStmt
}

// DeclAttr carries declaration attributes from the parser to resolution.
type DeclAttr uint16

const (
	AttrAllocatable DeclAttr = 1 << iota
	AttrPointer
	AttrSave
	AttrBindC
	AttrPure
	AttrParameter
	AttrInitialized
)

// Node is one parse-tree node. Sym is populated by name resolution; Span of
// a statement is the source extent diagnostics are attributed to while the
// statement is being checked.
type Node struct {
	Kind     NodeKind
	Span     source.Span
	Name     source.StringID
	Sym      symbols.SymbolID
	Label    uint32 // statement label, 0 if none
	Value    int64  // literal value, branch-target label, rank, ...
	Type     symbols.Type
	Attrs    DeclAttr
	Children []*Node
}

// AddChild appends c and widens n's span to cover it.
func (n *Node) AddChild(c *Node) *Node {
	n.Children = append(n.Children, c)
	if n.Span.Empty() {
		n.Span = c.Span
	} else {
		n.Span = n.Span.Cover(c.Span)
	}
	return n
}

// FindChild returns the first direct child of the given kind, or nil.
func (n *Node) FindChild(kind NodeKind) *Node {
	for _, c := range n.Children {
		if c.Kind == kind {
			return c
		}
	}
	return nil
}
