// Package sema drives semantic analysis: the fixed-order pass pipeline, the
// checker composition engine, the scope location index, and cross-program
// common-block merging. One Context instance lives per translation unit;
// analysis is strictly sequential, so none of the mutable state here is
// synchronized.
package sema

import (
	"fmt"
	"strconv"
	"strings"

	"fern/internal/ast"
	"fern/internal/config"
	"fern/internal/diag"
	"fern/internal/dialect"
	"fern/internal/modfile"
	"fern/internal/source"
	"fern/internal/symbols"
	"fern/internal/target"
)

// Reserved built-in module names. The front module of a program unit is
// checked against these so that compiling a built-in module does not try to
// implicitly read itself.
const (
	BuiltinsModule      = "__fern_builtins"
	PPCTypesModule      = "__ppc_types"
	PPCIntrinsicsModule = "__ppc_intrinsics"
	PPCMMAModule        = "mma"
)

// tempNamePrefix is reserved for compiler-generated names.
const tempNamePrefix = ".fern."

// IndexVarKind distinguishes the construct that activated an index variable.
type IndexVarKind uint8

const (
	IndexVarDo IndexVarKind = iota
	IndexVarForall
)

func (k IndexVarKind) String() string {
	if k == IndexVarForall {
		return "FORALL"
	}
	return "DO"
}

// IndexVarInfo records an active controlled variable: where it was
// activated and by what construct kind. Its lifetime is bounded by the
// owning construct's entry and exit.
type IndexVarInfo struct {
	Location source.Span
	Kind     IndexVarKind
	// Depth is the construct-stack depth at activation; it decides whether
	// a redefinition happens under the variable's own innermost construct
	// (error) or under a nested one (warning).
	Depth int
}

// ConstructFrame is one entry of the construct stack.
type ConstructFrame struct {
	Kind ast.NodeKind
	Span source.Span
}

// Context is the shared mutable state of one translation-unit analysis. It
// is injected explicitly into every pipeline stage and traversal rather
// than reached through ambient state.
type Context struct {
	Options  config.Options
	Features dialect.Features
	Target   target.Characteristics
	Files    *source.FileSet
	Table    *symbols.Table
	Messages *diag.Bag

	categories diag.Categories
	reporter   diag.BagReporter

	location    source.Span
	hasLocation bool

	constructStack  []ConstructFrame
	activeIndexVars map[symbols.SymbolID]IndexVarInfo

	errorSymbols   map[symbols.SymbolID]struct{}
	definedSymbols map[symbols.SymbolID]struct{}

	tempNames []string

	scopeIndex ScopeIndex

	commonBlocks *CommonBlockMap

	moduleReader *modfile.Reader

	builtinsScope      symbols.ScopeID
	builtinsLoaded     bool
	ppcTypesScope      symbols.ScopeID
	ppcTypesLoaded     bool
	ppcIntrinsicsScope symbols.ScopeID
	ppcIntrinsicsLoad  bool

	savedTrees []*ast.Node
}

// NewContext builds the per-translation-unit analysis context.
func NewContext(opts config.Options, files *source.FileSet) *Context {
	table := symbols.NewTable(symbols.Hints{}, nil)
	bag := diag.NewBag(opts.MaxErrors)
	ctx := &Context{
		Options:         opts,
		Target:          target.Detect(opts.TargetCPU),
		Files:           files,
		Table:           table,
		Messages:        bag,
		categories:      diag.AllCategories(),
		reporter:        diag.BagReporter{Bag: bag},
		activeIndexVars: make(map[symbols.SymbolID]IndexVarInfo),
		errorSymbols:    make(map[symbols.SymbolID]struct{}),
		definedSymbols:  make(map[symbols.SymbolID]struct{}),
		commonBlocks:    NewCommonBlockMap(),
	}
	for name, on := range opts.Warnings {
		switch name {
		case diag.CatIndexVarRedefinition.String():
			ctx.categories.Set(diag.CatIndexVarRedefinition, on)
		case diag.CatUndefinedFunctionResult.String():
			ctx.categories.Set(diag.CatUndefinedFunctionResult, on)
		case diag.CatDistinctCommonSizes.String():
			ctx.categories.Set(diag.CatDistinctCommonSizes, on)
		}
	}
	for _, ext := range opts.Extensions {
		if e, ok := dialect.Parse(ext); ok {
			ctx.Features.Enable(e)
		}
	}
	ctx.moduleReader = modfile.NewReader(table, ctx.reporter, opts.ModuleDirs)
	return ctx
}

// Reporter returns the diagnostic sink for collaborators.
func (c *Context) Reporter() diag.Reporter { return c.reporter }

// GlobalScope returns the root scope of the scope graph.
func (c *Context) GlobalScope() symbols.ScopeID { return c.Table.Global }

// AnyFatalError reports whether a halting diagnostic has been collected,
// honoring warnings-are-errors with per-category enablement.
func (c *Context) AnyFatalError() bool {
	return c.Messages.AnyFatal(c.Options.WarningsAreErrors, c.categories)
}

// ShouldWarn reports whether a warning category is enabled.
func (c *Context) ShouldWarn(cat diag.Category) bool {
	return c.categories.Enabled(cat)
}

// Location returns the current statement location, if any.
func (c *Context) Location() (source.Span, bool) {
	return c.location, c.hasLocation
}

// SetLocation attributes subsequent diagnostics to a statement's span.
func (c *Context) SetLocation(sp source.Span) {
	c.location = sp
	c.hasLocation = true
}

// ClearLocation resets the current location to "none".
func (c *Context) ClearLocation() {
	c.location = source.Span{}
	c.hasLocation = false
}

// Say reports a fatal error at sp.
func (c *Context) Say(sp source.Span, code diag.Code, format string, args ...any) *diag.Diagnostic {
	return c.reporter.Report(diag.NewError(code, sp, fmt.Sprintf(format, args...)))
}

// SayHere reports a fatal error at the current statement location.
func (c *Context) SayHere(code diag.Code, format string, args ...any) *diag.Diagnostic {
	return c.Say(c.location, code, format, args...)
}

// Warn reports a category-gated warning at sp; returns nil if the category
// is disabled.
func (c *Context) Warn(cat diag.Category, code diag.Code, sp source.Span, format string, args ...any) *diag.Diagnostic {
	if !c.ShouldWarn(cat) {
		return nil
	}
	return c.reporter.Report(diag.NewWarning(code, cat, sp, fmt.Sprintf(format, args...)))
}

// Portability reports a category-gated portability note at sp.
func (c *Context) Portability(cat diag.Category, code diag.Code, sp source.Span, format string, args ...any) *diag.Diagnostic {
	if !c.ShouldWarn(cat) {
		return nil
	}
	return c.reporter.Report(diag.NewPortability(code, cat, sp, fmt.Sprintf(format, args...)))
}

// HasError reports whether the symbol was marked erroneous.
func (c *Context) HasError(sym symbols.SymbolID) bool {
	if !sym.IsValid() {
		return true
	}
	_, ok := c.errorSymbols[sym]
	return ok
}

// SetError marks a symbol as carrying an error. A fatal diagnostic must
// already have been emitted; otherwise the diagnostic and error-flag
// subsystems have desynchronized and the process aborts.
func (c *Context) SetError(sym symbols.SymbolID, value bool) {
	if !value {
		return
	}
	if !c.AnyFatalError() {
		panic(fmt.Sprintf("no error was reported but setting error on: %s", c.Table.Name(sym)))
	}
	c.errorSymbols[sym] = struct{}{}
}

// NoteDefinedSymbol records that analysis saw the symbol being given a
// value.
func (c *Context) NoteDefinedSymbol(sym symbols.SymbolID) {
	if sym.IsValid() {
		c.definedSymbols[sym] = struct{}{}
	}
}

// IsSymbolDefined reports whether the symbol was given a value during
// analysis.
func (c *Context) IsSymbolDefined(sym symbols.SymbolID) bool {
	_, ok := c.definedSymbols[sym]
	return ok
}

// PushConstruct records entry into an executable block construct.
func (c *Context) PushConstruct(n *ast.Node) {
	c.constructStack = append(c.constructStack, ConstructFrame{Kind: n.Kind, Span: n.Span})
}

// PopConstruct records exit from the innermost construct.
func (c *Context) PopConstruct() {
	if len(c.constructStack) == 0 {
		panic("sema: construct stack underflow")
	}
	c.constructStack = c.constructStack[:len(c.constructStack)-1]
}

// ConstructStack returns the current construct nesting, innermost last.
func (c *Context) ConstructStack() []ConstructFrame {
	return c.constructStack
}

// ConstructDepth returns the current construct nesting depth.
func (c *Context) ConstructDepth() int { return len(c.constructStack) }

// ActivateIndexVar registers name's symbol as the controlled variable of the
// construct just entered. An already-active entry for the same underlying
// entity is itself a guard violation and is reported before the entry is
// replaced.
func (c *Context) ActivateIndexVar(name *ast.Node, kind IndexVarKind) {
	if name == nil || !name.Sym.IsValid() {
		return
	}
	c.CheckIndexVarRedefine(name.Span, name.Sym)
	ultimate := c.Table.ResolveAssociations(name.Sym)
	c.activeIndexVars[ultimate] = IndexVarInfo{
		Location: name.Span,
		Kind:     kind,
		Depth:    len(c.constructStack),
	}
}

// DeactivateIndexVar removes the active entry for name's symbol, but only
// if the entry still records name's own activation: a shadowing
// re-activation must not be removed by the stale outer deactivation.
func (c *Context) DeactivateIndexVar(name *ast.Node) {
	if name == nil || !name.Sym.IsValid() {
		return
	}
	ultimate := c.Table.ResolveAssociations(name.Sym)
	if info, ok := c.activeIndexVars[ultimate]; ok && info.Location == name.Span {
		delete(c.activeIndexVars, ultimate)
	}
}

// CheckIndexVarRedefine reports an assignment to an active index variable.
// Redefining the control variable of its own innermost active construct is
// an error; redefining one active from an enclosing construct is a
// suppressible warning. Both attach the controlling construct's location.
func (c *Context) CheckIndexVarRedefine(sp source.Span, sym symbols.SymbolID) *diag.Diagnostic {
	if !sym.IsValid() {
		return nil
	}
	ultimate := c.Table.ResolveAssociations(sym)
	info, ok := c.activeIndexVars[ultimate]
	if !ok {
		return nil
	}
	name := c.Table.Name(ultimate)
	var msg *diag.Diagnostic
	if info.Depth == len(c.constructStack) {
		msg = c.Say(sp, diag.SemaIndexVarRedefinition,
			"Cannot redefine %s variable '%s'", info.Kind, name)
	} else {
		msg = c.Warn(diag.CatIndexVarRedefinition, diag.SemaIndexVarPossibleRedef, sp,
			"Possible redefinition of %s variable '%s'", info.Kind, name)
	}
	return diag.Attach(msg, info.Location, fmt.Sprintf("Enclosing %s construct", info.Kind))
}

// GetIndexVars returns the symbols currently active for the given kind.
func (c *Context) GetIndexVars(kind IndexVarKind) []symbols.SymbolID {
	var out []symbols.SymbolID
	for sym, info := range c.activeIndexVars {
		if info.Kind == kind {
			out = append(out, sym)
		}
	}
	return out
}

// SaveTempName adds a compiler-generated name to the pool.
func (c *Context) SaveTempName(name string) string {
	c.tempNames = append(c.tempNames, name)
	return name
}

// GetTempName returns a compiler-generated name unused in scope, reusing
// pooled names when possible.
func (c *Context) GetTempName(scope symbols.ScopeID) string {
	for _, name := range c.tempNames {
		if !IsTempName(name) {
			continue
		}
		if !c.Table.LookupLocal(scope, c.Table.Strings.Intern(name)).IsValid() {
			return name
		}
	}
	return c.SaveTempName(tempNamePrefix + strconv.Itoa(len(c.tempNames)))
}

// IsTempName reports whether name was synthesized by GetTempName.
func IsTempName(name string) bool {
	return strings.HasPrefix(name, tempNamePrefix) && len(name) > len(tempNamePrefix)
}

// FindScope returns the innermost scope containing the source position.
func (c *Context) FindScope(sp source.Span) symbols.ScopeID {
	return c.scopeIndex.Find(c.Table, sp)
}

// UpdateScopeIndex attributes newSpan to scope, registering or re-keying
// its index entry and growing the scope's recorded range.
func (c *Context) UpdateScopeIndex(scope symbols.ScopeID, newSpan source.Span) {
	c.scopeIndex.Update(c.Table, scope, newSpan)
}

// IsInModuleFile reports whether the position lies in a scope read from a
// compiled module file.
func (c *Context) IsInModuleFile(sp source.Span) bool {
	return c.Table.IsInModuleFileScope(c.FindScope(sp))
}

// MapCommonBlockAndCheckConflicts merges one common-block appearance.
func (c *Context) MapCommonBlockAndCheckConflicts(common symbols.SymbolID) {
	c.commonBlocks.Add(c, common)
}

// CommonBlocks finalizes the merge table into (representative, size) pairs.
func (c *Context) CommonBlocks() []CommonBlock {
	return c.commonBlocks.Blocks(c.Table)
}

// SaveProgramTree transfers ownership of a parse tree to the context, which
// keeps every analyzed tree for the life of the translation unit. The passes
// mutate the tree in place and node symbols stay bound after analysis, so a
// tree must outlive the pipeline run that produced its diagnostics.
func (c *Context) SaveProgramTree(tree *ast.Node) *ast.Node {
	c.savedTrees = append(c.savedTrees, tree)
	return tree
}

func (c *Context) getBuiltinModule(name string) symbols.ScopeID {
	return c.moduleReader.Read(name, true, true)
}

// UseBuiltinsModule lazily loads the core built-in support module.
func (c *Context) UseBuiltinsModule() symbols.ScopeID {
	if !c.builtinsLoaded {
		c.builtinsScope = c.getBuiltinModule(BuiltinsModule)
		c.builtinsLoaded = true
	}
	return c.builtinsScope
}

// UsePPCTypesModule lazily loads the PowerPC vector-type module.
func (c *Context) UsePPCTypesModule() symbols.ScopeID {
	if !c.ppcTypesLoaded {
		c.ppcTypesScope = c.getBuiltinModule(PPCTypesModule)
		c.ppcTypesLoaded = true
	}
	return c.ppcTypesScope
}

// UsePPCIntrinsicsModule lazily loads the PowerPC intrinsics module.
func (c *Context) UsePPCIntrinsicsModule() symbols.ScopeID {
	if !c.ppcIntrinsicsLoad {
		c.ppcIntrinsicsScope = c.getBuiltinModule(PPCIntrinsicsModule)
		c.ppcIntrinsicsLoad = true
	}
	return c.ppcIntrinsicsScope
}
