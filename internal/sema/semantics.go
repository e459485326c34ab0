package sema

import (
	"io"

	"fern/internal/ast"
	"fern/internal/canon"
	"fern/internal/diag"
	"fern/internal/dialect"
	"fern/internal/labels"
	"fern/internal/modfile"
	"fern/internal/resolve"
	"fern/internal/source"
)

// Semantics drives the full analysis pipeline over one program tree. The
// pass order is fixed: label validation, canonicalization, statement
// semantics, the post-semantics directive sweep, and module-file output.
// A pass that raises a fatal diagnostic short-circuits everything after it;
// non-fatal warnings never stop the pipeline.
type Semantics struct {
	ctx     *Context
	program *ast.Node
}

// New prepares analysis of program under ctx. The context takes ownership of
// the tree so it outlives the pipeline run.
func New(ctx *Context, program *ast.Node) *Semantics {
	ctx.SaveProgramTree(program)
	return &Semantics{ctx: ctx, program: program}
}

// Context exposes the underlying analysis context.
func (s *Semantics) Context() *Context { return s.ctx }

// Perform runs the pipeline and reports overall success: true means no
// fatal diagnostic was raised by any pass.
func (s *Semantics) Perform() bool {
	s.bootstrapBuiltins()
	passes := []func() bool{
		func() bool { return labels.Validate(s.ctx.Reporter(), s.program) },
		func() bool { return canon.Do(s.ctx.Reporter(), s.program) },
		func() bool { return canon.ACC(s.ctx.Reporter(), s.program) },
		func() bool { return canon.OMP(s.ctx.Reporter(), s.program) },
		func() bool { return canon.CUDA(s.ctx.Reporter(), s.program) },
		s.performStatementSemantics,
		func() bool { return canon.Directives(s.ctx.Reporter(), s.program) },
		s.writeModuleFiles,
	}
	for _, pass := range passes {
		if !pass() || s.ctx.AnyFatalError() {
			return false
		}
	}
	return true
}

// bootstrapBuiltins loads the built-in support modules the unit will need,
// unless the unit being compiled is itself one of them. The PPC modules
// depend on the PPC type module, and targeting PowerPC pulls in all of
// them up front.
func (s *Semantics) bootstrapBuiltins() {
	switch s.compiledModuleName() {
	case BuiltinsModule, PPCTypesModule:
		return
	case PPCIntrinsicsModule, PPCMMAModule:
		s.ctx.UsePPCTypesModule()
		return
	}
	s.ctx.UseBuiltinsModule()
	if s.ctx.Target.IsPowerPC() {
		s.ctx.UsePPCTypesModule()
		s.ctx.UsePPCIntrinsicsModule()
	}
}

// compiledModuleName returns the name of the first module unit in the tree,
// or "" when the tree holds no module.
func (s *Semantics) compiledModuleName() string {
	for _, unit := range s.program.Children {
		if unit.Kind == ast.KindModule && unit.Name != source.NoStringID {
			return s.ctx.Table.Strings.MustLookup(unit.Name)
		}
	}
	return ""
}

// performStatementSemantics is the core pass: resolution, tree rewriting,
// offsets, declaration checking, and the two checker traversals, followed
// by the whole-unit analyses that only make sense on an error-free unit.
func (s *Semantics) performStatementSemantics() bool {
	if !resolve.ResolveNames(s.ctx.Table, s.ctx.Reporter(), s.ctx, s.program) {
		return false
	}
	RewriteParseTree(s.ctx, s.program)
	ComputeOffsets(s.ctx)
	CheckDeclarations(s.ctx)
	if s.ctx.AnyFatalError() {
		return false
	}

	pass1 := MustCompose(s.ctx, NewExprChecker(s.ctx))
	if !pass1.Walk(s.program) {
		return false
	}

	data := NewDataChecker(s.ctx)
	pass2 := MustCompose(s.ctx,
		NewAssignmentChecker(s.ctx),
		NewDoForallChecker(s.ctx),
		data,
		NewAllocateChecker(s.ctx),
		NewDeallocateChecker(s.ctx),
		NewNullifyChecker(s.ctx),
		NewBranchChecker(s.ctx),
		NewCaseChecker(s.ctx),
		NewSelectRankChecker(s.ctx),
		NewSelectTypeChecker(s.ctx),
		NewCoarrayChecker(s.ctx),
		NewIoChecker(s.ctx),
		NewNamelistChecker(s.ctx),
		NewPurityChecker(s.ctx),
		NewReturnChecker(s.ctx),
		NewStopChecker(s.ctx),
		NewMiscChecker(s.ctx),
	)
	ok := pass2.Walk(s.program)

	if ok && s.ctx.Features.Enabled(dialect.ExtACC) {
		ok = MustCompose(s.ctx, NewAccStructureChecker(s.ctx)).Walk(s.program)
	}
	if ok && s.ctx.Features.Enabled(dialect.ExtOMP) {
		ok = MustCompose(s.ctx, NewOmpStructureChecker(s.ctx)).Walk(s.program)
	}
	if ok && s.ctx.Features.Enabled(dialect.ExtCUDA) {
		ok = MustCompose(s.ctx, NewCudaChecker(s.ctx)).Walk(s.program)
	}
	if !ok {
		return false
	}

	WarnUndefinedFunctionResult(s.ctx)
	if s.ctx.AnyFatalError() {
		return false
	}
	data.CompileDataInitializations()
	return true
}

func (s *Semantics) writeModuleFiles() bool {
	w := modfile.NewWriter(s.ctx.Table, s.ctx.Reporter(), s.ctx.Options.ModuleOutputDir).
		SetHermetic(s.ctx.Options.HermeticModuleFiles)
	return w.WriteAll()
}

// EmitMessages renders the collected diagnostics in source order.
func (s *Semantics) EmitMessages(w io.Writer) {
	s.ctx.Messages.Sort()
	diag.Emit(w, s.ctx.Messages, s.ctx.Files, true)
}

// AnyFatalError reports whether analysis failed.
func (s *Semantics) AnyFatalError() bool { return s.ctx.AnyFatalError() }

// DumpSymbols writes the scope-tree debugging dump.
func (s *Semantics) DumpSymbols(w io.Writer) { s.ctx.DumpSymbols(w) }

// DumpSymbolsSources writes the flat symbol listing with source positions.
func (s *Semantics) DumpSymbolsSources(w io.Writer) { s.ctx.DumpSymbolsSources(w) }
