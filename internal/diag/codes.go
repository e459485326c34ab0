package diag

import (
	"fmt"
)

// Code identifies a diagnostic kind. Ranges are reserved per phase.
type Code uint16

const (
	UnknownCode Code = 0

	// Label validation (1xxx)
	LabelInfo      Code = 1000
	LabelDuplicate Code = 1001
	LabelUndefined Code = 1002
	LabelBadBranch Code = 1003

	// Canonicalization (2xxx)
	CanonInfo             Code = 2000
	CanonMalformedDo      Code = 2001
	CanonOrphanDirective  Code = 2002
	CanonMisplacedPragma  Code = 2003
	CanonDanglingEndLabel Code = 2004

	// Statement semantics (3xxx)
	SemaInfo                    Code = 3000
	SemaEntryInConstruct        Code = 3001
	SemaAssignTargetKind        Code = 3002
	SemaIndexVarRedefinition    Code = 3003
	SemaIndexVarPossibleRedef   Code = 3004
	SemaCommonMultipleInit      Code = 3005
	SemaCommonDistinctSizes     Code = 3006
	SemaUndefinedFunctionResult Code = 3007
	SemaAllocateBadObject       Code = 3008
	SemaDeallocateBadObject     Code = 3009
	SemaNullifyBadObject        Code = 3010
	SemaArithmeticIfOperand     Code = 3011
	SemaStopCodeKind            Code = 3012
	SemaCaseDuplicate           Code = 3013
	SemaReturnOutsideSubprogram Code = 3014
	SemaPurityViolation         Code = 3015
	SemaCoarrayBadContext       Code = 3016
	SemaIoBadUnit               Code = 3017
	SemaNamelistBadMember       Code = 3018
	SemaSelectRankBadSelector   Code = 3019
	SemaSelectTypeBadSelector   Code = 3020
	SemaDataBadObject           Code = 3021
	SemaDuplicateName           Code = 3022
	SemaUnresolvedName          Code = 3023
	SemaExprBadOperand          Code = 3024
	SemaDeclConflict            Code = 3025
	SemaParamNoInit             Code = 3026

	// Dialect structure (35xx)
	SemaAccBadNesting Code = 3500
	SemaOmpBadNesting Code = 3501
	SemaCudaBadAttr   Code = 3502

	// Module files (4xxx)
	ModInfo       Code = 4000
	ModReadError  Code = 4001
	ModWriteError Code = 4002
)

func (c Code) String() string {
	return fmt.Sprintf("FRN%04d", uint16(c))
}
