// Package ast defines the Sigil abstract syntax tree: the tagged-union
// node kinds produced by internal/parser and consumed by
// internal/validator and internal/types.
package ast

import "github.com/sigil-lang/sigil/internal/source"

// Node is implemented by every AST node.
type Node interface {
	Span() source.Span
}

// Decl is implemented by every declaration kind.
type Decl interface {
	Node
	declNode()
}

// Expr is implemented by every expression kind.
type Expr interface {
	Node
	exprNode()
}

// Pattern is implemented by every pattern kind.
type Pattern interface {
	Node
	patternNode()
}

// Type is implemented by every type-syntax kind.
type Type interface {
	Node
	typeNode()
}

// Program is the root of a parsed file: an ordered list of top-level
// declarations.
type Program struct {
	Declarations []Decl
	Loc          source.Span
}

func (p *Program) Span() source.Span { return p.Loc }

// ---- Declarations ----

// FunctionDecl is a top-level function: λ name(params) → [!Effects]
// ReturnType = body, or the same header followed directly by a ≡ match
// body with no =.
type FunctionDecl struct {
	Name       string
	IsMockable bool
	IsExported bool
	Params     []Param
	Effects    []string
	ReturnType Type
	Body       Expr
	Loc        source.Span
}

func (d *FunctionDecl) Span() source.Span { return d.Loc }
func (d *FunctionDecl) declNode()         {}

// Param is a function or lambda parameter.
type Param struct {
	Name           string
	TypeAnnotation Type
	IsMutable      bool
	Loc            source.Span
}

func (p Param) Span() source.Span { return p.Loc }

// TypeDecl declares a named type: sum, product, or alias.
type TypeDecl struct {
	Name       string
	IsExported bool
	TypeParams []string
	Definition TypeDef
	Loc        source.Span
}

func (d *TypeDecl) Span() source.Span { return d.Loc }
func (d *TypeDecl) declNode()         {}

// TypeDef is the right-hand side of a type declaration.
type TypeDef interface {
	typeDefNode()
}

// SumType is a tagged union: t Maybe[T] = Some(T) | None
type SumType struct {
	Variants []Variant
	Loc      source.Span
}

func (SumType) typeDefNode() {}

// Variant is one arm of a sum type.
type Variant struct {
	Name  string
	Types []Type
	Loc   source.Span
}

// ProductType is a record: { field1: Type1, field2: Type2 }
type ProductType struct {
	Fields []Field
	Loc    source.Span
}

func (ProductType) typeDefNode() {}

// Field is one member of a product type.
type Field struct {
	Name      string
	FieldType Type
	Loc       source.Span
}

// TypeAlias is `t Name = ExistingType`.
type TypeAlias struct {
	AliasedType Type
	Loc         source.Span
}

func (TypeAlias) typeDefNode() {}

// ImportDecl is `i stdlib⋅list`. There is no selective import form;
// the whole module is bound as a namespace.
type ImportDecl struct {
	ModulePath []string
	IsExported bool
	Loc        source.Span
}

func (d *ImportDecl) Span() source.Span { return d.Loc }
func (d *ImportDecl) declNode()         {}

// ConstDecl is `c pi = (3.14159 : ℝ)`.
type ConstDecl struct {
	Name           string
	IsExported     bool
	TypeAnnotation Type
	Value          Expr
	Loc            source.Span
}

func (d *ConstDecl) Span() source.Span { return d.Loc }
func (d *ConstDecl) declNode()         {}

// TestDecl is a string-described test block, only valid under a
// /tests/ path segment.
type TestDecl struct {
	Description string
	IsExported  bool
	Effects     []string
	Body        Expr
	Loc         source.Span
}

func (d *TestDecl) Span() source.Span { return d.Loc }
func (d *TestDecl) declNode()         {}

// ExternDecl is an FFI namespace declaration: e fs⋅promises : { ... }
type ExternDecl struct {
	ModulePath []string
	IsExported bool
	Members    []ExternMember // nil means untyped members
	Loc        source.Span
}

func (d *ExternDecl) Span() source.Span { return d.Loc }
func (d *ExternDecl) declNode()         {}

// ExternMember gives one extern namespace member a type signature.
type ExternMember struct {
	Name       string
	MemberType Type
	Loc        source.Span
}

// ---- Expressions ----

// LiteralKind distinguishes the payload type of a LiteralExpr.
type LiteralKind int

const (
	LitInt LiteralKind = iota
	LitFloat
	LitString
	LitChar
	LitBool
	LitUnit
)

// LiteralExpr is a scalar literal: 42, 3.14, "hello", 'c', true, false, ().
type LiteralExpr struct {
	Kind  LiteralKind
	Value interface{}
	Loc   source.Span
}

func (e *LiteralExpr) Span() source.Span { return e.Loc }
func (e *LiteralExpr) exprNode()         {}

// IdentifierExpr is a bare name reference.
type IdentifierExpr struct {
	Name string
	Loc  source.Span
}

func (e *IdentifierExpr) Span() source.Span { return e.Loc }
func (e *IdentifierExpr) exprNode()         {}

// LambdaExpr is an anonymous function: λ(x: ℤ) → ℤ { x + 1 }. As with
// FunctionDecl, the return type is mandatory syntax, never inferred.
type LambdaExpr struct {
	Params     []Param
	Effects    []string
	ReturnType Type
	Body       Expr
	Loc        source.Span
}

func (e *LambdaExpr) Span() source.Span { return e.Loc }
func (e *LambdaExpr) exprNode()         {}

// ApplicationExpr is a function call: f(x, y).
type ApplicationExpr struct {
	Func Expr
	Args []Expr
	Loc  source.Span
}

func (e *ApplicationExpr) Span() source.Span { return e.Loc }
func (e *ApplicationExpr) exprNode()         {}

// BinaryOperator enumerates the infix operators recognized at
// comparison/additive/multiplicative precedence.
type BinaryOperator int

const (
	OpAdd BinaryOperator = iota
	OpSubtract
	OpMultiply
	OpDivide
	OpModulo
	OpPower
	OpEqual
	OpNotEqual
	OpLess
	OpGreater
	OpLessEq
	OpGreaterEq
	OpAnd
	OpOr
	OpAppend
	OpListAppend
)

func (op BinaryOperator) String() string {
	switch op {
	case OpAdd:
		return "+"
	case OpSubtract:
		return "-"
	case OpMultiply:
		return "*"
	case OpDivide:
		return "/"
	case OpModulo:
		return "%"
	case OpPower:
		return "^"
	case OpEqual:
		return "="
	case OpNotEqual:
		return "≠"
	case OpLess:
		return "<"
	case OpGreater:
		return ">"
	case OpLessEq:
		return "≤"
	case OpGreaterEq:
		return "≥"
	case OpAnd:
		return "∧"
	case OpOr:
		return "∨"
	case OpAppend:
		return "++"
	case OpListAppend:
		return "⧺"
	default:
		return "?"
	}
}

// BinaryExpr is `left op right`.
type BinaryExpr struct {
	Left     Expr
	Operator BinaryOperator
	Right    Expr
	Loc      source.Span
}

func (e *BinaryExpr) Span() source.Span { return e.Loc }
func (e *BinaryExpr) exprNode()         {}

// UnaryOperator enumerates the prefix operators.
type UnaryOperator int

const (
	OpNegate UnaryOperator = iota
	OpNot
	OpLength
)

func (op UnaryOperator) String() string {
	switch op {
	case OpNegate:
		return "-"
	case OpNot:
		return "¬"
	case OpLength:
		return "#"
	default:
		return "?"
	}
}

// UnaryExpr is `op operand`.
type UnaryExpr struct {
	Operator UnaryOperator
	Operand  Expr
	Loc      source.Span
}

func (e *UnaryExpr) Span() source.Span { return e.Loc }
func (e *UnaryExpr) exprNode()         {}

// MatchExpr is `≡ scrutinee { pattern [when guard] → body | ... }`.
type MatchExpr struct {
	Scrutinee Expr
	Arms      []MatchArm
	Loc       source.Span
}

func (e *MatchExpr) Span() source.Span { return e.Loc }
func (e *MatchExpr) exprNode()         {}

// MatchArm is one `pattern [when guard] → body` arm.
type MatchArm struct {
	Pattern Pattern
	Guard   Expr // nil when no guard
	Body    Expr
	Loc     source.Span
}

// LetExpr is `l pattern = value ; body`.
type LetExpr struct {
	Pattern Pattern
	Value   Expr
	Body    Expr
	Loc     source.Span
}

func (e *LetExpr) Span() source.Span { return e.Loc }
func (e *LetExpr) exprNode()         {}

// IfExpr is a conditional with an optional else branch.
type IfExpr struct {
	Condition  Expr
	ThenBranch Expr
	ElseBranch Expr // nil when absent
	Loc        source.Span
}

func (e *IfExpr) Span() source.Span { return e.Loc }
func (e *IfExpr) exprNode()         {}

// ListExpr is `[e1, e2, e3]`.
type ListExpr struct {
	Elements []Expr
	Loc      source.Span
}

func (e *ListExpr) Span() source.Span { return e.Loc }
func (e *ListExpr) exprNode()         {}

// RecordExpr is `{ x: 10, y: 20 }`.
type RecordExpr struct {
	Fields []RecordField
	Loc    source.Span
}

func (e *RecordExpr) Span() source.Span { return e.Loc }
func (e *RecordExpr) exprNode()         {}

// RecordField is one `name: value` member of a record literal.
type RecordField struct {
	Name  string
	Value Expr
	Loc   source.Span
}

// TupleExpr is `(e1, e2, e3)`.
type TupleExpr struct {
	Elements []Expr
	Loc      source.Span
}

func (e *TupleExpr) Span() source.Span { return e.Loc }
func (e *TupleExpr) exprNode()         {}

// FieldAccessExpr is `object.field`.
type FieldAccessExpr struct {
	Object Expr
	Field  string
	Loc    source.Span
}

func (e *FieldAccessExpr) Span() source.Span { return e.Loc }
func (e *FieldAccessExpr) exprNode()         {}

// IndexExpr is `object[index]`.
type IndexExpr struct {
	Object Expr
	Index  Expr
	Loc    source.Span
}

func (e *IndexExpr) Span() source.Span { return e.Loc }
func (e *IndexExpr) exprNode()         {}

// PipelineOperator enumerates the pipeline/composition operators.
type PipelineOperator int

const (
	PipePipe PipelineOperator = iota
	PipeComposeFwd
	PipeComposeBwd
)

func (op PipelineOperator) String() string {
	switch op {
	case PipePipe:
		return "|>"
	case PipeComposeFwd:
		return ">>"
	case PipeComposeBwd:
		return "<<"
	default:
		return "?"
	}
}

// PipelineExpr is `left |> right`, `left >> right`, or `left << right`.
type PipelineExpr struct {
	Left     Expr
	Operator PipelineOperator
	Right    Expr
	Loc      source.Span
}

func (e *PipelineExpr) Span() source.Span { return e.Loc }
func (e *PipelineExpr) exprNode()         {}

// MapExpr is `list ↦ fn`.
type MapExpr struct {
	List Expr
	Func Expr
	Loc  source.Span
}

func (e *MapExpr) Span() source.Span { return e.Loc }
func (e *MapExpr) exprNode()         {}

// FilterExpr is `list ⊳ predicate`.
type FilterExpr struct {
	List      Expr
	Predicate Expr
	Loc       source.Span
}

func (e *FilterExpr) Span() source.Span { return e.Loc }
func (e *FilterExpr) exprNode()         {}

// FoldExpr is `list ⊕ func ⊕ init`, parsed into a single node with
// three children despite the operator appearing twice in source.
type FoldExpr struct {
	List Expr
	Func Expr
	Init Expr
	Loc  source.Span
}

func (e *FoldExpr) Span() source.Span { return e.Loc }
func (e *FoldExpr) exprNode()         {}

// MemberAccessExpr is an FFI namespace member reference:
// `fs⋅promises.readFile`.
type MemberAccessExpr struct {
	Namespace []string
	Member    string
	Loc       source.Span
}

func (e *MemberAccessExpr) Span() source.Span { return e.Loc }
func (e *MemberAccessExpr) exprNode()         {}

// WithMockExpr is `with_mock target replacement { body }`, used to
// substitute a mockable function's implementation within body's scope.
type WithMockExpr struct {
	Target      Expr
	Replacement Expr
	Body        Expr
	Loc         source.Span
}

func (e *WithMockExpr) Span() source.Span { return e.Loc }
func (e *WithMockExpr) exprNode()         {}

// TypeAscriptionExpr is `(expr : Type)`, the form the parser looks
// for on the right-hand side of a const declaration.
type TypeAscriptionExpr struct {
	Expr         Expr
	AscribedType Type
	Loc          source.Span
}

func (e *TypeAscriptionExpr) Span() source.Span { return e.Loc }
func (e *TypeAscriptionExpr) exprNode()         {}

// ---- Patterns ----

// LiteralPattern matches a scalar literal exactly.
type LiteralPattern struct {
	Kind  LiteralKind
	Value interface{}
	Loc   source.Span
}

func (p *LiteralPattern) Span() source.Span { return p.Loc }
func (p *LiteralPattern) patternNode()      {}

// IdentifierPattern binds the scrutinee to a name.
type IdentifierPattern struct {
	Name string
	Loc  source.Span
}

func (p *IdentifierPattern) Span() source.Span { return p.Loc }
func (p *IdentifierPattern) patternNode()      {}

// WildcardPattern matches anything and binds nothing: `_`.
type WildcardPattern struct {
	Loc source.Span
}

func (p *WildcardPattern) Span() source.Span { return p.Loc }
func (p *WildcardPattern) patternNode()      {}

// ConstructorPattern matches a sum-type variant: `Some(x)`.
type ConstructorPattern struct {
	Name     string
	Patterns []Pattern
	Loc      source.Span
}

func (p *ConstructorPattern) Span() source.Span { return p.Loc }
func (p *ConstructorPattern) patternNode()      {}

// ListPattern matches a list, optionally with a rest binding:
// `[x, y, .rest]` or bare `[]`.
type ListPattern struct {
	Patterns []Pattern
	Rest     string // empty when HasRest is false
	HasRest  bool
	Loc      source.Span
}

func (p *ListPattern) Span() source.Span { return p.Loc }
func (p *ListPattern) patternNode()      {}

// RecordPattern destructures a record: `{ x, y: value }`.
type RecordPattern struct {
	Fields []RecordPatternField
	Loc    source.Span
}

func (p *RecordPattern) Span() source.Span { return p.Loc }
func (p *RecordPattern) patternNode()      {}

// RecordPatternField is one field of a record pattern; Pattern is nil
// when the field binds its own name directly.
type RecordPatternField struct {
	Name    string
	Pattern Pattern
	Loc     source.Span
}

// TuplePattern destructures a tuple: `(x, y, z)`.
type TuplePattern struct {
	Patterns []Pattern
	Loc      source.Span
}

func (p *TuplePattern) Span() source.Span { return p.Loc }
func (p *TuplePattern) patternNode()      {}

// ---- Type syntax ----

// PrimitiveName enumerates the six primitive type names.
type PrimitiveName int

const (
	PrimInt PrimitiveName = iota
	PrimFloat
	PrimBool
	PrimString
	PrimChar
	PrimUnit
)

func (n PrimitiveName) String() string {
	switch n {
	case PrimInt:
		return "Int"
	case PrimFloat:
		return "Float"
	case PrimBool:
		return "Bool"
	case PrimString:
		return "String"
	case PrimChar:
		return "Char"
	case PrimUnit:
		return "Unit"
	default:
		return "?"
	}
}

// PrimitiveType is one of ℤ ℝ 𝔹 𝕊 ℂ 𝕌.
type PrimitiveType struct {
	Name PrimitiveName
	Loc  source.Span
}

func (t *PrimitiveType) Span() source.Span { return t.Loc }
func (t *PrimitiveType) typeNode()         {}

// ListType is `[T]`.
type ListType struct {
	ElementType Type
	Loc         source.Span
}

func (t *ListType) Span() source.Span { return t.Loc }
func (t *ListType) typeNode()         {}

// MapType is `{K : V}`.
type MapType struct {
	KeyType   Type
	ValueType Type
	Loc       source.Span
}

func (t *MapType) Span() source.Span { return t.Loc }
func (t *MapType) typeNode()         {}

// FunctionType is `λ(T1, T2) → !Effect1 !Effect2 R`.
type FunctionType struct {
	ParamTypes []Type
	Effects    []string
	ReturnType Type
	Loc        source.Span
}

func (t *FunctionType) Span() source.Span { return t.Loc }
func (t *FunctionType) typeNode()         {}

// TypeConstructor is `Result[T, E]` or `Option[T]`.
type TypeConstructor struct {
	Name     string
	TypeArgs []Type
	Loc      source.Span
}

func (t *TypeConstructor) Span() source.Span { return t.Loc }
func (t *TypeConstructor) typeNode()         {}

// TypeVariable is an uppercase single-letter or multi-letter type
// parameter reference: `T`, `E`.
type TypeVariable struct {
	Name string
	Loc  source.Span
}

func (t *TypeVariable) Span() source.Span { return t.Loc }
func (t *TypeVariable) typeNode()         {}

// TupleType is `(T1, T2, T3)`.
type TupleType struct {
	Types []Type
	Loc   source.Span
}

func (t *TupleType) Span() source.Span { return t.Loc }
func (t *TupleType) typeNode()         {}

// QualifiedType is `src⋅types.ArticleMeta[T, E]`: a type name imported
// from another module, with optional generic arguments.
type QualifiedType struct {
	ModulePath []string
	TypeName   string
	TypeArgs   []Type
	Loc        source.Span
}

func (t *QualifiedType) Span() source.Span { return t.Loc }
func (t *QualifiedType) typeNode()         {}
