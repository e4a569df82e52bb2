// Sigil's InferenceType representation: the shape a checked expression
// or declared signature is given during type checking. Grounded on
// original_source sigil-typechecker/src/errors.rs's format_type(),
// which is the only place in the original that shows every variant —
// the Rust InferenceType enum itself was never captured in the source
// pack handed down for this rewrite.
//
// InferenceType never generalizes: every Sigil binding site carries a
// mandatory annotation, so a Var here names a declaration's own generic
// parameter, not a solver placeholder. The only solving is local:
// bidirectional.go's unify/instantiate substitute such a Var with the
// concrete type found at one application or pattern use site.
package types

import (
	"fmt"
	"strings"

	"github.com/sigil-lang/sigil/internal/ast"
)

// InferenceType is implemented by every shape a Sigil value's checked
// type can take.
type InferenceType interface {
	inferenceTypeNode()
}

// Primitive is one of the six scalar types: ℤ ℝ 𝔹 𝕊 ℂ 𝕌.
type Primitive struct {
	Name ast.PrimitiveName
}

func (Primitive) inferenceTypeNode() {}

// Var names a generic type parameter bound by an enclosing type or
// function declaration, e.g. the T in `t Maybe[T] = ...`. TypesEqual
// compares it by name only; unify and instantiate in bidirectional.go
// replace it with a concrete type at an application or constructor
// pattern.
type Var struct {
	Name string
}

func (Var) inferenceTypeNode() {}

// Function is `(params) → return !effects`.
type Function struct {
	Params     []InferenceType
	ReturnType InferenceType
	Effects    []string
}

func (Function) inferenceTypeNode() {}

// List is `[T]`.
type List struct {
	ElementType InferenceType
}

func (List) inferenceTypeNode() {}

// Tuple is `(T1, T2, ...)`.
type Tuple struct {
	Types []InferenceType
}

func (Tuple) inferenceTypeNode() {}

// RecordField is one named field of a Record, kept in declaration
// order so FormatType renders deterministically.
type RecordField struct {
	Name string
	Type InferenceType
}

// Record is a product type's checked shape. Name is empty for a bare
// record literal synthesized ad hoc rather than ascribed to a
// declared type.
type Record struct {
	Name   string
	Fields []RecordField
}

func (Record) inferenceTypeNode() {}

// Constructor is a named type applied to zero or more arguments, e.g.
// `Result[ℤ, 𝕊]`, a bare sum-type name with no arguments, or (until
// resolved against an imported module's registry) a qualified type
// reference rendered as "module⋅TypeName".
type Constructor struct {
	Name     string
	TypeArgs []InferenceType
}

func (Constructor) inferenceTypeNode() {}

// Any is the universal top type. It is compatible with every other
// type at the point of comparison (spec §4.6), used for an extern
// namespace declared with no members and for an import whose
// namespace type was not supplied. TypesEqual applies this at every
// level of structure, so a List of Any compares equal to a List of ℤ.
type Any struct{}

func (Any) inferenceTypeNode() {}

func primitiveGlyph(name ast.PrimitiveName) string {
	switch name {
	case ast.PrimInt:
		return "ℤ"
	case ast.PrimFloat:
		return "ℝ"
	case ast.PrimBool:
		return "𝔹"
	case ast.PrimString:
		return "𝕊"
	case ast.PrimChar:
		return "ℂ"
	case ast.PrimUnit:
		return "𝕌"
	default:
		return "?"
	}
}

// FormatType renders t the way Sigil source would spell it, for use in
// diagnostic messages.
func FormatType(t InferenceType) string {
	switch v := t.(type) {
	case Primitive:
		return primitiveGlyph(v.Name)
	case Var:
		return v.Name
	case Function:
		params := make([]string, len(v.Params))
		for i, p := range v.Params {
			params[i] = FormatType(p)
		}
		var effects strings.Builder
		for _, e := range v.Effects {
			effects.WriteString(" !")
			effects.WriteString(e)
		}
		return fmt.Sprintf("(%s) → %s%s", strings.Join(params, ", "), FormatType(v.ReturnType), effects.String())
	case List:
		return "[" + FormatType(v.ElementType) + "]"
	case Tuple:
		parts := make([]string, len(v.Types))
		for i, e := range v.Types {
			parts[i] = FormatType(e)
		}
		return "(" + strings.Join(parts, ", ") + ")"
	case Record:
		fields := make([]string, len(v.Fields))
		for i, f := range v.Fields {
			fields[i] = f.Name + ": " + FormatType(f.Type)
		}
		body := "{ " + strings.Join(fields, ", ") + " }"
		if v.Name != "" {
			return v.Name + body
		}
		return body
	case Constructor:
		if len(v.TypeArgs) == 0 {
			return v.Name
		}
		args := make([]string, len(v.TypeArgs))
		for i, a := range v.TypeArgs {
			args[i] = FormatType(a)
		}
		return fmt.Sprintf("%s[%s]", v.Name, strings.Join(args, ", "))
	case Any:
		return "Any"
	default:
		return "?"
	}
}

// TypesEqual reports whether a and b denote the same type, honoring
// Any's universal compatibility at the point of comparison.
func TypesEqual(a, b InferenceType) bool {
	if _, ok := a.(Any); ok {
		return true
	}
	if _, ok := b.(Any); ok {
		return true
	}
	switch av := a.(type) {
	case Primitive:
		bv, ok := b.(Primitive)
		return ok && av.Name == bv.Name
	case Var:
		bv, ok := b.(Var)
		return ok && av.Name == bv.Name
	case Function:
		bv, ok := b.(Function)
		if !ok || len(av.Params) != len(bv.Params) || !TypesEqual(av.ReturnType, bv.ReturnType) {
			return false
		}
		for i := range av.Params {
			if !TypesEqual(av.Params[i], bv.Params[i]) {
				return false
			}
		}
		return effectsEqual(av.Effects, bv.Effects)
	case List:
		bv, ok := b.(List)
		return ok && TypesEqual(av.ElementType, bv.ElementType)
	case Tuple:
		bv, ok := b.(Tuple)
		if !ok || len(av.Types) != len(bv.Types) {
			return false
		}
		for i := range av.Types {
			if !TypesEqual(av.Types[i], bv.Types[i]) {
				return false
			}
		}
		return true
	case Record:
		bv, ok := b.(Record)
		if !ok || len(av.Fields) != len(bv.Fields) {
			return false
		}
		for i := range av.Fields {
			if av.Fields[i].Name != bv.Fields[i].Name || !TypesEqual(av.Fields[i].Type, bv.Fields[i].Type) {
				return false
			}
		}
		return true
	case Constructor:
		bv, ok := b.(Constructor)
		if !ok || av.Name != bv.Name || len(av.TypeArgs) != len(bv.TypeArgs) {
			return false
		}
		for i := range av.TypeArgs {
			if !TypesEqual(av.TypeArgs[i], bv.TypeArgs[i]) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

// effectsSubset reports whether every effect in sub also appears in
// super — the application-site rule spec §4.6 requires: a callee's
// declared effects must be a subset of the caller's.
func effectsSubset(sub, super []string) bool {
	superSet := make(map[string]bool, len(super))
	for _, e := range super {
		superSet[e] = true
	}
	for _, e := range sub {
		if !superSet[e] {
			return false
		}
	}
	return true
}

func effectsEqual(a, b []string) bool {
	return effectsSubset(a, b) && effectsSubset(b, a)
}

// ASTTypeToInferenceType converts parsed type syntax into its checked
// form. env supplies the generic-parameter scope, so a bare name
// previously bound with env.BindTypeParam resolves to a Var instead of
// a zero-arg Constructor. Qualified types are left as a Constructor
// named "module⋅TypeName" pending resolution against the module's
// exported registry, which the checker validates separately (with
// file/span context for SIGIL-TYPE-MODULE-NOT-EXPORTED) rather than
// here, since this conversion has no diagnostic-reporting context of
// its own.
func ASTTypeToInferenceType(t ast.Type, env *TypeEnvironment) InferenceType {
	switch v := t.(type) {
	case *ast.PrimitiveType:
		return Primitive{Name: v.Name}
	case *ast.ListType:
		return List{ElementType: ASTTypeToInferenceType(v.ElementType, env)}
	case *ast.MapType:
		return Constructor{Name: "Map", TypeArgs: []InferenceType{
			ASTTypeToInferenceType(v.KeyType, env),
			ASTTypeToInferenceType(v.ValueType, env),
		}}
	case *ast.FunctionType:
		params := make([]InferenceType, len(v.ParamTypes))
		for i, p := range v.ParamTypes {
			params[i] = ASTTypeToInferenceType(p, env)
		}
		return Function{
			Params:     params,
			ReturnType: ASTTypeToInferenceType(v.ReturnType, env),
			Effects:    v.Effects,
		}
	case *ast.TypeConstructor:
		args := make([]InferenceType, len(v.TypeArgs))
		for i, a := range v.TypeArgs {
			args[i] = ASTTypeToInferenceType(a, env)
		}
		return Constructor{Name: v.Name, TypeArgs: args}
	case *ast.TypeVariable:
		if env != nil && env.isTypeParam(v.Name) {
			return Var{Name: v.Name}
		}
		return Constructor{Name: v.Name}
	case *ast.TupleType:
		elems := make([]InferenceType, len(v.Types))
		for i, e := range v.Types {
			elems[i] = ASTTypeToInferenceType(e, env)
		}
		return Tuple{Types: elems}
	case *ast.QualifiedType:
		module := strings.Join(v.ModulePath, "⋅")
		args := make([]InferenceType, len(v.TypeArgs))
		for i, a := range v.TypeArgs {
			args[i] = ASTTypeToInferenceType(a, env)
		}
		return Constructor{Name: module + "⋅" + v.TypeName, TypeArgs: args}
	default:
		return Any{}
	}
}
