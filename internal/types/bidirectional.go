// Package types implements Sigil's bidirectional type checker over the
// AST internal/parser and internal/validator have already accepted.
//
// The two-pass structure (collect every top-level signature, then
// check every body) and Pass 1's per-declaration-kind binding rules are
// ported from original_source sigil-typechecker/src/bidirectional.rs.
// That file, however, ends partway through Pass 2: check_function_decl
// calls synthesize/check functions that are never defined anywhere in
// the original source pack handed down for this rewrite (confirmed via
// the pack's own file-size index, not a reading gap). spec.md §4.6 is
// therefore the sole source for every Synthesize/Check rule below —
// there is no Rust ground truth to port for that part of this file.
// See DESIGN.md's internal/types entry for the full accounting.
package types

import (
	"fmt"
	"strings"

	"github.com/sigil-lang/sigil/internal/ast"
	"github.com/sigil-lang/sigil/internal/diag"
	"github.com/sigil-lang/sigil/internal/source"
)

// Options supplies what a single module needs from the rest of the
// module graph: its dependencies' checked namespace values and
// exported type registries, keyed by module id (joined with "⋅").
// An import whose module id is absent from ImportedNamespaces is bound
// to Any. cmd/sigilc checks modules in a modgraph.Graph's topological
// order but sets only SourceFile, so every import it checks is bound
// to Any and no imported type registry is registered.
type Options struct {
	ImportedNamespaces     map[string]InferenceType
	ImportedTypeRegistries map[string]map[string]TypeInfo
	SourceFile             string
}

func typeErr(file string, span source.Span, message string) error {
	return diag.AsError(diag.New(diag.TypeError, diag.PhaseTypecheck, file, span, message))
}

func mismatch(file string, span source.Span, expected, actual InferenceType) error {
	return typeErr(file, span, fmt.Sprintf("type mismatch: expected %s, found %s", FormatType(expected), FormatType(actual)))
}

// TypeCheck runs Sigil's two-pass bidirectional check over program and
// returns the checked type of every top-level, exported-or-not binding
// (functions, consts, sum-type variant constructors), for
// cmd/sigilc to hand to dependents via Options.ImportedNamespaces.
func TypeCheck(program *ast.Program, opts Options) (map[string]InferenceType, error) {
	env := New()
	for moduleID, registry := range opts.ImportedTypeRegistries {
		env.RegisterImportedTypes(moduleID, registry)
	}

	if err := validateQualifiedTypeRefs(program, env, opts); err != nil {
		return nil, err
	}

	if err := collectSignatures(program, env, opts); err != nil {
		return nil, err
	}
	if err := checkBodies(program, env, opts); err != nil {
		return nil, err
	}

	return env.GetBindings(), nil
}

// ---- Pass 1: signature collection ----

// collectSignatures binds every top-level declaration's signature into
// env, in source-declaration order, mirroring bidirectional.rs's first
// pass exactly: types register their arity/definition (plus, as
// supplemented in SPEC_FULL.md §3.6, a constructor-function binding
// per sum-type variant — a TODO left unimplemented in the original),
// functions bind their Function type and mockable-flag metadata,
// consts bind their declared type, externs bind either their declared
// member record or Any, and imports bind the dependency's checked
// namespace value (or Any if Options didn't supply one, e.g. a module
// outside this build's graph).
func collectSignatures(program *ast.Program, env *TypeEnvironment, opts Options) error {
	for _, decl := range program.Declarations {
		switch d := decl.(type) {
		case *ast.TypeDecl:
			info := TypeInfo{TypeParams: d.TypeParams, Definition: d.Definition}
			env.RegisterType(d.Name, info)
			// Mark d's own generic parameters before converting any of
			// its members' type syntax, so a bare reference to one
			// (e.g. the T in `Some(T)`) resolves to a Var instead of a
			// zero-arg Constructor coincidentally named the same as
			// the parameter.
			for _, tp := range d.TypeParams {
				env.BindTypeParam(tp)
			}
			if sum, ok := d.Definition.(ast.SumType); ok {
				registerVariantConstructors(env, d, sum)
			}

		case *ast.FunctionDecl:
			fnType := functionDeclType(d, env)
			env.BindWithMeta(d.Name, fnType, BindingMeta{IsMockableFunction: d.IsMockable})

		case *ast.ConstDecl:
			env.Bind(d.Name, ASTTypeToInferenceType(d.TypeAnnotation, env))

		case *ast.ExternDecl:
			ns := strings.Join(d.ModulePath, "⋅")
			if d.Members == nil {
				env.BindWithMeta(ns, Any{}, BindingMeta{IsExternNamespace: true})
				continue
			}
			fields := make([]RecordField, len(d.Members))
			for i, m := range d.Members {
				fields[i] = RecordField{Name: m.Name, Type: ASTTypeToInferenceType(m.MemberType, env)}
			}
			env.BindWithMeta(ns, Record{Fields: fields}, BindingMeta{IsExternNamespace: true})

		case *ast.ImportDecl:
			moduleID := strings.Join(d.ModulePath, "⋅")
			if ns, ok := opts.ImportedNamespaces[moduleID]; ok {
				env.Bind(moduleID, ns)
			} else {
				env.Bind(moduleID, Any{})
			}

		case *ast.TestDecl:
			// Test blocks carry no signature of their own; their body
			// is synthesized in Pass 2 against the ambient environment
			// and the test's own declared effects.
		}
	}
	return nil
}

// registerVariantConstructors binds each variant of a sum type as a
// function from its payload types to the sum type itself (or, for a
// zero-argument variant, as the sum type's own Constructor value
// directly — Synthesize's Identifier rule below special-cases this so
// `None` used bare still type-checks). Supplemented per SPEC_FULL.md
// §3.6: the original leaves this a TODO.
func registerVariantConstructors(env *TypeEnvironment, decl *ast.TypeDecl, sum ast.SumType) {
	typeArgs := make([]InferenceType, len(decl.TypeParams))
	for i, p := range decl.TypeParams {
		typeArgs[i] = Var{Name: p}
	}
	result := InferenceType(Constructor{Name: decl.Name, TypeArgs: typeArgs})

	for _, variant := range sum.Variants {
		if len(variant.Types) == 0 {
			env.Bind(variant.Name, result)
			continue
		}
		params := make([]InferenceType, len(variant.Types))
		for i, t := range variant.Types {
			params[i] = ASTTypeToInferenceType(t, env)
		}
		env.Bind(variant.Name, Function{Params: params, ReturnType: result})
	}
}

func functionDeclType(d *ast.FunctionDecl, env *TypeEnvironment) Function {
	params := make([]InferenceType, len(d.Params))
	for i, p := range d.Params {
		params[i] = ASTTypeToInferenceType(p.TypeAnnotation, env)
	}
	return Function{
		Params:     params,
		ReturnType: ASTTypeToInferenceType(d.ReturnType, env),
		Effects:    d.Effects,
	}
}

// ---- Pass 2: body checking ----

// checkBodies checks every function's body against its declared return
// type with its parameters bound, checks every const's value against
// its declared type, and synthesizes every test block's body with the
// test's own declared effects as its effect row (the body's type is
// not constrained).
func checkBodies(program *ast.Program, env *TypeEnvironment, opts Options) error {
	for _, decl := range program.Declarations {
		switch d := decl.(type) {
		case *ast.FunctionDecl:
			if err := checkFunctionDecl(env, d, opts.SourceFile); err != nil {
				return err
			}

		case *ast.ConstDecl:
			declared := ASTTypeToInferenceType(d.TypeAnnotation, env)
			// Consts are evaluated once at link time and may not
			// perform effects (spec §4.6): the empty effect row means
			// any effectful call inside the value is rejected by the
			// usual application-site subset check.
			actual, err := synthesize(env, d.Value, opts.SourceFile, nil)
			if err != nil {
				return err
			}
			if !TypesEqual(declared, actual) {
				return mismatch(opts.SourceFile, d.Value.Span(), declared, actual)
			}

		case *ast.TestDecl:
			bodyEnv := env.Extend()
			if _, err := synthesize(bodyEnv, d.Body, opts.SourceFile, d.Effects); err != nil {
				return err
			}
		}
	}
	return nil
}

func checkFunctionDecl(env *TypeEnvironment, decl *ast.FunctionDecl, file string) error {
	fnEnv := env.Extend()
	for _, p := range decl.Params {
		fnEnv.Bind(p.Name, ASTTypeToInferenceType(p.TypeAnnotation, fnEnv))
	}
	expected := ASTTypeToInferenceType(decl.ReturnType, fnEnv)
	return check(fnEnv, decl.Body, expected, file, decl.Effects)
}

// ---- Synthesize / Check ----
//
// Every rule below is authored from spec.md §4.6, the only complete
// specification of this logic available for this rewrite (see the
// package doc comment). check(env, expr, expected, file, effects) is
// synthesize-then-compare for every expression kind except the three
// spec §4.6 calls out as checking-mode-native (If, Match, Let thread
// the expected type into their branches/body instead of synthesizing
// and discarding it), so that a branch needing the expected type to
// synthesize at all (e.g. an empty list literal) still succeeds. An
// empty list literal is itself handled in checking mode too: it is
// accepted against any expected list type.

func check(env *TypeEnvironment, expr ast.Expr, expected InferenceType, file string, effects []string) error {
	switch e := expr.(type) {
	case *ast.IfExpr:
		condType, err := synthesize(env, e.Condition, file, effects)
		if err != nil {
			return err
		}
		if !TypesEqual(condType, Primitive{Name: ast.PrimBool}) {
			return mismatch(file, e.Condition.Span(), Primitive{Name: ast.PrimBool}, condType)
		}
		if err := check(env, e.ThenBranch, expected, file, effects); err != nil {
			return err
		}
		if e.ElseBranch != nil {
			return check(env, e.ElseBranch, expected, file, effects)
		}
		if !TypesEqual(expected, Primitive{Name: ast.PrimUnit}) {
			return mismatch(file, e.Span(), expected, Primitive{Name: ast.PrimUnit})
		}
		return nil

	case *ast.MatchExpr:
		scrutineeType, err := synthesize(env, e.Scrutinee, file, effects)
		if err != nil {
			return err
		}
		for _, arm := range e.Arms {
			armEnv := env.Extend()
			if err := bindPattern(armEnv, arm.Pattern, scrutineeType, file); err != nil {
				return err
			}
			if arm.Guard != nil {
				guardType, err := synthesize(armEnv, arm.Guard, file, effects)
				if err != nil {
					return err
				}
				if !TypesEqual(guardType, Primitive{Name: ast.PrimBool}) {
					return mismatch(file, arm.Guard.Span(), Primitive{Name: ast.PrimBool}, guardType)
				}
			}
			if err := check(armEnv, arm.Body, expected, file, effects); err != nil {
				return err
			}
		}
		return nil

	case *ast.LetExpr:
		valueType, err := synthesize(env, e.Value, file, effects)
		if err != nil {
			return err
		}
		bodyEnv := env.Extend()
		if err := bindPattern(bodyEnv, e.Pattern, valueType, file); err != nil {
			return err
		}
		return check(bodyEnv, e.Body, expected, file, effects)

	case *ast.ListExpr:
		if len(e.Elements) == 0 {
			if _, ok := expected.(List); !ok {
				return mismatch(file, e.Span(), expected, List{ElementType: Any{}})
			}
			return nil
		}
	}

	actual, err := synthesize(env, expr, file, effects)
	if err != nil {
		return err
	}
	if !TypesEqual(expected, actual) {
		return mismatch(file, expr.Span(), expected, actual)
	}
	return nil
}

// synthesize infers expr's type bottom-up. Dispatches on every Expr
// variant internal/ast defines.
func synthesize(env *TypeEnvironment, expr ast.Expr, file string, effects []string) (InferenceType, error) {
	switch e := expr.(type) {
	case *ast.LiteralExpr:
		return synthesizeLiteral(e), nil

	case *ast.IdentifierExpr:
		t, ok := env.Lookup(e.Name)
		if !ok {
			return nil, typeErr(file, e.Loc, "undefined name: "+e.Name)
		}
		return t, nil

	case *ast.LambdaExpr:
		lambdaEnv := env.Extend()
		params := make([]InferenceType, len(e.Params))
		for i, p := range e.Params {
			pt := ASTTypeToInferenceType(p.TypeAnnotation, lambdaEnv)
			params[i] = pt
			lambdaEnv.Bind(p.Name, pt)
		}
		returnType := ASTTypeToInferenceType(e.ReturnType, lambdaEnv)
		if err := check(lambdaEnv, e.Body, returnType, file, e.Effects); err != nil {
			return nil, err
		}
		return Function{Params: params, ReturnType: returnType, Effects: e.Effects}, nil

	case *ast.ApplicationExpr:
		return synthesizeApplication(env, e, file, effects)

	case *ast.BinaryExpr:
		return synthesizeBinary(env, e, file, effects)

	case *ast.UnaryExpr:
		return synthesizeUnary(env, e, file, effects)

	case *ast.MatchExpr:
		return synthesizeMatch(env, e, file, effects)

	case *ast.LetExpr:
		valueType, err := synthesize(env, e.Value, file, effects)
		if err != nil {
			return nil, err
		}
		bodyEnv := env.Extend()
		if err := bindPattern(bodyEnv, e.Pattern, valueType, file); err != nil {
			return nil, err
		}
		return synthesize(bodyEnv, e.Body, file, effects)

	case *ast.IfExpr:
		condType, err := synthesize(env, e.Condition, file, effects)
		if err != nil {
			return nil, err
		}
		if !TypesEqual(condType, Primitive{Name: ast.PrimBool}) {
			return nil, mismatch(file, e.Condition.Span(), Primitive{Name: ast.PrimBool}, condType)
		}
		thenType, err := synthesize(env, e.ThenBranch, file, effects)
		if err != nil {
			return nil, err
		}
		if e.ElseBranch == nil {
			return thenType, nil
		}
		if err := check(env, e.ElseBranch, thenType, file, effects); err != nil {
			return nil, err
		}
		return thenType, nil

	case *ast.ListExpr:
		if len(e.Elements) == 0 {
			return nil, typeErr(file, e.Loc, "cannot synthesize the type of an empty list literal; ascribe it or use it where an expected type is known")
		}
		elemType, err := synthesize(env, e.Elements[0], file, effects)
		if err != nil {
			return nil, err
		}
		for _, elem := range e.Elements[1:] {
			if err := check(env, elem, elemType, file, effects); err != nil {
				return nil, err
			}
		}
		return List{ElementType: elemType}, nil

	case *ast.RecordExpr:
		fields := make([]RecordField, len(e.Fields))
		for i, f := range e.Fields {
			ft, err := synthesize(env, f.Value, file, effects)
			if err != nil {
				return nil, err
			}
			fields[i] = RecordField{Name: f.Name, Type: ft}
		}
		return Record{Fields: fields}, nil

	case *ast.TupleExpr:
		types := make([]InferenceType, len(e.Elements))
		for i, elem := range e.Elements {
			t, err := synthesize(env, elem, file, effects)
			if err != nil {
				return nil, err
			}
			types[i] = t
		}
		return Tuple{Types: types}, nil

	case *ast.FieldAccessExpr:
		objType, err := synthesize(env, e.Object, file, effects)
		if err != nil {
			return nil, err
		}
		rec, ok := asRecord(env, objType)
		if !ok {
			if _, isAny := objType.(Any); isAny {
				return Any{}, nil
			}
			return nil, typeErr(file, e.Loc, fmt.Sprintf("%s is not a record, has no field %q", FormatType(objType), e.Field))
		}
		for _, f := range rec.Fields {
			if f.Name == e.Field {
				return f.Type, nil
			}
		}
		return nil, typeErr(file, e.Loc, fmt.Sprintf("%s has no field %q", FormatType(objType), e.Field))

	case *ast.IndexExpr:
		objType, err := synthesize(env, e.Object, file, effects)
		if err != nil {
			return nil, err
		}
		if err := check(env, e.Index, Primitive{Name: ast.PrimInt}, file, effects); err != nil {
			return nil, err
		}
		switch ot := objType.(type) {
		case List:
			return ot.ElementType, nil
		case Any:
			return Any{}, nil
		default:
			return nil, typeErr(file, e.Loc, fmt.Sprintf("%s is not indexable", FormatType(objType)))
		}

	case *ast.PipelineExpr:
		return synthesizePipeline(env, e, file, effects)

	case *ast.MapExpr:
		listType, err := synthesize(env, e.List, file, effects)
		if err != nil {
			return nil, err
		}
		list, ok := listType.(List)
		if !ok {
			return nil, typeErr(file, e.Loc, fmt.Sprintf("↦ requires a list, found %s", FormatType(listType)))
		}
		fnType, err := synthesize(env, e.Func, file, effects)
		if err != nil {
			return nil, err
		}
		fn, ok := fnType.(Function)
		if !ok || len(fn.Params) != 1 {
			return nil, typeErr(file, e.Loc, "↦ requires a single-argument function")
		}
		if !TypesEqual(fn.Params[0], list.ElementType) {
			return nil, mismatch(file, e.Func.Span(), list.ElementType, fn.Params[0])
		}
		if !effectsSubset(fn.Effects, effects) {
			return nil, typeErr(file, e.Loc, "mapped function's effects are not declared by the enclosing function")
		}
		return List{ElementType: fn.ReturnType}, nil

	case *ast.FilterExpr:
		listType, err := synthesize(env, e.List, file, effects)
		if err != nil {
			return nil, err
		}
		list, ok := listType.(List)
		if !ok {
			return nil, typeErr(file, e.Loc, fmt.Sprintf("⊳ requires a list, found %s", FormatType(listType)))
		}
		if err := check(env, e.Predicate, Function{Params: []InferenceType{list.ElementType}, ReturnType: Primitive{Name: ast.PrimBool}}, file, effects); err != nil {
			return nil, err
		}
		return list, nil

	case *ast.FoldExpr:
		listType, err := synthesize(env, e.List, file, effects)
		if err != nil {
			return nil, err
		}
		list, ok := listType.(List)
		if !ok {
			return nil, typeErr(file, e.Loc, fmt.Sprintf("⊕ requires a list, found %s", FormatType(listType)))
		}
		initType, err := synthesize(env, e.Init, file, effects)
		if err != nil {
			return nil, err
		}
		expectedFn := Function{Params: []InferenceType{initType, list.ElementType}, ReturnType: initType}
		if err := check(env, e.Func, expectedFn, file, effects); err != nil {
			return nil, err
		}
		return initType, nil

	case *ast.MemberAccessExpr:
		ns := strings.Join(e.Namespace, "⋅")
		nsType, ok := env.Lookup(ns)
		if !ok {
			return nil, typeErr(file, e.Loc, "undefined extern namespace: "+ns)
		}
		if _, isAny := nsType.(Any); isAny {
			return Any{}, nil
		}
		rec, ok := nsType.(Record)
		if !ok {
			return nil, typeErr(file, e.Loc, ns+" is not an extern namespace")
		}
		for _, f := range rec.Fields {
			if f.Name == e.Member {
				return f.Type, nil
			}
		}
		return nil, typeErr(file, e.Loc, fmt.Sprintf("%s has no member %q", ns, e.Member))

	case *ast.WithMockExpr:
		targetName, ok := e.Target.(*ast.IdentifierExpr)
		if !ok {
			return nil, typeErr(file, e.Loc, "with_mock target must be a bare function name")
		}
		meta, ok := env.LookupMeta(targetName.Name)
		if !ok || !meta.IsMockableFunction {
			return nil, typeErr(file, e.Loc, targetName.Name+" is not a mockable function")
		}
		targetType, _ := env.Lookup(targetName.Name)
		if err := check(env, e.Replacement, targetType, file, effects); err != nil {
			return nil, err
		}
		return synthesize(env, e.Body, file, effects)

	case *ast.TypeAscriptionExpr:
		ascribed := ASTTypeToInferenceType(e.AscribedType, env)
		if err := check(env, e.Expr, ascribed, file, effects); err != nil {
			return nil, err
		}
		return ascribed, nil

	default:
		return nil, typeErr(file, expr.Span(), fmt.Sprintf("unsupported expression kind %T", expr))
	}
}

func synthesizeLiteral(e *ast.LiteralExpr) InferenceType {
	switch e.Kind {
	case ast.LitInt:
		return Primitive{Name: ast.PrimInt}
	case ast.LitFloat:
		return Primitive{Name: ast.PrimFloat}
	case ast.LitString:
		return Primitive{Name: ast.PrimString}
	case ast.LitChar:
		return Primitive{Name: ast.PrimChar}
	case ast.LitBool:
		return Primitive{Name: ast.PrimBool}
	default:
		return Primitive{Name: ast.PrimUnit}
	}
}

func synthesizeApplication(env *TypeEnvironment, e *ast.ApplicationExpr, file string, effects []string) (InferenceType, error) {
	fnType, err := synthesize(env, e.Func, file, effects)
	if err != nil {
		return nil, err
	}
	if _, isAny := fnType.(Any); isAny {
		for _, arg := range e.Args {
			if _, err := synthesize(env, arg, file, effects); err != nil {
				return nil, err
			}
		}
		return Any{}, nil
	}
	fn, ok := fnType.(Function)
	if !ok {
		return nil, typeErr(file, e.Loc, fmt.Sprintf("%s is not callable", FormatType(fnType)))
	}
	if len(fn.Params) != len(e.Args) {
		return nil, typeErr(file, e.Loc, fmt.Sprintf("expected %d argument(s), found %d", len(fn.Params), len(e.Args)))
	}

	if !hasVar(fn) {
		for i, arg := range e.Args {
			if err := check(env, arg, fn.Params[i], file, effects); err != nil {
				return nil, err
			}
		}
		if !effectsSubset(fn.Effects, effects) {
			return nil, typeErr(file, e.Loc, fmt.Sprintf("call incurs effect(s) %s not declared by the enclosing function", strings.Join(fn.Effects, ", ")))
		}
		return fn.ReturnType, nil
	}

	// fn still mentions a generic type parameter (a sum-type variant
	// constructor or a generic function's own signature): solve it
	// against the concrete argument types at this use site rather than
	// requiring a literal Var match, per spec.md §9.
	subst := map[string]InferenceType{}
	for i, arg := range e.Args {
		argType, err := synthesize(env, arg, file, effects)
		if err != nil {
			return nil, err
		}
		if !unify(fn.Params[i], argType, subst) {
			return nil, mismatch(file, arg.Span(), instantiate(fn.Params[i], subst), argType)
		}
	}
	if !effectsSubset(fn.Effects, effects) {
		return nil, typeErr(file, e.Loc, fmt.Sprintf("call incurs effect(s) %s not declared by the enclosing function", strings.Join(fn.Effects, ", ")))
	}
	return instantiate(fn.ReturnType, subst), nil
}

func synthesizeUnary(env *TypeEnvironment, e *ast.UnaryExpr, file string, effects []string) (InferenceType, error) {
	switch e.Operator {
	case ast.OpNegate:
		operandType, err := synthesize(env, e.Operand, file, effects)
		if err != nil {
			return nil, err
		}
		if !TypesEqual(operandType, Primitive{Name: ast.PrimInt}) && !TypesEqual(operandType, Primitive{Name: ast.PrimFloat}) {
			return nil, typeErr(file, e.Loc, "- requires ℤ or ℝ, found "+FormatType(operandType))
		}
		return operandType, nil
	case ast.OpNot:
		if err := check(env, e.Operand, Primitive{Name: ast.PrimBool}, file, effects); err != nil {
			return nil, err
		}
		return Primitive{Name: ast.PrimBool}, nil
	case ast.OpLength:
		operandType, err := synthesize(env, e.Operand, file, effects)
		if err != nil {
			return nil, err
		}
		switch operandType.(type) {
		case List, Primitive:
			return Primitive{Name: ast.PrimInt}, nil
		default:
			return nil, typeErr(file, e.Loc, "# requires a list or string, found "+FormatType(operandType))
		}
	default:
		return nil, typeErr(file, e.Loc, "unknown unary operator")
	}
}

func synthesizeBinary(env *TypeEnvironment, e *ast.BinaryExpr, file string, effects []string) (InferenceType, error) {
	leftType, err := synthesize(env, e.Left, file, effects)
	if err != nil {
		return nil, err
	}

	switch e.Operator {
	case ast.OpAdd, ast.OpSubtract, ast.OpMultiply, ast.OpDivide, ast.OpModulo, ast.OpPower:
		if !isNumeric(leftType) {
			return nil, typeErr(file, e.Loc, e.Operator.String()+" requires ℤ or ℝ, found "+FormatType(leftType))
		}
		if err := check(env, e.Right, leftType, file, effects); err != nil {
			return nil, err
		}
		return leftType, nil

	case ast.OpEqual, ast.OpNotEqual:
		rightType, err := synthesize(env, e.Right, file, effects)
		if err != nil {
			return nil, err
		}
		if !TypesEqual(leftType, rightType) {
			return nil, mismatch(file, e.Right.Span(), leftType, rightType)
		}
		return Primitive{Name: ast.PrimBool}, nil

	case ast.OpLess, ast.OpGreater, ast.OpLessEq, ast.OpGreaterEq:
		if !isNumeric(leftType) {
			return nil, typeErr(file, e.Loc, e.Operator.String()+" requires ℤ or ℝ, found "+FormatType(leftType))
		}
		if err := check(env, e.Right, leftType, file, effects); err != nil {
			return nil, err
		}
		return Primitive{Name: ast.PrimBool}, nil

	case ast.OpAnd, ast.OpOr:
		if err := check(env, e.Left, Primitive{Name: ast.PrimBool}, file, effects); err != nil {
			return nil, err
		}
		if err := check(env, e.Right, Primitive{Name: ast.PrimBool}, file, effects); err != nil {
			return nil, err
		}
		return Primitive{Name: ast.PrimBool}, nil

	case ast.OpAppend:
		if !TypesEqual(leftType, Primitive{Name: ast.PrimString}) {
			return nil, typeErr(file, e.Loc, "++ requires 𝕊, found "+FormatType(leftType))
		}
		if err := check(env, e.Right, Primitive{Name: ast.PrimString}, file, effects); err != nil {
			return nil, err
		}
		return Primitive{Name: ast.PrimString}, nil

	case ast.OpListAppend:
		list, ok := leftType.(List)
		if !ok {
			return nil, typeErr(file, e.Loc, "⧺ requires a list, found "+FormatType(leftType))
		}
		if err := check(env, e.Right, list, file, effects); err != nil {
			return nil, err
		}
		return list, nil

	default:
		return nil, typeErr(file, e.Loc, "unknown binary operator")
	}
}

func isNumeric(t InferenceType) bool {
	p, ok := t.(Primitive)
	return ok && (p.Name == ast.PrimInt || p.Name == ast.PrimFloat)
}

// ---- Generic instantiation ----
//
// Per spec.md §9's design notes, generics are handled by instantiating
// a type constructor's parameters at each use site rather than through
// full unification: a sum-type variant's constructor (registered in
// Pass 1 with its declared Vars still free, e.g. Some : T → Maybe[T])
// is solved against the concrete type it is used at — a pattern's
// scrutinee or an application's argument types — and that solution is
// substituted through the rest of the constructor's shape.

// unify walks expected and actual together, recording a Var found in
// expected into subst the first time it's seen and requiring every
// later occurrence to agree. It never fails on Any.
func unify(expected, actual InferenceType, subst map[string]InferenceType) bool {
	if v, ok := expected.(Var); ok {
		if existing, bound := subst[v.Name]; bound {
			return TypesEqual(existing, actual)
		}
		subst[v.Name] = actual
		return true
	}
	if _, ok := actual.(Any); ok {
		return true
	}
	if _, ok := expected.(Any); ok {
		return true
	}
	switch ev := expected.(type) {
	case Primitive:
		av, ok := actual.(Primitive)
		return ok && ev.Name == av.Name
	case Function:
		av, ok := actual.(Function)
		if !ok || len(ev.Params) != len(av.Params) {
			return false
		}
		for i := range ev.Params {
			if !unify(ev.Params[i], av.Params[i], subst) {
				return false
			}
		}
		return unify(ev.ReturnType, av.ReturnType, subst)
	case List:
		av, ok := actual.(List)
		return ok && unify(ev.ElementType, av.ElementType, subst)
	case Tuple:
		av, ok := actual.(Tuple)
		if !ok || len(ev.Types) != len(av.Types) {
			return false
		}
		for i := range ev.Types {
			if !unify(ev.Types[i], av.Types[i], subst) {
				return false
			}
		}
		return true
	case Record:
		av, ok := actual.(Record)
		if !ok || len(ev.Fields) != len(av.Fields) {
			return false
		}
		for i := range ev.Fields {
			if ev.Fields[i].Name != av.Fields[i].Name || !unify(ev.Fields[i].Type, av.Fields[i].Type, subst) {
				return false
			}
		}
		return true
	case Constructor:
		av, ok := actual.(Constructor)
		if !ok || ev.Name != av.Name || len(ev.TypeArgs) != len(av.TypeArgs) {
			return false
		}
		for i := range ev.TypeArgs {
			if !unify(ev.TypeArgs[i], av.TypeArgs[i], subst) {
				return false
			}
		}
		return true
	default:
		return TypesEqual(expected, actual)
	}
}

// instantiate substitutes every Var in t named by subst, leaving any
// Var absent from subst untouched (a generic still open at this use
// site, e.g. an unapplied type parameter of an enclosing declaration).
func instantiate(t InferenceType, subst map[string]InferenceType) InferenceType {
	switch v := t.(type) {
	case Var:
		if r, ok := subst[v.Name]; ok {
			return r
		}
		return v
	case Function:
		params := make([]InferenceType, len(v.Params))
		for i, p := range v.Params {
			params[i] = instantiate(p, subst)
		}
		return Function{Params: params, ReturnType: instantiate(v.ReturnType, subst), Effects: v.Effects}
	case List:
		return List{ElementType: instantiate(v.ElementType, subst)}
	case Tuple:
		types := make([]InferenceType, len(v.Types))
		for i, e := range v.Types {
			types[i] = instantiate(e, subst)
		}
		return Tuple{Types: types}
	case Record:
		fields := make([]RecordField, len(v.Fields))
		for i, f := range v.Fields {
			fields[i] = RecordField{Name: f.Name, Type: instantiate(f.Type, subst)}
		}
		return Record{Name: v.Name, Fields: fields}
	case Constructor:
		args := make([]InferenceType, len(v.TypeArgs))
		for i, a := range v.TypeArgs {
			args[i] = instantiate(a, subst)
		}
		return Constructor{Name: v.Name, TypeArgs: args}
	default:
		return t
	}
}

// hasVar reports whether t mentions any generic type parameter,
// gating whether an application needs instantiation at all.
func hasVar(t InferenceType) bool {
	switch v := t.(type) {
	case Var:
		return true
	case Function:
		if hasVar(v.ReturnType) {
			return true
		}
		for _, p := range v.Params {
			if hasVar(p) {
				return true
			}
		}
		return false
	case List:
		return hasVar(v.ElementType)
	case Tuple:
		for _, e := range v.Types {
			if hasVar(e) {
				return true
			}
		}
		return false
	case Record:
		for _, f := range v.Fields {
			if hasVar(f.Type) {
				return true
			}
		}
		return false
	case Constructor:
		for _, a := range v.TypeArgs {
			if hasVar(a) {
				return true
			}
		}
		return false
	default:
		return false
	}
}

func synthesizeMatch(env *TypeEnvironment, e *ast.MatchExpr, file string, effects []string) (InferenceType, error) {
	scrutineeType, err := synthesize(env, e.Scrutinee, file, effects)
	if err != nil {
		return nil, err
	}
	if len(e.Arms) == 0 {
		return nil, typeErr(file, e.Loc, "match has no arms")
	}

	var result InferenceType
	for i, arm := range e.Arms {
		armEnv := env.Extend()
		if err := bindPattern(armEnv, arm.Pattern, scrutineeType, file); err != nil {
			return nil, err
		}
		if arm.Guard != nil {
			guardType, err := synthesize(armEnv, arm.Guard, file, effects)
			if err != nil {
				return nil, err
			}
			if !TypesEqual(guardType, Primitive{Name: ast.PrimBool}) {
				return nil, mismatch(file, arm.Guard.Span(), Primitive{Name: ast.PrimBool}, guardType)
			}
		}
		if i == 0 {
			bodyType, err := synthesize(armEnv, arm.Body, file, effects)
			if err != nil {
				return nil, err
			}
			result = bodyType
			continue
		}
		if err := check(armEnv, arm.Body, result, file, effects); err != nil {
			return nil, err
		}
	}
	return result, nil
}

func synthesizePipeline(env *TypeEnvironment, e *ast.PipelineExpr, file string, effects []string) (InferenceType, error) {
	switch e.Operator {
	case ast.PipePipe:
		leftType, err := synthesize(env, e.Left, file, effects)
		if err != nil {
			return nil, err
		}
		rightType, err := synthesize(env, e.Right, file, effects)
		if err != nil {
			return nil, err
		}
		fn, ok := rightType.(Function)
		if !ok || len(fn.Params) != 1 {
			return nil, typeErr(file, e.Loc, "|> requires a single-argument function on the right")
		}
		if !TypesEqual(fn.Params[0], leftType) {
			return nil, mismatch(file, e.Left.Span(), fn.Params[0], leftType)
		}
		if !effectsSubset(fn.Effects, effects) {
			return nil, typeErr(file, e.Loc, "|> incurs effect(s) not declared by the enclosing function")
		}
		return fn.ReturnType, nil

	case ast.PipeComposeFwd, ast.PipeComposeBwd:
		leftType, err := synthesize(env, e.Left, file, effects)
		if err != nil {
			return nil, err
		}
		rightType, err := synthesize(env, e.Right, file, effects)
		if err != nil {
			return nil, err
		}
		leftFn, ok := leftType.(Function)
		if !ok || len(leftFn.Params) != 1 {
			return nil, typeErr(file, e.Loc, e.Operator.String()+" requires single-argument functions on both sides")
		}
		rightFn, ok := rightType.(Function)
		if !ok || len(rightFn.Params) != 1 {
			return nil, typeErr(file, e.Loc, e.Operator.String()+" requires single-argument functions on both sides")
		}

		first, second := leftFn, rightFn
		if e.Operator == ast.PipeComposeBwd {
			first, second = rightFn, leftFn
		}
		if !TypesEqual(first.ReturnType, second.Params[0]) {
			return nil, mismatch(file, e.Loc, second.Params[0], first.ReturnType)
		}
		combinedEffects := append(append([]string{}, first.Effects...), second.Effects...)
		return Function{Params: first.Params, ReturnType: second.ReturnType, Effects: combinedEffects}, nil

	default:
		return nil, typeErr(file, e.Loc, "unknown pipeline operator")
	}
}

// asRecord views t as a Record, resolving a named product type's
// Constructor form against the declaring module's type registry (and
// instantiating its generic parameters against the Constructor's own
// type arguments) if t isn't already a bare Record.
func asRecord(env *TypeEnvironment, t InferenceType) (Record, bool) {
	if rec, ok := t.(Record); ok {
		return rec, true
	}
	ctor, ok := t.(Constructor)
	if !ok {
		return Record{}, false
	}
	info, ok := env.LookupType(ctor.Name)
	if !ok {
		return Record{}, false
	}
	prod, ok := info.Definition.(ast.ProductType)
	if !ok {
		return Record{}, false
	}
	subst := map[string]InferenceType{}
	for i, param := range info.TypeParams {
		if i < len(ctor.TypeArgs) {
			subst[param] = ctor.TypeArgs[i]
		}
	}
	fields := make([]RecordField, len(prod.Fields))
	for i, f := range prod.Fields {
		fields[i] = RecordField{Name: f.Name, Type: instantiate(ASTTypeToInferenceType(f.FieldType, env), subst)}
	}
	return Record{Name: ctor.Name, Fields: fields}, true
}

// ---- Pattern binding ----

// bindPattern binds every name pat introduces against scrutinee, and
// reports a mismatch if pat's shape cannot possibly match scrutinee
// (e.g. a ConstructorPattern naming a variant of the wrong sum type).
func bindPattern(env *TypeEnvironment, pat ast.Pattern, scrutinee InferenceType, file string) error {
	switch p := pat.(type) {
	case *ast.LiteralPattern:
		lit := synthesizeLiteral(&ast.LiteralExpr{Kind: p.Kind, Value: p.Value})
		if !TypesEqual(lit, scrutinee) {
			return mismatch(file, p.Loc, scrutinee, lit)
		}
		return nil

	case *ast.IdentifierPattern:
		env.Bind(p.Name, scrutinee)
		return nil

	case *ast.WildcardPattern:
		return nil

	case *ast.ConstructorPattern:
		ctor, ok := env.Lookup(p.Name)
		if !ok {
			return typeErr(file, p.Loc, "undefined constructor: "+p.Name)
		}
		switch c := ctor.(type) {
		case Function:
			subst := map[string]InferenceType{}
			if !unify(c.ReturnType, scrutinee, subst) {
				return mismatch(file, p.Loc, scrutinee, c.ReturnType)
			}
			if len(c.Params) != len(p.Patterns) {
				return typeErr(file, p.Loc, fmt.Sprintf("%s expects %d argument(s), found %d", p.Name, len(c.Params), len(p.Patterns)))
			}
			for i, sub := range p.Patterns {
				if err := bindPattern(env, sub, instantiate(c.Params[i], subst), file); err != nil {
					return err
				}
			}
			return nil
		default:
			subst := map[string]InferenceType{}
			if !unify(ctor, scrutinee, subst) {
				return mismatch(file, p.Loc, scrutinee, ctor)
			}
			if len(p.Patterns) != 0 {
				return typeErr(file, p.Loc, p.Name+" takes no arguments")
			}
			return nil
		}

	case *ast.ListPattern:
		list, ok := scrutinee.(List)
		if !ok {
			return mismatch(file, p.Loc, scrutinee, List{ElementType: Any{}})
		}
		for _, sub := range p.Patterns {
			if err := bindPattern(env, sub, list.ElementType, file); err != nil {
				return err
			}
		}
		if p.HasRest {
			env.Bind(p.Rest, list)
		}
		return nil

	case *ast.RecordPattern:
		rec, ok := asRecord(env, scrutinee)
		if !ok {
			return mismatch(file, p.Loc, scrutinee, Record{})
		}
		for _, field := range p.Fields {
			var fieldType InferenceType
			found := false
			for _, rf := range rec.Fields {
				if rf.Name == field.Name {
					fieldType, found = rf.Type, true
					break
				}
			}
			if !found {
				return typeErr(file, field.Loc, fmt.Sprintf("%s has no field %q", FormatType(rec), field.Name))
			}
			if field.Pattern != nil {
				if err := bindPattern(env, field.Pattern, fieldType, file); err != nil {
					return err
				}
			} else {
				env.Bind(field.Name, fieldType)
			}
		}
		return nil

	case *ast.TuplePattern:
		tuple, ok := scrutinee.(Tuple)
		if !ok || len(tuple.Types) != len(p.Patterns) {
			return mismatch(file, p.Loc, scrutinee, Tuple{})
		}
		for i, sub := range p.Patterns {
			if err := bindPattern(env, sub, tuple.Types[i], file); err != nil {
				return err
			}
		}
		return nil

	default:
		return typeErr(file, pat.Span(), fmt.Sprintf("unsupported pattern kind %T", pat))
	}
}

// ---- Qualified type validation ----

// validateQualifiedTypeRefs walks every type annotation reachable from
// program's declarations and reports SIGIL-TYPE-MODULE-NOT-EXPORTED
// for a QualifiedType whose module was imported but doesn't export the
// named type — giving that specific code (rather than the generic
// TypeError) its own trigger, per spec §4.6/§8's two-code catalog.
func validateQualifiedTypeRefs(program *ast.Program, env *TypeEnvironment, opts Options) error {
	var walk func(t ast.Type) error
	walk = func(t ast.Type) error {
		switch v := t.(type) {
		case nil:
			return nil
		case *ast.QualifiedType:
			moduleID := strings.Join(v.ModulePath, "⋅")
			names, imported := env.GetImportedModuleTypeNames(moduleID)
			if imported && !contains(names, v.TypeName) {
				return diag.AsError(diag.New(diag.TypeModuleNotExported, diag.PhaseTypecheck, opts.SourceFile, v.Loc,
					fmt.Sprintf("module %q does not export type %q", moduleID, v.TypeName)))
			}
			for _, a := range v.TypeArgs {
				if err := walk(a); err != nil {
					return err
				}
			}
			return nil
		case *ast.ListType:
			return walk(v.ElementType)
		case *ast.MapType:
			if err := walk(v.KeyType); err != nil {
				return err
			}
			return walk(v.ValueType)
		case *ast.TupleType:
			for _, e := range v.Types {
				if err := walk(e); err != nil {
					return err
				}
			}
			return nil
		case *ast.FunctionType:
			for _, p := range v.ParamTypes {
				if err := walk(p); err != nil {
					return err
				}
			}
			return walk(v.ReturnType)
		case *ast.TypeConstructor:
			for _, a := range v.TypeArgs {
				if err := walk(a); err != nil {
					return err
				}
			}
			return nil
		default:
			return nil
		}
	}

	for _, decl := range program.Declarations {
		switch d := decl.(type) {
		case *ast.FunctionDecl:
			for _, p := range d.Params {
				if err := walk(p.TypeAnnotation); err != nil {
					return err
				}
			}
			if err := walk(d.ReturnType); err != nil {
				return err
			}
		case *ast.ConstDecl:
			if err := walk(d.TypeAnnotation); err != nil {
				return err
			}
		case *ast.ExternDecl:
			for _, m := range d.Members {
				if err := walk(m.MemberType); err != nil {
					return err
				}
			}
		case *ast.TypeDecl:
			switch def := d.Definition.(type) {
			case ast.SumType:
				for _, variant := range def.Variants {
					for _, t := range variant.Types {
						if err := walk(t); err != nil {
							return err
						}
					}
				}
			case ast.ProductType:
				for _, f := range def.Fields {
					if err := walk(f.FieldType); err != nil {
						return err
					}
				}
			case ast.TypeAlias:
				if err := walk(def.AliasedType); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

func contains(names []string, name string) bool {
	for _, n := range names {
		if n == name {
			return true
		}
	}
	return false
}
