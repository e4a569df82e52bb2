package ast

import (
	"encoding/json"
	"fmt"
)

// Print produces a deterministic JSON representation of an AST node,
// omitting source spans so the output stays stable across trivial
// reformatting of the input.
func Print(node Node) string {
	if node == nil {
		return "null"
	}
	data, err := json.MarshalIndent(simplify(node), "", "  ")
	if err != nil {
		return fmt.Sprintf("error: %v", err)
	}
	return string(data)
}

// Compact is Print without indentation, for inline diagnostics data.
func Compact(node Node) string {
	data, err := json.Marshal(simplify(node))
	if err != nil {
		return fmt.Sprintf("error: %v", err)
	}
	return string(data)
}

func simplify(node interface{}) interface{} {
	if node == nil {
		return nil
	}

	switch n := node.(type) {
	case *Program:
		return map[string]interface{}{
			"type":         "Program",
			"declarations": simplifyDeclSlice(n.Declarations),
		}

	// Declarations
	case *FunctionDecl:
		m := map[string]interface{}{
			"type":       "FunctionDecl",
			"name":       n.Name,
			"isMockable": n.IsMockable,
			"params":     simplifyParamSlice(n.Params),
			"body":       simplify(n.Body),
		}
		if n.ReturnType != nil {
			m["returnType"] = simplify(n.ReturnType)
		}
		if len(n.Effects) > 0 {
			m["effects"] = n.Effects
		}
		return m

	case *TypeDecl:
		m := map[string]interface{}{
			"type":       "TypeDecl",
			"name":       n.Name,
			"definition": simplifyTypeDef(n.Definition),
		}
		if len(n.TypeParams) > 0 {
			m["typeParams"] = n.TypeParams
		}
		return m

	case *ImportDecl:
		return map[string]interface{}{"type": "ImportDecl", "modulePath": n.ModulePath}

	case *ConstDecl:
		m := map[string]interface{}{
			"type":  "ConstDecl",
			"name":  n.Name,
			"value": simplify(n.Value),
		}
		if n.TypeAnnotation != nil {
			m["typeAnnotation"] = simplify(n.TypeAnnotation)
		}
		return m

	case *TestDecl:
		m := map[string]interface{}{
			"type":        "TestDecl",
			"description": n.Description,
			"body":        simplify(n.Body),
		}
		if len(n.Effects) > 0 {
			m["effects"] = n.Effects
		}
		return m

	case *ExternDecl:
		m := map[string]interface{}{"type": "ExternDecl", "modulePath": n.ModulePath}
		if n.Members != nil {
			members := make([]interface{}, len(n.Members))
			for i, mem := range n.Members {
				members[i] = map[string]interface{}{
					"name":       mem.Name,
					"memberType": simplify(mem.MemberType),
				}
			}
			m["members"] = members
		}
		return m

	// Expressions
	case *LiteralExpr:
		return map[string]interface{}{
			"type":  "LiteralExpr",
			"kind":  literalKindString(n.Kind),
			"value": n.Value,
		}

	case *IdentifierExpr:
		return map[string]interface{}{"type": "IdentifierExpr", "name": n.Name}

	case *LambdaExpr:
		return map[string]interface{}{
			"type":       "LambdaExpr",
			"params":     simplifyParamSlice(n.Params),
			"effects":    n.Effects,
			"returnType": simplify(n.ReturnType),
			"body":       simplify(n.Body),
		}

	case *ApplicationExpr:
		return map[string]interface{}{
			"type": "ApplicationExpr",
			"func": simplify(n.Func),
			"args": simplifyExprSlice(n.Args),
		}

	case *BinaryExpr:
		return map[string]interface{}{
			"type":     "BinaryExpr",
			"operator": n.Operator.String(),
			"left":     simplify(n.Left),
			"right":    simplify(n.Right),
		}

	case *UnaryExpr:
		return map[string]interface{}{
			"type":     "UnaryExpr",
			"operator": n.Operator.String(),
			"operand":  simplify(n.Operand),
		}

	case *MatchExpr:
		arms := make([]interface{}, len(n.Arms))
		for i, arm := range n.Arms {
			m := map[string]interface{}{
				"pattern": simplify(arm.Pattern),
				"body":    simplify(arm.Body),
			}
			if arm.Guard != nil {
				m["guard"] = simplify(arm.Guard)
			}
			arms[i] = m
		}
		return map[string]interface{}{
			"type":      "MatchExpr",
			"scrutinee": simplify(n.Scrutinee),
			"arms":      arms,
		}

	case *LetExpr:
		return map[string]interface{}{
			"type":    "LetExpr",
			"pattern": simplify(n.Pattern),
			"value":   simplify(n.Value),
			"body":    simplify(n.Body),
		}

	case *IfExpr:
		m := map[string]interface{}{
			"type":       "IfExpr",
			"condition":  simplify(n.Condition),
			"thenBranch": simplify(n.ThenBranch),
		}
		if n.ElseBranch != nil {
			m["elseBranch"] = simplify(n.ElseBranch)
		}
		return m

	case *ListExpr:
		return map[string]interface{}{"type": "ListExpr", "elements": simplifyExprSlice(n.Elements)}

	case *RecordExpr:
		fields := make([]interface{}, len(n.Fields))
		for i, f := range n.Fields {
			fields[i] = map[string]interface{}{"name": f.Name, "value": simplify(f.Value)}
		}
		return map[string]interface{}{"type": "RecordExpr", "fields": fields}

	case *TupleExpr:
		return map[string]interface{}{"type": "TupleExpr", "elements": simplifyExprSlice(n.Elements)}

	case *FieldAccessExpr:
		return map[string]interface{}{"type": "FieldAccessExpr", "object": simplify(n.Object), "field": n.Field}

	case *IndexExpr:
		return map[string]interface{}{"type": "IndexExpr", "object": simplify(n.Object), "index": simplify(n.Index)}

	case *PipelineExpr:
		return map[string]interface{}{
			"type":     "PipelineExpr",
			"operator": n.Operator.String(),
			"left":     simplify(n.Left),
			"right":    simplify(n.Right),
		}

	case *MapExpr:
		return map[string]interface{}{"type": "MapExpr", "list": simplify(n.List), "func": simplify(n.Func)}

	case *FilterExpr:
		return map[string]interface{}{"type": "FilterExpr", "list": simplify(n.List), "predicate": simplify(n.Predicate)}

	case *FoldExpr:
		return map[string]interface{}{
			"type": "FoldExpr",
			"list": simplify(n.List),
			"func": simplify(n.Func),
			"init": simplify(n.Init),
		}

	case *MemberAccessExpr:
		return map[string]interface{}{"type": "MemberAccessExpr", "namespace": n.Namespace, "member": n.Member}

	case *WithMockExpr:
		return map[string]interface{}{
			"type":        "WithMockExpr",
			"target":      simplify(n.Target),
			"replacement": simplify(n.Replacement),
			"body":        simplify(n.Body),
		}

	case *TypeAscriptionExpr:
		return map[string]interface{}{
			"type":         "TypeAscriptionExpr",
			"expr":         simplify(n.Expr),
			"ascribedType": simplify(n.AscribedType),
		}

	// Patterns
	case *LiteralPattern:
		return map[string]interface{}{"type": "LiteralPattern", "kind": literalKindString(n.Kind), "value": n.Value}

	case *IdentifierPattern:
		return map[string]interface{}{"type": "IdentifierPattern", "name": n.Name}

	case *WildcardPattern:
		return map[string]interface{}{"type": "WildcardPattern"}

	case *ConstructorPattern:
		return map[string]interface{}{
			"type":     "ConstructorPattern",
			"name":     n.Name,
			"patterns": simplifyPatternSlice(n.Patterns),
		}

	case *ListPattern:
		m := map[string]interface{}{"type": "ListPattern", "patterns": simplifyPatternSlice(n.Patterns)}
		if n.HasRest {
			m["rest"] = n.Rest
		}
		return m

	case *RecordPattern:
		fields := make([]interface{}, len(n.Fields))
		for i, f := range n.Fields {
			m := map[string]interface{}{"name": f.Name}
			if f.Pattern != nil {
				m["pattern"] = simplify(f.Pattern)
			}
			fields[i] = m
		}
		return map[string]interface{}{"type": "RecordPattern", "fields": fields}

	case *TuplePattern:
		return map[string]interface{}{"type": "TuplePattern", "patterns": simplifyPatternSlice(n.Patterns)}

	// Type syntax
	case *PrimitiveType:
		return map[string]interface{}{"type": "PrimitiveType", "name": n.Name.String()}

	case *ListType:
		return map[string]interface{}{"type": "ListType", "elementType": simplify(n.ElementType)}

	case *MapType:
		return map[string]interface{}{"type": "MapType", "keyType": simplify(n.KeyType), "valueType": simplify(n.ValueType)}

	case *FunctionType:
		return map[string]interface{}{
			"type":       "FunctionType",
			"paramTypes": simplifyTypeSlice(n.ParamTypes),
			"effects":    n.Effects,
			"returnType": simplify(n.ReturnType),
		}

	case *TypeConstructor:
		return map[string]interface{}{"type": "TypeConstructor", "name": n.Name, "typeArgs": simplifyTypeSlice(n.TypeArgs)}

	case *TypeVariable:
		return map[string]interface{}{"type": "TypeVariable", "name": n.Name}

	case *TupleType:
		return map[string]interface{}{"type": "TupleType", "types": simplifyTypeSlice(n.Types)}

	case *QualifiedType:
		return map[string]interface{}{
			"type":       "QualifiedType",
			"modulePath": n.ModulePath,
			"typeName":   n.TypeName,
			"typeArgs":   simplifyTypeSlice(n.TypeArgs),
		}

	default:
		return map[string]interface{}{"type": fmt.Sprintf("%T", node), "_note": "not yet handled by printer"}
	}
}

func simplifyTypeDef(def TypeDef) interface{} {
	switch d := def.(type) {
	case SumType:
		variants := make([]interface{}, len(d.Variants))
		for i, v := range d.Variants {
			variants[i] = map[string]interface{}{"name": v.Name, "types": simplifyTypeSlice(v.Types)}
		}
		return map[string]interface{}{"kind": "SumType", "variants": variants}
	case ProductType:
		fields := make([]interface{}, len(d.Fields))
		for i, f := range d.Fields {
			fields[i] = map[string]interface{}{"name": f.Name, "fieldType": simplify(f.FieldType)}
		}
		return map[string]interface{}{"kind": "ProductType", "fields": fields}
	case TypeAlias:
		return map[string]interface{}{"kind": "TypeAlias", "aliasedType": simplify(d.AliasedType)}
	default:
		return map[string]interface{}{"kind": fmt.Sprintf("%T", def)}
	}
}

func simplifyDeclSlice(decls []Decl) []interface{} {
	result := make([]interface{}, len(decls))
	for i, d := range decls {
		result[i] = simplify(d)
	}
	return result
}

func simplifyExprSlice(exprs []Expr) []interface{} {
	result := make([]interface{}, len(exprs))
	for i, e := range exprs {
		result[i] = simplify(e)
	}
	return result
}

func simplifyTypeSlice(types []Type) []interface{} {
	result := make([]interface{}, len(types))
	for i, t := range types {
		result[i] = simplify(t)
	}
	return result
}

func simplifyPatternSlice(patterns []Pattern) []interface{} {
	result := make([]interface{}, len(patterns))
	for i, p := range patterns {
		result[i] = simplify(p)
	}
	return result
}

func simplifyParamSlice(params []Param) []interface{} {
	result := make([]interface{}, len(params))
	for i, p := range params {
		m := map[string]interface{}{"name": p.Name, "isMutable": p.IsMutable}
		if p.TypeAnnotation != nil {
			m["typeAnnotation"] = simplify(p.TypeAnnotation)
		}
		result[i] = m
	}
	return result
}

func literalKindString(kind LiteralKind) string {
	switch kind {
	case LitInt:
		return "Int"
	case LitFloat:
		return "Float"
	case LitString:
		return "String"
	case LitChar:
		return "Char"
	case LitBool:
		return "Bool"
	case LitUnit:
		return "Unit"
	default:
		return "Unknown"
	}
}
