// TypeEnvironment is Sigil's type-checking scope chain, grounded on
// original_source sigil-typechecker/src/environment.rs's
// TypeEnvironment: a chain of lexical bindings plus a per-file type
// registry and a set of registries imported from other modules. It
// never generalizes a binding, since every signature in the language
// is fully annotated at its declaration site.
package types

import "github.com/sigil-lang/sigil/internal/ast"

// BindingMeta carries the flags a binding needs beyond its type: a
// function may be mockable (replaceable inside a with_mock body), and
// a binding may denote an extern namespace, whose member access
// resolves against declared member signatures rather than record
// fields.
type BindingMeta struct {
	IsMockableFunction bool
	IsExternNamespace  bool
}

// TypeInfo is what the environment remembers about one declared type:
// its generic parameters and its definition, enough to check arity at
// a use site and to build constructor-function bindings for a sum
// type's variants.
type TypeInfo struct {
	TypeParams []string
	Definition ast.TypeDef
}

// TypeEnvironment is a chain of lexical scopes. Each scope may bind
// names to InferenceType (with optional BindingMeta), register locally
// declared types, and import another module's exported type registry.
// Lookups walk from the scope outward to the root.
type TypeEnvironment struct {
	bindings               map[string]InferenceType
	bindingMeta            map[string]BindingMeta
	typeRegistry           map[string]TypeInfo
	importedTypeRegistries map[string]map[string]TypeInfo
	typeParams             map[string]bool
	parent                 *TypeEnvironment
}

// New builds an empty root environment.
func New() *TypeEnvironment {
	return &TypeEnvironment{
		bindings:               map[string]InferenceType{},
		bindingMeta:            map[string]BindingMeta{},
		typeRegistry:           map[string]TypeInfo{},
		importedTypeRegistries: map[string]map[string]TypeInfo{},
		typeParams:             map[string]bool{},
	}
}

// Extend builds a new child scope chained to e, used at every lexical
// boundary: a function body, a let's continuation, a match arm, a
// lambda body.
func (e *TypeEnvironment) Extend() *TypeEnvironment {
	child := New()
	child.parent = e
	return child
}

// Lookup walks the scope chain for name's bound type.
func (e *TypeEnvironment) Lookup(name string) (InferenceType, bool) {
	for env := e; env != nil; env = env.parent {
		if t, ok := env.bindings[name]; ok {
			return t, true
		}
	}
	return nil, false
}

// Bind adds name to the local scope with no metadata.
func (e *TypeEnvironment) Bind(name string, t InferenceType) {
	e.bindings[name] = t
}

// BindWithMeta adds name to the local scope along with binding
// metadata.
func (e *TypeEnvironment) BindWithMeta(name string, t InferenceType, meta BindingMeta) {
	e.bindings[name] = t
	e.bindingMeta[name] = meta
}

// LookupMeta walks the scope chain for name's metadata.
func (e *TypeEnvironment) LookupMeta(name string) (BindingMeta, bool) {
	for env := e; env != nil; env = env.parent {
		if m, ok := env.bindingMeta[name]; ok {
			return m, true
		}
	}
	return BindingMeta{}, false
}

// RegisterType records a locally declared type's arity and definition.
func (e *TypeEnvironment) RegisterType(name string, info TypeInfo) {
	e.typeRegistry[name] = info
}

// LookupType walks the scope chain for a locally declared type.
func (e *TypeEnvironment) LookupType(name string) (TypeInfo, bool) {
	for env := e; env != nil; env = env.parent {
		if info, ok := env.typeRegistry[name]; ok {
			return info, true
		}
	}
	return TypeInfo{}, false
}

// RegisterImportedTypes records the exported type registry of an
// imported module, keyed by its module id (joined with "⋅").
func (e *TypeEnvironment) RegisterImportedTypes(moduleID string, registry map[string]TypeInfo) {
	e.importedTypeRegistries[moduleID] = registry
}

// LookupQualifiedType resolves typeName exported from moduleID.
// Returns ok=false both when moduleID was never imported and when it
// was imported but doesn't export typeName; callers that need to tell
// those apart use GetImportedModuleTypeNames.
func (e *TypeEnvironment) LookupQualifiedType(moduleID, typeName string) (TypeInfo, bool) {
	for env := e; env != nil; env = env.parent {
		if registry, ok := env.importedTypeRegistries[moduleID]; ok {
			info, ok := registry[typeName]
			return info, ok
		}
	}
	return TypeInfo{}, false
}

// GetImportedModuleTypeNames lists the type names moduleID exports, and
// reports whether moduleID was imported at all (as opposed to simply
// not exporting the type being looked up).
func (e *TypeEnvironment) GetImportedModuleTypeNames(moduleID string) ([]string, bool) {
	for env := e; env != nil; env = env.parent {
		if registry, ok := env.importedTypeRegistries[moduleID]; ok {
			names := make([]string, 0, len(registry))
			for name := range registry {
				names = append(names, name)
			}
			return names, true
		}
	}
	return nil, false
}

// GetBindings returns every binding in the local scope only (not the
// parent chain), used to export a module's top-level signatures to its
// dependents once Pass 1 finishes.
func (e *TypeEnvironment) GetBindings() map[string]InferenceType {
	return e.bindings
}

// BindTypeParam marks name as a generic type parameter visible from
// this scope onward, so ASTTypeToInferenceType resolves a bare
// reference to it as a Var rather than a zero-arg Constructor.
func (e *TypeEnvironment) BindTypeParam(name string) {
	e.typeParams[name] = true
}

// isTypeParam reports whether name was bound as a type parameter
// anywhere in the scope chain.
func (e *TypeEnvironment) isTypeParam(name string) bool {
	for env := e; env != nil; env = env.parent {
		if env.typeParams[name] {
			return true
		}
	}
	return false
}
