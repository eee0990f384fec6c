package freeze

import (
	"fmt"
	"os"
	"reflect"

	"gopkg.in/yaml.v3"
)

// Policy is the declarative exclusion rule set. Rules are consulted before
// the engine descends into a value, field, or binding; an excluded element is
// replaced by a fixed marker fingerprint instead of its contents.
//
// The point of exclusions is practical determinism: many runtime values carry
// bookkeeping state (locks, timestamps, internal caches) that is irrelevant
// to observable behavior. Skipping them does not weaken the fingerprint's
// power to distinguish semantically different inputs.
//
// Misconfigured rules are not detected at runtime: if something that should
// have been excluded still shows up in a fingerprint, that is a configuration
// gap, not an engine fault.
type Policy struct {
	// TrustVersions freezes values implementing Versioned as
	// (type, version) leaves instead of walking their contents.
	TrustVersions bool

	ignoreTypes       map[string]struct{}
	ignoreFields      map[fieldKey]struct{}
	ignoreBindings    map[bindingKey]struct{}
	versionExceptions map[string]struct{}
	ignoreIdentities  map[identity]struct{}
}

type fieldKey struct {
	typeName string
	field    string
}

type bindingKey struct {
	scope string
	name  string
}

// NewPolicy returns an empty policy with version trust enabled.
func NewPolicy() *Policy {
	return &Policy{
		TrustVersions:     true,
		ignoreTypes:       make(map[string]struct{}),
		ignoreFields:      make(map[fieldKey]struct{}),
		ignoreBindings:    make(map[bindingKey]struct{}),
		versionExceptions: make(map[string]struct{}),
		ignoreIdentities:  make(map[identity]struct{}),
	}
}

// DefaultPolicy returns NewPolicy pre-loaded with lock-like standard library
// types whose state never affects a computation's result.
func DefaultPolicy() *Policy {
	p := NewPolicy()
	for _, name := range []string{
		"sync.Mutex", "*sync.Mutex",
		"sync.RWMutex", "*sync.RWMutex",
		"sync.Once", "*sync.Once",
		"sync.WaitGroup", "*sync.WaitGroup",
	} {
		p.IgnoreType(name)
	}
	return p
}

// IgnoreType excludes every value whose reflect.Type.String() equals name.
func (p *Policy) IgnoreType(name string) *Policy {
	p.ignoreTypes[name] = struct{}{}
	return p
}

// IgnoreField excludes one struct field, addressed by the owning type's
// reflect string and the field name.
func (p *Policy) IgnoreField(typeName, field string) *Policy {
	p.ignoreFields[fieldKey{typeName, field}] = struct{}{}
	return p
}

// IgnoreBinding excludes one named binding in a binding scope (see Bindings).
func (p *Policy) IgnoreBinding(scope, name string) *Policy {
	p.ignoreBindings[bindingKey{scope, name}] = struct{}{}
	return p
}

// IgnoreValue excludes one specific value by identity. Only pointer-shaped
// values (pointers, maps, slices, funcs, channels) carry an identity; other
// values are ignored by this call.
func (p *Policy) IgnoreValue(v any) *Policy {
	if id, ok := identityOf(reflect.ValueOf(v)); ok {
		p.ignoreIdentities[id] = struct{}{}
	}
	return p
}

// VersionException disables version trust for one type name.
func (p *Policy) VersionException(typeName string) *Policy {
	p.versionExceptions[typeName] = struct{}{}
	return p
}

// ExcludedType reports whether values of the named type are excluded.
func (p *Policy) ExcludedType(name string) bool {
	_, ok := p.ignoreTypes[name]
	return ok
}

// ExcludedField reports whether one struct field is excluded.
func (p *Policy) ExcludedField(typeName, field string) bool {
	_, ok := p.ignoreFields[fieldKey{typeName, field}]
	return ok
}

// ExcludedBinding reports whether one scope binding is excluded.
func (p *Policy) ExcludedBinding(scope, name string) bool {
	_, ok := p.ignoreBindings[bindingKey{scope, name}]
	return ok
}

// IsVersionException reports whether version trust is disabled for a type.
func (p *Policy) IsVersionException(typeName string) bool {
	_, ok := p.versionExceptions[typeName]
	return ok
}

func (p *Policy) excludedIdentity(id identity) bool {
	_, ok := p.ignoreIdentities[id]
	return ok
}

// policyFile is the YAML shape of a policy data file.
type policyFile struct {
	IgnoreTypes []string `yaml:"ignore_types"`
	IgnoreFields []struct {
		Type  string `yaml:"type"`
		Field string `yaml:"field"`
	} `yaml:"ignore_fields"`
	IgnoreBindings []struct {
		Scope string `yaml:"scope"`
		Name  string `yaml:"name"`
	} `yaml:"ignore_bindings"`
	TrustVersions     *bool    `yaml:"trust_versions"`
	VersionExceptions []string `yaml:"version_exceptions"`
}

// ParsePolicy builds a policy from YAML rules layered over DefaultPolicy.
func ParsePolicy(data []byte) (*Policy, error) {
	var file policyFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("freeze: parsing policy: %w", err)
	}
	p := DefaultPolicy()
	for _, name := range file.IgnoreTypes {
		p.IgnoreType(name)
	}
	for _, f := range file.IgnoreFields {
		p.IgnoreField(f.Type, f.Field)
	}
	for _, b := range file.IgnoreBindings {
		p.IgnoreBinding(b.Scope, b.Name)
	}
	for _, name := range file.VersionExceptions {
		p.VersionException(name)
	}
	if file.TrustVersions != nil {
		p.TrustVersions = *file.TrustVersions
	}
	return p, nil
}

// LoadPolicyFile reads and parses a YAML policy file.
func LoadPolicyFile(path string) (*Policy, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("freeze: reading policy file: %w", err)
	}
	return ParsePolicy(data)
}
