// Package compiler substitutes {name} placeholders in template text.
package compiler

import (
	"regexp"
)

const (
	// NotFound replaces placeholders that have no variable.
	NotFound = "NOT FOUND"

	// DefaultValue is stored by Set when a value is empty.
	DefaultValue = "N/A"
)

// placeholder matches "{" + one or more non-"}" + "}". Nesting is not
// supported: "{a{b}" captures "a{b".
var placeholder = regexp.MustCompile(`\{([^}]+)\}`)

// Compile replaces every placeholder in template with its value from vars,
// or with NotFound when vars has no such name.
func Compile(template string, vars map[string]string) string {
	return placeholder.ReplaceAllStringFunc(template, func(token string) string {
		name := token[1 : len(token)-1]
		if value, ok := vars[name]; ok {
			return value
		}
		return NotFound
	})
}

// Placeholders returns the distinct placeholder names in template in order
// of first appearance.
func Placeholders(template string) []string {
	var names []string
	seen := make(map[string]bool)
	for _, m := range placeholder.FindAllStringSubmatch(template, -1) {
		if !seen[m[1]] {
			seen[m[1]] = true
			names = append(names, m[1])
		}
	}
	return names
}

// Variables is a placeholder name to value mapping. Later assignments to a
// name overwrite earlier ones.
type Variables map[string]string

// Set stores value under name, or the default when value is empty. The
// default is DefaultValue unless one is given.
func (v Variables) Set(name, value string, def ...string) {
	if value != "" {
		v[name] = value
		return
	}
	if len(def) > 0 {
		v[name] = def[0]
		return
	}
	v[name] = DefaultValue
}

// SetAll applies Set with the standard default to every entry.
func (v Variables) SetAll(values map[string]string) {
	for name, value := range values {
		v.Set(name, value)
	}
}

// Builder pairs a template with the variables it will be compiled with.
type Builder struct {
	template string
	vars     Variables
}

// NewBuilder creates a builder for template with an empty variable set.
func NewBuilder(template string) *Builder {
	return &Builder{template: template, vars: Variables{}}
}

// SetTemplate replaces the template text.
func (b *Builder) SetTemplate(template string) {
	b.template = template
}

// Variables exposes the builder's variable set for assignment.
func (b *Builder) Variables() Variables {
	return b.vars
}

// Compile renders the template with the current variables.
func (b *Builder) Compile() string {
	return Compile(b.template, b.vars)
}
