package introspect

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/gobwas/glob"
)

// Permissions is the sandbox filter C2/C3 consult before exposing a
// method, field, or constructor to script code (spec.md §4.2 "Permissions",
// §6 "Sandbox / Permissions DSL"). Grounded on open-component-model's use of
// github.com/gobwas/glob for pattern-based allow/deny lists, generalized to
// the nested package/class/member grammar spec.md's DSL describes.
type Permissions struct {
	allowAll    bool
	packages    []rule // package-level wildcard allow/deny rules, e.g. "java.util.*"
	classes     map[string]*classRule
}

type rule struct {
	pattern glob.Glob
	allow   bool
}

type classRule struct {
	allow     bool // true for a '+' (allow-list) block, false for a '-' (deny-list) block
	methods   map[string]bool
	fields    map[string]bool
	wildcards []rule // member-name wildcards within this class block
}

// AllowAll returns a Permissions that allows every reflective operation —
// the default when no sandbox configuration is supplied.
func AllowAll() *Permissions {
	return &Permissions{allowAll: true, classes: map[string]*classRule{}}
}

// AllowNone returns a Permissions that denies everything until rules are
// added via the DSL (a deny-by-default sandbox).
func AllowNone() *Permissions {
	return &Permissions{allowAll: false, classes: map[string]*classRule{}}
}

// ParsePermissions parses the textual DSL spec.md §6 describes:
//
//	java.util.*                 // allow every class in this package
//	-java.io.*                  // a leading '-' makes a package line deny
//	+Widget {                   // '+' class block: allow-list of members
//	  getName(); getValue();
//	}
//	-Secret {                   // '-' class block: deny-list of members
//	  password;
//	}
//
// Go has no package/class namespace to mirror 1:1; "package" lines match
// against a type's import path + name (t.PkgPath()+"."+t.Name()), and
// class blocks match against the bare type name, keeping the DSL's shape
// while adapting its targets to Go's reflect.Type identity. A block holds
// member lines only; blocks do not nest, and a block header is taken whole
// as the type name, so a qualified header such as `com.example.Widget`
// never matches. In a '+' block an unlisted method (field) is denied unless
// the block lists no methods (fields); in a '-' block unlisted members are
// allowed unless the block lists nothing at all, which denies every member.
func ParsePermissions(src string) (*Permissions, error) {
	p := &Permissions{allowAll: false, classes: map[string]*classRule{}}
	lines := strings.Split(src, "\n")
	var i int
	for i < len(lines) {
		line := strings.TrimSpace(stripComment(lines[i]))
		i++
		if line == "" {
			continue
		}
		if strings.HasSuffix(line, "{") {
			header := strings.TrimSpace(strings.TrimSuffix(line, "{"))
			allow := true
			switch {
			case strings.HasPrefix(header, "+"):
				header = strings.TrimSpace(header[1:])
			case strings.HasPrefix(header, "-"):
				header = strings.TrimSpace(header[1:])
				allow = false
			}
			cr := &classRule{allow: allow, methods: map[string]bool{}, fields: map[string]bool{}}
			for i < len(lines) {
				inner := strings.TrimSpace(stripComment(lines[i]))
				i++
				if inner == "}" {
					break
				}
				if inner == "" {
					continue
				}
				for _, member := range strings.Split(inner, ";") {
					member = strings.TrimSpace(member)
					if member == "" {
						continue
					}
					if strings.HasSuffix(member, "()") {
						cr.methods[strings.TrimSuffix(member, "()")] = true
						continue
					}
					if strings.ContainsAny(member, "*?") {
						g, err := glob.Compile(member)
						if err != nil {
							return nil, fmt.Errorf("permissions: bad member pattern %q: %w", member, err)
						}
						cr.wildcards = append(cr.wildcards, rule{pattern: g, allow: true})
						continue
					}
					cr.fields[member] = true
				}
			}
			p.classes[header] = cr
			continue
		}
		allow := true
		pkg := line
		if strings.HasPrefix(pkg, "-") {
			allow = false
			pkg = strings.TrimSpace(pkg[1:])
		} else if strings.HasPrefix(pkg, "+") {
			pkg = strings.TrimSpace(pkg[1:])
		}
		g, err := glob.Compile(pkg, '.')
		if err != nil {
			return nil, fmt.Errorf("permissions: bad package pattern %q: %w", pkg, err)
		}
		p.packages = append(p.packages, rule{pattern: g, allow: allow})
	}
	return p, nil
}

func stripComment(s string) string {
	if idx := strings.Index(s, "//"); idx >= 0 {
		return s[:idx]
	}
	return s
}

func classID(t reflect.Type) string {
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return t.Name()
}

func (p *Permissions) packageAllow(t reflect.Type) (bool, bool) {
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	full := t.PkgPath() + "." + t.Name()
	found, allow := false, p.allowAll
	for _, r := range p.packages {
		if r.pattern.Match(full) {
			found, allow = true, r.allow
		}
	}
	return allow, found
}

// AllowMethod reports whether name may be invoked on t.
func (p *Permissions) AllowMethod(t reflect.Type, name string) bool {
	if p.allowAll && len(p.classes) == 0 {
		return true
	}
	if cr, ok := p.classes[classID(t)]; ok {
		listed := cr.methods[name]
		for _, w := range cr.wildcards {
			if w.pattern.Match(name) {
				listed = true
			}
		}
		if !cr.allow {
			return !listed && len(cr.methods)+len(cr.fields)+len(cr.wildcards) > 0
		}
		return listed || len(cr.methods) == 0
	}
	allow, _ := p.packageAllow(t)
	return allow
}

// AllowField reports whether name may be read/written on t.
func (p *Permissions) AllowField(t reflect.Type, name string) bool {
	if p.allowAll && len(p.classes) == 0 {
		return true
	}
	if cr, ok := p.classes[classID(t)]; ok {
		if !cr.allow {
			return !cr.fields[name] && len(cr.methods)+len(cr.fields)+len(cr.wildcards) > 0
		}
		return cr.fields[name] || len(cr.fields) == 0
	}
	allow, _ := p.packageAllow(t)
	return allow
}
