package shader

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// Variable is one in/out declaration at global scope.
type Variable struct {
	Name     string
	Type     string
	Location int // -1 without an explicit layout(location = N)
}

var (
	lineComment  = regexp.MustCompile(`//[^\n]*`)
	blockComment = regexp.MustCompile(`(?s)/\*.*?\*/`)
	directive    = regexp.MustCompile(`(?m)^\s*#[^\n]*`)
	layoutPrefix = regexp.MustCompile(`^layout\s*\(([^)]*)\)\s*`)
	location     = regexp.MustCompile(`location\s*=\s*(\d+)`)
	declarator   = regexp.MustCompile(`^(\w+)\s*(\[\s*\w*\s*\])?$`)
	identifier   = regexp.MustCompile(`^\w+$`)
)

// qualifiers that may appear, in any order, around the in/out storage qualifier
var qualifiers = map[string]bool{
	"flat": true, "smooth": true, "noperspective": true, "centroid": true,
	"invariant": true, "highp": true, "mediump": true, "lowp": true,
}

// globalStatements splits src into the ';'-terminated statements at file
// scope. Function bodies are dropped; block declarations stay whole.
func globalStatements(src string) []string {
	src = blockComment.ReplaceAllString(src, "")
	src = lineComment.ReplaceAllString(src, "")
	src = directive.ReplaceAllString(src, "")

	var stmts []string
	var cur strings.Builder
	depth := 0
	for _, r := range src {
		switch r {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 && strings.Contains(cur.String(), "(") && !strings.HasPrefix(strings.TrimSpace(cur.String()), "layout") {
				// end of a function definition
				cur.Reset()
				continue
			}
		case ';':
			if depth == 0 {
				stmts = append(stmts, strings.TrimSpace(cur.String()))
				cur.Reset()
				continue
			}
		}
		cur.WriteRune(r)
	}
	return stmts
}

// parseInOut parses one statement. isInOut is false for statements that do not
// declare stage inputs or outputs. ok is false when the statement does declare
// them but in a form this parser does not understand.
func parseInOut(stmt string) (storage string, vars []Variable, isInOut, ok bool) {
	loc := -1
	if m := layoutPrefix.FindStringSubmatch(stmt); m != nil {
		if l := location.FindStringSubmatch(m[1]); l != nil {
			loc, _ = strconv.Atoi(l[1])
		}
		stmt = stmt[len(m[0]):]
	}

	fields := strings.Fields(stmt)
	i := 0
	for ; i < len(fields); i++ {
		f := fields[i]
		if f == "in" || f == "out" {
			if storage != "" {
				return "", nil, true, false
			}
			storage = f
			continue
		}
		if !qualifiers[f] {
			break
		}
	}
	if storage == "" {
		return "", nil, false, true
	}
	if i >= len(fields) || !identifier.MatchString(fields[i]) {
		return storage, nil, true, false
	}
	typ := fields[i]

	rest := strings.Join(fields[i+1:], " ")
	for n, part := range strings.Split(rest, ",") {
		m := declarator.FindStringSubmatch(strings.TrimSpace(part))
		if m == nil {
			return storage, nil, true, false
		}
		v := Variable{Name: m[1], Type: typ + strings.ReplaceAll(m[2], " ", ""), Location: -1}
		if loc >= 0 {
			v.Location = loc + n
		}
		vars = append(vars, v)
	}
	return storage, vars, true, true
}

// Declarations returns the global inputs and outputs of a GLSL source. ok is
// false when some in/out declaration could not be parsed, in which case ins
// and outs are incomplete.
func Declarations(src string) (ins, outs []Variable, ok bool) {
	ok = true
	for _, stmt := range globalStatements(src) {
		storage, vars, isInOut, parsed := parseInOut(stmt)
		if !isInOut {
			continue
		}
		if !parsed {
			ok = false
			continue
		}
		if storage == "in" {
			ins = append(ins, vars...)
		} else {
			outs = append(outs, vars...)
		}
	}
	return ins, outs, ok
}

// AttributeLocations maps each vertex input with an explicit location to it.
func AttributeLocations(vertexSrc string) map[string]int {
	ins, _, _ := Declarations(vertexSrc)
	locs := make(map[string]int)
	for _, v := range ins {
		if v.Location >= 0 {
			locs[v.Name] = v.Location
		}
	}
	return locs
}

// CheckInterface reports a LinkError when a fragment input has no vertex
// output of the same name and type. Sources whose declarations it cannot
// fully parse are left to the compiler.
func CheckInterface(vertexSrc, fragmentSrc string) error {
	_, outs, okV := Declarations(vertexSrc)
	ins, _, okF := Declarations(fragmentSrc)
	if !okV || !okF {
		return nil
	}

	written := make(map[string]string, len(outs))
	for _, v := range outs {
		written[v.Name] = v.Type
	}

	var problems []string
	for _, v := range ins {
		typ, ok := written[v.Name]
		switch {
		case !ok:
			problems = append(problems, fmt.Sprintf("fragment input %q is not written by the vertex shader", v.Name))
		case typ != v.Type:
			problems = append(problems, fmt.Sprintf("fragment input %q is %s but the vertex shader writes %s", v.Name, v.Type, typ))
		}
	}
	if len(problems) == 0 {
		return nil
	}
	sort.Strings(problems)
	return &LinkError{Log: BoundLog(strings.Join(problems, "\n"))}
}
