package sourcetree

import (
	"sort"
	"strings"
)

// Annotation is declaration metadata such as @Retryable(maxAttempts = 5).
type Annotation struct {
	// Name is normalized: no '@', no package qualifier, lowercase.
	Name string
	Args []AnnotationArg
	Line int
}

// AnnotationArg is one argument of an annotation. Key is empty for positional values.
type AnnotationArg struct {
	Key    string
	Value  string
	Nested *Annotation
}

// Arg returns the argument named key. The key "value" also matches a single positional argument.
func (a Annotation) Arg(key string) (AnnotationArg, bool) {
	for _, arg := range a.Args {
		if arg.Key == key {
			return arg, true
		}
	}
	if key == "value" {
		for _, arg := range a.Args {
			if arg.Key == "" {
				return arg, true
			}
		}
	}
	return AnnotationArg{}, false
}

// AnnotationSet is the ordered, name-indexed annotations of one declaration.
type AnnotationSet struct {
	items []Annotation
	index map[string]int
}

// Get returns the first annotation with the given name (normalized before lookup).
func (s AnnotationSet) Get(name string) (Annotation, bool) {
	i, ok := s.index[NormalizeAnnotationName(name)]
	if !ok {
		return Annotation{}, false
	}
	return s.items[i], true
}

// Has reports whether an annotation with the given name is present.
func (s AnnotationSet) Has(name string) bool {
	_, ok := s.Get(name)
	return ok
}

// All returns the annotations in source order.
func (s AnnotationSet) All() []Annotation { return s.items }

// Len returns the number of annotations.
func (s AnnotationSet) Len() int { return len(s.items) }

func (s *AnnotationSet) add(a Annotation) {
	if s.index == nil {
		s.index = make(map[string]int)
	}
	if _, dup := s.index[a.Name]; !dup {
		s.index[a.Name] = len(s.items)
	}
	s.items = append(s.items, a)
}

// NormalizeAnnotationName turns "@org.springframework.retry.annotation.Retryable(x)" into "retryable".
func NormalizeAnnotationName(raw string) string {
	name := strings.TrimSpace(raw)
	name = strings.TrimPrefix(name, "@")
	if i := strings.IndexByte(name, '('); i >= 0 {
		name = name[:i]
	}
	if i := strings.LastIndexByte(name, '.'); i >= 0 {
		name = name[i+1:]
	}
	return strings.ToLower(strings.TrimSpace(name))
}

// Annotations returns the annotations attached to the declaration decl.
// The index for the whole tree is built on first call and reused afterwards.
func (t *Tree) Annotations(decl NodeID) AnnotationSet {
	t.buildAnnotationIndex()
	return t.annotations[decl]
}

// AnnotatedDeclarations returns every declaration that carries at least one annotation, in tree order.
func (t *Tree) AnnotatedDeclarations() []NodeID {
	t.buildAnnotationIndex()
	return t.annotated
}

func (t *Tree) buildAnnotationIndex() {
	t.annMu.Lock()
	defer t.annMu.Unlock()
	if t.annBuilt {
		return
	}
	t.annBuilt = true
	t.annotations = make(map[NodeID]AnnotationSet)
	for id := range t.nodes {
		n := &t.nodes[id]
		if n.Kind != KindAnnotation || n.Parent == NoNode || t.nodes[n.Parent].Kind != KindModifiers {
			continue
		}
		decl := t.nodes[n.Parent].Parent
		if decl == NoNode {
			continue
		}
		set := t.annotations[decl]
		set.add(t.parseAnnotation(NodeID(id)))
		t.annotations[decl] = set
	}
	t.annotated = make([]NodeID, 0, len(t.annotations))
	for id := range t.annotations {
		t.annotated = append(t.annotated, id)
	}
	sort.Slice(t.annotated, func(i, j int) bool { return t.annotated[i] < t.annotated[j] })
}

func (t *Tree) parseAnnotation(id NodeID) Annotation {
	n := &t.nodes[id]
	name := t.Text(t.ChildByRole(id, RoleName))
	if name == "" {
		name = n.Text
	}
	a := Annotation{Name: NormalizeAnnotationName(name), Line: n.Line}
	for _, c := range t.Children(t.ChildByKind(id, KindArguments)) {
		if t.nodes[c].Kind == KindElementValuePair {
			a.Args = append(a.Args, t.annotationArg(t.Text(t.ChildByRole(c, RoleName)), t.ChildByRole(c, RoleValue)))
			continue
		}
		a.Args = append(a.Args, t.annotationArg("", c))
	}
	return a
}

func (t *Tree) annotationArg(key string, value NodeID) AnnotationArg {
	arg := AnnotationArg{Key: key}
	v := t.Node(value)
	if v == nil {
		return arg
	}
	arg.Value = v.Text
	switch v.Kind {
	case KindString:
		arg.Value = Unquote(v.Text)
	case KindAnnotation:
		nested := t.parseAnnotation(value)
		arg.Nested = &nested
	}
	return arg
}

// Unquote strips the delimiters of a string literal. Escapes are left as written.
func Unquote(s string) string {
	s = strings.TrimSpace(s)
	for _, q := range []string{`"""`, `'''`, `"`, `'`} {
		if len(s) >= 2*len(q) && strings.HasPrefix(s, q) && strings.HasSuffix(s, q) {
			return s[len(q) : len(s)-len(q)]
		}
	}
	return s
}
