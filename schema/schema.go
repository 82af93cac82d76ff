package schema

// Annotation is metadata attached to an entity or a column. Renderers and
// callers look annotations up by name.
type Annotation interface {
	// Name defines the name of the annotation to be retrieved by the codegen.
	Name() string
}

// Merger is implemented by annotations that can be combined with another
// annotation of the same name.
type Merger interface {
	Merge(Annotation) Annotation
}

// CommentAnnotation attaches a comment to an entity or a column.
type CommentAnnotation struct {
	Text string
}

// Name implements Annotation.
func (*CommentAnnotation) Name() string { return "Comment" }

// Comment returns a comment annotation.
func Comment(text string) *CommentAnnotation {
	return &CommentAnnotation{Text: text}
}

// Template is the source of an override expression: a template in the
// expression syntax plus its positional arguments.
type Template struct {
	Text string
	Args []any
}

// Tmpl returns a template.
func Tmpl(text string, args ...any) *Template {
	return &Template{Text: text, Args: args}
}

// Mixin is a reusable set of fields added to an entity.
type Mixin interface {
	Fields() []*FieldBuilder
}

// merge appends the annotations of src to dst, merging the ones that share
// a name and implement Merger.
func merge(dst []Annotation, src ...Annotation) []Annotation {
	for _, a := range src {
		merged := false
		for i, d := range dst {
			if m, ok := d.(Merger); ok && d.Name() == a.Name() {
				dst[i] = m.Merge(a)
				merged = true
				break
			}
		}
		if !merged {
			dst = append(dst, a)
		}
	}
	return dst
}
