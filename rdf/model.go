package rdf

import "fmt"

// TermKind identifies RDF term types.
type TermKind uint8

const (
	// TermIRI represents an IRI term.
	TermIRI TermKind = iota
	// TermBlankNode represents a blank node term.
	TermBlankNode
	// TermLiteral represents a literal term.
	TermLiteral
)

// Term is a value that can appear in RDF statements.
type Term interface {
	Kind() TermKind
	String() string
}

// IRI represents an RDF IRI.
type IRI struct {
	// Value is the IRI string value.
	Value string
}

// Kind returns TermIRI.
func (i IRI) Kind() TermKind { return TermIRI }

// String returns the IRI value.
func (i IRI) String() string { return i.Value }

// BlankNode represents an RDF blank node.
type BlankNode struct {
	// ID is the blank node identifier.
	ID string
}

// Kind returns TermBlankNode.
func (b BlankNode) Kind() TermKind { return TermBlankNode }

// String returns the blank node identifier prefixed with "_:".
func (b BlankNode) String() string { return "_:" + b.ID }

// Literal represents an RDF literal.
type Literal struct {
	// Lexical is the lexical form of the literal.
	Lexical string
	// Datatype is the datatype IRI, if any.
	Datatype IRI
	// Lang is the language tag, if any.
	Lang string
}

// Kind returns TermLiteral.
func (l Literal) Kind() TermKind { return TermLiteral }

// String returns a string representation of the literal.
func (l Literal) String() string {
	if l.Lang != "" {
		return fmt.Sprintf("%q@%s", l.Lexical, l.Lang)
	}
	if l.Datatype.Value != "" && l.Datatype.Value != XSDString {
		return fmt.Sprintf("%q^^<%s>", l.Lexical, l.Datatype.Value)
	}
	return fmt.Sprintf("%q", l.Lexical)
}

// NewLiteral returns a plain string literal.
func NewLiteral(lexical string) Literal {
	return Literal{Lexical: lexical}
}

// Triple is an RDF triple.
type Triple struct {
	// S is the subject.
	S Term
	// P is the predicate.
	P IRI
	// O is the object.
	O Term
}

// IsZero reports whether the triple has no subject/predicate/object.
func (t Triple) IsZero() bool {
	return t.S == nil && t.P.Value == "" && t.O == nil
}

// String renders the triple as a single N-Triples statement without the
// trailing newline.
func (t Triple) String() string {
	return renderTerm(t.S) + " " + renderIRI(t.P) + " " + renderTerm(t.O) + " ."
}

// Lexical returns the lexical value of a term: the IRI string, the blank
// node id, or the literal's lexical form.
func Lexical(term Term) string {
	switch value := term.(type) {
	case IRI:
		return value.Value
	case BlankNode:
		return value.ID
	case Literal:
		return value.Lexical
	default:
		return ""
	}
}

// termKey returns a key that identifies a term uniquely within a graph.
// Plain literals and xsd:string literals share a key.
func termKey(term Term) string {
	if lit, ok := term.(Literal); ok && lit.Datatype.Value == XSDString {
		lit.Datatype = IRI{}
		return renderTerm(lit)
	}
	return renderTerm(term)
}
