package rdf

// Namespaces used by the tag pipeline.
const (
	RDFNamespace   = "http://www.w3.org/1999/02/22-rdf-syntax-ns#"
	RDFSNamespace  = "http://www.w3.org/2000/01/rdf-schema#"
	OWLNamespace   = "http://www.w3.org/2002/07/owl#"
	XSDNamespace   = "http://www.w3.org/2001/XMLSchema#"
	SysMLNamespace = "http://omg.org/ns/sysml/v2/metamodel#"
)

// XSDString is the datatype of plain string literals.
const XSDString = XSDNamespace + "string"

var (
	RDFType    = IRI{Value: RDFNamespace + "type"}
	RDFLabel   = IRI{Value: RDFNamespace + "label"}
	RDFComment = IRI{Value: RDFNamespace + "comment"}

	RDFSClass = IRI{Value: RDFSNamespace + "Class"}

	OWLClass          = IRI{Value: OWLNamespace + "Class"}
	OWLObjectProperty = IRI{Value: OWLNamespace + "ObjectProperty"}
)

// SysML returns the IRI of a term in the SysML v2 metamodel namespace.
func SysML(local string) IRI {
	return IRI{Value: SysMLNamespace + local}
}

// DefaultPrefixes returns the well-known prefix bindings every graph
// starts with.
func DefaultPrefixes() map[string]string {
	return map[string]string{
		"rdf":  RDFNamespace,
		"rdfs": RDFSNamespace,
		"owl":  OWLNamespace,
		"xsd":  XSDNamespace,
	}
}
