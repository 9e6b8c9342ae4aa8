// Package tagging turns a SysML v2 model graph into a graph in a target
// ontology's vocabulary.
//
// Three rules read the model. Metadata usages tag their annotated element
// with an ontology class, either through direct properties or through an
// owned/owning relationship pair. Named connection usages between parts
// become object-property triples between those parts. Tag names follow the
// generated library's convention: a library prefix that Rewrite replaces
// with the ontology namespace.
package tagging
