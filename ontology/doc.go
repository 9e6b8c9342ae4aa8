// Package ontology indexes the classes and object properties an ontology
// declares and renders them as a SysML v2 tagging library.
//
// An index is built once from a parsed ontology graph:
//
//	g, err := rdf.ReadFile(ctx, "sosa.ttl", rdf.FormatAuto, rdf.ReadOptions{})
//	if err != nil {
//		return err
//	}
//	idx := ontology.Build(g, "sosa:")
//	text := ontology.GeneratePackage("SosaTags", "https://www.w3.org/ns/sosa/", idx, "SOSA_")
package ontology
