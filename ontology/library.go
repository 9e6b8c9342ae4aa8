package ontology

import "strings"

// GeneratePackage renders a SysML v2 package with one metadata def per
// class and one connection def per object property. Definition names are
// libPrefix followed by the term name with ':' replaced by '_'. Each
// definition is preceded by a comment naming namespace+term.
func GeneratePackage(name, namespace string, idx Index, libPrefix string) string {
	var b strings.Builder
	b.WriteString("package ")
	b.WriteString(name)
	b.WriteString(" {\n")
	b.WriteString("\t//  This package was auto-generated\n\n")

	for _, class := range idx.ClassNames() {
		b.WriteString("\t//  " + namespace + class + "\n")
		b.WriteString("\tmetadata def " + libPrefix + defName(class) + ";\n\n")
	}
	for _, prop := range idx.Properties {
		b.WriteString("\t//  " + namespace + prop + "\n")
		b.WriteString("\tconnection def " + libPrefix + defName(prop) + " {\n")
		b.WriteString("\t\tend sub;\n")
		b.WriteString("\t\tend obj;\n")
		b.WriteString("\t}\n\n")
	}
	b.WriteString("}")
	return b.String()
}

func defName(term string) string {
	return strings.ReplaceAll(term, ":", "_")
}
