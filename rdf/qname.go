package rdf

// ShortForm renders an IRI as prefix:local using the given bindings, or as
// <iri> when no binding applies. Blank nodes and literals render in their
// N-Triples form.
func ShortForm(term Term, prefixes map[string]string) string {
	if iri, ok := term.(IRI); ok {
		return renderIRIWithPrefixes(iri, prefixes)
	}
	return renderTerm(term)
}

func isQNameLocal(value string) bool {
	if value == "" {
		return false
	}
	for i := 0; i < len(value); i++ {
		ch := value[i]
		if i == 0 {
			if !isNameStartChar(ch) && !(ch >= '0' && ch <= '9') {
				return false
			}
		} else if !isNameChar(ch) {
			return false
		}
	}
	return value[len(value)-1] != '.'
}

func isNameStartChar(ch byte) bool {
	return (ch >= 'A' && ch <= 'Z') || (ch >= 'a' && ch <= 'z') || ch == '_'
}

func isNameChar(ch byte) bool {
	return isNameStartChar(ch) || (ch >= '0' && ch <= '9') || ch == '-' || ch == '.'
}
