// Package astld turns a SysML v2 AST export into a JSON-LD document.
//
// Each AST entry is a {payload, identity} pair. The converter merges the
// two, then merges the result with the JSON-LD context fragment stored for
// the payload's @type, and finally pins the context's @base to the caller's
// base URI. Merging is recursive over nested records and the left-hand side
// wins every conflict unless it is null:
//
//	merged, err := astld.Merge(payload, identity)
//	merged, err = astld.Merge(merged, fragment)
//
// Records keep their key order, so the generated document lists payload
// keys first, then identity keys, then context keys.
package astld
