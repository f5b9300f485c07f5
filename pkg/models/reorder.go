package models

// Reorder moves the field at fromIndex to toIndex and renumbers every
// field's FieldOrder to its new positional index. toIndex is interpreted in
// the post-removal list, matching conventional drag-and-drop semantics.
// Indices must be in range; this is an internal engine and callers own the
// precondition. The input slice is not mutated.
func Reorder(fields []FormField, fromIndex, toIndex int) []FormField {
	moved := fields[fromIndex]

	result := make([]FormField, 0, len(fields))
	result = append(result, fields[:fromIndex]...)
	result = append(result, fields[fromIndex+1:]...)

	result = append(result, FormField{})
	copy(result[toIndex+1:], result[toIndex:])
	result[toIndex] = moved

	return RenumberFields(result)
}

// RenumberFields assigns FieldOrder = positional index (0..n-1) across the
// list, preserving relative order. Positional index is the only source of
// truth for display order; stored orders may be stale after prior mutations.
func RenumberFields(fields []FormField) []FormField {
	for i := range fields {
		fields[i].FieldOrder = i
	}

	return fields
}
