package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func makeFields(labels ...string) []FormField {
	fields := make([]FormField, len(labels))
	for i, label := range labels {
		fields[i] = FormField{
			ID:         "field-" + label,
			FieldType:  FieldTypeText,
			Label:      label,
			FieldOrder: i,
		}
	}

	return fields
}

func labelsOf(fields []FormField) []string {
	labels := make([]string, len(fields))
	for i, f := range fields {
		labels[i] = f.Label
	}

	return labels
}

func TestReorder_MoveForward(t *testing.T) {
	fields := makeFields("A", "B", "C", "D")

	result := Reorder(fields, 0, 2)

	assert.Equal(t, []string{"B", "C", "A", "D"}, labelsOf(result))
	for i, f := range result {
		assert.Equal(t, i, f.FieldOrder)
	}
}

func TestReorder_MoveBackward(t *testing.T) {
	fields := makeFields("A", "B", "C", "D")

	result := Reorder(fields, 3, 0)

	assert.Equal(t, []string{"D", "A", "B", "C"}, labelsOf(result))
	for i, f := range result {
		assert.Equal(t, i, f.FieldOrder)
	}
}

func TestReorder_SamePosition(t *testing.T) {
	fields := makeFields("A", "B", "C")

	result := Reorder(fields, 1, 1)

	assert.Equal(t, []string{"A", "B", "C"}, labelsOf(result))
}

func TestReorder_PreservesMultiset(t *testing.T) {
	fields := makeFields("A", "B", "C", "D", "E")

	result := Reorder(fields, 1, 3)

	require.Len(t, result, len(fields))

	seen := make(map[string]int)
	for _, f := range result {
		seen[f.ID]++
	}

	for _, f := range fields {
		assert.Equal(t, 1, seen[f.ID], "field %s should appear exactly once", f.ID)
	}
}

func TestReorder_DoesNotMutateInput(t *testing.T) {
	fields := makeFields("A", "B", "C")

	Reorder(fields, 0, 2)

	assert.Equal(t, []string{"A", "B", "C"}, labelsOf(fields))
	for i, f := range fields {
		assert.Equal(t, i, f.FieldOrder)
	}
}

func TestReorder_RenumbersStaleOrders(t *testing.T) {
	fields := makeFields("A", "B", "C")
	fields[0].FieldOrder = 7
	fields[1].FieldOrder = 7
	fields[2].FieldOrder = 2

	result := Reorder(fields, 2, 0)

	assert.Equal(t, []string{"C", "A", "B"}, labelsOf(result))
	for i, f := range result {
		assert.Equal(t, i, f.FieldOrder)
	}
}

func TestRenumberFields(t *testing.T) {
	fields := makeFields("A", "B", "C")
	fields[0].FieldOrder = 5
	fields[2].FieldOrder = 0

	result := RenumberFields(fields)

	for i, f := range result {
		assert.Equal(t, i, f.FieldOrder)
	}
}
