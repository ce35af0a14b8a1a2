package parse

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"frontdesk-backend/internal/model"
)

func TestTableNumber(t *testing.T) {
	testCases := []struct {
		name      string
		label     string
		expected  int
		expectErr bool
	}{
		{name: "Bare number", label: "12", expected: 12},
		{name: "Short prefix", label: "T12", expected: 12},
		{name: "Lower case prefix", label: "t7", expected: 7},
		{name: "Word prefix", label: "Table 12", expected: 12},
		{name: "Hash and spacing", label: "  table   #3 ", expected: 3},
		{name: "Tabs and newlines", label: "Table\t\n 9", expected: 9},
		{name: "Abbreviation", label: "TBL 4", expected: 4},
		{name: "Zero", label: "T0", expectErr: true},
		{name: "Text only", label: "patio", expectErr: true},
		{name: "Trailing text", label: "Table 12 window", expectErr: true},
		{name: "Empty", label: "", expectErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			n, err := TableNumber(tc.label)
			if tc.expectErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tc.expected, n)
		})
	}
}

func TestClassifyRequest(t *testing.T) {
	testCases := []struct {
		message  string
		expected model.RequestType
	}{
		{"Could we get some water please?", model.RequestWater},
		{"Refill for table 4", model.RequestWater},
		{"More napkins", model.RequestNapkins},
		{"need tissues", model.RequestNapkins},
		{"Someone spilled juice", model.RequestCleaning},
		{"please clean up the table", model.RequestCleaning},
		{"Can we talk to the manager", model.RequestAssistance},
		{"help", model.RequestAssistance},
		{"Is the kitchen still open?", model.RequestOther},
		{"", model.RequestOther},
	}

	for _, tc := range testCases {
		t.Run(tc.message, func(t *testing.T) {
			assert.Equal(t, tc.expected, ClassifyRequest(tc.message))
		})
	}
}

func TestPriority(t *testing.T) {
	assert.Less(t, Priority(model.RequestWater), Priority(model.RequestCleaning))
	assert.Less(t, Priority(model.RequestCleaning), Priority(model.RequestAssistance))
	assert.Equal(t, Priority(model.RequestNapkins), Priority(model.RequestOther))
}
