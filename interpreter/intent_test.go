package interpreter

import "testing"

func TestClassify(t *testing.T) {
	cases := []struct {
		in       string
		expected Intent
	}{
		{"Create new laptop with cost ₹80000 in CSE department", IntentCreate},
		{"Add a projector with service tag SVT-100 in the physics lab", IntentCreate},
		{"register a new 3D printer for the mechanical department", IntentCreate},
		{"Update cost to ₹1,500 for all computers in CSE department", IntentUpdate},
		{"change location to Main Library for service tag SVT100", IntentUpdate},
		{"please update the cost of SVT-4 to 900", IntentUpdate},
		// cues match whole words only; "specialist" is not "list"
		{"please update cost to 500 for specialist equipment", IntentUpdate},
		{"Delete all resources in old building", IntentDelete},
		{"remove all printers from the ECE department", IntentDelete},
		{"Delete everything", IntentDelete},
		{"What's the total value of assets in Building A?", IntentQuery},
		{"how many laptops do we have?", IntentQuery},
		{"list all assets in Building A", IntentQuery},
		{"show me all equipment in the chemistry lab", IntentQuery},
		{"list the specialist equipment", IntentQuery},
		// questions about past mutations are informational, not commands
		{"how many laptops were added last month?", IntentQuery},
		{"was the projector removed yesterday?", IntentChat},
		{"do we have any projectors?", IntentChat},
		{"hello", IntentChat},
		{"", IntentChat},
	}
	for _, tc := range cases {
		if got := Classify(tc.in); got != tc.expected {
			t.Fatalf("Classify(%q) expected %s, got %s", tc.in, tc.expected, got)
		}
	}
}
