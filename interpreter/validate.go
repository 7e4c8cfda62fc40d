package interpreter

// createRequired are the fields a new inventory record cannot be saved
// without. Identification is satisfied by either a service tag or an
// identification number; requiredMissing reports the pair as one item.
var createRequired = []string{"description", "cost", "location", "department"}

// requiredMissing lists the required values the draft still lacks.
func requiredMissing(draft *Draft) []string {
	var missing []string

	switch draft.Intent {
	case IntentCreate:
		f := draft.Fields
		if f.Description == nil {
			missing = append(missing, "description")
		}
		if f.Cost == nil {
			missing = append(missing, "cost")
		}
		if f.Location == nil {
			missing = append(missing, "location")
		}
		if f.Department == nil {
			missing = append(missing, "department")
		}
		if f.ServiceTag == nil && f.IdentificationNumber == nil {
			missing = append(missing, "service tag or identification number")
		}
	case IntentUpdate:
		if len(draft.Fields.Names()) == 0 {
			missing = append(missing, "field to change and its new value")
		}
	}

	return missing
}

// Validate is the completion gate: pure, no I/O, no mutation of the draft.
// Incomplete drafts never reach the store; unscoped destructive drafts are
// flagged so execution can demand confirmation.
func Validate(draft *Draft) ValidationResult {
	res := ValidationResult{Missing: requiredMissing(draft)}
	res.Complete = len(res.Missing) == 0

	switch draft.Intent {
	case IntentUpdate, IntentDelete:
		if draft.Filter.IsEmpty() {
			res.Unscoped = true
		}
	}

	return res
}
