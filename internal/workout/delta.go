package workout

// Delta returns the parsed workouts whose date is not in existing, keeping
// their order.
//
// Two workouts for the same new date both pass; the insert-time check is
// what keeps the second one out of the datastore.
func Delta(existing DateSet, parsed []ParsedWorkout) []ParsedWorkout {
	var missing []ParsedWorkout
	for _, p := range parsed {
		if existing.Has(p.Date) {
			continue
		}
		missing = append(missing, p)
	}

	return missing
}
