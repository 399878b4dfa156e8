package common

// AppendBounded appends value to list and drops the oldest entries so the
// result never exceeds capacity. It is the single implementation behind
// every bounded-history field in the conversation profile (stress
// indicators, recent wins, advice history).
func AppendBounded[T any](list []T, value T, capacity int) []T {
	list = append(list, value)
	if capacity > 0 && len(list) > capacity {
		list = list[len(list)-capacity:]
	}
	return list
}

// ContainsString reports whether list already holds value. Used to keep
// set-union profile fields free of duplicates.
func ContainsString(list []string, value string) bool {
	for _, v := range list {
		if v == value {
			return true
		}
	}
	return false
}
