package core

// NamespacedName identifies a namespaced Kubernetes resource.
type NamespacedName struct {
	Namespace string
	Name      string
}

// NameConflict records two distinct source keys resolving to the same target
// name. The first key in sorted order wins; later keys are skipped.
type NameConflict struct {
	TargetName string
	WinnerKey  string
	LoserKey   string
}

// ConversionCounters tallies the API writes performed during one pass.
type ConversionCounters struct {
	Created   int
	Updated   int
	Unchanged int
	Migrated  int
	Pruned    int
}

// ConversionResult captures the outcome of converting one source ConfigMap.
type ConversionResult struct {
	// Documents is the number of valid dashboard documents found.
	Documents int
	// InvalidKeys lists per-key validation failures; siblings still convert.
	InvalidKeys []KeyError
	// Conflicts lists naming collisions resolved first-wins.
	Conflicts []NameConflict
	Counters  ConversionCounters
}
