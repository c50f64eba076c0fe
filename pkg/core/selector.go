package core

// Selector is the typed predicate deciding whether a source ConfigMap
// qualifies for conversion. It has no side effects.
type Selector struct {
	namespace          string
	watchAllNamespaces bool
}

// NewSelector builds a Selector scoped per the provided settings.
func NewSelector(settings Settings) Selector {
	return Selector{
		namespace:          settings.Namespace,
		watchAllNamespaces: settings.WatchAllNamespaces,
	}
}

// Matches reports whether a ConfigMap in the given namespace with the given
// labels should be converted: the discovery label must carry the exact
// expected value and the namespace must fall inside the watch scope.
func (selector Selector) Matches(namespace string, labels map[string]string) bool {
	if !selector.InScope(namespace) {
		return false
	}

	return labels[DiscoveryLabel] == DiscoveryLabelValue
}

// InScope reports whether the namespace falls within the configured watch scope.
func (selector Selector) InScope(namespace string) bool {
	if selector.watchAllNamespaces {
		return true
	}

	return namespace == selector.namespace
}
