package model

// Entity is the closed set of catalog kinds the persistence layer can store.
type Entity interface {
	Course | Subject | Content
}

// Patch applies a partial change set to an entity. Fields left unset in the
// patch must leave the entity untouched.
type Patch[T Entity] interface {
	Apply(*T)
}

// Filter selects entities by exact field equality. Every populated field must
// match (AND semantics); an empty filter matches everything.
type Filter[T Entity] interface {
	Match(*T) bool
}

// attachments collects the non-empty stored paths among refs.
func attachments(refs ...*string) []string {
	var paths []string
	for _, r := range refs {
		if r != nil && *r != "" {
			paths = append(paths, *r)
		}
	}
	return paths
}

func matchString(want *string, got string) bool {
	return want == nil || *want == "" || *want == got
}

func matchID(want *int, got int) bool {
	return want == nil || *want == 0 || *want == got
}
