package registry

import "fmt"

// ComplementUndefinedError is returned by Complement when a record declares
// a complementary relationship type that is not (yet) registered. The caller
// can recover by registering the missing type and retrying.
type ComplementUndefinedError struct {
	// Name is the declared but unregistered complement name.
	Name string
}

func (e *ComplementUndefinedError) Error() string {
	return fmt.Sprintf("registry: complement %q is not registered", e.Name)
}

// AliasCollisionError is returned by GetOrCreateStrict when a definition
// claims an alias that already resolves to a different record. The default
// GetOrCreate path silently keeps the first registrant instead.
type AliasCollisionError struct {
	// Name is the relationship type being registered.
	Name string
	// Alias is the already-taken alias.
	Alias string
}

func (e *AliasCollisionError) Error() string {
	return fmt.Sprintf("registry: alias %q of %q is already registered", e.Alias, e.Name)
}
