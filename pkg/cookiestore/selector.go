package cookiestore

// Selector picks cookies for Get, GetAll and Delete.
// It is a closed set: Name and Query are the only implementations.
type Selector interface {
	selector()
}

// Name selects a single cookie by its logical name.
type Name string

// Query is the options form of a selector. EncryptedStore does not
// implement it and returns ErrUnsupportedOverload.
type Query struct {
	Name   string
	URL    string
	Domain string
	Path   string
}

func (Name) selector()  {}
func (Query) selector() {}
