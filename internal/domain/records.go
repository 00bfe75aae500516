package domain

// Address is the nested address object on a raw user. Missing sub-fields
// decode to empty strings, which the transform stage simply skips.
type Address struct {
	Street  string `json:"street"`
	Suite   string `json:"suite"`
	City    string `json:"city"`
	Zipcode string `json:"zipcode"`
}

// RawUser is a user record as returned by the source API. It is never
// mutated after decoding.
type RawUser struct {
	ID      int     `json:"id"`
	Name    string  `json:"name"`
	Email   string  `json:"email"`
	Address Address `json:"address"`
}

// CleanUser is the transformed, output-ready record: upper-cased name,
// validated email, single-line address. Never mutated after creation.
type CleanUser struct {
	ID          int
	Name        string
	Email       string
	FullAddress string
}
