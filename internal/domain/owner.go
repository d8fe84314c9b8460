package domain

// Owner is the identity a cart or wishlist is scoped to: either an
// authenticated user id or a minted guest id.
type Owner struct {
	ID    string
	Guest bool
}

// User is the verified identity handed to us by the identity provider.
// It is trusted as-is and never re-verified here.
type User struct {
	ID    string
	Email string
	Name  string
	Role  string
}
