package domain

// User is a registered account. Email is unique and rows are never updated.
type User struct {
	Email string
	Hash  string
}

// Identity is the verified caller of a protected operation.
type Identity struct {
	Email string
}
