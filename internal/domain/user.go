package domain

const (
	RoleAdmin    = "admin"
	RoleCustomer = "customer"
)

type User struct {
	ID        string `db:"id" json:"id"`
	Email     string `db:"email" json:"email"`
	Name      string `db:"name" json:"name"`
	Hash      string `db:"password_hash" json:"-"`
	Role      string `db:"role" json:"role"`
	CreatedAt string `db:"created_at" json:"-"`
}

// Identity is the trusted caller identity that auth middleware puts on the request.
type Identity struct {
	ID    string
	Email string
	Role  string
}
