package enrollment

// RosterEntry is one enrolled member as shown on a class page. No password
// digest, no phone number.
type RosterEntry struct {
	ID        int    `db:"id" json:"id"`
	Username  string `db:"username" json:"username"`
	FirstName string `db:"first_name" json:"first_name"`
	LastName  string `db:"last_name" json:"last_name"`
}
