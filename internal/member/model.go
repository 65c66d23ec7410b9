package member

// Member is a gym account. The password digest never leaves the API: it is
// excluded from JSON and only compared through the auth package.
type Member struct {
	ID           int    `db:"id" json:"id"`
	FirstName    string `db:"first_name" json:"first_name"`
	LastName     string `db:"last_name" json:"last_name"`
	PhoneNumber  string `db:"phone_number" json:"phone_number"`
	Username     string `db:"username" json:"username"`
	PasswordHash string `db:"password" json:"-"`
	Instructor   bool   `db:"instructor" json:"instructor"`
}

func (m *Member) FullName() string {
	return m.FirstName + " " + m.LastName
}

type SignupRequest struct {
	FirstName      string `json:"first_name"`
	LastName       string `json:"last_name"`
	PhoneNumber    string `json:"phone_number"`
	Username       string `json:"username"`
	Password       string `json:"password"`
	VerifyPassword string `json:"verify_password"`
}

type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type UpdateRequest struct {
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	PhoneNumber string `json:"phone_number"`
	Username    string `json:"username"`
}

type LoginResponse struct {
	Token   string `json:"token"`
	Member  Member `json:"member"`
	Message string `json:"message"`
}

// DirectoryEntry is what the instructor-facing member list exposes.
type DirectoryEntry struct {
	ID          int    `db:"id" json:"id"`
	FirstName   string `db:"first_name" json:"first_name"`
	LastName    string `db:"last_name" json:"last_name"`
	PhoneNumber string `db:"phone_number" json:"phone_number"`
}
