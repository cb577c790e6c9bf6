package domain

// AppState is the aggregate root holding all application data. It is the unit
// of persistence: loaded wholesale at startup and serialized wholesale on
// every change.
type AppState struct {
	CurrentUser     *User       `json:"currentUser"`
	IsAuthenticated bool        `json:"isAuthenticated"`
	Users           []User      `json:"users"`
	Complaints      []Complaint `json:"complaints"`
}

// DefaultState returns the initial aggregate, seeded with the demo accounts
// the application ships with.
func DefaultState() AppState {
	return AppState{
		Users: []User{
			{
				ID:    "user123",
				Name:  "John Citizen",
				Email: "user@demo.com",
				Role:  RoleCitizen,
			},
			{
				ID:           "admin123",
				Name:         "Sarah Wilson",
				Email:        "admin@demo.com",
				Role:         RoleDepartmentAdmin,
				Department:   "PWD",
				DepartmentID: "pwd_001",
			},
		},
		Complaints: []Complaint{},
	}
}

// UserByID returns the user with the given id, if present.
func (s AppState) UserByID(id string) (User, bool) {
	for _, u := range s.Users {
		if u.ID == id {
			return u, true
		}
	}
	return User{}, false
}

// UserByEmail returns the user registered under the given email, if present.
func (s AppState) UserByEmail(email string) (User, bool) {
	for _, u := range s.Users {
		if u.Email == email {
			return u, true
		}
	}
	return User{}, false
}

// ComplaintByID returns the complaint with the given id, if present.
func (s AppState) ComplaintByID(id string) (Complaint, bool) {
	for _, c := range s.Complaints {
		if c.ID == id {
			return c, true
		}
	}
	return Complaint{}, false
}
