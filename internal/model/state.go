package model

// State is the whole persisted board: the unit of load and save
type State struct {
	Tasks   []Task   `json:"tasks"`
	Members []Member `json:"members"`
	Users   []User   `json:"users"`
}

// Clone returns a deep copy of the state
func (s State) Clone() State {
	out := State{
		Tasks:   make([]Task, len(s.Tasks)),
		Members: make([]Member, len(s.Members)),
		Users:   make([]User, len(s.Users)),
	}
	copy(out.Tasks, s.Tasks)
	copy(out.Members, s.Members)
	copy(out.Users, s.Users)
	return out
}

// FindTask returns the index of the task with id, or -1
func (s *State) FindTask(id string) int {
	for i := range s.Tasks {
		if s.Tasks[i].ID == id {
			return i
		}
	}
	return -1
}

// FindMember returns the index of the member with the exact name, or -1
func (s *State) FindMember(name string) int {
	for i := range s.Members {
		if s.Members[i].Name == name {
			return i
		}
	}
	return -1
}

// FindUser returns the index of the user with the exact name, or -1
func (s *State) FindUser(name string) int {
	for i := range s.Users {
		if s.Users[i].Name == name {
			return i
		}
	}
	return -1
}
