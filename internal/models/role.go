package models

// Role is the church office a signed-in member holds. It decides which
// dashboard the member sees and which resources they may change.
type Role string

const (
	RoleGuest            Role = ""
	RoleMember           Role = "member"
	RoleFather           Role = "father"
	RoleMother           Role = "mother"
	RoleGrandFather      Role = "grandfather"
	RoleGrandMother      Role = "grandmother"
	RoleElder            Role = "elder"
	RoleChoirLeader      Role = "choir_leader"
	RoleChoirSecretary   Role = "choir_secretary"
	RoleEvangelismLeader Role = "evangelism_leader"
	RoleAdmin            Role = "admin"
)

var roleNames = map[Role]string{
	RoleGuest:            "Guest",
	RoleMember:           "Member",
	RoleFather:           "Father",
	RoleMother:           "Mother",
	RoleGrandFather:      "Grand Father",
	RoleGrandMother:      "Grand Mother",
	RoleElder:            "Elder",
	RoleChoirLeader:      "Choir Leader",
	RoleChoirSecretary:   "Choir Secretary",
	RoleEvangelismLeader: "Evangelism Leader",
	RoleAdmin:            "Admin",
}

// IsValid reports whether r is one of the known roles
func (r Role) IsValid() bool {
	_, ok := roleNames[r]
	return ok
}

// DisplayName returns the human readable role title
func (r Role) DisplayName() string {
	if name, ok := roleNames[r]; ok {
		return name
	}
	return string(r)
}

// FamilyScoped reports whether the role only governs the members of its own family
func (r Role) FamilyScoped() bool {
	switch r {
	case RoleFather, RoleMother, RoleGrandFather, RoleGrandMother:
		return true
	}
	return false
}
