package access

import (
	"fmt"

	"churchportal/internal/apiclient"
	"churchportal/internal/auth"
	"churchportal/internal/models"
)

// Resource is a domain entity family exposed by the backend
type Resource string

const (
	Members          Resource = "members"
	Attendance       Resource = "attendance"
	Committee        Resource = "committee"
	Choirs           Resource = "choirs"
	Blog             Resource = "blog"
	Gallery          Resource = "gallery"
	Testimonies      Resource = "testimonies"
	PendingTestimony Resource = "testimonies:pending"
	Resources        Resource = "resources"
)

type Action string

const (
	Read    Action = "read"
	Create  Action = "create"
	Update  Action = "update"
	Delete  Action = "delete"
	Approve Action = "approve"
)

type roleSet map[models.Role]bool

func roles(rs ...models.Role) roleSet {
	set := make(roleSet, len(rs))
	for _, r := range rs {
		set[r] = true
	}
	return set
}

var (
	everyone = roles(models.RoleGuest, models.RoleMember, models.RoleFather, models.RoleMother,
		models.RoleGrandFather, models.RoleGrandMother, models.RoleElder, models.RoleChoirLeader,
		models.RoleChoirSecretary, models.RoleEvangelismLeader, models.RoleAdmin)
	leaders = roles(models.RoleFather, models.RoleMother, models.RoleGrandFather, models.RoleGrandMother,
		models.RoleElder, models.RoleAdmin)
	parents   = roles(models.RoleFather, models.RoleMother, models.RoleElder, models.RoleAdmin)
	elders    = roles(models.RoleElder, models.RoleAdmin)
	choir     = roles(models.RoleChoirLeader, models.RoleChoirSecretary, models.RoleAdmin)
	outreach  = roles(models.RoleElder, models.RoleEvangelismLeader, models.RoleAdmin)
	approvers = roles(models.RoleEvangelismLeader, models.RoleAdmin)
)

// matrix lists, per resource and action, the roles allowed to perform it.
// Missing actions are denied to everybody.
var matrix = map[Resource]map[Action]roleSet{
	Members: {
		Read:   leaders,
		Create: leaders,
		Update: leaders,
		Delete: elders,
	},
	Attendance: {
		Read:   leaders,
		Create: parents,
		Update: parents,
	},
	Committee: {
		Read:   leaders,
		Create: elders,
		Update: elders,
		Delete: elders,
	},
	Choirs: {
		Read:   everyone,
		Create: choir,
		Update: choir,
		Delete: choir,
	},
	Blog: {
		Read:   everyone,
		Create: outreach,
		Update: outreach,
		Delete: outreach,
	},
	Gallery: {
		Read:   everyone,
		Create: outreach,
		Delete: outreach,
	},
	Testimonies: {
		Read:    everyone,
		Create:  everyone,
		Approve: approvers,
		Delete:  approvers,
	},
	PendingTestimony: {
		Read: approvers,
	},
	Resources: {
		Read:   everyone,
		Create: elders,
		Update: elders,
		Delete: elders,
	},
}

// Can reports whether role may perform action on resource
func Can(role models.Role, resource Resource, action Action) bool {
	return matrix[resource][action][role]
}

// Check returns a 403 APIError when the session may not perform action on resource
func Check(session *auth.Session, resource Resource, action Action) error {
	role := models.RoleGuest
	if session != nil {
		role = session.Role
	}
	if !Can(role, resource, action) {
		return apiclient.Forbidden(fmt.Sprintf("%s may not %s %s", role.DisplayName(), action, resource))
	}
	return nil
}

// CheckFamily extends Check for family-owned records: family-scoped roles may
// only act on records of their own family
func CheckFamily(session *auth.Session, resource Resource, action Action, family models.Family) error {
	if err := Check(session, resource, action); err != nil {
		return err
	}
	if session.Role.FamilyScoped() && session.Family != family {
		return apiclient.Forbidden(fmt.Sprintf("%s of %s may not %s %s of %s",
			session.Role.DisplayName(), session.Family, action, resource, family))
	}
	return nil
}

// Dashboards lists the resources a role's dashboard can change
func Dashboards(role models.Role) []Resource {
	var out []Resource
	for _, res := range []Resource{Members, Attendance, Committee, Choirs, Blog, Gallery, Testimonies, Resources} {
		for _, act := range []Action{Create, Update, Delete, Approve} {
			if Can(role, res, act) {
				out = append(out, res)
				break
			}
		}
	}
	return out
}
