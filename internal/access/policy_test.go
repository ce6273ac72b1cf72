package access

import (
	"testing"

	"churchportal/internal/apiclient"
	"churchportal/internal/auth"
	"churchportal/internal/models"
)

func TestCan(t *testing.T) {
	tests := []struct {
		name     string
		role     models.Role
		resource Resource
		action   Action
		want     bool
	}{
		{"guest reads choirs", models.RoleGuest, Choirs, Read, true},
		{"guest submits testimony", models.RoleGuest, Testimonies, Create, true},
		{"guest cannot read members", models.RoleGuest, Members, Read, false},
		{"father records attendance", models.RoleFather, Attendance, Create, true},
		{"grandmother cannot record attendance", models.RoleGrandMother, Attendance, Create, false},
		{"choir leader uploads songs", models.RoleChoirLeader, Choirs, Create, true},
		{"elder cannot edit choirs", models.RoleElder, Choirs, Update, false},
		{"evangelism leader approves", models.RoleEvangelismLeader, Testimonies, Approve, true},
		{"member cannot approve", models.RoleMember, Testimonies, Approve, false},
		{"member cannot see pending", models.RoleMember, PendingTestimony, Read, false},
		{"nobody updates gallery", models.RoleAdmin, Gallery, Update, false},
		{"elder deletes members", models.RoleElder, Members, Delete, true},
		{"mother cannot delete members", models.RoleMother, Members, Delete, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Can(tt.role, tt.resource, tt.action); got != tt.want {
				t.Errorf("Can(%q, %q, %q) = %v, want %v", tt.role, tt.resource, tt.action, got, tt.want)
			}
		})
	}
}

func TestCheckReturnsForbidden(t *testing.T) {
	err := Check(auth.Guest(), Members, Update)
	if !apiclient.IsForbidden(err) {
		t.Fatalf("expected 403 APIError, got %v", err)
	}
	if err := Check(nil, Blog, Read); err != nil {
		t.Fatalf("nil session should read public blog: %v", err)
	}
}

func TestCheckFamily(t *testing.T) {
	father := &auth.Session{Role: models.RoleFather, Family: models.FamilyEbenezer}
	elder := &auth.Session{Role: models.RoleElder}

	if err := CheckFamily(father, Members, Update, models.FamilyEbenezer); err != nil {
		t.Errorf("father should update own family: %v", err)
	}
	if err := CheckFamily(father, Members, Update, models.FamilyJehovaNissi); !apiclient.IsForbidden(err) {
		t.Errorf("father should not update another family, got %v", err)
	}
	if err := CheckFamily(elder, Members, Update, models.FamilyJehovaNissi); err != nil {
		t.Errorf("elder is not family scoped: %v", err)
	}
}

func TestDashboards(t *testing.T) {
	got := Dashboards(models.RoleChoirSecretary)
	if len(got) != 1 || got[0] != Choirs {
		t.Errorf("Dashboards(choir secretary) = %v, want [choirs]", got)
	}
	if got := Dashboards(models.RoleGuest); len(got) != 1 || got[0] != Testimonies {
		t.Errorf("Dashboards(guest) = %v, want [testimonies]", got)
	}
}
