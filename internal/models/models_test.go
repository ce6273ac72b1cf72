package models

import (
	"errors"
	"testing"
)

func TestValidateCreateMemberInput(t *testing.T) {
	tests := []struct {
		name       string
		input      CreateMemberInput
		wantErr    bool
		wantFields []string
	}{
		{
			name: "valid member",
			input: CreateMemberInput{
				Name:   "Grace Uwase",
				Email:  "grace@example.org",
				Family: FamilyEbenezer,
				Level:  LevelY2,
				Status: StatusCurrentStudent,
				Role:   RoleMember,
			},
		},
		{
			name: "family with a space",
			input: CreateMemberInput{
				Name:   "Paul",
				Email:  "paul@example.org",
				Family: FamilySalvationSiblings,
				Level:  LevelY1,
				Status: StatusAlumni,
			},
		},
		{
			name: "missing email and unknown family",
			input: CreateMemberInput{
				Name:   "Joy",
				Family: "Bethel",
				Level:  LevelY3,
				Status: StatusCurrentStudent,
			},
			wantErr:    true,
			wantFields: []string{"email", "family"},
		},
		{
			name: "unknown role",
			input: CreateMemberInput{
				Name:   "Joy",
				Email:  "joy@example.org",
				Family: FamilyJehovaNissi,
				Level:  LevelY3,
				Status: StatusCurrentStudent,
				Role:   "bishop",
			},
			wantErr:    true,
			wantFields: []string{"role"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr {
				return
			}

			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected *ValidationError, got %T", err)
			}
			if !errors.Is(err, ErrInvalidInput) {
				t.Errorf("expected error to wrap ErrInvalidInput")
			}
			got := map[string]bool{}
			for _, f := range verr.Fields {
				got[f.Field] = true
			}
			for _, field := range tt.wantFields {
				if !got[field] {
					t.Errorf("expected field %q in %+v", field, verr.Fields)
				}
			}
		})
	}
}

func TestValidateUpdateCommandOnlyChecksSetFields(t *testing.T) {
	name := "G"
	if err := Validate(UpdateMemberCommand{ID: "m1"}); err != nil {
		t.Fatalf("empty update should be valid: %v", err)
	}
	if err := Validate(UpdateMemberCommand{ID: "m1", Name: &name}); err == nil {
		t.Fatal("expected short name to fail")
	}
	if err := Validate(UpdateMemberCommand{}); err == nil {
		t.Fatal("expected missing id to fail")
	}
}

func TestValidateAttendanceDate(t *testing.T) {
	in := CreateAttendanceInput{
		MemberID:   "m1",
		Family:     FamilyEbenezer,
		Date:       "2024-03-09",
		RecordedBy: "f1",
	}
	if err := Validate(in); err != nil {
		t.Fatalf("expected valid attendance: %v", err)
	}
	in.Date = "09/03/2024"
	if err := Validate(in); err == nil {
		t.Fatal("expected date in the wrong layout to fail")
	}
}

func TestFilterValuesOmitEmpty(t *testing.T) {
	if got := (MemberFilter{}).Values().Encode(); got != "" {
		t.Errorf("empty filter encoded to %q", got)
	}
	f := MemberFilter{Family: FamilySalvationSiblings, Level: LevelY1}
	if got := f.Values().Encode(); got != "family=Salvation+Siblings&level=Y1" {
		t.Errorf("Values().Encode() = %q", got)
	}

	approved := false
	if got := (TestimonyFilter{Approved: &approved}).Values().Encode(); got != "approved=false" {
		t.Errorf("testimony filter encoded to %q", got)
	}
}

func TestRoleHelpers(t *testing.T) {
	if !RoleFather.FamilyScoped() || !RoleGrandMother.FamilyScoped() {
		t.Error("parents and grandparents should be family scoped")
	}
	if RoleElder.FamilyScoped() || RoleAdmin.FamilyScoped() {
		t.Error("elders and admins are not family scoped")
	}
	if Role("bishop").IsValid() {
		t.Error("unknown role reported as valid")
	}
	if RoleEvangelismLeader.DisplayName() != "Evangelism Leader" {
		t.Errorf("DisplayName() = %q", RoleEvangelismLeader.DisplayName())
	}
}
