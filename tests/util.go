// Package testutil provides fixtures shared by the API and CLI tests.
package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/volatiletech/null/v8"

	"github.com/edusight/edusight/core/academics"
	"github.com/edusight/edusight/core/user"
)

func CreateUser(
	t *testing.T,
	repo user.Repository,
	name, email, pwd string,
	roles []string,
	isActive bool,
) user.User {
	t.Helper()

	usr := user.User{
		Name:      name,
		Email:     email,
		Roles:     roles,
		IsActive:  isActive,
		CreatedAt: time.Now().UTC(),
	}
	if pwd != "" {
		if err := usr.SetPassword(pwd); err != nil {
			t.Fatalf("CreateUser() failed: %v", err)
		}
	}
	usr, err := repo.CreateUser(context.Background(), usr)
	if err != nil {
		t.Fatalf("CreateUser() failed: %v", err)
	}
	return usr
}

// CreateStudent creates the user account and its linked student record.
func CreateStudent(
	t *testing.T,
	usrRepo user.Repository,
	acaRepo academics.Repository,
	firstName, lastName, email, pwd string,
) (user.User, academics.Student) {
	t.Helper()

	usr := CreateUser(t, usrRepo, firstName+" "+lastName, email, pwd, []string{user.RoleStudent}, true)
	student, err := acaRepo.CreateStudent(context.Background(), academics.Student{
		UserID:    usr.ID,
		FirstName: firstName,
		LastName:  lastName,
		Email:     email,
		IsActive:  true,
		CreatedAt: time.Now().UTC(),
	})
	if err != nil {
		t.Fatalf("CreateStudent() failed: %v", err)
	}
	return usr, student
}

// CreateTeacher creates the user account and its linked teacher record.
func CreateTeacher(
	t *testing.T,
	usrRepo user.Repository,
	acaRepo academics.Repository,
	firstName, lastName, email, pwd, subject string,
) (user.User, academics.Teacher) {
	t.Helper()

	usr := CreateUser(t, usrRepo, firstName+" "+lastName, email, pwd, []string{user.RoleTeacher}, true)
	teacher, err := acaRepo.CreateTeacher(context.Background(), academics.Teacher{
		UserID:    null.IntFrom(usr.ID),
		FirstName: firstName,
		LastName:  lastName,
		Email:     email,
		Subject:   subject,
	})
	if err != nil {
		t.Fatalf("CreateTeacher() failed: %v", err)
	}
	return usr, teacher
}
