package services

import (
	"errors"
	"testing"

	"grojet-admin-service/internal/domain/models"
)

func validCreateInput() *CreateAdminInput {
	return &CreateAdminInput{
		Name:     "New Admin",
		Email:    "new@grojet.com",
		Password: "Admin@123",
		Role:     models.RoleAdmin,
	}
}

func TestValidateCreateAdminInput(t *testing.T) {
	if err := ValidateCreateAdminInput(validCreateInput()); err != nil {
		t.Fatalf("合法输入被拒绝: %v", err)
	}
}

func TestValidateCreateAdminInputRejections(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*CreateAdminInput)
	}{
		{"空姓名", func(in *CreateAdminInput) { in.Name = "  " }},
		{"空邮箱", func(in *CreateAdminInput) { in.Email = "" }},
		{"短密码", func(in *CreateAdminInput) { in.Password = "short" }},
		{"非法角色", func(in *CreateAdminInput) { in.Role = "root" }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			input := validCreateInput()
			tc.mutate(input)
			if err := ValidateCreateAdminInput(input); err == nil {
				t.Fatalf("应拒绝: %+v", input)
			}
		})
	}
}

func TestValidateCreateAdminInputRoleError(t *testing.T) {
	input := validCreateInput()
	input.Role = "root"

	err := ValidateCreateAdminInput(input)
	var invalidRole models.ErrInvalidRole
	if !errors.As(err, &invalidRole) {
		t.Fatalf("非法角色应返回 ErrInvalidRole, got %T", err)
	}
}

func TestValidatePassword(t *testing.T) {
	if err := ValidatePassword("Admin@123"); err != nil {
		t.Errorf("合法密码被拒绝: %v", err)
	}

	err := ValidatePassword("1234567")
	if err == nil {
		t.Fatal("7位密码应被拒绝")
	}
	var validation *ValidationError
	if !errors.As(err, &validation) {
		t.Fatalf("应返回 ValidationError, got %T", err)
	}
}
