package authz

import (
	"fmt"
	"strings"
	"testing"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func setupAuthzServiceTest(t *testing.T) *Service {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	svc, err := NewService(db)
	if err != nil {
		t.Fatalf("new authz service failed: %v", err)
	}
	return svc
}

func TestEnforceAdminWithRolePolicy(t *testing.T) {
	svc := setupAuthzServiceTest(t)
	if err := svc.GrantRolePolicy("shift_lead", "/admin/menu-items/:id", "GET"); err != nil {
		t.Fatalf("grant role policy failed: %v", err)
	}
	if err := svc.SetAdminRoles(1, []string{"shift_lead"}); err != nil {
		t.Fatalf("set admin roles failed: %v", err)
	}

	allow, err := svc.EnforceAdmin(1, "/api/v1/admin/menu-items/42", "get")
	if err != nil {
		t.Fatalf("enforce allow failed: %v", err)
	}
	if !allow {
		t.Fatalf("expected allow=true")
	}

	allow, err = svc.EnforceAdmin(1, "/api/v1/admin/menu-items/42", "PUT")
	if err != nil {
		t.Fatalf("enforce deny failed: %v", err)
	}
	if allow {
		t.Fatalf("expected allow=false")
	}
}

func TestSetAdminRolesOverride(t *testing.T) {
	svc := setupAuthzServiceTest(t)
	if err := svc.GrantRolePolicy("kitchen", "/admin/orders", "GET"); err != nil {
		t.Fatalf("grant kitchen policy failed: %v", err)
	}
	if err := svc.GrantRolePolicy("front_desk", "/admin/users", "GET"); err != nil {
		t.Fatalf("grant front_desk policy failed: %v", err)
	}

	if err := svc.SetAdminRoles(2, []string{"kitchen"}); err != nil {
		t.Fatalf("set first role failed: %v", err)
	}
	roles, err := svc.GetAdminRoles(2)
	if err != nil {
		t.Fatalf("get roles failed: %v", err)
	}
	if len(roles) != 1 || roles[0] != "role:kitchen" {
		t.Fatalf("roles want [role:kitchen], got=%v", roles)
	}

	if err := svc.SetAdminRoles(2, []string{"front_desk"}); err != nil {
		t.Fatalf("set second role failed: %v", err)
	}
	roles, err = svc.GetAdminRoles(2)
	if err != nil {
		t.Fatalf("get roles failed: %v", err)
	}
	if len(roles) != 1 || roles[0] != "role:front_desk" {
		t.Fatalf("roles want [role:front_desk], got=%v", roles)
	}

	allow, err := svc.EnforceAdmin(2, "/admin/orders", "GET")
	if err != nil {
		t.Fatalf("enforce old role failed: %v", err)
	}
	if allow {
		t.Fatalf("expected old role permission removed")
	}

	allow, err = svc.EnforceAdmin(2, "/admin/users", "GET")
	if err != nil {
		t.Fatalf("enforce new role failed: %v", err)
	}
	if !allow {
		t.Fatalf("expected new role permission granted")
	}
}

func TestNormalizeObject(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{in: "/api/v1/admin/orders/:id", want: "/admin/orders/:id"},
		{in: "/admin/orders/:id", want: "/admin/orders/:id"},
		{in: "admin/orders", want: "/admin/orders"},
		{in: "/api/v1", want: "/"},
		{in: "", want: "/"},
	}
	for _, item := range cases {
		got := NormalizeObject(item.in)
		if got != item.want {
			t.Fatalf("normalize object failed, in=%q want=%q got=%q", item.in, item.want, got)
		}
	}
}

func TestBootstrapBuiltinRoles(t *testing.T) {
	svc := setupAuthzServiceTest(t)
	if err := svc.BootstrapBuiltinRoles(); err != nil {
		t.Fatalf("bootstrap builtin roles failed: %v", err)
	}

	roles, err := svc.ListRoles()
	if err != nil {
		t.Fatalf("list roles failed: %v", err)
	}
	wantRoles := map[string]bool{
		"role:viewer":     true,
		"role:manager":    true,
		"role:kitchen":    true,
		"role:front_desk": true,
	}
	for _, role := range roles {
		delete(wantRoles, role)
	}
	if len(wantRoles) != 0 {
		t.Fatalf("builtin roles missing: %v", wantRoles)
	}

	if err := svc.SetAdminRoles(3, []string{"kitchen"}); err != nil {
		t.Fatalf("set admin roles failed: %v", err)
	}

	allow, err := svc.EnforceAdmin(3, "/admin/menu-items", "GET")
	if err != nil {
		t.Fatalf("enforce inherited readonly failed: %v", err)
	}
	if !allow {
		t.Fatalf("expected inherited readonly permission")
	}

	allow, err = svc.EnforceAdmin(3, "/api/v1/admin/orders/18", "PATCH")
	if err != nil {
		t.Fatalf("enforce order update failed: %v", err)
	}
	if !allow {
		t.Fatalf("expected kitchen role allow order status update")
	}

	allow, err = svc.EnforceAdmin(3, "/api/v1/admin/menu-items", "POST")
	if err != nil {
		t.Fatalf("enforce menu write failed: %v", err)
	}
	if allow {
		t.Fatalf("expected kitchen role deny menu write")
	}
}

func TestDeleteRoleKeepsBuiltinRoles(t *testing.T) {
	svc := setupAuthzServiceTest(t)
	if err := svc.BootstrapBuiltinRoles(); err != nil {
		t.Fatalf("bootstrap builtin roles failed: %v", err)
	}

	if err := svc.DeleteRole("manager"); err == nil {
		t.Fatalf("expected builtin role delete rejected")
	}

	if err := svc.GrantRolePolicy("shift_lead", "/admin/orders", "GET"); err != nil {
		t.Fatalf("grant custom role failed: %v", err)
	}
	if err := svc.DeleteRole("shift_lead"); err != nil {
		t.Fatalf("delete custom role failed: %v", err)
	}
}

func TestBootstrapManagerMenuAccess(t *testing.T) {
	svc := setupAuthzServiceTest(t)
	if err := svc.BootstrapBuiltinRoles(); err != nil {
		t.Fatalf("bootstrap builtin roles failed: %v", err)
	}
	if err := svc.SetAdminRoles(7, []string{"manager"}); err != nil {
		t.Fatalf("set admin roles failed: %v", err)
	}

	cases := []struct {
		object string
		action string
		want   bool
	}{
		{object: "/api/v1/admin/menu-items", action: "POST", want: true},
		{object: "/api/v1/admin/menu-items/5/status", action: "PATCH", want: true},
		{object: "/api/v1/admin/promotions/9", action: "DELETE", want: true},
		{object: "/api/v1/admin/settings", action: "PUT", want: true},
		{object: "/api/v1/admin/upload", action: "POST", want: true},
		{object: "/api/v1/admin/authz/roles", action: "POST", want: false},
	}
	for _, item := range cases {
		allow, err := svc.EnforceAdmin(7, item.object, item.action)
		if err != nil {
			t.Fatalf("enforce %s %s failed: %v", item.action, item.object, err)
		}
		if allow != item.want {
			t.Fatalf("enforce %s %s want=%v got=%v", item.action, item.object, item.want, allow)
		}
	}
}
