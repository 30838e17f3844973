package rbac

import "testing"

func TestHasPermission(t *testing.T) {
	if !HasPermission([]string{"post.read"}, "post.read") {
		t.Fatal("expected post.read to be granted")
	}
	if HasPermission([]string{"post.read"}, "post.delete") {
		t.Fatal("post.delete must not be granted")
	}
	if HasPermission(nil, "post.read") {
		t.Fatal("empty grant must deny")
	}
	// Opaque comparison: no case folding, no hierarchy.
	if HasPermission([]string{"post.read"}, "POST.READ") {
		t.Fatal("permission comparison must be exact")
	}
	if HasPermission([]string{"post"}, "post.read") {
		t.Fatal("no prefix semantics")
	}
}

func TestHasAnyPermission(t *testing.T) {
	if !HasAnyPermission([]string{"post.read", "user.read"}, []string{"admin.access", "user.read"}) {
		t.Fatal("expected any-of match on user.read")
	}
	if HasAnyPermission([]string{}, []string{"post.read"}) {
		t.Fatal("empty grant must deny")
	}
	if HasAnyPermission([]string{"post.read"}, nil) {
		t.Fatal("empty requirement yields false")
	}
}

func TestHasAllPermissions(t *testing.T) {
	granted := []string{"post.read", "post.update", "post.delete"}
	if !HasAllPermissions(granted, []string{"post.read", "post.delete"}) {
		t.Fatal("expected all-of match")
	}
	if HasAllPermissions(granted, []string{"post.read", "admin.access"}) {
		t.Fatal("missing permission must deny")
	}
}
