package rbac

// HasPermission reports whether required is an element of granted.
// Permission strings are opaque; comparison is exact equality.
func HasPermission(granted []string, required string) bool {
	for _, p := range granted {
		if p == required {
			return true
		}
	}
	return false
}

// HasAnyPermission reports whether at least one element of required is granted.
// An empty required set yields false.
func HasAnyPermission(granted []string, required []string) bool {
	for _, r := range required {
		if HasPermission(granted, r) {
			return true
		}
	}
	return false
}

// HasAllPermissions reports whether every element of required is granted.
func HasAllPermissions(granted []string, required []string) bool {
	for _, r := range required {
		if !HasPermission(granted, r) {
			return false
		}
	}
	return true
}
