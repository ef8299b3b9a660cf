package rbac

// Simple default policy. Expand as needed.
var RolePermissions = map[string][]string{
	"teacher": {
		"grade:question",
		"grade:batch",
		"grade:objective",
		"results:view",
	},
	"admin": {
		"*", // everything
	},
}
