package auth

import "context"

const (
	RoleEmployee = "employee"
	RoleManager  = "manager"
	RoleHR       = "hr"
	RoleAdmin    = "admin"
)

const (
	PermTemplatesRead      = "performance.templates.read"
	PermTemplatesWrite     = "performance.templates.write"
	PermCyclesRead         = "performance.cycles.read"
	PermCyclesWrite        = "performance.cycles.write"
	PermAssignmentsRead    = "performance.assignments.read"
	PermAssignmentsWrite   = "performance.assignments.write"
	PermRecordsRead        = "performance.records.read"
	PermRecordsSubmit      = "performance.records.submit"
	PermRecordsPublish     = "performance.records.publish"
	PermRecordsAcknowledge = "performance.records.acknowledge"
	PermDisputesFile       = "performance.disputes.file"
	PermDisputesResolve    = "performance.disputes.resolve"
	PermDashboardRead      = "performance.dashboard.read"
	PermNotificationsRead  = "notifications.read"
	PermAuditRead          = "audit.read"
)

// RolePermissions is the static grant table. Role assignment itself is the
// identity service's problem; the claim arrives in the token.
var RolePermissions = map[string][]string{
	RoleEmployee: {
		PermRecordsRead,
		PermRecordsAcknowledge,
		PermDisputesFile,
		PermNotificationsRead,
	},
	RoleManager: {
		PermTemplatesRead,
		PermCyclesRead,
		PermAssignmentsRead,
		PermRecordsRead,
		PermRecordsSubmit,
		PermRecordsAcknowledge,
		PermDisputesFile,
		PermDashboardRead,
		PermNotificationsRead,
	},
	RoleHR: {
		PermTemplatesRead,
		PermTemplatesWrite,
		PermCyclesRead,
		PermCyclesWrite,
		PermAssignmentsRead,
		PermAssignmentsWrite,
		PermRecordsRead,
		PermRecordsSubmit,
		PermRecordsPublish,
		PermRecordsAcknowledge,
		PermDisputesFile,
		PermDisputesResolve,
		PermDashboardRead,
		PermNotificationsRead,
		PermAuditRead,
	},
}

// StaticPermissions answers permission checks from the grant table. Admin
// passes everything.
type StaticPermissions struct{}

func (StaticPermissions) HasPermission(_ context.Context, roleName, permission string) (bool, error) {
	if roleName == RoleAdmin {
		return true, nil
	}
	for _, granted := range RolePermissions[roleName] {
		if granted == permission {
			return true, nil
		}
	}
	return false, nil
}
