package entity

// UserRole is the role a device or token acts under.
type UserRole string

const (
	RoleNone        UserRole = ""
	RoleAssistant   UserRole = "assistant"
	RolePatient     UserRole = "patient"
	RoleFulfillment UserRole = "fulfillment"
)

// IsValid reports whether r is a role a user can select on a device.
func (r UserRole) IsValid() bool {
	return r == RoleAssistant || r == RolePatient
}

// HealthcareRoles is the fixed credential catalog an assistant picks from.
var HealthcareRoles = []string{
	"Registered Nurse",
	"Registered Health Practitioner",
	"Health Work Student",
	"Health Work Trainee",
	"Active Health Worker",
	"Retired Health Worker",
	"Other",
}

// HealthcareServices is the fixed service catalog.
var HealthcareServices = []string{
	"General Care",
	"Maternity",
	"Pediatric Care",
	"Emergency Care",
	"Elderly Care",
	"Patient Escort",
	"Patient Documentation",
	"Laboratory Support",
	"Dentistry Support",
	"Pharmacy Support",
	"Radiology Support",
	"Queue Management",
	"Card Registration",
	"Vitals Monitoring",
	"Prescription Follow-up",
}

func IsHealthcareRole(role string) bool {
	return StringList(HealthcareRoles).Contains(role)
}

func IsHealthcareService(service string) bool {
	return StringList(HealthcareServices).Contains(service)
}
