package messages

// Role identifies which profile service owns an identity.
type Role string

const (
	RoleGuest    Role = "GUEST"
	RoleEmployee Role = "EMPLOYEE"
	RoleManager  Role = "MANAGER"
	RoleAdmin    Role = "ADMIN"
)

// Status is the account lifecycle state shared between the identity record
// and the profile mirrors. Transitions are monotonic: PENDING -> ACTIVE ->
// DELETED, with BANNED reachable from ACTIVE. DELETED and BANNED are final.
type Status string

const (
	StatusPending Status = "PENDING"
	StatusActive  Status = "ACTIVE"
	StatusBanned  Status = "BANNED"
	StatusDeleted Status = "DELETED"
)

// Gender is carried on registration for the profile record.
type Gender string

const (
	GenderFemale Gender = "FEMALE"
	GenderMale   Gender = "MALE"
	GenderOther  Gender = "OTHER"
)
