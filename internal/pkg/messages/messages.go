// Package messages is the wire contract between services: the topic names
// and the payload records delivered over the bus. Both producer and consumer
// sides import this package, so a payload change is visible to every party
// at compile time.
package messages

// Topics. One topic per logical queue of the system; fan-out to several
// services happens through distinct consumer groups on the same topic.
const (
	TopicGuestRegister   = "hrms.guest.register"
	TopicCompanyRegister = "hrms.company.register"

	TopicEmployeeCreate = "hrms.employee.create"
	TopicAdminSave      = "hrms.admin.save"

	TopicEmployeeSetAuthID = "hrms.employee.set-auth-id"
	TopicAdminSetAuthID    = "hrms.admin.set-auth-id"

	TopicManagerSetCompanyID = "hrms.manager.set-company-id"
	TopicCompanySetManagerID = "hrms.company.set-manager-id"

	TopicAuthUpdate = "hrms.auth.update"
	TopicAuthDelete = "hrms.auth.delete"

	TopicGuestForgotPassword    = "hrms.guest.forgot-password"
	TopicEmployeeForgotPassword = "hrms.employee.forgot-password"
	TopicManagerForgotPassword  = "hrms.manager.forgot-password"

	TopicGuestActivate   = "hrms.guest.activate"
	TopicManagerActivate = "hrms.manager.activate"

	TopicMailActivation      = "hrms.mail.activation"
	TopicMailForgotPassword  = "hrms.mail.forgot-password"
	TopicMailEmployeeWelcome = "hrms.mail.employee-welcome"
)

// AllTopics lists every topic so brokers can be provisioned up front.
func AllTopics() []string {
	return []string{
		TopicGuestRegister,
		TopicCompanyRegister,
		TopicEmployeeCreate,
		TopicAdminSave,
		TopicEmployeeSetAuthID,
		TopicAdminSetAuthID,
		TopicManagerSetCompanyID,
		TopicCompanySetManagerID,
		TopicAuthUpdate,
		TopicAuthDelete,
		TopicGuestForgotPassword,
		TopicEmployeeForgotPassword,
		TopicManagerForgotPassword,
		TopicGuestActivate,
		TopicManagerActivate,
		TopicMailActivation,
		TopicMailForgotPassword,
		TopicMailEmployeeWelcome,
	}
}

// Envelope kinds.
const (
	KindGuestRegistered     = "guest.registered"
	KindCompanyRegistered   = "company.registered"
	KindEmployeeCreated     = "employee.created"
	KindAdminSaved          = "admin.saved"
	KindSetAuthID           = "auth-id.assigned"
	KindSetCompanyID        = "company-id.assigned"
	KindSetManagerID        = "manager-id.assigned"
	KindAuthUpdated         = "auth.updated"
	KindAuthDeleted         = "auth.deleted"
	KindPasswordReset       = "password.reset"
	KindActivateStatus      = "status.activated"
	KindActivationMail      = "mail.activation"
	KindPasswordResetMail   = "mail.password-reset"
	KindEmployeeWelcomeMail = "mail.employee-welcome"
)

// GuestRegistered fans out a guest self-registration from auth to the guest
// and user services, which create their derived profiles from it.
type GuestRegistered struct {
	AuthID       int64  `json:"authId"`
	Name         string `json:"name"`
	Surname      string `json:"surname"`
	Email        string `json:"email"`
	PasswordHash string `json:"passwordHash"`
	PhoneNumber  string `json:"phoneNumber"`
	Gender       Gender `json:"gender"`
	Role         Role   `json:"role"`
}

// CompanyRegistered fans out a manager self-registration (a "company
// register") from auth to the manager and user services.
type CompanyRegistered struct {
	AuthID         int64  `json:"authId"`
	Name           string `json:"name"`
	Surname        string `json:"surname"`
	Email          string `json:"email"`
	PasswordHash   string `json:"passwordHash"`
	PhoneNumber    string `json:"phoneNumber"`
	IdentityNumber string `json:"identityNumber"`
	Address        string `json:"address"`
	DateOfBirth    string `json:"dateOfBirth"`
	CompanyName    string `json:"companyName"`
	Gender         Gender `json:"gender"`
	Role           Role   `json:"role"`
}

// EmployeeCreated asks auth to create the identity record for an
// administratively provisioned employee. The profile already exists; auth
// answers with SetAuthID.
type EmployeeCreated struct {
	Name           string `json:"name"`
	Surname        string `json:"surname"`
	Email          string `json:"email"`
	PasswordHash   string `json:"passwordHash"`
	PhoneNumber    string `json:"phoneNumber"`
	IdentityNumber string `json:"identityNumber"`
	Role           Role   `json:"role"`
	Gender         Gender `json:"gender"`
}

// AdminSaved is the admin-service twin of EmployeeCreated.
type AdminSaved struct {
	Name           string `json:"name"`
	Surname        string `json:"surname"`
	Email          string `json:"email"`
	PasswordHash   string `json:"passwordHash"`
	PhoneNumber    string `json:"phoneNumber"`
	IdentityNumber string `json:"identityNumber"`
	Role           Role   `json:"role"`
	Gender         Gender `json:"gender"`
}

// SetAuthID back-fills the identity correlation key on a profile created
// before its identity existed. The profile is looked up by email, its unique
// business key. Redelivery is a no-op once AuthID is set.
type SetAuthID struct {
	Email  string `json:"email"`
	AuthID int64  `json:"authId"`
}

// SetCompanyID asks the manager service to adopt the id of a company the
// manager just created.
type SetCompanyID struct {
	CompanyID   string `json:"companyId"`
	CompanyName string `json:"companyName"`
}

// SetManagerID is the reply edge: the manager service hands its own id back
// to the company record, completing the bidirectional correlation.
type SetManagerID struct {
	ManagerID   int64  `json:"managerId"`
	CompanyName string `json:"companyName"`
}

// AuthUpdated keeps auth's denormalized copy of profile fields current after
// a profile partial update.
type AuthUpdated struct {
	AuthID      int64  `json:"authId"`
	Name        string `json:"name"`
	Surname     string `json:"surname"`
	Email       string `json:"email"`
	PhoneNumber string `json:"phoneNumber"`
}

// AuthDeleted mirrors a profile soft-delete onto the identity record.
type AuthDeleted struct {
	AuthID int64  `json:"authId"`
	Status Status `json:"status"`
}

// PasswordReset propagates a forgot-password reset to the owning profile
// service. Only the hash travels; the plaintext goes to mail alone.
type PasswordReset struct {
	AuthID       int64  `json:"authId"`
	PasswordHash string `json:"passwordHash"`
}

// ActivateStatus propagates an account activation to the profile mirror.
type ActivateStatus struct {
	AuthID int64 `json:"authId"`
}

// ActivationMail carries an activation link to the mail service.
type ActivationMail struct {
	Email          string `json:"email"`
	ActivationLink string `json:"activationLink"`
}

// PasswordResetMail carries the generated plaintext password to the mail
// service after a reset.
type PasswordResetMail struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// EmployeeWelcomeMail delivers the generated credentials of a provisioned
// employee to their personal address.
type EmployeeWelcomeMail struct {
	PersonalEmail string `json:"personalEmail"`
	Email         string `json:"email"`
	Password      string `json:"password"`
}
