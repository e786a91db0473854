package models

type Role string

const (
	RoleCustomer Role = "CUSTOMER"
	RoleProvider Role = "PROVIDER"
	RoleAdmin    Role = "ADMIN"
)

func (r Role) Valid() bool {
	switch r {
	case RoleCustomer, RoleProvider, RoleAdmin:
		return true
	}
	return false
}

type SignUpType string

const (
	SignUpEmail    SignUpType = "EMAIL"
	SignUpGoogle   SignUpType = "GOOGLE"
	SignUpFacebook SignUpType = "FACEBOOK"
)

type UserStatus string

const (
	UserApproved UserStatus = "APPROVE"
	UserPending  UserStatus = "PENDING"
	UserBlocked  UserStatus = "BLOCKED"
)

func (s UserStatus) Valid() bool {
	switch s {
	case UserApproved, UserPending, UserBlocked:
		return true
	}
	return false
}

type BookingStatus string

const (
	StatusPending   BookingStatus = "PENDING"
	StatusApproved  BookingStatus = "APPROVED"
	StatusRejected  BookingStatus = "REJECTED"
	StatusCompleted BookingStatus = "COMPLETED"
)

var bookingTransitions = map[BookingStatus][]BookingStatus{
	StatusPending:  {StatusApproved, StatusRejected},
	StatusApproved: {StatusCompleted},
}

func (s BookingStatus) Valid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected, StatusCompleted:
		return true
	}
	return false
}

// Terminal reports whether no further transition is possible.
func (s BookingStatus) Terminal() bool {
	return s == StatusRejected || s == StatusCompleted
}

// CanTransitionTo reports whether s -> next is an edge of the booking lifecycle.
// Re-applying the current status is not an edge; callers treat it as a no-op.
func (s BookingStatus) CanTransitionTo(next BookingStatus) bool {
	for _, allowed := range bookingTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

type ModificationStatus string

const (
	ModificationPending  ModificationStatus = "PENDING"
	ModificationApproved ModificationStatus = "APPROVED"
	ModificationRejected ModificationStatus = "REJECTED"
)

func (s ModificationStatus) Valid() bool {
	switch s {
	case ModificationPending, ModificationApproved, ModificationRejected:
		return true
	}
	return false
}

func (s ModificationStatus) CanTransitionTo(next ModificationStatus) bool {
	return s == ModificationPending && (next == ModificationApproved || next == ModificationRejected)
}

const (
	// MaxPackagesPerUser caps how many packages a provider may hold.
	MaxPackagesPerUser = 5

	// PackageUpdateCooldownDays is the minimum gap between package updates.
	PackageUpdateCooldownDays = 7

	// DefaultTopRatedLimit applies when the caller does not pass a limit.
	DefaultTopRatedLimit = 5

	DateLayout = "2006-01-02"
	TimeLayout = "15:04:05"
)
