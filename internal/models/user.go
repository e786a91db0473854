package models

import "time"

type User struct {
	ID           int64      `json:"id"`
	FirstName    string     `json:"firstName"`
	LastName     string     `json:"lastName"`
	Email        string     `json:"email"`
	Phone        string     `json:"phone,omitempty"`
	Password     string     `json:"-"`
	Address      string     `json:"address,omitempty"`
	About        string     `json:"about,omitempty"`
	Role         Role       `json:"role"`
	SignUpType   SignUpType `json:"signUpType"`
	Status       UserStatus `json:"status"`
	CategoryID   *int64     `json:"categoryId,omitempty"`
	ActiveStatus bool       `json:"activeStatus"`
	CreatedAt    time.Time  `json:"createdAt"`
	UpdatedAt    time.Time  `json:"updatedAt"`
}

// Summary returns the non-sensitive subset embedded into other resources.
func (u *User) Summary() *UserSummary {
	if u == nil {
		return nil
	}
	return &UserSummary{
		ID:        u.ID,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Email:     u.Email,
		Phone:     u.Phone,
		Role:      u.Role,
	}
}

func (u *User) IsAdmin() bool {
	return u != nil && u.Role == RoleAdmin
}

type UserSummary struct {
	ID        int64  `json:"id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Phone     string `json:"phone,omitempty"`
	Role      Role   `json:"role,omitempty"`
}

// UserProfile is the aggregate returned by profile and top-rated reads.
type UserProfile struct {
	User
	Category       *Category       `json:"category,omitempty"`
	Packages       []Package       `json:"packages"`
	Portfolios     []Portfolio     `json:"portfolios"`
	Certifications []Certification `json:"certifications"`
	Reviews        []Review        `json:"reviews"`
	Stats          ProviderStats   `json:"stats"`
}

// UserPatch carries optional profile fields; nil means unchanged.
type UserPatch struct {
	FirstName    *string `json:"firstName" validate:"omitempty,min=2,max=100"`
	LastName     *string `json:"lastName" validate:"omitempty,min=2,max=100"`
	Phone        *string `json:"phone" validate:"omitempty,min=5,max=30"`
	Address      *string `json:"address" validate:"omitempty,max=255"`
	About        *string `json:"about" validate:"omitempty,max=2000"`
	CategoryID   *int64  `json:"categoryId" validate:"omitempty,gt=0"`
	ActiveStatus *bool   `json:"activeStatus"`
}

func (p UserPatch) Apply(u *User) {
	if p.FirstName != nil {
		u.FirstName = *p.FirstName
	}
	if p.LastName != nil {
		u.LastName = *p.LastName
	}
	if p.Phone != nil {
		u.Phone = *p.Phone
	}
	if p.Address != nil {
		u.Address = *p.Address
	}
	if p.About != nil {
		u.About = *p.About
	}
	if p.CategoryID != nil {
		id := *p.CategoryID
		u.CategoryID = &id
	}
	if p.ActiveStatus != nil {
		u.ActiveStatus = *p.ActiveStatus
	}
}
