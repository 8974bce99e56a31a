package domain

import "time"

type Provider string

const (
	ProviderGoogle   Provider = "google"
	ProviderFacebook Provider = "facebook"
)

func (p Provider) Valid() bool {
	return p == ProviderGoogle || p == ProviderFacebook
}

type User struct {
	ID             int64
	Name           string
	Email          string
	Occupation     string
	LinkToGoogle   bool
	LinkToFacebook bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// LinkedTo reports whether the user's account is linked to the given provider.
func (u *User) LinkedTo(p Provider) bool {
	switch p {
	case ProviderGoogle:
		return u.LinkToGoogle
	case ProviderFacebook:
		return u.LinkToFacebook
	}
	return false
}
