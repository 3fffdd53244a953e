package kernel

import "strings"

type Email string

func NewEmail(s string) Email  { return Email(strings.TrimSpace(s)) }
func (e Email) String() string { return string(e) }
func (e Email) IsEmpty() bool  { return strings.TrimSpace(string(e)) == "" }

// ResumeURL is the reference a stored resume is reachable under
type ResumeURL string

func (r ResumeURL) String() string { return string(r) }
func (r ResumeURL) IsEmpty() bool  { return string(r) == "" }

type CompanyName string

type JobTitle string
