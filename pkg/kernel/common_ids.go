package kernel

import "strconv"

type ApplicationID string

func NewApplicationID(id string) ApplicationID { return ApplicationID(id) }
func (a ApplicationID) String() string         { return string(a) }
func (a ApplicationID) IsEmpty() bool          { return string(a) == "" }

type FileID string

func NewFileID(id string) FileID { return FileID(id) }
func (f FileID) String() string  { return string(f) }
func (f FileID) IsEmpty() bool   { return string(f) == "" }

type MessageID string

func NewMessageID(id string) MessageID { return MessageID(id) }
func (m MessageID) String() string     { return string(m) }
func (m MessageID) IsEmpty() bool      { return string(m) == "" }

// ParseInt64ID parses a positive decimal identifier
func ParseInt64ID(s string) (int64, bool) {
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil || v <= 0 {
		return 0, false
	}
	return v, true
}
