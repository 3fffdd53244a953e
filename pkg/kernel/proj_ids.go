package kernel

import "strconv"

// ApplicantID identifies a user of the upstream user service
type ApplicantID int64

func NewApplicantID(id int64) ApplicantID { return ApplicantID(id) }
func (a ApplicantID) Int64() int64        { return int64(a) }
func (a ApplicantID) String() string      { return strconv.FormatInt(int64(a), 10) }
func (a ApplicantID) IsEmpty() bool       { return a <= 0 }

// JobID identifies a posting of the upstream job service
type JobID int64

func NewJobID(id int64) JobID  { return JobID(id) }
func (j JobID) Int64() int64   { return int64(j) }
func (j JobID) String() string { return strconv.FormatInt(int64(j), 10) }
func (j JobID) IsEmpty() bool  { return j <= 0 }
