package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// AttendanceMonth holds every attendance record uploaded for one calendar month.
// Month is the unique key; a new upload replaces Records wholesale.
type AttendanceMonth struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"_id,omitempty"`
	Month          string             `bson:"month" json:"month"`
	SourceFileName string             `bson:"sourceFileName" json:"sourceFileName"`
	Records        []AttendanceRecord `bson:"records" json:"records"`
	UploadedBy     string             `bson:"uploadedBy,omitempty" json:"uploadedBy,omitempty"`
	CreatedAt      time.Time          `bson:"createdAt,omitempty" json:"createdAt,omitempty"`
	UpdatedAt      time.Time          `bson:"updatedAt,omitempty" json:"updatedAt,omitempty"`
}

type AttendanceRecord struct {
	SerialNo     *int                `bson:"serialNo,omitempty" json:"serialNo,omitempty"`
	Name         string              `bson:"name" json:"name"`
	Employee     *primitive.ObjectID `bson:"employee,omitempty" json:"employee,omitempty"`
	RequiredDays int                 `bson:"requiredDays" json:"requiredDays"`
	AttendedDays int                 `bson:"attendedDays" json:"attendedDays"`
	AbsentDays   int                 `bson:"absentDays" json:"absentDays"`
}

// Retained reports whether the record carries enough data to be stored.
func (r AttendanceRecord) Retained() bool {
	if r.Name == "" {
		return false
	}
	return r.RequiredDays > 0 || r.AttendedDays > 0 || r.AbsentDays > 0
}

// AttendanceMonthSummary is the listing view of a month without its records.
type AttendanceMonthSummary struct {
	Month          string    `bson:"month" json:"month"`
	SourceFileName string    `bson:"sourceFileName" json:"sourceFileName"`
	RecordCount    int       `bson:"recordCount" json:"recordCount"`
	UpdatedAt      time.Time `bson:"updatedAt,omitempty" json:"updatedAt,omitempty"`
}
