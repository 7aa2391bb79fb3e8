package workforce

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sitebooks-ledger/internal/domain/shared"
)

// AttendanceStatus is the day state of a supervisor
type AttendanceStatus string

const (
	AttendancePresent AttendanceStatus = "present"
	AttendanceAbsent  AttendanceStatus = "absent"
	AttendanceLeave   AttendanceStatus = "leave"
	AttendanceHoliday AttendanceStatus = "holiday"
)

// ParseAttendanceStatus validates a status
func ParseAttendanceStatus(raw string) (AttendanceStatus, error) {
	switch s := AttendanceStatus(strings.ToLower(strings.TrimSpace(raw))); s {
	case AttendancePresent, AttendanceAbsent, AttendanceLeave, AttendanceHoliday:
		return s, nil
	case "":
		return "", shared.InvalidArgument("status", "is required")
	default:
		return "", shared.InvalidArgument("status", "must be present, absent, leave or holiday")
	}
}

// Attendance is one supervisor's state on one calendar day.
// (SupervisorID, Date) is unique.
type Attendance struct {
	ID           uuid.UUID        `json:"id"`
	SupervisorID uuid.UUID        `json:"supervisor_id"`
	Date         time.Time        `json:"date"`
	Status       AttendanceStatus `json:"status"`
	CreatedAt    time.Time        `json:"created_at"`
	UpdatedAt    time.Time        `json:"updated_at"`
}

// NormalizeDate truncates to midnight UTC of the calendar day
func NormalizeDate(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// NewAttendance validates and builds an attendance record
func NewAttendance(supervisorID uuid.UUID, date time.Time, status string) (*Attendance, error) {
	if supervisorID == uuid.Nil {
		return nil, shared.InvalidArgument("supervisor_id", "is required")
	}
	if date.IsZero() {
		return nil, shared.InvalidArgument("date", "is required")
	}
	st, err := ParseAttendanceStatus(status)
	if err != nil {
		return nil, err
	}

	now := shared.Now()
	return &Attendance{
		ID:           uuid.New(),
		SupervisorID: supervisorID,
		Date:         NormalizeDate(date),
		Status:       st,
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}
